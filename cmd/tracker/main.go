// Command tracker is the operator console for the recruitment pipeline:
// it lists candidates per stage, advances them and manages jobs and users.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grrt-recruitment/pipeline/internal/client"
	"github.com/grrt-recruitment/pipeline/internal/config"
	"github.com/grrt-recruitment/pipeline/internal/logging"
	"github.com/grrt-recruitment/pipeline/internal/session"
)

type app struct {
	cfg     config.Client
	log     *logrus.Entry
	api     *client.Client
	session *session.Session
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.LoadClient()}

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "GRRT recruitment pipeline console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfg.APIURL, "api", a.cfg.APIURL, "API base URL (env GRRT_API_URL)")
	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (env GRRT_LOG_LEVEL)")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.stageCmd(),
		a.overviewCmd(),
		a.jobsCmd(),
		a.usersCmd(),
	)
	return root
}

// init wires the client and restores a saved token. A missing token is not
// an error; the server rejects what needs one.
func (a *app) init(cmd *cobra.Command) error {
	l := logging.NewWithWriter(cmd.ErrOrStderr(), a.cfg.LogLevel, "text")
	a.log = logrus.NewEntry(l).WithField("api", a.cfg.APIURL)

	s, err := session.New(a.cfg.APIURL)
	if err != nil {
		return err
	}
	a.session = s
	a.api = client.New(a.cfg.APIURL)

	tok, err := s.Token()
	switch {
	case err == nil:
		a.api.SetToken(tok)
	case errors.Is(err, session.ErrNotLoggedIn):
		a.log.Debug("no saved session")
	default:
		a.log.WithError(err).Warn("could not read saved session")
	}
	return nil
}
