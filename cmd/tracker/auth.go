package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grrt-recruitment/pipeline/internal/session"
	"github.com/grrt-recruitment/pipeline/internal/tracker"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session in the OS keychain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				p, err := readLine(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			tok, err := a.api.Login(ctx, strings.TrimSpace(email), password)
			if err != nil {
				return err
			}
			a.api.SetToken(tok)
			if err := a.session.SaveToken(tok); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			me, err := a.api.Profile(ctx)
			if err != nil {
				return err
			}
			perms := tracker.PermissionsFor(me.Roles)
			if err := a.session.UpdatePrefs(func(p *session.Prefs) {
				p.Email = me.Email
				p.APIURL = a.cfg.APIURL
				p.ShowAdminMenu = perms.CanManageUsers
			}); err != nil {
				a.log.WithError(err).Warn("could not save preferences")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", me.Email, strings.Join(me.Roles, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Clear(); err != nil {
				return err
			}
			if err := a.session.UpdatePrefs(func(p *session.Prefs) {
				p.Email = ""
				p.ShowAdminMenu = false
			}); err != nil {
				a.log.WithError(err).Warn("could not save preferences")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator and what they may do",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.Authenticated() {
				return session.ErrNotLoggedIn
			}
			me, err := a.api.Profile(cmd.Context())
			if err != nil {
				return err
			}
			p := tracker.PermissionsFor(me.Roles)
			renderTable(cmd.OutOrStdout(),
				[]string{"Name", "Email", "Roles", "Manage jobs", "Manage users", "Delete candidates"},
				[][]string{{
					me.FullName, me.Email, strings.Join(me.Roles, ", "),
					yesNo(p.CanManageJobs), yesNo(p.CanManageUsers), yesNo(p.CanDeleteCandidates),
				}},
			)
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
