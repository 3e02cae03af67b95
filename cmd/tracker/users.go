package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/tracker"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage operator accounts",
	}
	cmd.AddCommand(a.usersListCmd(), a.usersRegisterCmd(), a.usersSetPrivilegeCmd(), a.usersDeleteCmd(), a.usersPasswordCmd())
	return cmd
}

func (a *app) usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users (Admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := tracker.NewUserDirectory(a.api, nil)
			if err := d.Load(cmd.Context()); err != nil {
				return err
			}
			users := d.Users()
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.ID, u.FullName, u.Email, strings.Join(u.Roles, ", "), u.Status})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Email", "Roles", "Status"}, rows)
			return nil
		},
	}
}

func (a *app) usersRegisterCmd() *cobra.Command {
	var in dtos.RegisterRequest
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an operator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				p, err := readLine(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				in.Password = p
			}
			if role != "" {
				in.Roles = []string{role}
			}
			u, err := a.api.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s) as %s\n", u.Email, u.ID, strings.Join(u.Roles, ", "))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&in.FullName, "name", "", "full name")
	fl.StringVar(&in.Email, "email", "", "email")
	fl.StringVar(&in.Password, "password", "", "password (prompted when empty)")
	fl.StringVar(&role, "role", "", "Admin, Manager or User; only honoured for an Admin caller")
	return cmd
}

func (a *app) usersSetPrivilegeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-privilege <id> <role>",
		Short: "Give a user exactly one role (Admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := tracker.NewUserDirectory(a.api, nil).SetPrivilege(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, strings.Join(u.Roles, ", "))
			return nil
		},
	}
}

func (a *app) usersDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user (Admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := tracker.NewUserDirectory(a.api, newConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), yes))
			if err := d.Load(ctx); err != nil {
				a.log.WithError(err).Debug("could not load users for the prompt")
			}
			deleted, err := d.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) usersPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change your own password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, errw := bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr()
			current, err := readLine(in, errw, "Current password: ")
			if err != nil {
				return err
			}
			next, err := readLine(in, errw, "New password: ")
			if err != nil {
				return err
			}
			again, err := readLine(in, errw, "Repeat new password: ")
			if err != nil {
				return err
			}
			if err := tracker.NewUserDirectory(a.api, nil).ChangePassword(cmd.Context(), current, next, again); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
			return nil
		},
	}
}
