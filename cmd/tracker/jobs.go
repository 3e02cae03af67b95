package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grrt-recruitment/pipeline/internal/client"
	"github.com/grrt-recruitment/pipeline/internal/tracker"
)

func (a *app) jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse and manage job postings",
	}
	cmd.AddCommand(a.jobsListCmd(), a.jobsSearchCmd(), a.jobsCreateCmd(), a.jobsUpdateCmd(), a.jobsDeleteCmd())
	return cmd
}

func printJobs(w io.Writer, jobs []client.Job) {
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		posted := ""
		if !j.DatePosted.IsZero() {
			posted = j.DatePosted.Format("2006-01-02")
		}
		rows = append(rows, []string{j.ID, j.Title, j.EmploymentType, j.Location, j.Status, posted})
	}
	renderTable(w, []string{"ID", "Title", "Type", "Location", "Status", "Posted"}, rows)
}

func (a *app) jobsListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job postings (open ones unless --all)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := tracker.NewJobBoard(a.api, nil)
			if err := b.Load(cmd.Context(), !all); err != nil {
				return err
			}
			printJobs(cmd.OutOrStdout(), b.Jobs())
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include closed and draft postings")
	return cmd
}

func (a *app) jobsSearchCmd() *cobra.Command {
	var q client.JobQuery
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search open postings by text, position and location",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Q = strings.Join(args, " ")
			page, err := a.api.SearchJobs(cmd.Context(), q)
			if err != nil {
				return err
			}
			printJobs(cmd.OutOrStdout(), page.Results)
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d total\n", page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Position, "position", "", "match against the title")
	cmd.Flags().StringVar(&q.Location, "location", "", "match against the location")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PerPage, "per-page", 10, "results per page (max 50)")
	return cmd
}

func (a *app) jobsCreateCmd() *cobra.Command {
	var in client.JobInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a new job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := tracker.NewJobBoard(a.api, nil)
			job, err := b.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", job.Title, job.ID)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&in.Title, "title", "", "job title")
	fl.StringVar(&in.Description, "description", "", "description")
	fl.StringVar(&in.EmploymentType, "type", "Full-time", "Full-time, Part-time, Contract, Internship or Temporary")
	fl.StringVar(&in.Location, "location", "", "location")
	fl.StringVar(&in.Status, "status", "", "Open (default), Closed or Draft")
	fl.StringArrayVar(&in.KeyResponsibilities, "responsibility", nil, "key responsibility (repeatable)")
	fl.StringArrayVar(&in.Requirements, "requirement", nil, "requirement (repeatable)")
	fl.StringArrayVar(&in.Benefits, "benefit", nil, "benefit (repeatable)")
	return cmd
}

func (a *app) jobsUpdateCmd() *cobra.Command {
	var title, description, typ, location, status string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a job posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch client.JobPatch
			fl := cmd.Flags()
			if fl.Changed("title") {
				patch.Title = &title
			}
			if fl.Changed("description") {
				patch.Description = &description
			}
			if fl.Changed("type") {
				patch.EmploymentType = &typ
			}
			if fl.Changed("location") {
				patch.Location = &location
			}
			if fl.Changed("status") {
				patch.Status = &status
			}
			if patch == (client.JobPatch{}) {
				return fmt.Errorf("nothing to update")
			}
			job, err := tracker.NewJobBoard(a.api, nil).Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			printJobs(cmd.OutOrStdout(), []client.Job{*job})
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&title, "title", "", "job title")
	fl.StringVar(&description, "description", "", "description")
	fl.StringVar(&typ, "type", "", "employment type")
	fl.StringVar(&location, "location", "", "location")
	fl.StringVar(&status, "status", "", "Open, Closed or Draft")
	return cmd
}

func (a *app) jobsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b := tracker.NewJobBoard(a.api, newConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), yes))
			if err := b.Load(ctx, false); err != nil {
				a.log.WithError(err).Debug("could not load jobs for the prompt")
			}
			deleted, err := b.Delete(ctx, args[0])
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
