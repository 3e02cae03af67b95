package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grrt-recruitment/pipeline/internal/client"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
	"github.com/grrt-recruitment/pipeline/internal/session"
	"github.com/grrt-recruitment/pipeline/internal/tracker"
)

func (a *app) stageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Work the candidate pipeline one stage at a time",
	}
	cmd.AddCommand(a.stageListCmd(), a.stageAddCmd(), a.stageAdvanceCmd(), a.stageDeleteCmd())
	return cmd
}

func stageArg(args []string, i int, fallback pipeline.Stage) (pipeline.Stage, error) {
	if len(args) <= i {
		if fallback == "" {
			return "", fmt.Errorf("stage is required (one of %s)", stageNames())
		}
		return fallback, nil
	}
	return pipeline.Parse(args[i])
}

func stageNames() string {
	names := make([]string, 0, len(pipeline.Stages))
	for _, s := range pipeline.Stages {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

func (a *app) rememberStage(s pipeline.Stage) {
	if err := a.session.UpdatePrefs(func(p *session.Prefs) { p.LastStage = s }); err != nil {
		a.log.WithError(err).Debug("could not save last stage")
	}
}

func (a *app) lastStage() pipeline.Stage {
	p, err := a.session.LoadPrefs()
	if err != nil {
		return ""
	}
	return p.LastStage
}

func (a *app) stageListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [stage]",
		Short: "List the candidates waiting in a stage",
		Long:  "List the candidates waiting in a stage. Without an argument the last used stage is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := stageArg(args, 0, a.lastStage())
			if err != nil {
				return err
			}
			t := tracker.New(a.api, nil, a.log)
			if err := t.FetchStage(cmd.Context(), stage); err != nil {
				return err
			}
			a.rememberStage(stage)
			printCandidates(cmd.OutOrStdout(), stage, t.Candidates())
			return nil
		},
	}
}

func printCandidates(w io.Writer, stage pipeline.Stage, cs []client.Candidate) {
	fmt.Fprintf(w, "%s (%d)\n", stage.Label(), len(cs))
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		row := []string{c.ID, c.FullName, c.PositionApplied}
		switch stage {
		case pipeline.Contact:
			row = append(row, c.LinkedInURL)
		case pipeline.Screening:
			row = append(row, c.Email, c.Phone)
		case pipeline.Endorsement:
			row = append(row, money(c.CurrentSalary), money(c.AskingSalary))
		case pipeline.CandidateEndorsement:
			row = append(row, strconv.Itoa(len(c.Skills)), strconv.Itoa(len(c.Experience)))
		}
		rows = append(rows, row)
	}
	header := []string{"ID", "Name", "Position"}
	switch stage {
	case pipeline.Contact:
		header = append(header, "LinkedIn")
	case pipeline.Screening:
		header = append(header, "Email", "Phone")
	case pipeline.Endorsement:
		header = append(header, "Current", "Asking")
	case pipeline.CandidateEndorsement:
		header = append(header, "Skills", "Jobs held")
	}
	renderTable(w, header, rows)
	if next, ok := stage.Next(); ok {
		fmt.Fprintf(w, "%s: tracker stage advance %s <id>  (moves to %s)\n", stage.ActionLabel(), stage, next.Label())
	}
}

func money(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *app) stageAddCmd() *cobra.Command {
	var in client.NewCandidate
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a newly sourced candidate (listed under contact)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(in.FullName) == "" {
				return errors.New("--name is required")
			}
			c, err := a.api.AddToInitialScreening(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", c.FullName, c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&in.LinkedInURL, "linkedin", "", "LinkedIn profile URL")
	cmd.Flags().StringVar(&in.PositionApplied, "position", "", "position applied for")
	return cmd
}

type advanceFlags struct {
	email, phone, address string

	resume                      string
	currentSalary, askingSalary float64
	interviewer, remarks        string

	profile string
	draft   bool
}

func (a *app) stageAdvanceCmd() *cobra.Command {
	var f advanceFlags
	cmd := &cobra.Command{
		Use:   "advance <stage> <id>",
		Short: "Move a candidate out of a stage into the next one",
		Long: `Move a candidate out of a stage into the next one.

  contact      --email --phone --address
  screening    --resume cv.pdf --current-salary --asking-salary --interviewer --remarks
  endorsement  --profile profile.json, or --draft to start from a generated draft`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := pipeline.Parse(args[0])
			if err != nil {
				return err
			}
			if stage == pipeline.CandidateEndorsement {
				return errors.New("candidateEndorsement is the last stage; use `stage delete` to remove a candidate")
			}
			return a.advance(cmd, stage, args[1], f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.email, "email", "", "contact: email")
	fl.StringVar(&f.phone, "phone", "", "contact: phone")
	fl.StringVar(&f.address, "address", "", "contact: address")
	fl.StringVar(&f.resume, "resume", "", "screening: path to the resume PDF")
	fl.Float64Var(&f.currentSalary, "current-salary", 0, "screening: current salary")
	fl.Float64Var(&f.askingSalary, "asking-salary", 0, "screening: asking salary")
	fl.StringVar(&f.interviewer, "interviewer", "", "screening: interviewer")
	fl.StringVar(&f.remarks, "remarks", "", "screening: remarks")
	fl.StringVar(&f.profile, "profile", "", "endorsement: profile JSON file (skills, education, experience)")
	fl.BoolVar(&f.draft, "draft", false, "endorsement: fill the profile from the resume first")
	return cmd
}

func (a *app) advance(cmd *cobra.Command, stage pipeline.Stage, id string, f advanceFlags) error {
	ctx := cmd.Context()
	t := tracker.New(a.api, nil, a.log)
	if err := t.FetchStage(ctx, stage); err != nil {
		return err
	}
	c, ok := t.Find(id)
	if !ok {
		return fmt.Errorf("%s is not listed under %s", id, stage)
	}
	act, err := t.Advance(c)
	if err != nil {
		return err
	}

	switch form := act.(type) {
	case *tracker.ContactForm:
		form.Email, form.Phone, form.Address = f.email, f.phone, f.address
		err = form.Submit(ctx)

	case *tracker.ScreeningForm:
		if f.resume != "" {
			file, err := os.Open(f.resume)
			if err != nil {
				return err
			}
			defer file.Close()
			form.Resume = &client.File{Name: filepath.Base(f.resume), Reader: file}
		}
		if cmd.Flags().Changed("current-salary") {
			form.CurrentSalary = &f.currentSalary
		}
		if cmd.Flags().Changed("asking-salary") {
			form.AskingSalary = &f.askingSalary
		}
		form.Interviewer, form.Remarks = f.interviewer, f.remarks
		err = form.Submit(ctx)

	case *tracker.ProfileEditor:
		if f.draft {
			if err := form.Draft(ctx); err != nil {
				return err
			}
		}
		if f.profile != "" {
			b, err := os.ReadFile(f.profile)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(b, &form.Profile); err != nil {
				return fmt.Errorf("parse %s: %w", f.profile, err)
			}
		}
		if f.draft && f.profile == "" {
			b, _ := json.MarshalIndent(form.Profile, "", "  ")
			fmt.Fprintln(cmd.ErrOrStderr(), string(b))
			ok, err := newConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), false).Confirm(ctx, "Submit this drafted profile?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
		}
		err = form.Submit(ctx)

	default:
		return fmt.Errorf("cannot advance from %s", stage)
	}
	if err != nil {
		return err
	}

	a.rememberStage(stage)
	next, _ := stage.Next()
	fmt.Fprintf(cmd.OutOrStdout(), "%s moved to %s\n", c.FullName, next.Label())
	return nil
}

func (a *app) stageDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete an endorsed candidate and its profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			confirm := newConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), yes)
			t := tracker.New(a.api, confirm, a.log)
			if err := t.FetchStage(ctx, pipeline.CandidateEndorsement); err != nil {
				return err
			}
			c, ok := t.Find(args[0])
			if !ok {
				return fmt.Errorf("%s is not listed under %s", args[0], pipeline.CandidateEndorsement)
			}
			act, err := t.Advance(c)
			if err != nil {
				return err
			}
			view, ok := act.(*tracker.EndorsementView)
			if !ok {
				return fmt.Errorf("unexpected action %T", act)
			}
			deleted, err := view.Delete(ctx)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", c.FullName)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Count candidates in every stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			counts := make([]int, len(pipeline.Stages))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, stage := range pipeline.Stages {
				g.Go(func() error {
					cs, err := a.api.ListStage(ctx, stage)
					if err != nil {
						return fmt.Errorf("%s: %w", stage, err)
					}
					counts[i] = len(cs)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			rows := make([][]string, 0, len(pipeline.Stages))
			for i, stage := range pipeline.Stages {
				rows = append(rows, []string{stage.Label(), stage.String(), strconv.Itoa(counts[i])})
			}
			renderTable(cmd.OutOrStdout(), []string{"Stage", "Key", "Candidates"}, rows)
			return nil
		},
	}
}
