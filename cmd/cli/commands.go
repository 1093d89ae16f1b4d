package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/draft"
	"github.com/aryan0dhankhar/hrautomator/internal/security/auth"
	"github.com/aryan0dhankhar/hrautomator/internal/workflow"
)

func newSpinner(w io.Writer, suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = suffix
	s.Writer = w
	return s
}

func newEmployeesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "employees",
		Short: "List the employee directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSpinner(cmd.ErrOrStderr(), " Fetching directory...")
			s.Start()
			dir := a.dispatcher.Directory()
			records := dir.Refresh(cmd.Context())
			s.Stop()

			if dir.Degraded() {
				fmt.Fprintln(a.out, color.YellowString("!")+" Backend unreachable, showing fallback directory")
			}
			printEmployees(a.out, records)
			return nil
		},
	}
}

func printEmployees(w io.Writer, records []domain.EmployeeRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tDEPARTMENT\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Username, r.Department, r.Status)
	}
	tw.Flush()
}

func newOnboardCmd(a *app) *cobra.Command {
	defaults := draft.Defaults()
	values := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Provision a new employee",
		Example: `  hrctl onboard --first-name Jane --last-name Doe
  hrctl onboard --first-name Bob --last-name Smith --department Sales --role Manager`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.dispatcher.Draft()
			for field, v := range values {
				if err := store.Set(field, *v); err != nil {
					return err
				}
			}

			stop := a.follow()
			outcome, err := a.dispatcher.SubmitDraft(cmd.Context())
			stop()
			if errors.Is(err, workflow.ErrInvalidDraft) {
				return fmt.Errorf("%w (set --first-name and --last-name)", err)
			}
			if err != nil {
				return err
			}
			return outcomeError(outcome)
		},
	}

	values[draft.FieldFirstName] = cmd.Flags().String("first-name", defaults.FirstName, "employee first name")
	values[draft.FieldLastName] = cmd.Flags().String("last-name", defaults.LastName, "employee last name")
	values[draft.FieldDepartment] = cmd.Flags().String("department", defaults.Department, "department")
	values[draft.FieldRole] = cmd.Flags().String("role", defaults.Role, "role")
	return cmd
}

func newOffboardCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "offboard <username>",
		Short: "Deactivate an employee and revoke their access",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirm workflow.Confirmer = workflow.Static(true)
			if !yes {
				confirm = &promptConfirmer{in: bufio.NewReader(a.in), out: a.out}
			}

			stop := a.follow()
			outcome, err := a.dispatcher.Offboard(cmd.Context(), args[0], confirm)
			stop()
			if err != nil {
				return err
			}
			if outcome == workflow.OutcomeAborted {
				fmt.Fprintln(a.out, color.CyanString("→")+" Offboarding cancelled")
				return nil
			}
			return outcomeError(outcome)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newHashPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its OPERATOR_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(a.in).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New("empty password")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, hash)
			return nil
		},
	}
}

// promptConfirmer asks the operator on the terminal; only y/yes proceeds
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(p.out, "%s %s\n", color.YellowString("Warning:"), prompt)
	fmt.Fprint(p.out, "Do you want to continue? [y/N]: ")
	response, err := p.in.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func outcomeError(o workflow.Outcome) error {
	switch o {
	case workflow.OutcomeSucceeded, workflow.OutcomeAborted:
		return nil
	case workflow.OutcomeRejected:
		return errors.New("backend rejected the request")
	default:
		return errors.New("backend unreachable")
	}
}

func formatEntry(e domain.LogEntry) string {
	stamp := color.New(color.Faint).Sprintf("[%s]", e.Timestamp)
	switch e.Severity {
	case domain.SeveritySuccess:
		return stamp + " " + color.GreenString(e.Message)
	case domain.SeverityWarning:
		return stamp + " " + color.YellowString(e.Message)
	case domain.SeverityError:
		return stamp + " " + color.RedString(e.Message)
	default:
		return stamp + " " + color.CyanString(e.Message)
	}
}
