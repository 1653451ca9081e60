package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"golang-physioconsult/consultation"
	"golang-physioconsult/models"
)

// newNewCmd runs the three-step creation wizard on the terminal. "b"
// steps back without losing anything already collected, "q" cancels
// the draft.
func newNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a consultation through the step-by-step wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			therapistID, err := a.therapistID()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			resolver := consultation.NewPatientResolver(a.client, therapistID, a.log)
			if err := resolver.Load(ctx); err != nil {
				return err
			}
			catalog := consultation.NewCatalogSelector(a.client)
			if err := catalog.Load(ctx); err != nil {
				return err
			}

			w := &wizard{
				app:      a,
				out:      cmd.OutOrStdout(),
				in:       bufio.NewScanner(cmd.InOrStdin()),
				resolver: resolver,
				catalog:  catalog,
				draft:    consultation.NewDraft(),
			}
			return w.run(cmd)
		},
	}
}

var (
	errWizardCancelled = errors.New("wizard cancelled")
	errSubmitted       = errors.New("draft submitted")
)

type wizard struct {
	app      *app
	out      io.Writer
	in       *bufio.Scanner
	resolver *consultation.PatientResolver
	catalog  *consultation.CatalogSelector
	draft    *consultation.Draft
}

func (w *wizard) prompt(label string) (string, error) {
	fmt.Fprintf(w.out, "%s ", label)
	if !w.in.Scan() {
		return "", errWizardCancelled
	}
	return strings.TrimSpace(w.in.Text()), nil
}

func (w *wizard) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	for {
		var err error
		switch w.draft.Step() {
		case consultation.StepSelectPatient:
			err = w.stepPatient()
		case consultation.StepSelectExercises:
			err = w.stepExercises()
		case consultation.StepFinalize:
			err = w.stepFinalize(ctx)
		}
		if errors.Is(err, errWizardCancelled) {
			fmt.Fprintln(w.out, "Cancelled, draft discarded")
			return nil
		}
		if errors.Is(err, errSubmitted) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// stepPatient resolves the draft's patient: pick from the searched
// roster, or switch to inline registration fields.
func (w *wizard) stepPatient() error {
	fmt.Fprintln(w.out, "Step 1/3: select a patient")

	for {
		query, err := w.prompt("Search patients (empty lists all, 'n' for new patient, 'q' quits):")
		if err != nil {
			return err
		}
		switch query {
		case "q":
			return errWizardCancelled
		case "n":
			if err := w.collectNewPatient(); err != nil {
				if errors.Is(err, errWizardCancelled) {
					return err
				}
				fmt.Fprintln(w.out, err.Error())
				continue
			}
		default:
			matches := w.resolver.Search(query)
			if len(matches) == 0 {
				fmt.Fprintln(w.out, "No matching patients")
				continue
			}
			for i, p := range matches {
				fmt.Fprintf(w.out, "  %d. %s (%s)\n", i+1, p.FullName, p.Email)
			}
			choice, err := w.prompt("Pick a number:")
			if err != nil {
				return err
			}
			idx, convErr := strconv.Atoi(choice)
			if convErr != nil || idx < 1 || idx > len(matches) {
				fmt.Fprintln(w.out, "Invalid choice")
				continue
			}
			w.draft.SelectPatient(matches[idx-1])
		}

		if err := w.draft.Next(); err != nil {
			fmt.Fprintln(w.out, err.Error())
			continue
		}
		return nil
	}
}

func (w *wizard) collectNewPatient() error {
	var np models.NewPatient
	var err error
	if np.FullName, err = w.prompt("Full name:"); err != nil {
		return err
	}
	if np.Email, err = w.prompt("Email:"); err != nil {
		return err
	}
	if np.Password, err = w.prompt("Password:"); err != nil {
		return err
	}
	if np.ConfirmPassword, err = w.prompt("Confirm password:"); err != nil {
		return err
	}
	if err := consultation.ValidateNewPatient(np); err != nil {
		return err
	}
	w.draft.EnterNewPatient(np)
	return nil
}

// stepExercises toggles catalog entries in and out of the selection
// until the therapist confirms.
func (w *wizard) stepExercises() error {
	fmt.Fprintln(w.out, "Step 2/3: select exercises")

	for {
		visible := w.catalog.Exercises()
		for i, ex := range visible {
			mark := " "
			if w.draft.Selected(ex.ID) {
				mark = "x"
			}
			fmt.Fprintf(w.out, "  [%s] %d. %s (%s)\n", mark, i+1, ex.Title, ex.Category)
		}

		choice, err := w.prompt("Toggle a number ('d' when done, 'b' goes back, 'q' quits):")
		if err != nil {
			return err
		}
		switch choice {
		case "q":
			return errWizardCancelled
		case "b":
			w.draft.Back()
			return nil
		case "d":
			if err := w.draft.Next(); err != nil {
				fmt.Fprintln(w.out, err.Error())
				continue
			}
			return nil
		default:
			idx, convErr := strconv.Atoi(choice)
			if convErr != nil || idx < 1 || idx > len(visible) {
				fmt.Fprintln(w.out, "Invalid choice")
				continue
			}
			w.draft.ToggleExercise(visible[idx-1])
		}
	}
}

// stepFinalize shows the summary, collects active days and notes, and
// submits the draft.
func (w *wizard) stepFinalize(ctx context.Context) error {
	fmt.Fprintln(w.out, "Step 3/3: finalize")

	name, email := w.draft.PatientSummary()
	fmt.Fprintf(w.out, "Patient:   %s (%s)\n", name, email)
	fmt.Fprintf(w.out, "Exercises: %d selected\n", len(w.draft.SelectedExercises()))

	for {
		days, err := w.prompt(fmt.Sprintf("Active days [%d] ('b' goes back, 'q' quits):", w.draft.ActiveDays))
		if err != nil {
			return err
		}
		switch days {
		case "q":
			return errWizardCancelled
		case "b":
			w.draft.Back()
			return nil
		case "":
		default:
			n, convErr := strconv.Atoi(days)
			if convErr != nil || n < 1 {
				fmt.Fprintln(w.out, "Active days must be a number of at least 1")
				continue
			}
			w.draft.ActiveDays = n
		}
		break
	}

	notes, err := w.prompt("Notes (optional):")
	if err != nil {
		return err
	}
	w.draft.Notes = notes

	submitter := consultation.NewSubmissionService(w.app.client, w.resolver, w.app.log)
	created, err := submitter.Submit(ctx, w.draft)
	if err != nil {
		// The draft survives the failure; the loop re-enters this step
		// so the therapist can correct and retry without re-entering
		// anything.
		fmt.Fprintf(w.out, "Submit failed: %v\n", err)
		return nil
	}

	fmt.Fprintf(w.out, "Created consultation %s for %s, expires %s\n",
		created.ID, created.Patient.FullName, created.ExpiresOn.Format("2006-01-02"))
	return errSubmitted
}
