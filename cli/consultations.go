package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"golang-physioconsult/consultation"
	"golang-physioconsult/models"
)

func newConsultationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "consultations",
		Aliases: []string{"consultation", "c"},
		Short:   "Manage consultations",
	}

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newNewCmd(a))
	cmd.AddCommand(newEditCmd(a))
	cmd.AddCommand(newDeleteCmd(a))
	return cmd
}

func printConsultation(cmd *cobra.Command, c models.Consultation, now time.Time) {
	days := consultation.ActiveDays(c.ExpiresOn, now)
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %-28s %-10s %s\n",
		c.ID, c.Patient.FullName, c.Patient.Email, c.Status, consultation.StatusLabel(days))
}

func newListCmd(a *app) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the therapist's consultations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.therapistID(); err != nil {
				return err
			}
			list := consultation.NewListView(a.client, a.log)
			if err := list.Refresh(cmd.Context()); err != nil {
				return err
			}
			now := time.Now()
			for _, c := range list.Filter(search) {
				printConsultation(cmd, c, now)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by patient name, email or notes")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one consultation in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.therapistID(); err != nil {
				return err
			}
			editor := consultation.NewDetailEditor(a.client, a.log)
			if err := editor.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			c := editor.Consultation()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Patient:  %s (%s)\n", c.Patient.FullName, c.Patient.Email)
			fmt.Fprintf(out, "Status:   %s, %s\n", c.Status, editor.StatusLabel())
			fmt.Fprintf(out, "Created:  %s\n", c.CreatedAt.Format("2006-01-02"))
			fmt.Fprintf(out, "Expires:  %s\n", c.ExpiresOn.Format("2006-01-02"))
			if c.Notes != "" {
				fmt.Fprintf(out, "Notes:    %s\n", c.Notes)
			}
			fmt.Fprintln(out, "Exercises:")
			for i, ex := range editor.RecommendedExercises() {
				fmt.Fprintf(out, "  %d. %s (%s) reps %d hold %d set %d, %dx per %s\n",
					i+1, ex.Title, ex.Category, ex.Reps, ex.Hold, ex.Set, ex.Perform.Count, ex.Perform.Unit)
			}
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var (
		days    int
		notes   string
		addIDs  []string
		dropIDs []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit active days, notes or exercises of a consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.therapistID(); err != nil {
				return err
			}
			ctx := cmd.Context()

			editor := consultation.NewDetailEditor(a.client, a.log)
			if err := editor.Load(ctx, args[0]); err != nil {
				return err
			}
			if err := editor.BeginEdit(); err != nil {
				return err
			}

			if cmd.Flags().Changed("days") {
				if err := editor.SetActiveDays(days); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("notes") {
				if err := editor.SetNotes(notes); err != nil {
					return err
				}
			}

			if len(addIDs) > 0 {
				picker := consultation.NewCatalogSelector(a.client)
				if err := picker.Load(ctx); err != nil {
					return err
				}
				picker.SetExcluded(editor.ExcludedIDs())
				byID := make(map[string]models.Exercise)
				for _, ex := range picker.Exercises() {
					byID[ex.ID] = ex
				}
				for _, id := range addIDs {
					ex, ok := byID[id]
					if !ok {
						return fmt.Errorf("exercise %s is unknown or already recommended", id)
					}
					if err := editor.AddExercise(ex); err != nil {
						return err
					}
				}
			}
			for _, id := range dropIDs {
				if !editor.RemoveExercise(id) {
					return fmt.Errorf("exercise %s is not recommended", id)
				}
			}

			updated, err := editor.Save(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated consultation for %s, now %s\n",
				updated.Patient.FullName, consultation.StatusLabel(consultation.ActiveDays(updated.ExpiresOn, time.Now())))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "new active-day count")
	cmd.Flags().StringVar(&notes, "notes", "", "replacement notes")
	cmd.Flags().StringSliceVar(&addIDs, "add", nil, "exercise ids to add")
	cmd.Flags().StringSliceVar(&dropIDs, "remove", nil, "exercise ids to remove")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.therapistID(); err != nil {
				return err
			}
			editor := consultation.NewDetailEditor(a.client, a.log)
			if err := editor.Load(cmd.Context(), args[0]); err != nil {
				return err
			}

			confirm := func(patientName string) bool {
				if yes {
					return true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Delete the consultation for %s? [y/N] ", patientName)
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, _ := reader.ReadString('\n')
				return strings.EqualFold(strings.TrimSpace(answer), "y")
			}

			if err := editor.Delete(cmd.Context(), confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Consultation deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}
