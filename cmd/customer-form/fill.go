package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-customerform/internal/customer"
	"github.com/goliatone/go-customerform/internal/platform/logging"
	"github.com/goliatone/go-customerform/pkg/renderers/tui"
)

var errInvalidForm = errors.New("form is invalid")

// newDriver is swapped in tests.
var newDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

var failureText = map[string]string{
	customer.FailureMatch: "does not match the confirmation",
	customer.FailureRange: "must be between 1 and 5",
}

func newFillCmd(a *app) *cobra.Command {
	var (
		testData, requireValid bool
		reviewRounds           int
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Prompt for every customer field and save the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := a.cfg.Form
			if cmd.Flags().Changed("test-data") {
				settings.TestData = testData
			}
			if cmd.Flags().Changed("require-valid") {
				settings.RequireValid = requireValid
			}
			if cmd.Flags().Changed("review-rounds") {
				settings.ReviewRounds = reviewRounds
			}

			ctx := cmd.Context()
			logger := logging.FromContext(ctx)
			out := cmd.OutOrStdout()

			form, err := customer.NewForm(
				customer.WithLogger(logger),
				customer.WithMessageDelay(settings.Debounce),
			)
			if err != nil {
				return err
			}
			defer form.Close()

			if settings.TestData {
				form.PopulateTestData()
			}

			renderer, err := tui.New(
				tui.WithPromptDriver(newDriver(out)),
				tui.WithLocker(form),
				tui.WithStatus(form.EmailMessage),
				tui.WithErrorText(failureText),
				tui.WithReviewRounds(settings.ReviewRounds),
				tui.WithTheme(tui.Theme{InfoPrefix: "i ", ErrorPrefix: "x "}),
			)
			if err != nil {
				return err
			}
			if err := renderer.Render(ctx, form.Controls()); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					logger.Info("customer form aborted", slog.String("form_id", form.ID()))
				}
				return err
			}

			if settings.RequireValid && !form.Valid() {
				return errInvalidForm
			}
			payload, err := form.Save()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(payload))
			return err
		},
	}
	cmd.Flags().BoolVar(&testData, "test-data", false, "pre-fill first name, last name and catalog choice")
	cmd.Flags().BoolVar(&requireValid, "require-valid", false, "refuse to save an invalid form")
	cmd.Flags().IntVar(&reviewRounds, "review-rounds", 1, "how often invalid fields are offered for correction")
	return cmd
}
