package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-customerform/internal/platform/config"
	"github.com/goliatone/go-customerform/internal/platform/logging"
)

// app carries what the root command resolves for its subcommands.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "customer-form",
		Short:         "Fill in and save the customer sign-up form",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.WithFile(a.configPath))
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")

	root.AddCommand(newFillCmd(a), newSchemaCmd())
	return root
}
