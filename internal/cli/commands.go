package cli

import (
	"github.com/specialistvlad/modresolve/internal/planfmt"
	"github.com/spf13/cobra"
)

func newPlanCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [name=value ...] [-- --name=value ...]",
		Short: "Resolve and print the build plan",
		Long: `Resolve the build plan for the configured platform and flags.

Option values are given as name=value arguments, or as switches after "--"
(for example: modresolve plan -- --minimp3_extra_formats). Run
"modresolve options" to list the switches the selected modules accept.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.Plan(cmd.Context(), args)
		},
	}
	cmd.Flags().String("format", string(planfmt.FormatText), "Output format: text, hcl or json.")
	return cmd
}

func newOptionsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the build options of the selected modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.Options(cmd.Context())
		},
	}
}

func newDocsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "docs [name=value ...]",
		Short: "List documented classes of the selected modules and their files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.Docs(cmd.Context(), args)
		},
	}
}

func newValidateCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load every manifest and check each module for every platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.Validate(cmd.Context())
		},
	}
}
