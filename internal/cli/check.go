package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bindery/internal/metaschema"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <manifest.yaml>",
		Short: "Validate a manifest without submitting it",
		Long: `Validate a submission manifest without touching the database.

Checks the manifest structure, the content tree shape, and every unit's
metadata against the metadata schema. Exit code 1 means the manifest would
be rejected at submission.

Example:
  bindery check book.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCheck(opts *RootOptions, manifestPath string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load manifest", err)
	}

	if err := manifest.Content.CheckShape(); err != nil {
		_ = out.Error("MALFORMED_CONTENT", err.Error())
		return WrapExitError(ExitFailure, "invalid content tree", err)
	}

	validator, err := metaschema.NewValidator()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load metadata schema", err)
	}
	units := manifest.Content.Units()
	for _, unit := range units {
		if err := validator.Validate(unit.Metadata); err != nil {
			wrapped := fmt.Errorf("unit %q: %w", unit.Title, err)
			_ = out.Error("MALFORMED_CONTENT", wrapped.Error())
			return WrapExitError(ExitFailure, "invalid metadata", wrapped)
		}
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{"units": len(units)})
	}
	return out.Success(fmt.Sprintf("ok: %d publishable units", len(units)))
}
