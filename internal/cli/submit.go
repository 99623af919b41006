package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bindery/internal/publish"
	"github.com/roach88/bindery/internal/store"
)

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	var trusted bool

	cmd := &cobra.Command{
		Use:   "submit <manifest.yaml>",
		Short: "Submit a content manifest for publication",
		Long: `Submit a content manifest for publication.

The manifest names the publisher and carries the full content tree. Each
document and binder becomes a pending unit tracked through license and role
acceptance. Publishers listed as trusted in the config (or submitted with
--trusted) skip acceptance and commit immediately.

Example:
  bindery submit --db ./pub.db book.yaml
  bindery submit --db ./pub.db --trusted book.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(rootOpts, args[0], trusted, cmd)
		},
	}

	cmd.Flags().BoolVar(&trusted, "trusted", false, "treat the publisher as trusted regardless of config")
	return cmd
}

func runSubmit(opts *RootOptions, manifestPath string, trusted bool, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load manifest", err)
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	st, err := store.Open(resolveDatabase(opts, cfg))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	engine := publish.New(st, nil, nil, nil)
	receipt, err := engine.Submit(cmd.Context(), manifest.Content, publish.Submission{
		Publisher: manifest.Publisher,
		Message:   manifest.Message,
		Trusted:   trusted || cfg.IsTrusted(manifest.Publisher),
	})
	if err != nil {
		if publish.IsMalformed(err) || publish.IsDuplicate(err) {
			_ = out.Error(publishErrorCode(err), err.Error())
			return WrapExitError(ExitFailure, "submission rejected", err)
		}
		return WrapExitError(ExitCommandError, "submission failed", err)
	}

	if opts.Format == "json" {
		return out.Success(receipt)
	}
	return out.Success(formatReceipt(receipt))
}

// publishErrorCode extracts the taxonomy code from a publication error.
func publishErrorCode(err error) string {
	switch {
	case publish.IsMalformed(err):
		return string(publish.ErrCodeMalformed)
	case publish.IsDuplicate(err):
		return string(publish.ErrCodeDuplicate)
	case publish.IsConflict(err):
		return string(publish.ErrCodeConflict)
	default:
		return string(publish.ErrCodeStorage)
	}
}

// formatReceipt renders a receipt for text output, mapping sorted by local id.
func formatReceipt(receipt *publish.Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "publication %d: %s\n", receipt.PublicationID, receipt.State)

	locals := make([]string, 0, len(receipt.Mapping))
	for local := range receipt.Mapping {
		locals = append(locals, local)
	}
	sort.Strings(locals)
	for _, local := range locals {
		fmt.Fprintf(&b, "  %s -> %s\n", local, receipt.Mapping[local])
	}
	return strings.TrimRight(b.String(), "\n")
}
