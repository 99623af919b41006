package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List permanent modules",
		Long: `List every permanent module, sorted by title with locale-aware
collation.

Example:
  bindery list --db ./pub.db
  bindery list --db ./pub.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
	return cmd
}

// moduleSummary is the list command's per-module JSON payload.
type moduleSummary struct {
	Ident string `json:"ident"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	st, err := store.Open(resolveDatabase(opts, cfg))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	mods, err := st.ListModules(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list modules", err)
	}

	summaries := make([]moduleSummary, len(mods))
	for i, mod := range mods {
		summaries[i] = moduleSummary{
			Ident: model.JoinIdentHash(mod.UUID, mod.Version),
			Type:  string(mod.Type),
			Title: mod.Title,
		}
	}

	if opts.Format == "json" {
		return out.Success(summaries)
	}

	if len(summaries) == 0 {
		return out.Success("no modules published")
	}
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-8s %-45s %s\n", s.Type, s.Ident, s.Title)
	}
	return out.Success(strings.TrimRight(b.String(), "\n"))
}
