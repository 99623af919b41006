package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/store"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <publication-id>",
		Short: "Show a publication's state and outstanding acceptances",
		Long: `Show a publication's lifecycle state, its pending units, and the
acceptance records still outstanding.

Example:
  bindery status --db ./pub.db 42`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

// statusReport is the status command's JSON payload.
type statusReport struct {
	Publication *model.Publication `json:"publication"`
	Outstanding int                `json:"outstanding"`
	Pending     []pendingSummary   `json:"pending,omitempty"`
}

type pendingSummary struct {
	Ident string `json:"ident"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

func runStatus(opts *RootOptions, idArg string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	pubID, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid publication id", err)
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

	ctx := cmd.Context()
	pub, err := st.GetPublication(ctx, pubID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitFailure, "publication not found", err)
		}
		return WrapExitError(ExitCommandError, "failed to load publication", err)
	}

	outstanding, err := st.CountOutstanding(ctx, pubID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count outstanding acceptances", err)
	}
	docs, err := st.PendingDocuments(ctx, pubID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load pending documents", err)
	}

	report := statusReport{Publication: pub, Outstanding: outstanding}
	for _, doc := range docs {
		report.Pending = append(report.Pending, pendingSummary{
			Ident: model.JoinIdentHash(doc.UUID, doc.Version),
			Type:  string(doc.Type),
			Title: doc.Title,
		})
	}

	if opts.Format == "json" {
		return out.Success(report)
	}
	return out.Success(formatStatus(report))
}

func formatStatus(report statusReport) string {
	var b strings.Builder
	pub := report.Publication
	fmt.Fprintf(&b, "publication %d: %s\n", pub.ID, pub.State)
	fmt.Fprintf(&b, "  publisher: %s\n", pub.Publisher)
	if pub.Message != "" {
		fmt.Fprintf(&b, "  message: %s\n", pub.Message)
	}
	if pub.Error != "" {
		fmt.Fprintf(&b, "  error: %s\n", pub.Error)
	}
	fmt.Fprintf(&b, "  outstanding acceptances: %d\n", report.Outstanding)
	for _, p := range report.Pending {
		fmt.Fprintf(&b, "  pending %s: %s (%s)\n", p.Type, p.Title, p.Ident)
	}
	return strings.TrimRight(b.String(), "\n")
}
