package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/bindery/internal/model"
	"github.com/roach88/bindery/internal/publish"
	"github.com/roach88/bindery/internal/store"
)

// NewAcceptLicenseCommand creates the accept-license command.
func NewAcceptLicenseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept-license <publication-id> <user-id>",
		Short: "Record a user's license acceptance",
		Long: `Record a user's license acceptance across every pending document of a
publication, then re-evaluate the publication state. The acceptance that
clears the last outstanding record triggers the commit.

Example:
  bindery accept-license --db ./pub.db 42 alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccept(rootOpts, args[0], args[1], model.AcceptanceLicense, cmd)
		},
	}
	return cmd
}

// NewAcceptRolesCommand creates the accept-roles command.
func NewAcceptRolesCommand(rootOpts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "accept-roles <publication-id> [user-id]",
		Short: "Record a user's role acceptances",
		Long: `Record a user's role acceptances across every pending document of a
publication, then re-evaluate the publication state.

With --all, every outstanding role record of the publication is accepted
regardless of user. This is an operator override for stuck publications.

Example:
  bindery accept-roles --db ./pub.db 42 alice
  bindery accept-roles --db ./pub.db 42 --all`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := ""
			if len(args) == 2 {
				user = args[1]
			}
			if user == "" && !all {
				return WrapExitError(ExitCommandError, "a user id or --all is required", nil)
			}
			if user != "" && all {
				return WrapExitError(ExitCommandError, "--all cannot be combined with a user id", nil)
			}
			return runAccept(rootOpts, args[0], user, model.AcceptanceRole, cmd)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "accept every outstanding role record")
	return cmd
}

func runAccept(opts *RootOptions, idArg, userID string, kind model.AcceptanceKind, cmd *cobra.Command) error {
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

	engine := publish.New(st, nil, nil, nil)
	var state model.State
	switch kind {
	case model.AcceptanceLicense:
		state, err = engine.AcceptLicense(cmd.Context(), pubID, userID)
	case model.AcceptanceRole:
		state, err = engine.AcceptRoles(cmd.Context(), pubID, userID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitFailure, "publication not found", err)
		}
		return WrapExitError(ExitCommandError, "acceptance failed", err)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{"publication_id": pubID, "state": state})
	}
	return out.Success(fmt.Sprintf("publication %d: %s", pubID, state))
}
