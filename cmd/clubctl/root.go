package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"clubmanager/application/services"
	"clubmanager/infrastructure/config"
	"clubmanager/infrastructure/di"

	"github.com/spf13/cobra"
)

// app holds what the subcommands operate on
type app struct {
	membership *services.MembershipService
	forwarder  *services.MemberEventForwarder
}

type rootOptions struct {
	configPath string
	store      string
}

// newRootCmd builds the CLI. A nil app is wired from configuration on first use.
func newRootCmd(a *app) *cobra.Command {
	opts := &rootOptions{}
	if a == nil {
		a = &app{}
	}

	root := &cobra.Command{
		Use:           "clubctl",
		Short:         "Operate on clubs and memberships",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.membership != nil {
				return nil
			}
			return a.wire(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config file (overrides CONFIG_FILE)")
	root.PersistentFlags().StringVar(&opts.store, "store", "", "store backend: dynamodb or memory (overrides STORE_BACKEND)")

	root.AddCommand(
		newCreateClubCmd(a),
		newJoinCmd(a),
		newDeleteClubCmd(a),
		newListPublicCmd(a),
		newListManagedCmd(a),
		newListMembershipsCmd(a),
		newGetMemberCmd(a),
		newSetPhotoCmd(a),
		newPublishTestEventCmd(a),
	)
	return root
}

func (a *app) wire(ctx context.Context, opts *rootOptions) error {
	if opts.configPath != "" {
		if err := os.Setenv("CONFIG_FILE", opts.configPath); err != nil {
			return err
		}
	}
	if opts.store != "" {
		if err := os.Setenv("STORE_BACKEND", opts.store); err != nil {
			return err
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}

	a.membership = container.Membership
	a.forwarder = container.Forwarder
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
