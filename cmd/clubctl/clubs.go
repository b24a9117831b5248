package main

import (
	"clubmanager/application/ports"
	"clubmanager/domain/club"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type userFlags struct {
	id       string
	username string
	email    string
	name     string
}

func (u *userFlags) bind(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringVar(&u.id, prefix+"-id", "", "user id")
	cmd.Flags().StringVar(&u.username, prefix+"-username", "", "username")
	cmd.Flags().StringVar(&u.email, prefix+"-email", "", "email address")
	cmd.Flags().StringVar(&u.name, prefix+"-name", "", "display name")
	_ = cmd.MarkFlagRequired(prefix + "-id")
	_ = cmd.MarkFlagRequired(prefix + "-email")
}

func (u *userFlags) user() club.User {
	username := u.username
	if username == "" {
		username = u.id
	}
	return club.User{ID: u.id, Username: username, Email: u.email, Name: u.name}
}

func newCreateClubCmd(a *app) *cobra.Command {
	var (
		id, name, sport, visibility string
		manager                     userFlags
	)
	cmd := &cobra.Command{
		Use:   "create-club",
		Short: "Create a club with its manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id == "" {
				id = uuid.NewString()
			}
			created, err := a.membership.CreateClubWithManager(cmd.Context(), club.Club{
				ID:         id,
				Name:       name,
				Sport:      sport,
				Visibility: club.ParseVisibility(visibility),
			}, manager.user())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "club id (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "club name")
	cmd.Flags().StringVar(&sport, "sport", "", "sport")
	cmd.Flags().StringVar(&visibility, "visibility", string(club.VisibilityPrivate), "PUBLIC or PRIVATE")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("sport")
	manager.bind(cmd, "manager")
	return cmd
}

func newDeleteClubCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-club <club-id>",
		Short: "Delete a club and all of its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.membership.DeleteClubCascade(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
		},
	}
}

func newListPublicCmd(a *app) *cobra.Command {
	var (
		limit  int32
		cursor string
	)
	cmd := &cobra.Command{
		Use:   "list-public",
		Short: "List one page of public clubs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.membership.ListPublicClubs(cmd.Context(), ports.PageOptions{Limit: limit, Cursor: cursor})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().Int32Var(&limit, "limit", 20, "page size")
	cmd.Flags().StringVar(&cursor, "cursor", "", "cursor returned by the previous page")
	return cmd
}

func newListManagedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-managed <user-id>",
		Short: "List the clubs a user manages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clubs, err := a.membership.ListClubsManagedBy(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), clubs)
		},
	}
}

func newSetPhotoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-photo <club-id> <path>",
		Short: "Record the profile photo path of a club",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.membership.SetClubPhoto(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"clubId": args[0], "profilePhotoPath": args[1]})
		},
	}
}
