package main

import (
	"clubmanager/domain/club"

	"github.com/spf13/cobra"
)

func newJoinCmd(a *app) *cobra.Command {
	var member userFlags
	cmd := &cobra.Command{
		Use:   "join <club-id>",
		Short: "Add a user to a club as a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			joined, err := a.membership.JoinClub(cmd.Context(), args[0], member.user())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), joined.WithoutKeys())
		},
	}
	member.bind(cmd, "user")
	return cmd
}

func newGetMemberCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-member <club-id> <user-id>",
		Short: "Show a member record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.membership.GetMember(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
}

func newListMembershipsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-memberships <user-id>",
		Short: "List every club a user is a member of",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := a.membership.ListMembershipsForUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), members)
		},
	}
}

// newPublishTestEventCmd re-publishes an existing member record as a
// MEMBER_JOINED_CLUB event, exercising the notification pipeline end to end
func newPublishTestEventCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish-test-event <club-id> <user-id>",
		Short: "Publish MEMBER_JOINED_CLUB for an existing member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.membership.GetMember(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			m.ClubID, m.UserID = m.Club.ID, m.User.ID
			if err := a.forwarder.ForwardNewMembers(cmd.Context(), []club.Member{m}); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"published": "MEMBER_JOINED_CLUB", "clubId": args[0], "userId": args[1]})
		},
	}
}
