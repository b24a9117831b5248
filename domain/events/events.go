package events

import (
	"encoding/json"
	"fmt"

	"clubmanager/domain/club"
)

// DetailType names the kind of event carried on the bus
type DetailType string

const (
	// MemberJoinedClub is emitted for every newly inserted member record
	MemberJoinedClub DetailType = "MEMBER_JOINED_CLUB"
)

// MemberJoinedClubDetail is the event detail. It carries the full member
// snapshot so consumers never read back from the store to interpret it.
type MemberJoinedClubDetail struct {
	Member club.Member `json:"member"`
}

// NewMemberJoinedClub wraps a member record as an event detail
func NewMemberJoinedClub(m club.Member) MemberJoinedClubDetail {
	return MemberJoinedClubDetail{Member: m}
}

// DecodeMember reads a MemberJoinedClub detail
func DecodeMember(detail json.RawMessage) (club.Member, error) {
	var payload MemberJoinedClubDetail
	if err := json.Unmarshal(detail, &payload); err != nil {
		return club.Member{}, fmt.Errorf("failed to decode member event: %w", err)
	}
	member := payload.Member
	if member.Club.ID == "" || member.User.ID == "" {
		return club.Member{}, fmt.Errorf("member event is missing club or user id")
	}
	return member, nil
}
