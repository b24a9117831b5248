package events

import (
	"encoding/json"
	"testing"

	"clubmanager/domain/club"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMember(t *testing.T) {
	member := club.NewMember(
		club.Club{ID: "c1", Name: "Rovers", ManagerID: "m1"},
		club.User{ID: "u1", Email: "u1@example.com"},
		club.RolePlayer,
	)
	raw, err := json.Marshal(NewMemberJoinedClub(member))
	require.NoError(t, err)

	decoded, err := DecodeMember(raw)

	require.NoError(t, err)
	assert.Equal(t, member, decoded)
	assert.Contains(t, string(raw), `"member":{`)
}

func TestDecodeMember_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		detail string
	}{
		{"missing ids", `{"member":{"role":"PLAYER"}}`},
		{"bare member", `{"role":"PLAYER","club":{"id":"c1"},"user":{"id":"u1"}}`},
		{"not json", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMember(json.RawMessage(tt.detail))
			assert.Error(t, err)
		})
	}
}
