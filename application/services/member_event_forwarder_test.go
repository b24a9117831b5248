package services

import (
	"context"
	"testing"

	"clubmanager/domain/club"
	"clubmanager/domain/events"
	apperrors "clubmanager/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestForwardNewMembers(t *testing.T) {
	publisher := new(MockEventPublisher)
	forwarder := NewMemberEventForwarder(publisher, zap.NewNop())
	members := []club.Member{joinedMember(), joinedMember()}
	publisher.On("Publish", mock.Anything, events.MemberJoinedClub, []interface{}{
		events.NewMemberJoinedClub(members[0]),
		events.NewMemberJoinedClub(members[1]),
	}).Return(nil).Once()

	err := forwarder.ForwardNewMembers(context.Background(), members)

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestForwardNewMembers_EmptyIsNoop(t *testing.T) {
	publisher := new(MockEventPublisher)
	forwarder := NewMemberEventForwarder(publisher, zap.NewNop())

	require.NoError(t, forwarder.ForwardNewMembers(context.Background(), nil))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestForwardNewMembers_PublishFailureIsReturned(t *testing.T) {
	publisher := new(MockEventPublisher)
	forwarder := NewMemberEventForwarder(publisher, zap.NewNop())
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(&apperrors.PublishFailedError{FailedCount: 1, Total: 1})

	err := forwarder.ForwardNewMembers(context.Background(), []club.Member{joinedMember()})

	assert.True(t, apperrors.IsPublishFailed(err))
}
