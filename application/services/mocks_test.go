package services

import (
	"context"

	"clubmanager/domain/club"
	"clubmanager/domain/email"
	"clubmanager/domain/events"

	"github.com/stretchr/testify/mock"
)

type MockEmailQueuer struct {
	mock.Mock
}

func (m *MockEmailQueuer) QueueEmail(ctx context.Context, req email.SendRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockMemberReader struct {
	mock.Mock
}

func (m *MockMemberReader) GetMember(ctx context.Context, clubID, userID string) (club.Member, error) {
	args := m.Called(ctx, clubID, userID)
	return args.Get(0).(club.Member), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, detailType events.DetailType, payloads []interface{}) error {
	args := m.Called(ctx, detailType, payloads)
	return args.Error(0)
}
