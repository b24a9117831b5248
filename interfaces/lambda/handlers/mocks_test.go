package handlers

import (
	"context"

	"clubmanager/application/delivery"
	"clubmanager/domain/club"

	"github.com/stretchr/testify/mock"
)

type MockForwarder struct {
	mock.Mock
}

func (m *MockForwarder) ForwardNewMembers(ctx context.Context, members []club.Member) error {
	args := m.Called(ctx, members)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyManager(ctx context.Context, joined club.Member) (bool, error) {
	args := m.Called(ctx, joined)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotifier) WelcomeMember(ctx context.Context, joined club.Member) error {
	args := m.Called(ctx, joined)
	return args.Error(0)
}

type MockBatchHandler struct {
	mock.Mock
}

func (m *MockBatchHandler) HandleBatch(ctx context.Context, messages []delivery.InboundMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

type MockPhotoRecorder struct {
	mock.Mock
}

func (m *MockPhotoRecorder) SetClubPhoto(ctx context.Context, clubID, photoPath string) error {
	args := m.Called(ctx, clubID, photoPath)
	return args.Error(0)
}
