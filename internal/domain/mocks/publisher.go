package mocks

import (
	"context"

	"github.com/TestimonialCarousel/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockFramePublisher struct {
	mock.Mock
}

var _ domain.FramePublisher = (*MockFramePublisher)(nil)

func (m *MockFramePublisher) Publish(ctx context.Context, frame domain.Frame) error {
	args := m.Called(ctx, frame)
	return args.Error(0)
}

func (m *MockFramePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockCommandPublisher struct {
	mock.Mock
}

var _ domain.CommandPublisher = (*MockCommandPublisher)(nil)

func (m *MockCommandPublisher) PublishCommand(ctx context.Context, cmd *domain.Command) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *MockCommandPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
