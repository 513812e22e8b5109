package mocks

import (
	"context"

	"github.com/TestimonialCarousel/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct {
	mock.Mock
}

var _ domain.ItemRepository = (*MockItemRepository)(nil)

func (m *MockItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)

	// Handle nil items
	var items []domain.Item
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Item)
	}
	return items, args.Error(1)
}

func (m *MockItemRepository) Upsert(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
