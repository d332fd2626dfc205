package service

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// MockCatalogAPI mocks the CatalogAPI interface
type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) ListItems(ctx context.Context) ([]domain.ClothingItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClothingItem), args.Error(1)
}

func (m *MockCatalogAPI) CreateItem(ctx context.Context, item domain.NewItem) (*domain.ClothingItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClothingItem), args.Error(1)
}

func (m *MockCatalogAPI) UpdateItem(ctx context.Context, id domain.ID, patch domain.ItemPatch) (*domain.ClothingItem, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClothingItem), args.Error(1)
}

func (m *MockCatalogAPI) DeleteItem(ctx context.Context, id domain.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockChatAPI mocks the ChatAPI interface
type MockChatAPI struct {
	mock.Mock
}

func (m *MockChatAPI) ListSessions(ctx context.Context) ([]domain.ChatSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatSession), args.Error(1)
}

func (m *MockChatAPI) CreateSession(ctx context.Context) (*domain.ChatSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockChatAPI) RenameSession(ctx context.Context, id domain.ID, title string) (*domain.ChatSession, error) {
	args := m.Called(ctx, id, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockChatAPI) DeleteSession(ctx context.Context, id domain.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatAPI) ListMessages(ctx context.Context, sessionID domain.ID) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockChatAPI) SendMessage(ctx context.Context, sessionID domain.ID, prompt string) (*domain.Message, error) {
	args := m.Called(ctx, sessionID, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

// MockOutfitAPI mocks the OutfitAPI interface
type MockOutfitAPI struct {
	mock.Mock
}

func (m *MockOutfitAPI) GenerateOutfit(ctx context.Context, prompt string) (json.RawMessage, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// fixedActive is an ActiveSession whose id is set by the test
type fixedActive struct {
	id domain.ID
}

func (f *fixedActive) Active() (domain.ID, bool) {
	return f.id, !f.id.IsZero()
}
