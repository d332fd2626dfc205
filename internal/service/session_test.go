package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/notify"
)

var (
	s1 = domain.ChatSession{ID: "1", Title: domain.DefaultSessionTitle}
	s2 = domain.ChatSession{ID: "2", Title: domain.DefaultSessionTitle}
	s3 = domain.ChatSession{ID: "3", Title: "Office"}
)

func newSessions(api domain.ChatAPI) (*SessionStore, *notify.Recorder) {
	rec := &notify.Recorder{}
	return NewSessionStore(api, rec), rec
}

func session(s domain.ChatSession) *domain.ChatSession {
	return &s
}

func TestSessionStore_CreateSession(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	var changes []domain.ID
	store.OnActiveChange(func(id domain.ID) { changes = append(changes, id) })

	api.On("CreateSession", ctx).Return(session(s1), nil).Once()
	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()

	created, err := store.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, s1.ID, created.ID)

	active, ok := store.Active()
	assert.True(t, ok)
	assert.Equal(t, s1.ID, active)
	assert.Equal(t, []domain.ChatSession{s1}, store.Sessions())
	assert.Equal(t, []domain.ID{s1.ID}, changes)
	api.AssertExpectations(t)
}

func TestSessionStore_CreateSessionFailure(t *testing.T) {
	api := new(MockChatAPI)
	store, rec := newSessions(api)
	ctx := context.Background()

	api.On("CreateSession", ctx).Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()

	_, err := store.CreateSession(ctx)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	_, ok := store.Active()
	assert.False(t, ok)
	assert.Len(t, rec.Notices(), 1)
}

func TestSessionStore_Select(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1, s2}, nil).Once()
	_, err := store.ListSessions(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Select("42"), ErrUnknownSession)
	require.NoError(t, store.Select(s2.ID))
	active, _ := store.Active()
	assert.Equal(t, s2.ID, active)
}

func TestSessionStore_RenameNoOp(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1, s3}, nil).Once()
	_, err := store.ListSessions(ctx)
	require.NoError(t, err)

	for _, title := range []string{"", "   ", "\t\n", s3.Title, "  " + s3.Title + "  "} {
		require.NoError(t, store.RenameSession(ctx, s3.ID, title))
	}

	got, _ := store.Session(s3.ID)
	assert.Equal(t, "Office", got.Title)
	api.AssertNotCalled(t, "RenameSession", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNumberOfCalls(t, "ListSessions", 1)
}

func TestSessionStore_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and reloads", func(t *testing.T) {
		api := new(MockChatAPI)
		store, _ := newSessions(api)

		api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()
		_, err := store.ListSessions(ctx)
		require.NoError(t, err)

		renamed := s1
		renamed.Title = "Beach day"
		api.On("RenameSession", ctx, s1.ID, "Beach day").Return(&renamed, nil).Once()
		api.On("ListSessions", ctx).Return([]domain.ChatSession{renamed}, nil).Once()

		require.NoError(t, store.RenameSession(ctx, s1.ID, "  Beach day "))
		got, _ := store.Session(s1.ID)
		assert.Equal(t, "Beach day", got.Title)
		api.AssertExpectations(t)
	})

	t.Run("not found is reconciled", func(t *testing.T) {
		api := new(MockChatAPI)
		store, rec := newSessions(api)

		api.On("RenameSession", ctx, s2.ID, "Gone").Return(nil, fmt.Errorf("%w: HTTP 404", domain.ErrNotFound)).Once()
		api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()

		require.NoError(t, store.RenameSession(ctx, s2.ID, "Gone"))
		assert.Empty(t, rec.Notices())
		assert.Equal(t, []domain.ChatSession{s1}, store.Sessions())
		api.AssertExpectations(t)
	})

	t.Run("network failure", func(t *testing.T) {
		api := new(MockChatAPI)
		store, rec := newSessions(api)

		api.On("RenameSession", ctx, s1.ID, "x").Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()

		err := store.RenameSession(ctx, s1.ID, "x")
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Len(t, rec.Notices(), 1)
		api.AssertNotCalled(t, "ListSessions", mock.Anything)
	})
}

func TestSessionStore_DeleteActive(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	api.On("CreateSession", ctx).Return(session(s1), nil).Once()
	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()
	_, err := store.CreateSession(ctx)
	require.NoError(t, err)

	var changes []domain.ID
	store.OnActiveChange(func(id domain.ID) { changes = append(changes, id) })

	api.On("DeleteSession", ctx, s1.ID).Return(nil).Once()
	api.On("CreateSession", ctx).Return(session(s2), nil).Once()
	api.On("ListSessions", ctx).Return([]domain.ChatSession{s2}, nil).Once()

	require.NoError(t, store.DeleteSession(ctx, s1.ID))

	active, ok := store.Active()
	require.True(t, ok)
	assert.Equal(t, s2.ID, active)
	assert.Equal(t, []domain.ChatSession{s2}, store.Sessions())
	_, listed := store.Session(s1.ID)
	assert.False(t, listed)
	assert.Equal(t, []domain.ID{"", s2.ID}, changes)
	api.AssertExpectations(t)
}

func TestSessionStore_DeleteActiveReplacementFails(t *testing.T) {
	api := new(MockChatAPI)
	store, rec := newSessions(api)
	ctx := context.Background()

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1, s3}, nil).Once()
	_, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Select(s1.ID))

	api.On("DeleteSession", ctx, s1.ID).Return(nil).Once()
	api.On("CreateSession", ctx).Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()
	api.On("ListSessions", ctx).Return([]domain.ChatSession{s3}, nil).Once()

	require.NoError(t, store.DeleteSession(ctx, s1.ID))

	active, ok := store.Active()
	require.True(t, ok)
	assert.Equal(t, s3.ID, active)
	assert.Len(t, rec.Notices(), 1)
}

func TestSessionStore_DeleteLastActiveOffline(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()
	_, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Select(s1.ID))

	api.On("DeleteSession", ctx, s1.ID).Return(nil).Once()
	api.On("CreateSession", ctx).Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()
	api.On("ListSessions", ctx).Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()

	require.NoError(t, store.DeleteSession(ctx, s1.ID))

	_, ok := store.Active()
	assert.False(t, ok)
	assert.Empty(t, store.Sessions())
}

func TestSessionStore_DeleteInactive(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1, s2}, nil).Once()
	_, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Select(s1.ID))

	api.On("DeleteSession", ctx, s2.ID).Return(nil).Once()
	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()

	require.NoError(t, store.DeleteSession(ctx, s2.ID))

	active, _ := store.Active()
	assert.Equal(t, s1.ID, active)
	assert.Equal(t, []domain.ChatSession{s1}, store.Sessions())
	api.AssertNotCalled(t, "CreateSession", mock.Anything)
}

func TestSessionStore_DeleteFailureKeepsState(t *testing.T) {
	api := new(MockChatAPI)
	store, rec := newSessions(api)
	ctx := context.Background()

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()
	_, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Select(s1.ID))

	api.On("DeleteSession", ctx, s1.ID).Return(fmt.Errorf("%w: HTTP 500", domain.ErrNetwork)).Once()

	err = store.DeleteSession(ctx, s1.ID)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	active, _ := store.Active()
	assert.Equal(t, s1.ID, active)
	assert.Equal(t, []domain.ChatSession{s1}, store.Sessions())
	assert.Len(t, rec.Notices(), 1)
}

func TestSessionStore_DeleteActiveAlreadyGone(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()
	_, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Select(s1.ID))

	api.On("DeleteSession", ctx, s1.ID).Return(fmt.Errorf("%w: HTTP 404", domain.ErrNotFound)).Once()
	api.On("CreateSession", ctx).Return(session(s2), nil).Once()
	api.On("ListSessions", ctx).Return([]domain.ChatSession{s2}, nil).Once()

	require.NoError(t, store.DeleteSession(ctx, s1.ID))
	active, _ := store.Active()
	assert.Equal(t, s2.ID, active)
}

func TestSessionStore_ListClearsVanishedActive(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1, s2}, nil).Once()
	_, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Select(s1.ID))

	api.On("ListSessions", ctx).Return([]domain.ChatSession{s2}, nil).Once()
	_, err = store.ListSessions(ctx)
	require.NoError(t, err)

	_, ok := store.Active()
	assert.False(t, ok)
}

func TestSessionStore_StaleListDropped(t *testing.T) {
	api := new(MockChatAPI)
	store, _ := newSessions(api)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	// A listing issued before the create answers without the new session.
	api.On("ListSessions", ctx).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return([]domain.ChatSession{}, nil).Once()
	api.On("CreateSession", ctx).Return(session(s1), nil).Once()
	api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := store.ListSessions(ctx)
		assert.NoError(t, err)
	}()

	<-started
	_, err := store.CreateSession(ctx)
	require.NoError(t, err)
	close(release)
	wg.Wait()

	active, ok := store.Active()
	assert.True(t, ok)
	assert.Equal(t, s1.ID, active)
	assert.Equal(t, []domain.ChatSession{s1}, store.Sessions())
}

func TestSessionStore_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		api := new(MockChatAPI)
		store, _ := newSessions(api)
		api.On("ListSessions", ctx).Return([]domain.ChatSession{s1, s2}, nil).Once()

		id, err := store.Restore(ctx, s2.ID)
		require.NoError(t, err)
		assert.Equal(t, s2.ID, id)
		api.AssertNotCalled(t, "CreateSession", mock.Anything)
	})

	t.Run("gone", func(t *testing.T) {
		api := new(MockChatAPI)
		store, _ := newSessions(api)
		api.On("ListSessions", ctx).Return([]domain.ChatSession{s1}, nil).Once()
		api.On("CreateSession", ctx).Return(session(s3), nil).Once()
		api.On("ListSessions", ctx).Return([]domain.ChatSession{s3, s1}, nil).Once()

		id, err := store.Restore(ctx, "99")
		require.NoError(t, err)
		assert.Equal(t, s3.ID, id)
		active, _ := store.Active()
		assert.Equal(t, s3.ID, active)
	})

	t.Run("offline", func(t *testing.T) {
		api := new(MockChatAPI)
		store, _ := newSessions(api)
		api.On("ListSessions", ctx).Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()

		_, err := store.Restore(ctx, s1.ID)
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}
