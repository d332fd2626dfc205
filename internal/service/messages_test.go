package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/notify"
)

const outfitJSON = `{"top":{"id":1,"filename":"a.png","category":"Dress"},"weather_info":"Paris: 12°C"}`

func newStream(t *testing.T, api *MockChatAPI, active domain.ID) (*MessageStream, *fixedActive, *notify.Recorder) {
	t.Helper()
	sessions := &fixedActive{id: active}
	rec := &notify.Recorder{}
	stream := NewMessageStream(api, sessions, rec)
	if !active.IsZero() {
		api.On("ListMessages", mock.Anything, active).Return([]domain.Message{}, nil).Once()
		require.NoError(t, stream.LoadMessages(context.Background(), active))
	}
	return stream, sessions, rec
}

func TestMessageStream_SendRejected(t *testing.T) {
	api := new(MockChatAPI)
	stream, _, _ := newStream(t, api, s1.ID)
	ctx := context.Background()

	stream.SetDraft("  ")
	tests := []struct {
		name    string
		session domain.ID
		prompt  string
	}{
		{"blank prompt", s1.ID, "   "},
		{"empty prompt", s1.ID, ""},
		{"no session", "", "hello"},
		{"other session", s2.ID, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stream.SendMessage(ctx, tt.session, tt.prompt)
			assert.Equal(t, SendRejected, result.Status)
		})
	}

	assert.Empty(t, stream.Messages())
	assert.Equal(t, "  ", stream.Draft())
	api.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageStream_SendSuccess(t *testing.T) {
	api := new(MockChatAPI)
	stream, _, _ := newStream(t, api, s1.ID)
	ctx := context.Background()

	stream.SetDraft("party outfit")
	reply := &domain.Message{ID: "10", Role: domain.RoleAssistant, Content: "Try the dress.", RawAttachment: json.RawMessage(outfitJSON)}
	api.On("SendMessage", ctx, s1.ID, "party outfit").Return(reply, nil).Once()

	result := stream.SendMessage(ctx, s1.ID, stream.Draft())
	require.Equal(t, SendAppended, result.Status)
	assert.NoError(t, result.Err)

	msgs := stream.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "party outfit", msgs[0].Content)
	assert.True(t, msgs[0].Local)
	assert.Nil(t, msgs[0].Outfit)

	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
	require.NotNil(t, msgs[1].Outfit)
	assert.Equal(t, "Dress", msgs[1].Outfit.Top.Category)

	assert.Empty(t, stream.Draft())
	assert.Equal(t, 0, stream.Pending())
}

func TestMessageStream_SendFailure(t *testing.T) {
	api := new(MockChatAPI)
	stream, _, rec := newStream(t, api, s1.ID)
	ctx := context.Background()

	api.On("SendMessage", ctx, s1.ID, "casual outfit").Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()

	result := stream.SendMessage(ctx, s1.ID, "casual outfit")
	assert.Equal(t, SendFailed, result.Status)
	assert.ErrorIs(t, result.Err, domain.ErrNetwork)

	msgs := stream.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "casual outfit", msgs[0].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Sorry, I ran into an error. Please try again.", msgs[1].Content)
	assert.Nil(t, msgs[1].Outfit)
	assert.True(t, msgs[1].Local)
	assert.Empty(t, rec.Notices())
}

func TestMessageStream_RepeatedFailures(t *testing.T) {
	api := new(MockChatAPI)
	stream, _, _ := newStream(t, api, s1.ID)
	ctx := context.Background()

	api.On("SendMessage", ctx, s1.ID, mock.Anything).Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork))

	for i := 0; i < 3; i++ {
		result := stream.SendMessage(ctx, s1.ID, fmt.Sprintf("try %d", i))
		assert.Equal(t, SendFailed, result.Status)
	}

	msgs := stream.Messages()
	require.Len(t, msgs, 6)
	for i := 0; i < 3; i++ {
		assert.Equal(t, domain.RoleUser, msgs[2*i].Role)
		assert.Equal(t, fmt.Sprintf("try %d", i), msgs[2*i].Content)
		assert.Equal(t, domain.ApologyText, msgs[2*i+1].Content)
	}
}

func TestMessageStream_UndecodableReply(t *testing.T) {
	api := new(MockChatAPI)
	stream, _, _ := newStream(t, api, s1.ID)
	ctx := context.Background()

	reply := &domain.Message{Role: domain.RoleAssistant, Content: "Notes only", RawAttachment: json.RawMessage(`{"top": {"category": "Shirt"}}`)}
	api.On("SendMessage", ctx, s1.ID, "hi").Return(reply, nil).Once()

	result := stream.SendMessage(ctx, s1.ID, "hi")
	assert.Equal(t, SendAppended, result.Status)

	msgs := stream.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Notes only", msgs[1].Content)
	assert.Nil(t, msgs[1].Outfit)
}

func TestMessageStream_StaleReplyDiscarded(t *testing.T) {
	for _, fail := range []bool{false, true} {
		t.Run(fmt.Sprintf("failed=%v", fail), func(t *testing.T) {
			api := new(MockChatAPI)
			stream, sessions, _ := newStream(t, api, s1.ID)
			ctx := context.Background()

			started := make(chan struct{})
			release := make(chan struct{})
			call := api.On("SendMessage", ctx, s1.ID, "office look").Run(func(mock.Arguments) {
				close(started)
				<-release
			})
			if fail {
				call.Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()
			} else {
				call.Return(&domain.Message{Role: domain.RoleAssistant, Content: "late"}, nil).Once()
			}

			var result SendResult
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				result = stream.SendMessage(ctx, s1.ID, "office look")
			}()

			<-started
			assert.Equal(t, 1, stream.Pending())

			// The user switches to s2 while the reply is in flight.
			sessions.id = s2.ID
			s2Log := []domain.Message{{ID: "20", Role: domain.RoleUser, Content: "from s2"}}
			api.On("ListMessages", ctx, s2.ID).Return(s2Log, nil).Once()
			require.NoError(t, stream.LoadMessages(ctx, s2.ID))

			close(release)
			wg.Wait()

			assert.Equal(t, SendDiscarded, result.Status)
			msgs := stream.Messages()
			require.Len(t, msgs, 1)
			assert.Equal(t, "from s2", msgs[0].Content)
			assert.Equal(t, 0, stream.Pending())
		})
	}
}

func TestMessageStream_LoadReplacesLog(t *testing.T) {
	api := new(MockChatAPI)
	stream, sessions, _ := newStream(t, api, s1.ID)
	ctx := context.Background()

	api.On("SendMessage", ctx, s1.ID, "hi").Return(&domain.Message{Role: domain.RoleAssistant, Content: "hello"}, nil).Once()
	stream.SendMessage(ctx, s1.ID, "hi")
	require.Len(t, stream.Messages(), 2)

	sessions.id = s2.ID
	history := []domain.Message{
		{ID: "5", Role: domain.RoleUser, Content: "old prompt"},
		{ID: "6", Role: domain.RoleAssistant, Content: "old reply", RawAttachment: json.RawMessage(fmt.Sprintf("%q", outfitJSON))},
		{ID: "7", Role: domain.RoleAssistant, Content: "broken", RawAttachment: json.RawMessage(`"{oops"`)},
	}
	api.On("ListMessages", ctx, s2.ID).Return(history, nil).Once()

	require.NoError(t, stream.LoadMessages(ctx, s2.ID))
	assert.Equal(t, s2.ID, stream.Loaded())

	msgs := stream.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "old prompt", msgs[0].Content)
	require.NotNil(t, msgs[1].Outfit)
	assert.Equal(t, "Dress", msgs[1].Outfit.Top.Category)
	assert.Nil(t, msgs[2].Outfit)
	assert.Equal(t, "broken", msgs[2].Content)
}

func TestMessageStream_LoadFailureEmptiesLog(t *testing.T) {
	api := new(MockChatAPI)
	stream, sessions, rec := newStream(t, api, s1.ID)
	ctx := context.Background()

	api.On("SendMessage", ctx, s1.ID, "hi").Return(&domain.Message{Role: domain.RoleAssistant, Content: "hello"}, nil).Once()
	stream.SendMessage(ctx, s1.ID, "hi")

	sessions.id = s2.ID
	api.On("ListMessages", ctx, s2.ID).Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()

	err := stream.LoadMessages(ctx, s2.ID)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Empty(t, stream.Messages())
	assert.Equal(t, s2.ID, stream.Loaded())
	assert.Len(t, rec.Notices(), 1)
}

func TestMessageStream_StaleLoadDiscarded(t *testing.T) {
	api := new(MockChatAPI)
	stream, sessions, _ := newStream(t, api, "")
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("ListMessages", ctx, s1.ID).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return([]domain.Message{{Role: domain.RoleUser, Content: "s1 message"}}, nil).Once()
	api.On("ListMessages", ctx, s2.ID).Return([]domain.Message{{Role: domain.RoleUser, Content: "s2 message"}}, nil).Once()

	sessions.id = s1.ID
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, stream.LoadMessages(ctx, s1.ID))
	}()

	<-started
	sessions.id = s2.ID
	require.NoError(t, stream.LoadMessages(ctx, s2.ID))
	close(release)
	wg.Wait()

	msgs := stream.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "s2 message", msgs[0].Content)
}

func TestMessageStream_SendDuringPendingLoad(t *testing.T) {
	api := new(MockChatAPI)
	stream, _, _ := newStream(t, api, s1.ID)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	history := []domain.Message{{ID: "1", Role: domain.RoleUser, Content: "earlier"}}
	api.On("ListMessages", ctx, s1.ID).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(history, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, stream.LoadMessages(ctx, s1.ID))
	}()

	<-started
	stream.SetDraft("hi")
	result := stream.SendMessage(ctx, s1.ID, "hi")
	assert.Equal(t, SendRejected, result.Status)
	assert.Equal(t, "hi", stream.Draft())

	close(release)
	wg.Wait()

	msgs := stream.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "earlier", msgs[0].Content)
	api.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)

	// Once the load has answered the same send goes through
	api.On("SendMessage", ctx, s1.ID, "hi").Return(&domain.Message{Role: domain.RoleAssistant, Content: "hello"}, nil).Once()
	result = stream.SendMessage(ctx, s1.ID, "hi")
	assert.Equal(t, SendAppended, result.Status)
	require.Len(t, stream.Messages(), 3)
}

func TestMessageStream_SendAfterFailedLoad(t *testing.T) {
	api := new(MockChatAPI)
	stream, _, _ := newStream(t, api, s1.ID)
	ctx := context.Background()

	api.On("ListMessages", ctx, s1.ID).Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()
	assert.Error(t, stream.LoadMessages(ctx, s1.ID))

	api.On("SendMessage", ctx, s1.ID, "hi").Return(nil, fmt.Errorf("%w: offline", domain.ErrNetwork)).Once()
	result := stream.SendMessage(ctx, s1.ID, "hi")
	assert.Equal(t, SendFailed, result.Status)

	msgs := stream.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.ApologyText, msgs[1].Content)
}

func TestMessageStream_ReloadOvertakesReply(t *testing.T) {
	api := new(MockChatAPI)
	stream, _, _ := newStream(t, api, s1.ID)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("SendMessage", ctx, s1.ID, "hi").Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&domain.Message{Role: domain.RoleAssistant, Content: "hello"}, nil).Once()

	var result SendResult
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result = stream.SendMessage(ctx, s1.ID, "hi")
	}()

	<-started
	// The reload already carries the exchange recorded by the service
	recorded := []domain.Message{
		{ID: "1", Role: domain.RoleUser, Content: "hi"},
		{ID: "2", Role: domain.RoleAssistant, Content: "hello"},
	}
	api.On("ListMessages", ctx, s1.ID).Return(recorded, nil).Once()
	require.NoError(t, stream.LoadMessages(ctx, s1.ID))

	close(release)
	wg.Wait()

	assert.Equal(t, SendDiscarded, result.Status)
	msgs := stream.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "hello", msgs[1].Content)
}
