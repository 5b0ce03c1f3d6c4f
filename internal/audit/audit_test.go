package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqualert/pkg/requestcontext"
)

func TestPublisherFillsIdentityAndTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	err := publisher.Emit(context.Background(), Event{
		Action:       ActionCitizenRegistered,
		Actor:        "ana@x.com",
		Municipality: "Tona",
	})
	require.NoError(t, err)

	events, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisherKeepsProvidedTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	stamp := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	err := publisher.Emit(context.Background(), Event{Action: ActionReportRejected, Timestamp: stamp})
	require.NoError(t, err)

	events, _ := store.List(context.Background())
	require.Len(t, events, 1)
	assert.Equal(t, stamp, events[0].Timestamp)
}

func TestPublisherUsesRequestScopedTime(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	stamp := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), stamp)

	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionCitizenRegistered}))

	events, _ := store.List(context.Background())
	require.Len(t, events, 1)
	assert.Equal(t, stamp, events[0].Timestamp)
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	publisher := NewPublisher(NewChannelStore(inbox))
	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionReportAuthorized}))
	require.NoError(t, publisher.Emit(ctx, Event{Action: ActionAlertDispatched}))

	require.Eventually(t, func() bool {
		events, err := store.List(context.Background())
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// flakyStore fails the first n appends, then persists.
type flakyStore struct {
	mu    sync.Mutex
	fails int
	saved []Event
}

func (s *flakyStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fails > 0 {
		s.fails--
		return errors.New("audit sink unavailable")
	}
	s.saved = append(s.saved, event)
	return nil
}

func (s *flakyStore) List(context.Context) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.saved...), nil
}

func TestWorkerKeepsRunningAfterAppendFailure(t *testing.T) {
	store := &flakyStore{fails: 1}
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Event{Action: ActionReportAuthorized}
	inbox <- Event{Action: ActionAlertDispatched}

	// The first append fails; the worker must drop it and persist the next.
	require.Eventually(t, func() bool {
		events, err := store.List(context.Background())
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	events, _ := store.List(context.Background())
	assert.Equal(t, ActionAlertDispatched, events[0].Action)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestChannelStoreDropsWhenFull(t *testing.T) {
	inbox := make(chan Event, 1)
	store := NewChannelStore(inbox)

	require.NoError(t, store.Append(context.Background(), Event{Action: ActionCitizenRegistered}))
	// Inbox is full now; the second append must not block.
	require.NoError(t, store.Append(context.Background(), Event{Action: ActionCitizenRegistered}))
	assert.Len(t, inbox, 1)
}
