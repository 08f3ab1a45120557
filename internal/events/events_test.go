// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package events

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/rinkside/internal/logging"
)

type fakeCache struct {
	mu       sync.Mutex
	prefixes []string
	clears   int
}

func (c *fakeCache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes = append(c.prefixes, prefix)
	return 1
}

func (c *fakeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clears++
}

func (c *fakeCache) snapshot() ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prefixes...), c.clears
}

type fakeHub struct {
	mu    sync.Mutex
	types []string
	data  []interface{}
}

func (h *fakeHub) BroadcastJSON(messageType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, messageType)
	h.data = append(h.data, data)
}

func (h *fakeHub) sent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.types...)
}

func seasonKey(id string) string { return "season:" + id + ":" }

func testLogger() *logging.WatermillLogger {
	return logging.NewWatermillLoggerWithLogger(logging.NewTestLogger(io.Discard))
}

func fastConfig() *RouterConfig {
	cfg := DefaultRouterConfig()
	cfg.CloseTimeout = time.Second
	cfg.RetryMaxRetries = 1
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 5 * time.Millisecond
	return &cfg
}

// startRouter runs r until the test ends and waits for it to subscribe.
func startRouter(t *testing.T, r *Router) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("router did not stop")
		}
	})
	select {
	case <-r.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(TopicGameRecorded, "s1", "g1", map[string]int{"home_score": 3})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, TopicGameRecorded, e.Topic)
	assert.Equal(t, "s1", e.SeasonID)
	assert.Equal(t, "g1", e.ResourceID)
	assert.JSONEq(t, `{"home_score":3}`, string(e.Payload))
	assert.WithinDuration(t, time.Now(), e.At, time.Minute)

	other := NewEvent(TopicGameRecorded, "s1", "g1", nil)
	assert.NotEqual(t, e.ID, other.ID)
	assert.Nil(t, other.Payload)

	unencodable := NewEvent(TopicGameRecorded, "", "", make(chan int))
	assert.Nil(t, unencodable.Payload)
}

func TestMessageRoundTrip(t *testing.T) {
	e := NewEvent(TopicPlayoffUpdated, "s2", "p1", map[string]string{"status": "in_progress"})
	msg, err := e.toMessage()
	require.NoError(t, err)

	assert.Equal(t, e.ID, msg.UUID)
	assert.Equal(t, TopicPlayoffUpdated, msg.Metadata.Get(MetadataTopic))
	assert.Equal(t, "s2", msg.Metadata.Get(MetadataSeasonID))

	back, err := FromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, e.ID, back.ID)
	assert.Equal(t, e.SeasonID, back.SeasonID)
	assert.JSONEq(t, string(e.Payload), string(back.Payload))

	_, err = FromMessage(message.NewMessage("x", []byte("{not json")))
	assert.Error(t, err)
}

func TestTopics(t *testing.T) {
	topics := Topics()
	assert.Len(t, topics, 6)
	for _, topic := range invalidatingTopics {
		assert.Contains(t, topics, topic)
	}
	assert.NotContains(t, invalidatingTopics, TopicArticlePublished)
	assert.NotContains(t, invalidatingTopics, TopicRankingPublished)
}

func TestCacheInvalidationHandler(t *testing.T) {
	c := &fakeCache{}
	h := CacheInvalidationHandler("test", c, seasonKey)

	for _, e := range []Event{
		NewEvent(TopicGameRecorded, "s1", "g1", nil),
		NewEvent(TopicSeasonUpdated, "", "club-1", nil),
	} {
		msg, err := e.toMessage()
		require.NoError(t, err)
		require.NoError(t, h(msg))
	}
	require.NoError(t, h(message.NewMessage("bad", []byte("nope"))))

	prefixes, clears := c.snapshot()
	assert.Equal(t, []string{"season:s1:"}, prefixes)
	assert.Equal(t, 1, clears)
}

func TestBroadcastHandler(t *testing.T) {
	hub := &fakeHub{}
	h := BroadcastHandler("test", hub)

	e := NewEvent(TopicArticlePublished, "", "a1", map[string]string{"slug": "opening-night"})
	msg, err := e.toMessage()
	require.NoError(t, err)
	require.NoError(t, h(msg))

	require.Equal(t, []string{TopicArticlePublished}, hub.sent())
	sent, ok := hub.data[0].(Event)
	require.True(t, ok)
	assert.Equal(t, "a1", sent.ResourceID)

	data, err := json.Marshal(sent)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"slug":"opening-night"`)
}

func TestBus_PublishWithoutSubscriber(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), testLogger())
	defer func() { _ = bus.Close() }()

	assert.NoError(t, bus.Publish(context.Background(), NewEvent(TopicGameDeleted, "s1", "g1", nil)))
	assert.Error(t, bus.Publish(context.Background(), Event{ID: "x"}))
}

func TestBus_Closed(t *testing.T) {
	bus := NewBus(BusConfig{}, testLogger())
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), NewEvent(TopicGameDeleted, "s1", "g1", nil))
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), testLogger())
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Subscribe(ctx, TopicRankingPublished)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(logging.ContextWithRequestID(ctx, "req-1"), NewEvent(TopicRankingPublished, "s1", "r1", nil)))

	select {
	case msg := <-ch:
		msg.Ack()
		e, err := FromMessage(msg)
		require.NoError(t, err)
		assert.Equal(t, "r1", e.ResourceID)
		assert.Equal(t, "req-1", msg.Metadata.Get("request_id"))
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), testLogger())
	defer func() { _ = bus.Close() }()

	c := &fakeCache{}
	hub := &fakeHub{}
	r := NewRouter(fastConfig(), bus.Subscriber(), bus.Publisher(), testLogger())
	RegisterCacheInvalidation(r, c, seasonKey)
	RegisterBroadcast(r, hub)
	RegisterPoisonLog(r)

	assert.Contains(t, r.HandlerNames(), "cache-invalidate-game.recorded")
	assert.Contains(t, r.HandlerNames(), "ws-broadcast-article.published")
	assert.Contains(t, r.HandlerNames(), "poison-log")

	startRouter(t, r)
	assert.True(t, r.IsRunning())

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEvent(TopicGameRecorded, "s1", "g1", nil)))
	require.NoError(t, bus.Publish(ctx, NewEvent(TopicSeasonUpdated, "", "p1", nil)))
	require.NoError(t, bus.Publish(ctx, NewEvent(TopicArticlePublished, "", "a1", nil)))

	assert.Eventually(t, func() bool {
		prefixes, clears := c.snapshot()
		return len(prefixes) == 1 && clears == 1 && len(hub.sent()) == 3
	}, 5*time.Second, 10*time.Millisecond)

	prefixes, _ := c.snapshot()
	assert.Equal(t, []string{"season:s1:"}, prefixes)
	assert.ElementsMatch(t, []string{TopicGameRecorded, TopicSeasonUpdated, TopicArticlePublished}, hub.sent())
}

func TestRouter_PanicGoesToPoisonQueue(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), testLogger())
	defer func() { _ = bus.Close() }()

	r := NewRouter(fastConfig(), bus.Subscriber(), bus.Publisher(), testLogger())
	var mu sync.Mutex
	calls := 0
	r.AddConsumerHandler("explodes", TopicGameDeleted, func(*message.Message) error {
		mu.Lock()
		calls++
		mu.Unlock()
		panic("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poisoned, err := bus.Subscribe(ctx, TopicPoison)
	require.NoError(t, err)

	startRouter(t, r)
	require.NoError(t, bus.Publish(context.Background(), NewEvent(TopicGameDeleted, "s1", "g9", nil)))

	select {
	case msg := <-poisoned:
		msg.Ack()
		assert.Equal(t, "explodes", msg.Metadata.Get("handler_poisoned"))
		e, err := FromMessage(msg)
		require.NoError(t, err)
		assert.Equal(t, "g9", e.ResourceID)
	case <-time.After(5 * time.Second):
		t.Fatal("message never reached the poison queue")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls, "one attempt plus one retry")
}

func TestRouter_Restart(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), testLogger())
	defer func() { _ = bus.Close() }()

	hub := &fakeHub{}
	r := NewRouter(fastConfig(), bus.Subscriber(), nil, testLogger())
	RegisterBroadcast(r, hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()
	<-r.Running()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, r.IsRunning())

	startRouter(t, r)
	assert.Eventually(t, r.IsRunning, time.Second, 10*time.Millisecond)

	// The second router subscribes asynchronously; publish until it delivers.
	assert.Eventually(t, func() bool {
		_ = bus.Publish(context.Background(), NewEvent(TopicPlayoffUpdated, "s1", "p1", nil))
		return len(hub.sent()) > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "event-router", r.String())
}
