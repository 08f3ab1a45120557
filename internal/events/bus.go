// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/metrics"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// BusConfig configures the in-process pub/sub.
type BusConfig struct {
	// OutputBuffer is each subscriber's channel buffer.
	OutputBuffer int64
}

// DefaultBusConfig returns the defaults used by the server.
func DefaultBusConfig() BusConfig {
	return BusConfig{OutputBuffer: 256}
}

// Bus publishes events on an in-memory watermill gochannel. Messages published
// while a topic has no subscriber are dropped.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
	closed atomic.Bool
}

// NewBus creates a bus. A nil logger uses the zerolog adapter.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = logging.NewWatermillLogger()
	}
	if cfg.OutputBuffer <= 0 {
		cfg.OutputBuffer = DefaultBusConfig().OutputBuffer
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.OutputBuffer,
		}, logger),
		logger: logger,
	}
}

// Publish sends e on its topic.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	if e.Topic == "" {
		return fmt.Errorf("publish event %s: empty topic", e.ID)
	}
	msg, err := e.toMessage()
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	if rid := logging.RequestIDFromContext(ctx); rid != "" {
		msg.Metadata.Set("request_id", rid)
	}
	if err := b.pubsub.Publish(e.Topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Topic, err)
	}
	metrics.RecordEventPublished(e.Topic)
	return nil
}

// Subscriber returns the subscriber side for the router.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Publisher returns the raw publisher, used for the poison queue.
func (b *Bus) Publisher() message.Publisher {
	return b.pubsub
}

// Subscribe returns a raw channel for topic. The subscription ends with ctx.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts down the pub/sub. Publish fails afterwards.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.pubsub.Close()
}
