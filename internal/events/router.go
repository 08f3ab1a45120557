// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/rinkside/internal/logging"
)

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// PoisonQueueTopic receives messages that still fail after every retry.
	// Empty disables the poison queue.
	PoisonQueueTopic string
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		RetryMultiplier:      2.0,
		PoisonQueueTopic:     TopicPoison,
	}
}

// TopicPoison receives events whose handlers failed every retry.
const TopicPoison = "events.poison"

type registration struct {
	name    string
	topic   string
	handler message.NoPublishHandlerFunc
}

// Router dispatches bus messages to registered handlers through a watermill
// message.Router with panic recovery and exponential-backoff retry. Handlers
// must be registered before Serve.
type Router struct {
	config     RouterConfig
	subscriber message.Subscriber
	poisonPub  message.Publisher
	logger     watermill.LoggerAdapter

	mu        sync.Mutex
	handlers  []registration
	running   atomic.Bool
	ready     chan struct{}
	readyOnce sync.Once
}

// NewRouter creates a router reading from subscriber. Failed messages go to
// poisonPublisher when it is non-nil. A nil cfg uses DefaultRouterConfig and
// a nil logger the zerolog adapter.
func NewRouter(cfg *RouterConfig, subscriber message.Subscriber, poisonPublisher message.Publisher, logger watermill.LoggerAdapter) *Router {
	if logger == nil {
		logger = logging.NewWatermillLogger()
	}
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}
	return &Router{
		config:     *cfg,
		subscriber: subscriber,
		poisonPub:  poisonPublisher,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// AddConsumerHandler registers a handler that doesn't produce output messages.
// name must be unique.
func (r *Router) AddConsumerHandler(name, topic string, handler message.NoPublishHandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, registration{name: name, topic: topic, handler: handler})
}

// HandlerNames returns registered handler names in registration order.
func (r *Router) HandlerNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.handlers))
	for i, h := range r.handlers {
		names[i] = h.name
	}
	return names
}

// build creates the watermill router with middleware in order (outer to inner):
//  1. Poison Queue - acks messages that exhausted retries by moving them aside
//  2. Retry - exponential backoff for transient failures
//  3. Recoverer - converts handler panics to errors
//
// Without the poison queue a nacked gochannel message is redelivered forever.
func (r *Router) build() (*message.Router, error) {
	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: r.config.CloseTimeout,
	}, r.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	if r.poisonPub != nil && r.config.PoisonQueueTopic != "" {
		poisonQueue, err := middleware.PoisonQueue(r.poisonPub, r.config.PoisonQueueTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poisonQueue)
	}

	retryMiddleware := middleware.Retry{
		MaxRetries:      r.config.RetryMaxRetries,
		InitialInterval: r.config.RetryInitialInterval,
		MaxInterval:     r.config.RetryMaxInterval,
		Multiplier:      r.config.RetryMultiplier,
		Logger:          r.logger,
	}
	wmRouter.AddMiddleware(retryMiddleware.Middleware)

	wmRouter.AddMiddleware(middleware.Recoverer)

	r.mu.Lock()
	for _, h := range r.handlers {
		wmRouter.AddConsumerHandler(h.name, h.topic, r.subscriber, h.handler)
	}
	r.mu.Unlock()

	return wmRouter, nil
}

// Serve runs the router until ctx is canceled. It implements suture.Service;
// each call builds a new watermill router so a restarted service resubscribes.
func (r *Router) Serve(ctx context.Context) error {
	wmRouter, err := r.build()
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-wmRouter.Running():
			r.readyOnce.Do(func() { close(r.ready) })
		case <-ctx.Done():
		}
	}()

	r.running.Store(true)
	defer r.running.Store(false)

	logging.Info().Str("component", "event-router").Int("handlers", len(r.HandlerNames())).Msg("Event router started")
	err = wmRouter.Run(ctx)
	if ctx.Err() != nil {
		logging.Info().Str("component", "event-router").Msg("Event router stopped")
		return ctx.Err()
	}
	return err
}

// Running returns a channel that closes the first time a router started by
// Serve is subscribed and processing.
func (r *Router) Running() <-chan struct{} {
	return r.ready
}

// IsRunning returns whether the router is currently processing messages.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// String implements fmt.Stringer for suture logs.
func (r *Router) String() string {
	return "event-router"
}
