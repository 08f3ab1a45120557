// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package events

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/metrics"
)

// Invalidator removes cached views. *cache.Cache implements it.
type Invalidator interface {
	DeletePrefix(prefix string) int
	Clear()
}

// Broadcaster fans a message out to connected clients. *websocket.Hub
// implements it.
type Broadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}

// invalidatingTopics are the topics that change derived season views.
var invalidatingTopics = []string{
	TopicGameRecorded,
	TopicGameDeleted,
	TopicPlayoffUpdated,
	TopicSeasonUpdated,
}

// RegisterCacheInvalidation adds one handler per view-changing topic. Each
// drops the views under keyFor(event.SeasonID), or clears the whole cache
// when the event has no season.
func RegisterCacheInvalidation(r *Router, c Invalidator, keyFor func(seasonID string) string) {
	for _, topic := range invalidatingTopics {
		name := "cache-invalidate-" + topic
		r.AddConsumerHandler(name, topic, CacheInvalidationHandler(name, c, keyFor))
	}
}

// CacheInvalidationHandler returns the handler used by RegisterCacheInvalidation.
func CacheInvalidationHandler(name string, c Invalidator, keyFor func(seasonID string) string) message.NoPublishHandlerFunc {
	log := logging.WithComponent("events")
	return func(msg *message.Message) error {
		e, err := FromMessage(msg)
		if err != nil {
			// A message that cannot be decoded will never succeed; drop it.
			log.Warn().Err(err).Str("handler", name).Msg("Dropping undecodable event")
			metrics.RecordEventHandled(name, err)
			return nil
		}

		if e.SeasonID == "" {
			c.Clear()
			log.Debug().Str("topic", e.Topic).Str("resource_id", e.ResourceID).Msg("Cleared view cache")
		} else {
			n := c.DeletePrefix(keyFor(e.SeasonID))
			log.Debug().Str("topic", e.Topic).Str("season_id", e.SeasonID).Int("removed", n).Msg("Invalidated season views")
		}
		metrics.RecordEventHandled(name, nil)
		return nil
	}
}

// RegisterBroadcast forwards every topic to websocket clients.
func RegisterBroadcast(r *Router, b Broadcaster) {
	for _, topic := range Topics() {
		name := "ws-broadcast-" + topic
		r.AddConsumerHandler(name, topic, BroadcastHandler(name, b))
	}
}

// BroadcastHandler returns the handler used by RegisterBroadcast. The message
// type sent to clients is the event topic.
func BroadcastHandler(name string, b Broadcaster) message.NoPublishHandlerFunc {
	log := logging.WithComponent("events")
	return func(msg *message.Message) error {
		e, err := FromMessage(msg)
		if err != nil {
			log.Warn().Err(err).Str("handler", name).Msg("Dropping undecodable event")
			metrics.RecordEventHandled(name, err)
			return nil
		}
		b.BroadcastJSON(e.Topic, e)
		metrics.RecordEventHandled(name, nil)
		return nil
	}
}

// RegisterPoisonLog logs messages moved to the poison queue.
func RegisterPoisonLog(r *Router) {
	if r.config.PoisonQueueTopic == "" {
		return
	}
	log := logging.WithComponent("events")
	r.AddConsumerHandler("poison-log", r.config.PoisonQueueTopic, func(msg *message.Message) error {
		log.Error().
			Str("message_id", msg.UUID).
			Str("topic", msg.Metadata.Get(MetadataTopic)).
			Str("handler", msg.Metadata.Get(middleware.PoisonedHandlerKey)).
			Str("reason", msg.Metadata.Get(middleware.ReasonForPoisonedKey)).
			Msg("Event handler failed after retries")
		return nil
	})
}
