// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics published by the league service.
const (
	TopicGameRecorded     = "game.recorded"
	TopicGameDeleted      = "game.deleted"
	TopicPlayoffUpdated   = "playoff.updated"
	TopicSeasonUpdated    = "season.updated"
	TopicRankingPublished = "ranking.published"
	TopicArticlePublished = "article.published"
)

// Topics lists every topic in publication order of the constants above.
func Topics() []string {
	return []string{
		TopicGameRecorded,
		TopicGameDeleted,
		TopicPlayoffUpdated,
		TopicSeasonUpdated,
		TopicRankingPublished,
		TopicArticlePublished,
	}
}

// Metadata keys set on every watermill message.
const (
	MetadataTopic    = "topic"
	MetadataSeasonID = "season_id"
)

// Event is a domain event. SeasonID is empty for changes that are not tied
// to one season.
type Event struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	SeasonID   string          `json:"season_id,omitempty"`
	ResourceID string          `json:"resource_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	At         time.Time       `json:"at"`
}

// NewEvent builds an event with a fresh ID. payload is encoded immediately;
// a nil payload or one that cannot be encoded is left out.
func NewEvent(topic, seasonID, resourceID string, payload interface{}) Event {
	e := Event{
		ID:         uuid.NewString(),
		Topic:      topic,
		SeasonID:   seasonID,
		ResourceID: resourceID,
		At:         time.Now().UTC(),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			e.Payload = raw
		}
	}
	return e
}

// toMessage encodes e as a watermill message carrying the event ID as UUID.
func (e Event) toMessage() (*message.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.Topic, err)
	}
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	msg := message.NewMessage(id, data)
	msg.Metadata.Set(MetadataTopic, e.Topic)
	msg.Metadata.Set(MetadataSeasonID, e.SeasonID)
	return msg, nil
}

// FromMessage decodes an event published by Bus.
func FromMessage(msg *message.Message) (Event, error) {
	var e Event
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return Event{}, fmt.Errorf("decode event %s: %w", msg.UUID, err)
	}
	if e.Topic == "" {
		e.Topic = msg.Metadata.Get(MetadataTopic)
	}
	return e, nil
}
