// Package queue defines the activity events published to RabbitMQ after
// every committed write, the publisher that sends them and the consumer
// that appends them to a log file.
package queue

import (
	"time"
)

// Actions recorded in ActivityEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entities recorded in ActivityEvent.Entity.
const (
	EntityVenue  = "venue"
	EntityArtist = "artist"
	EntityShow   = "show"
	EntityAlbum  = "album"
	EntitySong   = "song"
)

// ActivityEvent describes one committed change. It carries enough for a
// consumer to log or notify without querying the database.
type ActivityEvent struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   uint64    `json:"entity_id"`
	Name       string    `json:"name,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Kind returns the routing style name, e.g. "venue.created".
func (e ActivityEvent) Kind() string { return e.Entity + "." + e.Action }
