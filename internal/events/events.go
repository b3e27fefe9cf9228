// Package events publishes group lifecycle notifications for downstream consumers
// (notification fan-out, analytics). Publication is best effort.
package events

import (
	"context"
	"time"
)

type Type string

const (
	GroupCreated      Type = "group.created"
	GroupMemberJoined Type = "group.member_joined"
	GroupMemberLeft   Type = "group.member_left"
	GroupDeleted      Type = "group.deleted"
)

// GroupEvent is the JSON payload written to the events topic, keyed by GroupID.
type GroupEvent struct {
	Type        Type      `json:"type"`
	GroupID     string    `json:"groupId"`
	GameID      string    `json:"gameId"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status,omitempty"`
	MemberCount int       `json:"memberCount"`
	MaxMembers  int       `json:"maxMembers"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event GroupEvent) error
	Close() error
}

// NopPublisher drops every event. Used when Kafka is disabled or unreachable.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, GroupEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
