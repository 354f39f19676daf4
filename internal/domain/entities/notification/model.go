// Package notification provides the Notification entity: a message delivered to an applicant.
package notification

import (
	"context"
	"strings"
	"time"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

// Channel is the delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
)

// Notification is a message for one recipient.
type Notification struct {
	entity.Base
	entity.SoftDeletable

	RecipientID string     `db:"recipient_id" json:"recipientId"`
	Channel     Channel    `db:"channel" json:"channel"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	IsRead      bool       `db:"is_read" json:"isRead"`
	ReadAt      *time.Time `db:"read_at" json:"readAt"`
}

// Validate implements entity.Validatable interface.
func (n *Notification) Validate(ctx context.Context) error {
	if n.RecipientID == "" {
		return apperror.NewValidation("recipient is required").
			WithDetail("field", "recipientId")
	}
	switch n.Channel {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp:
	default:
		return apperror.NewValidation("unknown channel").
			WithDetail("field", "channel").
			WithDetail("value", n.Channel)
	}
	if strings.TrimSpace(n.Title) == "" {
		return apperror.NewValidation("title is required").
			WithDetail("field", "title")
	}
	if n.ReadAt != nil && !n.IsRead {
		return apperror.NewValidation("unread notification cannot have a read time").
			WithDetail("field", "readAt")
	}
	return nil
}

// Descriptor registers Notification with the query engine.
var Descriptor = domain.Descriptor{
	Name:  "notification",
	Table: "notifications",
	Filter: filter.Definition{
		Fields: []filter.FieldSpec{
			filter.String("recipientId", filter.Equals),
			filter.String("channel", filter.Equals, filter.In),
			filter.String("title"),
			filter.String("body", filter.Contains).FilterOnly(),
			filter.Boolean("isRead"),
			filter.Date("readAt"),
			filter.Date("createdAt"),
		},
		InternalFields: []string{entity.SoftDeleteField},
		DefaultFilter:  []filter.Item{{Field: entity.SoftDeleteField, Operator: filter.Equals, Value: false}},
		DefaultSort:    []filter.SortKey{{Field: "createdAt", Direction: filter.Desc}},
		MaxLimit:       50,
	},
	SoftDelete: true,
}
