// Package events carries change notifications between the offence repository
// and its subscribers over an in-process pub/sub. Repository mutations emit a
// Change; the dashboard recorder subscribes and recomputes its aggregates.
package events

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	log "github.com/sirupsen/logrus"
)

// TopicOffences is the topic on which repository changes are published.
const TopicOffences = "offences.changed"

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionPaid    = "paid"
)

// Change describes a repository mutation.
type Change struct {
	Action    string `json:"action"`
	OffenceID string `json:"offenceId"`
}

// NewPubSub creates an in-memory pub/sub for change notifications.
func NewPubSub(logger *log.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, NewLoggerAdapter(logger))
}

// PublishChange publishes a Change on the offences topic.
func PublishChange(publisher message.Publisher, action, offenceID string) error {
	payload, err := json.Marshal(Change{Action: action, OffenceID: offenceID})
	if err != nil {
		return err
	}
	return publisher.Publish(TopicOffences, message.NewMessage(watermill.NewUUID(), payload))
}
