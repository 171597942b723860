package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	TopicSignedIn  = "web3tr.auth.signed_in"
	TopicSignedOut = "web3tr.auth.signed_out"
)

// AuthEvent is the payload of sign-in and sign-out messages
type AuthEvent struct {
	Address string    `json:"address"`
	UserID  string    `json:"user_id,omitempty"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishSignedIn publishes a sign-in event
func (p *WatermillPublisher) PublishSignedIn(ctx context.Context, address string, userID string) error {
	return p.publish(ctx, TopicSignedIn, AuthEvent{Address: address, UserID: userID, At: time.Now().UTC()})
}

// PublishSignedOut publishes a sign-out event
func (p *WatermillPublisher) PublishSignedOut(ctx context.Context, address string, reason string) error {
	return p.publish(ctx, TopicSignedOut, AuthEvent{Address: address, Reason: reason, At: time.Now().UTC()})
}

func (p *WatermillPublisher) publish(ctx context.Context, topic string, event AuthEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
