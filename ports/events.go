package ports

import "context"

// EventPublisher notifies other processes about authentication changes
type EventPublisher interface {
	PublishSignedIn(ctx context.Context, address string, userID string) error
	PublishSignedOut(ctx context.Context, address string, reason string) error
}
