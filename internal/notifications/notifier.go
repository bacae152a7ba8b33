// Package notifications publishes best-effort notifications over Redis.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"adotapet/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Notifier provides helpers to publish notifications into Redis channels.
// Every method is a no-op with a nil client.
type Notifier struct {
	rdb *redis.Client
}

// AdoptionRequestNotification is the payload delivered to a publication
// author when someone requests to adopt.
type AdoptionRequestNotification struct {
	RequestID      string `json:"requestId"`
	PublicationID  string `json:"publicationId"`
	RequesterName  string `json:"requesterName"`
	RequesterEmail string `json:"requesterEmail"`
	Message        string `json:"message"`
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel derives the Redis channel name for a user, keyed by email
// because adoption requests address the publication author's snapshot email.
func UserChannel(email string) string {
	return "notifications:user:" + email
}

// PublishAdoptionRequest notifies the publication author about a new request.
func (n *Notifier) PublishAdoptionRequest(ctx context.Context, authorEmail string, payload AdoptionRequestNotification) error {
	if n.rdb == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	err = n.rdb.Publish(ctx, UserChannel(authorEmail), string(b)).Err()
	if err != nil {
		middleware.NotificationsPublished.WithLabelValues("error").Inc()
		return err
	}
	middleware.NotificationsPublished.WithLabelValues("ok").Inc()
	return nil
}

// StartPatternSubscriber subscribes to `notifications:user:*` and calls
// onMessage for each incoming message. Used by delivery workers and tests.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
