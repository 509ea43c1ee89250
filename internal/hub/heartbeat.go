package hub

import (
	"log"

	"github.com/danny15002/doubleb/internal/service"
)

// handleHeartbeat runs the capability-refresh protocol for a client that
// regained the foreground (or fired its periodic defensive timer):
// re-assert room membership, drain the newest missed notification, and
// renew the push subscription when the client shipped rotated keys.
// Advisory and best-effort throughout: a failed step degrades to delayed
// notifications, never to data loss.
func (d *Dispatcher) handleHeartbeat(client *Client, p HeartbeatPayload) error {
	client.setState(StateRefreshing)
	defer client.setState(StateActive)

	if err := d.hub.JoinAll(client.ID); err != nil {
		log.Printf("Heartbeat room refresh failed for connection %s: %v", client.ID, err)
	}

	if d.presence != nil {
		// The online key carries a TTL sized to the pong timeout; each
		// heartbeat extends it so only genuinely dead connections expire.
		if err := d.presence.RefreshUserOnline(client.UserID); err != nil {
			log.Printf("Presence refresh failed for user %d: %v", client.UserID, err)
		}
	}

	if d.drainer != nil {
		// Only the most recent missed notification is replayed; the rest
		// are discarded. The durable message record is the source of
		// truth, not the notification queue.
		if payload, ok := d.drainer.DrainLatest(client.UserID); ok {
			if err := d.hub.SendToClient(client, service.EventNotificationDrain, payload); err != nil {
				log.Printf("Notification drain failed for connection %s: %v", client.ID, err)
			}
		}
	}

	if p.Subscription != nil && d.subscriptions != nil {
		sub := p.Subscription
		if err := d.subscriptions.Refresh(client.UserID, sub.Endpoint, sub.P256DH, sub.Auth); err != nil {
			log.Printf("Subscription refresh failed for user %d: %v", client.UserID, err)
		}
	}

	return nil
}
