package push

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/danny15002/doubleb/internal/models"
	"github.com/danny15002/doubleb/internal/repository"
)

// Presence answers whether a principal already holds a connection joined
// to the room; reachable recipients get no out-of-band notification.
type Presence interface {
	IsUserInRoom(chatID uint, userID uint) bool
}

// Sender performs one provider-level push attempt for one subscription.
type Sender interface {
	Send(payload []byte, sub *models.PushSubscription) (statusCode int, err error)
}

// RecipientResult is the per-recipient accounting for one dispatch.
type RecipientResult struct {
	UserID uint
	Sent   int
	Failed int
	Pruned int
}

// Gateway routes message notifications through the per-recipient
// coalescer and dispatches flushed notifications over Web Push. Delivery
// failures never propagate to the sender; a gone/expired endpoint prunes
// that subscription.
type Gateway struct {
	subsRepo  repository.PushSubscriptionRepositoryInterface
	chatRepo  repository.ChatRepositoryInterface
	presence  Presence
	sender    Sender
	coalescer *Coalescer
	pending   *PendingStore
}

func NewGateway(
	subsRepo repository.PushSubscriptionRepositoryInterface,
	chatRepo repository.ChatRepositoryInterface,
	presence Presence,
	sender Sender,
	window time.Duration,
) *Gateway {
	g := &Gateway{
		subsRepo: subsRepo,
		chatRepo: chatRepo,
		presence: presence,
		sender:   sender,
		pending:  NewPendingStore(),
	}
	g.coalescer = NewCoalescer(window, func(userID uint, n Notification) {
		g.Dispatch(userID, n)
	})
	return g
}

// Pending exposes the undelivered-notification store for heartbeat drain.
func (g *Gateway) Pending() *PendingStore {
	return g.pending
}

// NotifyNewMessage enqueues a notification candidate for every chat
// member who is neither the sender nor present in the room.
func (g *Gateway) NotifyNewMessage(chat *models.Chat, message *models.Message) {
	memberIDs, err := g.chatRepo.GetMemberIDs(chat.ID)
	if err != nil {
		log.Printf("Error listing members of chat %d for push: %v", chat.ID, err)
		return
	}

	item := Item{
		ChatID:     chat.ID,
		MessageID:  message.ID,
		ChatName:   chat.Name,
		SenderName: message.Sender.DisplayName(),
		Preview:    Preview(message),
	}

	for _, userID := range memberIDs {
		if userID == message.SenderID {
			continue
		}
		if g.presence != nil && g.presence.IsUserInRoom(chat.ID, userID) {
			continue
		}
		g.coalescer.Add(userID, item)
	}
}

// NotifyChatEvent sends an immediate, unbatched notification. Reserved
// for chat created/deleted, where one event per recipient is the norm.
func (g *Gateway) NotifyChatEvent(chat *models.Chat, userIDs []uint, title, body string) {
	n := Notification{
		Title:  title,
		Body:   body,
		ChatID: chat.ID,
	}
	for _, userID := range userIDs {
		g.Dispatch(userID, n)
	}
}

// Dispatch sends one notification to every registered endpoint of one
// recipient, concurrently, one attempt each. No working endpoint means
// the notification is parked for the recipient's next heartbeat drain.
func (g *Gateway) Dispatch(userID uint, n Notification) RecipientResult {
	result := RecipientResult{UserID: userID}

	subs, err := g.subsRepo.ListForUser(userID)
	if err != nil {
		log.Printf("Error listing push subscriptions for user %d: %v", userID, err)
		g.pending.Record(userID, n)
		return result
	}
	if len(subs) == 0 {
		g.pending.Record(userID, n)
		return result
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("Error marshaling push payload for user %d: %v", userID, err)
		return result
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := range subs {
		sub := subs[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := g.sender.Send(payload, &sub)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				log.Printf("Push dispatch failed for user %d: %v", userID, err)
			case status == http.StatusNotFound || status == http.StatusGone:
				// Authoritative endpoint-gone signal: prune.
				result.Pruned++
				if err := g.subsRepo.DeleteEndpoint(sub.Endpoint); err != nil {
					log.Printf("Error pruning push subscription for user %d: %v", userID, err)
				}
			case status >= 400:
				result.Failed++
				log.Printf("Push provider rejected dispatch for user %d (status %d)", userID, status)
			default:
				result.Sent++
			}
		}()
	}
	wg.Wait()

	if result.Sent == 0 {
		g.pending.Record(userID, n)
	}
	return result
}

// Stop tears down the coalescer's timers.
func (g *Gateway) Stop() {
	g.coalescer.Stop()
}

// WebPushSender sends notifications through the Web Push protocol with
// VAPID authentication.
type WebPushSender struct {
	subscriber      string
	vapidPublicKey  string
	vapidPrivateKey string
	client          *http.Client
}

func NewWebPushSender(subscriber, vapidPublicKey, vapidPrivateKey string) *WebPushSender {
	return &WebPushSender{
		subscriber:      subscriber,
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WebPushSender) Send(payload []byte, sub *models.PushSubscription) (int, error) {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublicKey,
		VAPIDPrivateKey: s.vapidPrivateKey,
		TTL:             60,
		HTTPClient:      s.client,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
