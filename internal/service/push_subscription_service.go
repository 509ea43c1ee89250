package service

import (
	"fmt"

	"github.com/danny15002/doubleb/internal/models"
	"github.com/danny15002/doubleb/internal/repository"
)

// PushSubscriptionService manages a principal's registered push
// endpoints. Subscribe and Refresh are the same idempotent upsert, so
// concurrent duplicate opt-ins and key rotations are both safe.
type PushSubscriptionService struct {
	subsRepo repository.PushSubscriptionRepositoryInterface
}

func NewPushSubscriptionService(subsRepo repository.PushSubscriptionRepositoryInterface) *PushSubscriptionService {
	return &PushSubscriptionService{subsRepo: subsRepo}
}

type SubscribeInput struct {
	Endpoint string `json:"endpoint"`
	P256DH   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

func (s *PushSubscriptionService) Subscribe(userID uint, input SubscribeInput) error {
	if input.Endpoint == "" || input.P256DH == "" || input.Auth == "" {
		return fmt.Errorf("%w: endpoint and keys are required", ErrValidation)
	}
	return s.subsRepo.Upsert(&models.PushSubscription{
		UserID:   userID,
		Endpoint: input.Endpoint,
		P256DH:   input.P256DH,
		Auth:     input.Auth,
	})
}

func (s *PushSubscriptionService) Unsubscribe(userID uint, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", ErrValidation)
	}
	return s.subsRepo.DeleteByEndpoint(userID, endpoint)
}

// Refresh renews key material during the heartbeat protocol.
func (s *PushSubscriptionService) Refresh(userID uint, endpoint, p256dh, auth string) error {
	return s.Subscribe(userID, SubscribeInput{Endpoint: endpoint, P256DH: p256dh, Auth: auth})
}
