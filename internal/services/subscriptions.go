package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// SubscriptionService wraps the subscriptions endpoints.
type SubscriptionService struct {
	api *APIService
}

func NewSubscriptionService(api *APIService) *SubscriptionService {
	return &SubscriptionService{api: api}
}

// Toggle calls POST /subscriptions/c/{channelId}.
//
// Subscribing to the signed-in user's own channel is rejected without a request.
func (s *SubscriptionService) Toggle(ctx context.Context, channelID string) Result[models.SubscriptionStatus] {
	session := s.api.tokens.Session()
	if session.Token == "" {
		return failed[models.SubscriptionStatus](localFailure(shared.ErrNotAuthenticated))
	}
	if strings.TrimSpace(channelID) == "" {
		return failed[models.SubscriptionStatus](localFailure(fmt.Errorf("%w: channel id", shared.ErrMissingArgument)))
	}
	if session.UserID != "" && session.UserID == channelID {
		return failed[models.SubscriptionStatus](localFailure(shared.ErrSelfAction))
	}
	return Decode[models.SubscriptionStatus](s.api.Post(ctx, "/subscriptions/c/"+url.PathEscape(channelID), nil))
}

// Subscribers calls GET /subscriptions/c/{channelId}.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) Result[[]models.Subscription] {
	if strings.TrimSpace(channelID) == "" {
		return failed[[]models.Subscription](localFailure(fmt.Errorf("%w: channel id", shared.ErrMissingArgument)))
	}
	return Decode[[]models.Subscription](s.api.Get(ctx, "/subscriptions/c/"+url.PathEscape(channelID), nil))
}

// Channels calls GET /subscriptions/channels, the channels the signed-in user follows.
func (s *SubscriptionService) Channels(ctx context.Context) Result[[]models.Channel] {
	if s.api.tokens.Token() == "" {
		return failed[[]models.Channel](localFailure(shared.ErrNotAuthenticated))
	}
	return Decode[[]models.Channel](s.api.Get(ctx, "/subscriptions/channels", nil))
}
