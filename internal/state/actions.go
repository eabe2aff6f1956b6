package state

import (
	"context"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
)

// VideoLike returns an [Action] that toggles the like on a video.
func VideoLike(likes *services.LikeService, videoID string) Action {
	return func(ctx context.Context) (Status, error) {
		res := likes.ToggleVideo(ctx, videoID)
		return Status{Active: res.Data.IsLiked, Count: res.Data.LikesCount}, res.Err()
	}
}

// CommentLike returns an [Action] that toggles the like on a comment.
func CommentLike(likes *services.LikeService, commentID string) Action {
	return func(ctx context.Context) (Status, error) {
		res := likes.ToggleComment(ctx, commentID)
		return Status{Active: res.Data.IsLiked, Count: res.Data.LikesCount}, res.Err()
	}
}

// ChannelSubscription returns an [Action] that toggles the subscription to a channel.
func ChannelSubscription(subs *services.SubscriptionService, channelID string) Action {
	return func(ctx context.Context) (Status, error) {
		res := subs.Toggle(ctx, channelID)
		return Status{Active: res.Data.IsSubscribed, Count: res.Data.SubscribersCount}, res.Err()
	}
}

// NewVideoLikeToggle builds the like toggle for v.
func NewVideoLikeToggle(client *services.Client, n Notifier, v models.Video) *Toggle {
	return NewToggle(client.Auth, n, VideoLike(client.Likes, v.ID), Status{Active: v.IsLiked, Count: v.LikesCount})
}

// NewSubscribeToggle builds the subscribe toggle for ch, guarded against subscribing to oneself.
func NewSubscribeToggle(client *services.Client, n Notifier, ch models.Channel) *Toggle {
	t := NewToggle(client.Auth, n, ChannelSubscription(client.Subscriptions, ch.ID), Status{Active: ch.IsSubscribed, Count: ch.SubscribersCount})
	return t.GuardSelf(ch.ID)
}

// PageFetcher adapts a paginated service call to a [Fetcher].
func PageFetcher[T any](call func(ctx context.Context, page int) services.Result[models.Page[T]]) Fetcher[T] {
	return func(ctx context.Context, page int) (models.Page[T], error) {
		return call(ctx, page).Unwrap()
	}
}
