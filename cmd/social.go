package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/state"
	"github.com/urfave/cli/v3"
)

// toggleOutcome is the JSON form of a resolved toggle.
type toggleOutcome struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
	Count  int    `json:"count"`
}

func (r *Runner) notifier() state.Notifier {
	return state.LogNotifier{Logger: r.logger}
}

// LikeVideo toggles the like on a video, starting from its current state.
func (r *Runner) LikeVideo(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}
	if !r.client.Auth.Authenticated() {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, state.LoginPrompt)
	}

	v, err := r.client.Videos.Get(ctx, id).Unwrap()
	if err != nil {
		return err
	}

	status, err := state.NewVideoLikeToggle(r.client, r.notifier(), v).Invoke(ctx)
	if err != nil {
		return err
	}

	return r.writeResult(cmd, toggleOutcome{ID: id, Active: status.Active, Count: status.Count}, func() error {
		verb := "Unliked"
		if status.Active {
			verb = "Liked"
		}
		return r.writePlain("✓ %s \"%s\" · %d likes\n", verb, v.Title, status.Count)
	})
}

// LikeComment toggles the like on a comment. The server's reply is the only source of its state.
func (r *Runner) LikeComment(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: comment id", shared.ErrMissingArgument)
	}

	toggle := state.NewToggle(r.client.Auth, r.notifier(), state.CommentLike(r.client.Likes, id), state.Status{})
	status, err := toggle.Invoke(ctx)
	if err != nil {
		return err
	}

	return r.writeResult(cmd, toggleOutcome{ID: id, Active: status.Active, Count: status.Count}, func() error {
		verb := "Unliked"
		if status.Active {
			verb = "Liked"
		}
		return r.writePlain("✓ %s comment · %d likes\n", verb, status.Count)
	})
}

// SubscribeToggle subscribes to or unsubscribes from a channel.
func (r *Runner) SubscribeToggle(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}
	if !r.client.Auth.Authenticated() {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, state.LoginPrompt)
	}

	ch, err := r.client.Auth.Channel(ctx, username).Unwrap()
	if err != nil {
		return err
	}

	status, err := state.NewSubscribeToggle(r.client, r.notifier(), ch).Invoke(ctx)
	if err != nil {
		return err
	}

	return r.writeResult(cmd, toggleOutcome{ID: ch.ID, Active: status.Active, Count: status.Count}, func() error {
		verb := "Unsubscribed from"
		if status.Active {
			verb = "Subscribed to"
		}
		return r.writePlain("✓ %s @%s · %d subscribers\n", verb, ch.Username, status.Count)
	})
}

// SubscribeChannels lists the channels the signed-in user subscribes to.
func (r *Runner) SubscribeChannels(ctx context.Context, cmd *cli.Command) error {
	channels, err := r.client.Subscriptions.Channels(ctx).Unwrap()
	if err != nil {
		return err
	}

	return r.writeResult(cmd, channels, func() error {
		r.writePlainHeader(fmt.Sprintf("Subscriptions (%d)", len(channels)))
		for _, ch := range channels {
			r.writePlain("@%-20s %s · %d subscribers\n", ch.Username, ch.FullName, ch.SubscribersCount)
		}
		return nil
	})
}

// SubscribeSubscribers lists a channel's subscribers.
func (r *Runner) SubscribeSubscribers(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	ch, err := r.client.Auth.Channel(ctx, username).Unwrap()
	if err != nil {
		return err
	}

	subs, err := r.client.Subscriptions.Subscribers(ctx, ch.ID).Unwrap()
	if err != nil {
		return err
	}

	return r.writeResult(cmd, subs, func() error {
		r.writePlainHeader(fmt.Sprintf("Subscribers of @%s (%d)", ch.Username, len(subs)))
		for _, s := range subs {
			r.writePlain("@%-20s since %s\n", s.Subscriber.Username, formatter.Age(s.CreatedAt))
		}
		return nil
	})
}

// Search prints title suggestions for a query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	titles, err := r.engine.Suggest(ctx, query)
	if err != nil {
		return err
	}

	return r.writeResult(cmd, titles, func() error {
		if len(titles) == 0 {
			return r.writePlain("No suggestions for %q\n", query)
		}
		for _, t := range titles {
			r.writePlain("%s\n", t)
		}
		return nil
	})
}
