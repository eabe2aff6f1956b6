package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/server"
	"github.com/desertthunder/vidx/internal/shared"
	tu "github.com/desertthunder/vidx/internal/testing"
)

type fixture struct {
	sb     *server.Sandbox
	client *Client
	alice  models.User
	bob    models.User
	video  models.Video
}

// newFixture starts a sandbox with two users and one of alice's videos, signed in as bob.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	sb := server.NewSandbox()
	f := &fixture{sb: sb}
	f.alice = sb.AddUser("alice", "Alice", "password")
	f.bob = sb.AddUser("bob", "Bob", "password")
	f.video = sb.AddVideo(f.alice.ID, "Intro to Go", "basics", 754)

	f.client = NewClient(tu.StartSandbox(t, sb), nil, nil)
	res := f.client.Auth.Login(context.Background(), models.Credentials{Username: "bob", Password: "password"})
	if !res.Success {
		t.Fatalf("login failed: %s", res.Error)
	}
	return f
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("Login Stores Session", func(t *testing.T) {
		f := newFixture(t)

		if !f.client.Auth.Authenticated() {
			t.Fatal("expected to be authenticated after login")
		}
		if f.client.Auth.UserID() != f.bob.ID {
			t.Errorf("expected user ID %s, got %s", f.bob.ID, f.client.Auth.UserID())
		}

		me := f.client.Auth.CurrentUser(ctx)
		if !me.Success || me.Data.Username != "bob" {
			t.Errorf("expected current user bob, got %+v", me)
		}
	})

	t.Run("Login Validation", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("should not be called"))
		auth := NewClient("http://example.com", &http.Client{Transport: rt}, nil).Auth

		res := auth.Login(ctx, models.Credentials{Password: "x"})
		if res.Kind != KindValidation || !errors.Is(res.Err(), shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials, got %+v", res)
		}

		res = auth.Login(ctx, models.Credentials{Username: "bob"})
		if res.Kind != KindValidation {
			t.Errorf("expected validation failure for missing password, got %+v", res)
		}

		if rt.Requests() != 0 {
			t.Errorf("expected no requests, got %d", rt.Requests())
		}
	})

	t.Run("Login Wrong Password", func(t *testing.T) {
		sb := server.NewSandbox()
		sb.AddUser("alice", "Alice", "password")
		client := NewClient(tu.StartSandbox(t, sb), nil, nil)

		res := client.Auth.Login(ctx, models.Credentials{Username: "alice", Password: "nope"})
		if res.Success || res.Error != "Invalid user credentials" {
			t.Errorf("expected server message, got %+v", res)
		}
		if client.Auth.Authenticated() {
			t.Error("expected no session after failed login")
		}
	})

	t.Run("Logout Clears Session", func(t *testing.T) {
		f := newFixture(t)

		if env := f.client.Auth.Logout(ctx); !env.Success {
			t.Fatalf("logout failed: %+v", env)
		}
		if f.client.Auth.Authenticated() {
			t.Error("expected session cleared")
		}
		if env := f.client.Auth.Logout(ctx); !errors.Is(env.Err(), shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated on second logout, got %v", env.Err())
		}
	})

	t.Run("Logout Clears Session When Request Fails", func(t *testing.T) {
		f := newFixture(t)
		f.sb.Fail("POST /users/logout", server.Fault{Status: http.StatusInternalServerError, Message: "boom"})

		env := f.client.Auth.Logout(ctx)
		if env.Success {
			t.Error("expected failed envelope")
		}
		if f.client.Auth.Authenticated() {
			t.Error("expected session cleared despite failure")
		}
	})

	t.Run("Revoked Token Signs Out", func(t *testing.T) {
		f := newFixture(t)
		f.sb.RevokeTokens(f.bob.ID)

		res := f.client.Auth.CurrentUser(ctx)
		if res.Status != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %+v", res)
		}
		if f.client.Auth.Authenticated() {
			t.Error("expected session to be cleared by 401")
		}
	})

	t.Run("ImportToken", func(t *testing.T) {
		sb := server.NewSandbox()
		alice := sb.AddUser("alice", "Alice", "password")
		token := sb.IssueToken(alice.ID)
		client := NewClient(tu.StartSandbox(t, sb), nil, nil)

		res := client.Auth.ImportToken(ctx, token)
		if !res.Success || res.Data.Username != "alice" {
			t.Fatalf("expected imported session for alice, got %+v", res)
		}

		res = client.Auth.ImportToken(ctx, "bogus")
		if res.Success || client.Auth.Authenticated() {
			t.Errorf("expected bogus token rejected and cleared, got %+v", res)
		}
	})

	t.Run("Channel And History", func(t *testing.T) {
		f := newFixture(t)

		ch := f.client.Auth.Channel(ctx, "@alice")
		if !ch.Success || ch.Data.ID != f.alice.ID {
			t.Fatalf("expected alice's channel, got %+v", ch)
		}

		missing := f.client.Auth.Channel(ctx, "nobody")
		if !errors.Is(missing.Err(), shared.ErrChannelNotFound) {
			t.Errorf("expected ErrChannelNotFound, got %v", missing.Err())
		}

		f.client.Videos.Get(ctx, f.video.ID)
		history := f.client.Auth.History(ctx)
		if !history.Success || len(history.Data) != 1 {
			t.Errorf("expected one video in history, got %+v", history)
		}
	})
}

func TestVideoService(t *testing.T) {
	ctx := context.Background()

	t.Run("List With Query", func(t *testing.T) {
		f := newFixture(t)
		f.sb.AddVideo(f.bob.ID, "Bread", "", 100)

		res := f.client.Videos.List(ctx, VideoQuery{Query: "go", Limit: 5})
		if !res.Success {
			t.Fatalf("list failed: %s", res.Error)
		}
		if res.Data.TotalDocs != 1 || res.Data.Docs[0].ID != f.video.ID {
			t.Errorf("expected only the Go video, got %+v", res.Data.Docs)
		}
	})

	t.Run("Explore Pagination", func(t *testing.T) {
		f := newFixture(t)
		for range 4 {
			f.sb.AddVideo(f.bob.ID, "Filler", "", 10)
		}

		first := f.client.Videos.Explore(ctx, 1, 3)
		if !first.Success || len(first.Data.Docs) != 3 || first.Data.Next() != 2 {
			t.Fatalf("unexpected first page %+v", first.Data)
		}
		second := f.client.Videos.Explore(ctx, 2, 3)
		if len(second.Data.Docs) != 2 || second.Data.HasNextPage {
			t.Errorf("unexpected last page %+v", second.Data)
		}
	})

	t.Run("Get", func(t *testing.T) {
		f := newFixture(t)

		res := f.client.Videos.Get(ctx, f.video.ID)
		if !res.Success || res.Data.Title != "Intro to Go" || res.Data.Owner.Username != "alice" {
			t.Errorf("unexpected video %+v", res)
		}

		missing := f.client.Videos.Get(ctx, "missing")
		if !errors.Is(missing.Err(), shared.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", missing.Err())
		}

		blank := f.client.Videos.Get(ctx, " ")
		if blank.Kind != KindValidation {
			t.Errorf("expected validation failure for blank id, got %+v", blank)
		}
	})

	t.Run("Suggestions", func(t *testing.T) {
		f := newFixture(t)

		res := f.client.Videos.Suggestions(ctx, "intro")
		if !res.Success || len(res.Data) != 1 || res.Data[0] != "Intro to Go" {
			t.Errorf("unexpected suggestions %+v", res)
		}

		empty := f.client.Videos.Suggestions(ctx, "  ")
		if !empty.Success || len(empty.Data) != 0 {
			t.Errorf("expected empty success for blank query, got %+v", empty)
		}
	})

	t.Run("Non-JSON Gateway Page", func(t *testing.T) {
		f := newFixture(t)
		f.sb.Fail("GET /videos/explore", server.Fault{Status: http.StatusOK, Body: "<html>maintenance</html>"})

		res := f.client.Videos.Explore(ctx, 1, 10)
		if res.Success || res.Kind != KindFormat {
			t.Errorf("expected invalid response format, got %+v", res)
		}
	})
}

func TestCommentService(t *testing.T) {
	ctx := context.Background()

	t.Run("Add Edit Delete", func(t *testing.T) {
		f := newFixture(t)

		added := f.client.Comments.Add(ctx, f.video.ID, "  nice video  ")
		if !added.Success || added.Data.Content != "nice video" {
			t.Fatalf("unexpected comment %+v", added)
		}

		edited := f.client.Comments.Update(ctx, added.Data.ID, "great video")
		if !edited.Success || edited.Data.Content != "great video" {
			t.Errorf("unexpected edit %+v", edited)
		}

		list := f.client.Comments.List(ctx, f.video.ID, 1, 10)
		if !list.Success || list.Data.TotalDocs != 1 {
			t.Errorf("expected one comment, got %+v", list.Data)
		}

		if env := f.client.Comments.Delete(ctx, added.Data.ID); !env.Success {
			t.Errorf("delete failed: %+v", env)
		}
		if env := f.client.Comments.Delete(ctx, added.Data.ID); !errors.Is(env.Err(), shared.ErrCommentNotFound) {
			t.Errorf("expected ErrCommentNotFound, got %v", env.Err())
		}
	})

	t.Run("Empty Content Rejected Locally", func(t *testing.T) {
		f := newFixture(t)

		res := f.client.Comments.Add(ctx, f.video.ID, "   ")
		if res.Kind != KindValidation || !errors.Is(res.Err(), shared.ErrInvalidInput) {
			t.Errorf("expected local validation failure, got %+v", res)
		}
		if calls := f.sb.Calls("POST /comments/{videoId}"); calls != 0 {
			t.Errorf("expected no request, got %d", calls)
		}
	})

	t.Run("Editing Another User's Comment", func(t *testing.T) {
		f := newFixture(t)
		c := f.sb.AddComment(f.video.ID, f.alice.ID, "mine")

		res := f.client.Comments.Update(ctx, c.ID, "hijacked")
		if res.Status != http.StatusForbidden || !errors.Is(res.Err(), shared.ErrAPIRequest) {
			t.Errorf("expected 403, got %+v", res)
		}
	})
}

func TestLikeService(t *testing.T) {
	ctx := context.Background()

	t.Run("Toggle Video", func(t *testing.T) {
		f := newFixture(t)

		on := f.client.Likes.ToggleVideo(ctx, f.video.ID)
		if !on.Success || !on.Data.IsLiked || on.Data.LikesCount != 1 {
			t.Errorf("expected liked, got %+v", on)
		}

		liked := f.client.Likes.LikedVideos(ctx)
		if !liked.Success || len(liked.Data) != 1 {
			t.Errorf("expected one liked video, got %+v", liked)
		}

		off := f.client.Likes.ToggleVideo(ctx, f.video.ID)
		if off.Data.IsLiked || off.Data.LikesCount != 0 {
			t.Errorf("expected unliked, got %+v", off)
		}
	})

	t.Run("Toggle Comment", func(t *testing.T) {
		f := newFixture(t)
		c := f.sb.AddComment(f.video.ID, f.alice.ID, "hello")

		res := f.client.Likes.ToggleComment(ctx, c.ID)
		if !res.Success || !res.Data.IsLiked {
			t.Errorf("expected comment liked, got %+v", res)
		}
	})

	t.Run("Unauthenticated Makes No Request", func(t *testing.T) {
		f := newFixture(t)
		f.client.Auth.Logout(ctx)

		res := f.client.Likes.ToggleVideo(ctx, f.video.ID)
		if !errors.Is(res.Err(), shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", res.Err())
		}
		if calls := f.sb.Calls("POST /likes/toggle/v/{videoId}"); calls != 0 {
			t.Errorf("expected no request, got %d", calls)
		}
	})
}

func TestSubscriptionService(t *testing.T) {
	ctx := context.Background()

	t.Run("Toggle", func(t *testing.T) {
		f := newFixture(t)

		res := f.client.Subscriptions.Toggle(ctx, f.alice.ID)
		if !res.Success || !res.Data.IsSubscribed || res.Data.SubscribersCount != 1 {
			t.Fatalf("expected subscribed, got %+v", res)
		}

		channels := f.client.Subscriptions.Channels(ctx)
		if !channels.Success || len(channels.Data) != 1 || channels.Data[0].Username != "alice" {
			t.Errorf("expected alice in subscriptions, got %+v", channels)
		}

		subs := f.client.Subscriptions.Subscribers(ctx, f.alice.ID)
		if !subs.Success || len(subs.Data) != 1 || subs.Data[0].Subscriber.Username != "bob" {
			t.Errorf("expected bob as subscriber, got %+v", subs)
		}
	})

	t.Run("Self Subscription Rejected Locally", func(t *testing.T) {
		f := newFixture(t)

		res := f.client.Subscriptions.Toggle(ctx, f.bob.ID)
		if !errors.Is(res.Err(), shared.ErrSelfAction) {
			t.Errorf("expected ErrSelfAction, got %v", res.Err())
		}
		if calls := f.sb.Calls("POST /subscriptions/c/{channelId}"); calls != 0 {
			t.Errorf("expected no request, got %d", calls)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	client := NewClient(tu.StartSandbox(t, server.NewSandbox()), nil, nil)

	res := client.API.HealthCheck(context.Background())
	if !res.Success || res.Data.Status != "OK" {
		t.Errorf("unexpected health %+v", res)
	}
}
