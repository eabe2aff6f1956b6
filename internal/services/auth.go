package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// AuthService manages the signed-in session and the users endpoints.
type AuthService struct {
	api *APIService
}

func NewAuthService(api *APIService) *AuthService {
	return &AuthService{api: api}
}

// Authenticated reports whether a session token is present.
func (s *AuthService) Authenticated() bool {
	return s.api.tokens.Token() != ""
}

// UserID returns the signed-in user's ID, or an empty string.
func (s *AuthService) UserID() string {
	return s.api.tokens.Session().UserID
}

// Session returns the stored session.
func (s *AuthService) Session() models.Session {
	return s.api.tokens.Session()
}

// Login signs in and stores the returned access token.
//
// Calls POST /users/login.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) Result[models.Session] {
	if strings.TrimSpace(creds.Username) == "" && strings.TrimSpace(creds.Email) == "" {
		return failed[models.Session](localFailure(fmt.Errorf("%w: username or email", shared.ErrMissingCredentials)))
	}
	if creds.Password == "" {
		return failed[models.Session](localFailure(fmt.Errorf("%w: password", shared.ErrMissingCredentials)))
	}

	res := Decode[models.LoginResponse](s.api.Post(ctx, "/users/login", creds))
	if !res.Success {
		return failed[models.Session](res.Envelope())
	}
	if res.Data.AccessToken == "" {
		return failed[models.Session](failure(KindFormat, res.Status, "login response is missing an access token"))
	}

	session := models.Session{
		Token:    res.Data.AccessToken,
		UserID:   res.Data.User.ID,
		Username: res.Data.User.Username,
		Created:  time.Now(),
	}
	if err := s.api.tokens.SetSession(session); err != nil {
		return failed[models.Session](localFailure(fmt.Errorf("%w: failed to store session: %v", shared.ErrAuthFailed, err)))
	}

	return Result[models.Session]{Success: true, Status: res.Status, Data: session, Message: res.Message}
}

// ImportToken stores token as the session and resolves its user via GET /users/current-user.
//
// The session is cleared again when the token is rejected.
func (s *AuthService) ImportToken(ctx context.Context, token string) Result[models.Session] {
	token = strings.TrimSpace(token)
	if token == "" {
		return failed[models.Session](localFailure(fmt.Errorf("%w: empty token", shared.ErrMissingCredentials)))
	}

	if err := s.api.tokens.SetSession(models.Session{Token: token, Created: time.Now()}); err != nil {
		return failed[models.Session](localFailure(fmt.Errorf("%w: failed to store session: %v", shared.ErrAuthFailed, err)))
	}

	user := s.CurrentUser(ctx)
	if !user.Success {
		_ = s.api.tokens.Clear()
		return failed[models.Session](user.Envelope())
	}

	session := models.Session{Token: token, UserID: user.Data.ID, Username: user.Data.Username, Created: time.Now()}
	if err := s.api.tokens.SetSession(session); err != nil {
		return failed[models.Session](localFailure(fmt.Errorf("%w: failed to store session: %v", shared.ErrAuthFailed, err)))
	}
	return Result[models.Session]{Success: true, Status: user.Status, Data: session}
}

// Logout calls POST /users/logout and clears the local session even when the request fails.
func (s *AuthService) Logout(ctx context.Context) Envelope {
	if !s.Authenticated() {
		return localFailure(shared.ErrNotAuthenticated)
	}

	env := s.api.Post(ctx, "/users/logout", nil)
	if err := s.api.tokens.Clear(); err != nil {
		return localFailure(fmt.Errorf("failed to clear session: %w", err))
	}
	return env
}

// CurrentUser calls GET /users/current-user.
func (s *AuthService) CurrentUser(ctx context.Context) Result[models.User] {
	if !s.Authenticated() {
		return failed[models.User](localFailure(shared.ErrNotAuthenticated))
	}
	return Decode[models.User](s.api.Get(ctx, "/users/current-user", nil))
}

// Channel calls GET /users/c/{username}.
func (s *AuthService) Channel(ctx context.Context, username string) Result[models.Channel] {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return failed[models.Channel](localFailure(fmt.Errorf("%w: username", shared.ErrMissingArgument)))
	}
	return notFound(Decode[models.Channel](s.api.Get(ctx, "/users/c/"+url.PathEscape(username), nil)), shared.ErrChannelNotFound, username)
}

// History calls GET /users/history.
func (s *AuthService) History(ctx context.Context) Result[[]models.Video] {
	if !s.Authenticated() {
		return failed[[]models.Video](localFailure(shared.ErrNotAuthenticated))
	}
	return Decode[[]models.Video](s.api.Get(ctx, "/users/history", nil))
}
