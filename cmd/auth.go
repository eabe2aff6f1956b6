package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with credentials, or imports a token given directly or inside a cURL command.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	token, err := r.importedToken(cmd)
	if err != nil {
		return err
	}

	if token != "" {
		r.logger.Info("importing access token")
		session, err := r.client.Auth.ImportToken(ctx, token).Unwrap()
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		r.logger.Info("token imported", "user", session.Username)
		return r.writePlain("✓ Signed in as @%s\n", session.Username)
	}

	creds := models.Credentials{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}
	if creds.Username == "" && creds.Email == "" {
		return fmt.Errorf("%w: --username, --email, --token or --curl is required", shared.ErrMissingArgument)
	}

	r.logger.Info("signing in", "username", creds.Username, "email", creds.Email)

	session, err := r.client.Auth.Login(ctx, creds).Unwrap()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.logger.Info("authentication successful", "user", session.Username)
	return r.writePlain("✓ Signed in as @%s\n", session.Username)
}

// importedToken returns the token from --token, --curl or --curl-file, or "" when none was given.
func (r *Runner) importedToken(cmd *cli.Command) (string, error) {
	token := cmd.String("token")
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	given := 0
	for _, v := range []string{token, curlCmd, curlFile} {
		if v != "" {
			given++
		}
	}
	if given > 1 {
		return "", fmt.Errorf("%w: use only one of --token, --curl and --curl-file", shared.ErrInvalidArgument)
	}
	if token != "" || given == 0 {
		return token, nil
	}

	var headers *shared.CurlHeaders
	var err error
	if curlFile != "" {
		if headers, err = shared.ParseCurlFile(curlFile); err != nil {
			return "", fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		if headers, err = shared.ParseCurlCommand(curlCmd); err != nil {
			return "", fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	return headers.SessionToken()
}

// AuthLogout signs out and clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	username := r.client.Auth.Session().Username

	env := r.client.Auth.Logout(ctx)
	if err := env.Err(); err != nil {
		if !r.client.Auth.Authenticated() && username != "" {
			r.logger.Warn("logout request failed, local session cleared", "error", err)
			return r.writePlain("✓ Signed out @%s (server did not confirm)\n", username)
		}
		return err
	}

	r.logger.Info("signed out", "user", username)
	return r.writePlain("✓ Signed out @%s\n", username)
}

// AuthStatus checks API health and reports the stored session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	health, err := r.client.API.HealthCheck(ctx).Unwrap()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("✓ API is healthy\n")
	r.writePlain("Endpoint: %s\n", r.client.API.BaseURL())
	r.writePlain("Status: %s\n", health.Status)

	session := r.client.Auth.Session()
	if !session.Valid() {
		return r.writePlain("Authentication: ✗ Not signed in\n")
	}

	r.writePlain("Authentication: ✓ Signed in as @%s\n", session.Username)
	if !session.Created.IsZero() {
		r.writePlain("Since: %s\n", formatter.Age(session.Created))
	}
	return nil
}

// AuthWhoami shows the signed-in user's profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	user, err := r.client.Auth.CurrentUser(ctx).Unwrap()
	if err != nil {
		return err
	}

	return r.writeResult(cmd, user, func() error {
		r.writePlainHeader(fmt.Sprintf("%s (@%s)", user.FullName, user.Username))
		r.writePlain("ID: %s\n", user.ID)
		if user.Email != "" {
			r.writePlain("Email: %s\n", user.Email)
		}
		if !user.CreatedAt.IsZero() {
			r.writePlain("Joined: %s\n", formatter.Age(user.CreatedAt))
		}
		return nil
	})
}

// Channel shows a channel profile and its latest uploads.
func (r *Runner) Channel(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	ch, err := r.client.Auth.Channel(ctx, username).Unwrap()
	if err != nil {
		return err
	}

	return r.writeResult(cmd, ch, func() error {
		r.writePlainHeader(fmt.Sprintf("%s (@%s)", ch.FullName, ch.Username))
		r.writePlain("Subscribers: %d\n", ch.SubscribersCount)
		r.writePlain("Subscribed to: %d\n", ch.ChannelsSubscribedTo)
		if r.client.Auth.Authenticated() {
			if ch.IsSubscribed {
				r.writePlain("You are subscribed\n")
			} else {
				r.writePlain("You are not subscribed\n")
			}
		}

		page, err := r.client.Videos.List(ctx, videoQuery(1, r.config.UI.PageSize, "", ch.ID)).Unwrap()
		if err != nil {
			r.logger.Warn("failed to fetch channel videos", "error", err)
			return nil
		}
		r.writePlainln("Latest uploads (%d total)", page.TotalDocs)
		return r.writePlain("%s", formatter.VideoTable(page.Docs))
	})
}
