package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrNoMigrations  = fmt.Errorf("no migrations to rollback")

	// Authentication errors
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrTokenExpired       = fmt.Errorf("session token expired")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrInvalidResponse    = fmt.Errorf("invalid response format")
	ErrVideoNotFound      = fmt.Errorf("video not found")
	ErrCommentNotFound    = fmt.Errorf("comment not found")
	ErrChannelNotFound    = fmt.Errorf("channel not found")

	// Local action errors
	ErrSelfAction = fmt.Errorf("cannot perform this action on your own channel")
	ErrBusy       = fmt.Errorf("action already in progress")
	ErrSuperseded = fmt.Errorf("superseded by a newer request")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
