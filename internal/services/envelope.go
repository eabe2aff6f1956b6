package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/vidx/internal/shared"
)

// ErrorKind classifies why a request did not succeed.
type ErrorKind int

const (
	KindNone       ErrorKind = iota
	KindTransport            // network failure, cancelled context, rate limiter wait
	KindStatus               // non-2xx response
	KindFormat               // 2xx response that is not valid JSON
	KindValidation           // rejected locally before any request was sent
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindFormat:
		return "format"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const invalidFormatMessage = "invalid response format"

// Envelope is the uniform outcome of every API call.
//
// Data holds the parsed JSON body on success and is nil for an empty body.
type Envelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Kind    ErrorKind       `json:"-"`

	cause error
}

// Err maps a failed envelope to a wrapped sentinel from the shared package. It returns nil on success.
func (e Envelope) Err() error {
	if e.Success {
		return nil
	}
	if e.cause != nil {
		return e.cause
	}

	switch e.Kind {
	case KindTransport:
		return fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, e.Error)
	case KindFormat:
		if e.Error == invalidFormatMessage {
			return shared.ErrInvalidResponse
		}
		return fmt.Errorf("%w: %s", shared.ErrInvalidResponse, e.Error)
	case KindValidation:
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, e.Error)
	}

	if e.Status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, e.Error)
	}
	return fmt.Errorf("%w: %s", shared.ErrAPIRequest, e.Error)
}

func failure(kind ErrorKind, status int, msg string) Envelope {
	return Envelope{Status: status, Error: msg, Kind: kind}
}

// localFailure rejects a call before any request is made.
func localFailure(cause error) Envelope {
	return Envelope{Error: cause.Error(), Kind: KindValidation, cause: cause}
}

// apiBody is the response shape used by every endpoint of the video API.
type apiBody struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    *bool           `json:"success"`
}

// reportedFailure reports whether a 2xx body says success=false, with the message to show for it.
func reportedFailure(data []byte, status int) (string, bool) {
	var body apiBody
	if err := json.Unmarshal(data, &body); err != nil || body.Success == nil || *body.Success {
		return "", false
	}
	return body.failureMessage(status), true
}

func (b apiBody) failureMessage(status int) string {
	if b.Message != "" {
		return b.Message
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// Result is the typed view of an [Envelope], with the API's data field decoded into T.
type Result[T any] struct {
	Success bool
	Status  int
	Data    T
	Message string
	Error   string
	Kind    ErrorKind

	cause error
}

// Err returns nil on success, otherwise the same error [Envelope.Err] would.
func (r Result[T]) Err() error {
	return r.Envelope().Err()
}

// Unwrap returns the decoded data and the result's error.
func (r Result[T]) Unwrap() (T, error) {
	return r.Data, r.Err()
}

// Envelope drops the decoded data and returns the untyped outcome.
func (r Result[T]) Envelope() Envelope {
	return Envelope{Success: r.Success, Status: r.Status, Error: r.Error, Kind: r.Kind, cause: r.cause}
}

// notFound replaces the error of a 404 result with sentinel.
func notFound[T any](r Result[T], sentinel error, id string) Result[T] {
	if r.Kind == KindStatus && r.Status == http.StatusNotFound {
		r.cause = fmt.Errorf("%w: %s", sentinel, id)
	}
	return r
}

func (e Envelope) notFound(sentinel error, id string) Envelope {
	if e.Kind == KindStatus && e.Status == http.StatusNotFound {
		e.cause = fmt.Errorf("%w: %s", sentinel, id)
	}
	return e
}

func failed[T any](env Envelope) Result[T] {
	return Result[T]{Status: env.Status, Error: env.Error, Kind: env.Kind, cause: env.cause}
}

// Decode converts an envelope into a [Result].
//
// Bodies in the API's {statusCode, data, message, success} shape have their data field decoded;
// any other JSON body is decoded as a whole. A body reporting success=false is a failure even with a 2xx status.
func Decode[T any](env Envelope) Result[T] {
	if !env.Success {
		return failed[T](env)
	}

	r := Result[T]{Success: true, Status: env.Status}
	if len(env.Data) == 0 {
		return r
	}

	payload := env.Data
	var body apiBody
	if err := json.Unmarshal(env.Data, &body); err == nil && (body.Success != nil || body.Data != nil) {
		if body.Success != nil && !*body.Success {
			return failed[T](failure(KindStatus, env.Status, body.failureMessage(env.Status)))
		}
		r.Message = body.Message
		payload = body.Data
	}

	if len(payload) == 0 || string(payload) == "null" {
		return r
	}

	if err := json.Unmarshal(payload, &r.Data); err != nil {
		return failed[T](failure(KindFormat, env.Status, invalidFormatMessage))
	}
	return r
}
