// Package server provides HTTP routing, middleware, and an in-memory sandbox of the video API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /videos/{videoId}") under a
// path prefix. Unmatched requests receive a JSON 404 in the API's response shape.
//
// # Middleware
//
//   - [Logging] : logs method, path, status and duration with charmbracelet/log
//   - [Recoverer] : converts handler panics into a 500
//   - [Authenticate] : resolves "Authorization: Bearer" tokens; unknown tokens get a 401
//
// # Sandbox
//
// [Sandbox] implements every endpoint the client uses with the same {statusCode, data, message, success}
// bodies as the real backend. It backs the `vidx sandbox` command and the end-to-end tests of the
// services, tasks and CLI packages.
//
// Tests can inject failures per route with [Sandbox.Fail] and count requests with [Sandbox.Calls].
//
// # Handler Interface
//
// Handlers implement [Handler] by returning their [Route] list, so a group of endpoints can be
// registered on a router in one call.
package server
