// Package services implements a client for the video-sharing REST API.
//
// # Request Envelope
//
// Every call goes through [APIService.Do], which always produces an [Envelope] and never returns an error.
// The bearer token from the [TokenStore] is attached when present, and the outcome is classified by [ErrorKind]:
//   - [KindTransport] : network failure, cancelled context, or rate limiter wait failure
//   - [KindStatus] : non-2xx response; Error holds the server's message or "request failed with status N"
//   - [KindFormat] : 2xx response whose body is not JSON ("invalid response format")
//   - [KindValidation] : rejected locally before a request was sent
//
// A 2xx response with an empty body is a success with nil Data.
// A 401 on a request that carried a token clears the stored session.
//
// [Decode] turns an envelope into a typed [Result], unpacking the API's {statusCode, data, message, success} body.
//
// # Resource Services
//
//   - [AuthService] : login, logout, current user, channel profiles, watch history
//   - [VideoService] : list, explore, get, search suggestions
//   - [CommentService] : list, add, edit, delete
//   - [LikeService] : toggle likes on videos and comments, liked videos
//   - [SubscriptionService] : toggle subscriptions, subscribers, subscribed channels
//
// [Client] wires them all to one [APIService].
//
// # Error Handling
//
// [Envelope.Err] and [Result.Err] map failures to sentinels from the shared package:
//   - [shared.ErrServiceUnavailable] : transport failures
//   - [shared.ErrNotAuthenticated] : 401 responses and local auth checks
//   - [shared.ErrAPIRequest] : other non-2xx responses
//   - [shared.ErrInvalidResponse] : malformed success bodies
//   - [shared.ErrInvalidInput] : local validation failures
package services
