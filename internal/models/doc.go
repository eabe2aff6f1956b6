// Package models defines domain entities and persistence interfaces for the vidx video client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): JSON shapes returned by the video API
//   - [User] : Account profile returned by login and current-user
//   - [Channel] : Public channel profile with subscription state
//   - [Video] : Video metadata with owner, views and like state
//   - [Comment] : Comment on a video with like state
//   - [Page] : Paginated list wrapper used by every list endpoint
//   - [LikeStatus], [SubscriptionStatus] : Toggle responses
//
// 2. Persistent Entities: Database-backed models stored in the local SQLite file
//   - [Session] : The signed-in user's bearer token
//   - [CachedVideo] : Videos seen by the client, used for offline listing and search suggestions
//
// Persistent entities implement the [Model] interface providing ID, timestamps, and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
