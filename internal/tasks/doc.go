// Package tasks runs multi-request operations against the video API with real-time progress reporting.
//
// # Core Operations
//
// [Engine] provides three operations:
//
//  1. [Engine.Dump] : Snapshot of the signed-in account
//     - Health check, current user, watch history, liked videos, subscriptions, explore feed
//     - A failing endpoint is recorded and the dump continues
//
//  2. [Engine.BulkExport] : Export several channels' uploads
//     - Worker pool (default 5, max 10) sharing one rate limiter
//     - Writes json, csv, markdown or txt plus export_manifest.json
//
//  3. [Engine.Suggest] : Search completions
//     - Server suggestions merged with fuzzy matches over cached titles
//
// # Progress Reporting
//
// [ProgressUpdate] values are sent with select/default so a slow reader never blocks a task.
//
// # Video Caching
//
// The optional [VideoCacher] persists every video a task fetches. Cache failures are ignored.
// When the cacher also implements [TitleSource], its titles feed offline suggestions.
package tasks
