// Package watcher turns filesystem notifications into change events.
//
// # Overview
//
// Watcher registers every directory below the watch root with fsnotify
// (skipping ignored directories) and follows directories created later.
// Raw notifications are translated into domain.ChangeEvent values:
//
//   - Write and Create of a file become Modified. Editors that save by
//     writing a temp file and renaming it over the original produce a Create.
//   - Remove becomes Deleted.
//   - Rename becomes Moved.
//   - Chmod is dropped.
//
// # Coalescing
//
// Many editors write a file twice per save. Coalescer holds each path for a
// quiet window and forwards only the last event seen for it, so one save
// produces one selection cycle. A zero window forwards every event as is.
//
// Events leave the Coalescer through a single channel that the dispatcher
// drains one at a time, so an event that arrives during a test run waits for
// that run to finish.
package watcher
