// Package core runs grid sessions for the transport layers.
//
// Each session owns one [grid.Store]. The [Service] creates sessions, runs
// their loads through a [LoadLimiter] and hands actions to the store. It
// depends only on the [grid.Fetcher] and [prefs.Backend] interfaces, so the
// same service runs against the generated mock data, a PostgreSQL table or a
// test double.
//
// # Session Lifecycle
//
//  1. [Service.CreateSession] assigns a uuid, sets the columns and runs the
//     first load
//  2. Saved preferences are restored, then a save listener is attached so
//     later layout changes are persisted
//  3. [Service.Dispatch] and [Service.Reload] drive the store
//  4. [Service.StartReaper] drops sessions idle longer than the configured TTL
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - GRID001-GRID003: session and action errors
//   - LOAD001-LOAD003: load errors (busy, failed, superseded)
//   - DB001-DB003: database connection errors
//   - REQ001-REQ002: cancelled or timed out requests
package core
