// Package store provides the SQLite-backed scoring journal.
//
// The journal is an append-only log per match with one exception: undo
// truncates the most recent event, mirroring the engine's own history.
//
//   - matches: one row per match holding its setup as canonical JSON
//   - events: the ordered event log of each match
//
// # Invariants
//
// Logical ordering only:
//   - Events are ordered by seq within a match, matches by created_seq
//   - No column stores wall-clock time, so a journal replays identically
//     on any machine
//
// Deterministic queries:
//   - All event queries use ORDER BY seq ASC, id COLLATE BINARY ASC
//
// Content addressing:
//   - An event id is cricket.EventID over the match id, seq and canonical
//     payload; reads recompute it and reject rows that do not match
//
// # Database Configuration
//
//   - WAL mode with synchronous=NORMAL
//   - busy_timeout defaults to 5 seconds (WithBusyTimeout)
//   - foreign_keys=ON, so deleting a match removes its events
//   - schema changes are numbered migrations tracked in user_version; a
//     journal from a newer build is refused rather than misread
package store
