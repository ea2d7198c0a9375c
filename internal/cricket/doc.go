// Package cricket provides the data model shared by every scoring package.
//
// This package contains type definitions and small pure helpers only. All
// other internal packages import cricket; cricket imports nothing internal.
//
// Key design constraints:
//   - Player and team references are opaque string ids
//   - A Ball is immutable once recorded in an Over
//   - Innings totals are derived from recorded balls plus awarded penalties
//   - All JSON tags use snake_case
package cricket
