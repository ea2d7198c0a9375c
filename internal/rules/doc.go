// Package rules validates proposed deliveries against playing conditions.
//
// Validate is a pure function: it reads match state, never mutates it, and
// returns either a normalized cricket.Ball or a *cricket.ScoringError.
// Which dismissals are possible on which kind of delivery is decided by a
// Policy table rather than by conditionals at each call site. The default
// table follows limited-overs ICC playing conditions; a CUE file can
// override it (see ParsePolicy).
package rules
