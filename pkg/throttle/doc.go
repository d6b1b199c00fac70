// Package throttle implements the per-account HOTP generation gate: a small
// finite state machine that enforces a minimum interval between successive
// code generations and a maximum lifetime for a displayed code.
//
// Each account moves through four states:
//
//	Idle ──generate──▶ CoolingVisible ──cooldown elapsed──▶ Visible
//	                        │                                  │
//	                        └──display expired──▶ Cooling      └──display expired──▶ Idle
//	                                                 │
//	                                                 └──cooldown elapsed──▶ Idle
//
// A generate event is only accepted in Idle and Visible; while an account is
// cooling, further generations are rejected so a user (or a bug) cannot burn
// through counter values. A displayed code reverts to a placeholder after
// the display timeout so codes do not linger on screen long after they were
// presumably used.
//
// The controller owns no goroutines and arms no timers. The host drives it
// by calling Tick (or just Snapshot, which self-heals) with the current
// time; all comparisons are time.Time subtractions, which Go resolves
// against the monotonic clock reading, so system time jumps neither release
// a cooldown early nor extend it.
package throttle
