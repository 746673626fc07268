// Package dashboard holds the pure selection/plot reducer behind the trade
// dashboard. The HTTP layer translates raw control interactions into tagged
// events; the reducer folds an event and the previous selection state into
// the next state plus a renderable chart description, reading only the
// immutable dataset. No UI framework types leak in here, which keeps every
// transition unit-testable.
package dashboard
