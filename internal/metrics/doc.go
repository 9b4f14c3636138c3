// Package metrics scores trajectories: append-only deviation histories, the
// expert/player accuracy ratio, and summary metrics over temperature states.
package metrics
