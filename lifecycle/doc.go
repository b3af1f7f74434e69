// Package lifecycle defines the ordered initiative stages and the policy that
// classifies a proposed move between them.
//
// The package has no persistence dependency. Callers decide what to do with a
// Classification: the board asks the user for a justification, the transition
// service refuses flagged moves that arrive without one.
package lifecycle
