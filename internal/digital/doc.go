// Package digital indexes the boolean level of one recorder line over time.
//
// A Timeline stores the initial state and the times at which the line
// changed. The first stored time is an anchor taken from the first sample
// of the capture, not a real level change:
//
//   - before transitions[0] the level is !initialState
//   - from transitions[i] the level is initialState XOR (i is odd)
//   - past the last transition the level keeps the parity of the count
//
// All queries binary-search the transition list, so they run in O(log n)
// and interactive redraws stay cheap regardless of capture size.
package digital
