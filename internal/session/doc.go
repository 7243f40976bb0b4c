// Package session describes which lines of a capture carry serial data
// and how to decode them.
//
// A session file lists channels, each naming a bit of the capture state, a
// baud rate and a label. Sessions are written in YAML or CUE; CUE files are
// checked against an embedded schema before use. Build decodes every
// channel and merges the results into one protocol timeline.
package session
