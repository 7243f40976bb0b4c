// Package capture holds the raw samples recorded by the logic state recorder.
//
// A Capture is an ordered list of transitions. Each transition stores the
// time in seconds from the start of the acquisition and the sampled state of
// all input lines as a bitmask. Times are strictly increasing.
//
// # File Formats
//
//   - .xml: the format written by the recorder tooling
//     (<Capture><TransitionCount/><BufferSize/><TransitionContainer>...)
//   - .lcap, .cbor: compact binary encoding with integer keys
//   - .yaml, .yml: hand-written fixtures
//
// Loaders never return a partially built Capture. A parse failure yields a
// *FormatError and no data.
package capture
