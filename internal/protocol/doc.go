// Package protocol merges several labeled span timelines into one
// chronological view.
//
// Streams are registered with Add and merged once by Init. The merge is
// ordered by span start time; when two streams have spans starting at the
// same instant, the stream registered first comes first. After Init the
// timeline is read-only and can be queried by index, searched by time and
// exported as a fixed-width text table.
package protocol
