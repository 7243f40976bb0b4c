// Package txtdoc writes plain-text tables made of fixed-width columns.
//
// Every field is padded (or truncated with an ellipsis) to its column width
// and terminated by '|'. Widths count runes of the NFC-normalized text so
// composed and decomposed labels line up the same way.
package txtdoc
