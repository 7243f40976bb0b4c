package uart

// Message is the payload of a decoded span: one byte, or the bytes of
// back-to-back frames coalesced together.
type Message []byte

// Bytes returns the decoded bytes.
func (m Message) Bytes() []byte {
	return m
}
