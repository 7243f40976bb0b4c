package capture

import (
	"encoding/xml"
	"io"
)

// xmlCapture mirrors the document written by the recorder tooling.
type xmlCapture struct {
	XMLName         xml.Name        `xml:"Capture"`
	TransitionCount int             `xml:"TransitionCount"`
	BufferSize      int             `xml:"BufferSize"`
	Transitions     []xmlTransition `xml:"TransitionContainer>Transition"`
}

type xmlTransition struct {
	Time  float64 `xml:"time,attr"`
	State uint32  `xml:"state,attr"`
}

// LoadXML decodes a capture from its XML representation.
func LoadXML(r io.Reader) (*Capture, error) {
	var doc xmlCapture
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &FormatError{Code: ErrCodeParse, Format: "xml", Message: "decode capture", Err: err}
	}

	c := &Capture{
		TransitionCount: doc.TransitionCount,
		BufferSize:      doc.BufferSize,
		Transitions:     make([]Transition, len(doc.Transitions)),
	}
	for i, t := range doc.Transitions {
		c.Transitions[i] = Transition{Time: t.Time, State: t.State}
	}
	c.normalize()

	if err := c.Validate(); err != nil {
		return nil, withFormat(err, "xml")
	}
	return c, nil
}

// WriteXML encodes a capture in the recorder XML format.
func WriteXML(w io.Writer, c *Capture) error {
	doc := xmlCapture{
		TransitionCount: c.TransitionCount,
		BufferSize:      c.BufferSize,
		Transitions:     make([]xmlTransition, len(c.Transitions)),
	}
	for i, t := range c.Transitions {
		doc.Transitions[i] = xmlTransition{Time: t.Time, State: t.State}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func withFormat(err error, format string) error {
	if fe, ok := err.(*FormatError); ok {
		fe.Format = format
		return fe
	}
	return err
}
