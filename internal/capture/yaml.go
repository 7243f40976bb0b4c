package capture

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a capture written as YAML:
//
//	transition_count: 2
//	buffer_size: 100
//	transitions:
//	  - {time: 1.0, state: 2}
//	  - {time: 1.1, state: 1}
func LoadYAML(r io.Reader) (*Capture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FormatError{Code: ErrCodeIO, Format: "yaml", Message: "read capture", Err: err}
	}

	var c Capture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, &FormatError{Code: ErrCodeParse, Format: "yaml", Message: "decode capture", Err: err}
	}

	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, withFormat(err, "yaml")
	}
	return &c, nil
}
