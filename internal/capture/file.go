package capture

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile loads a capture choosing the decoder from the file extension.
func LoadFile(path string) (*Capture, error) {
	load, err := loaderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Code: ErrCodeIO, Message: "open capture", Err: err}
	}
	defer f.Close()

	return load(f)
}

// SaveFile writes a capture choosing the encoder from the file extension.
// YAML is a read-only fixture format.
func SaveFile(path string, c *Capture) error {
	var write func(io.Writer, *Capture) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		write = WriteXML
	case ".lcap", ".cbor":
		write = WriteCBOR
	default:
		return &FormatError{
			Code:    ErrCodeUnknownFormat,
			Message: fmt.Sprintf("cannot write %q captures", ext),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &FormatError{Code: ErrCodeIO, Message: "create capture", Err: err}
	}
	if err := write(f, c); err != nil {
		f.Close()
		return &FormatError{Code: ErrCodeIO, Message: "write capture", Err: err}
	}
	return f.Close()
}

func loaderFor(path string) (func(io.Reader) (*Capture, error), error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		return LoadXML, nil
	case ".lcap", ".cbor":
		return LoadCBOR, nil
	case ".yaml", ".yml":
		return LoadYAML, nil
	default:
		return nil, &FormatError{
			Code:    ErrCodeUnknownFormat,
			Message: fmt.Sprintf("unrecognized capture extension %q", ext),
		}
	}
}
