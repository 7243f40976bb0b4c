package capture

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// cborVersion is stored in every binary capture.
const cborVersion = 1

// cborCapture is the on-disk envelope of a binary capture.
type cborCapture struct {
	Version int      `cbor:"1,keyasint"`
	Capture *Capture `cbor:"2,keyasint"`
}

var (
	captureEncMode cbor.EncMode
	captureDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		// Sample times must survive a round trip bit for bit.
		ShortestFloat: cbor.ShortestFloatNone,
	}
	captureEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	captureDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR decoder mode: %v", err))
	}
}

// LoadCBOR decodes a capture from its binary representation.
func LoadCBOR(r io.Reader) (*Capture, error) {
	var env cborCapture
	if err := captureDecMode.NewDecoder(r).Decode(&env); err != nil {
		return nil, &FormatError{Code: ErrCodeParse, Format: "cbor", Message: "decode capture", Err: err}
	}
	if env.Version != cborVersion {
		return nil, &FormatError{
			Code:    ErrCodeParse,
			Format:  "cbor",
			Message: fmt.Sprintf("unsupported version %d", env.Version),
		}
	}
	if env.Capture == nil {
		return nil, &FormatError{Code: ErrCodeParse, Format: "cbor", Message: "missing capture body"}
	}

	c := env.Capture
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, withFormat(err, "cbor")
	}
	return c, nil
}

// WriteCBOR encodes a capture in the binary format.
func WriteCBOR(w io.Writer, c *Capture) error {
	return captureEncMode.NewEncoder(w).Encode(cborCapture{Version: cborVersion, Capture: c})
}
