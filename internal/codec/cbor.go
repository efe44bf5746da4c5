// Package codec encodes stored records as CBOR.
package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode Core Deterministic Encoding: the same record always produces
// the same bytes. Times are RFC3339 strings with nanoseconds.
var encMode cbor.EncMode

// decMode unknown fields are ignored so older binaries can read newer records
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
