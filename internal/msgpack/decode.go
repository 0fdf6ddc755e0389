// Package msgpack provides MessagePack encoding/decoding helpers and the
// gRPC codec used by the compile service.
package msgpack

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var errEmpty = errors.New("msgpack: empty message")

// Decode unmarshals data into v, which must be a pointer.
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return errEmpty
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("msgpack: decode %T: %w", v, err)
	}
	return nil
}

// Encode marshals v. Struct fields use their msgpack tags.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("msgpack: encode %T: %w", v, err)
	}
	return data, nil
}
