package sarg

import (
	"fmt"

	"github.com/hugr-lab/pushdown-go/internal/msgpack"
	"github.com/hugr-lab/pushdown-go/internal/serialize"
)

// Encode returns the transport form of the search argument: MessagePack,
// ZStandard compressed, base64 text. It fits in string properties of
// connector requests.
func (s *SearchArgument) Encode() (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}
	data, err := msgpack.Encode(s)
	if err != nil {
		return "", fmt.Errorf("encode search argument: %w", err)
	}
	return serialize.Seal(data)
}

// Decode parses the output of Encode.
func Decode(encoded string) (*SearchArgument, error) {
	data, err := serialize.Open(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode search argument: %w", err)
	}
	var s SearchArgument
	if err := msgpack.Decode(data, &s); err != nil {
		return nil, fmt.Errorf("decode search argument: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
