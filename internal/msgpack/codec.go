package msgpack

// CodecName is the gRPC content subtype of Codec.
const CodecName = "msgpack"

// Codec implements google.golang.org/grpc/encoding.Codec with MessagePack,
// so services can exchange plain Go structs without generated code.
type Codec struct{}

// Marshal encodes v.
func (Codec) Marshal(v any) ([]byte, error) { return Encode(v) }

// Unmarshal decodes data into v. Empty messages leave v untouched.
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return Decode(data, v)
}

// Name returns CodecName.
func (Codec) Name() string { return CodecName }
