package twinv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the content-subtype the twin service is served with.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec carries plain Go messages as JSON; protobuf messages such as
// emptypb.Empty go through protojson.
type Codec struct{}

// Marshal encodes v.
func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

// Unmarshal decodes data into v. An empty payload leaves v at its zero value.
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

// Name identifies the codec in the content-subtype header.
func (Codec) Name() string { return CodecName }
