package twinv1

import (
	"testing"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestCodecRegistered(t *testing.T) {
	if encoding.GetCodec(CodecName) == nil {
		t.Fatalf("expected %q codec to be registered", CodecName)
	}
}

func TestCodecRoundTripsPlainMessages(t *testing.T) {
	codec := Codec{}
	data, err := codec.Marshal(&DegradeNodeRequest{NodeId: "db", Level: 40, DurationMs: 5000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"nodeId":"db","level":40,"durationMs":5000}` {
		t.Fatalf("unexpected wire form: %s", data)
	}

	var out DegradeNodeRequest
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.NodeId != "db" || out.Level != 40 {
		t.Fatalf("unexpected decoded message: %+v", out)
	}
}

func TestCodecHandlesProtoMessages(t *testing.T) {
	codec := Codec{}
	data, err := codec.Marshal(&emptypb.Empty{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if err := codec.Unmarshal(data, &emptypb.Empty{}); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if err := codec.Unmarshal(nil, &ListEventsRequest{}); err != nil {
		t.Fatalf("empty payload should decode to zero value: %v", err)
	}
}
