package twinv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "mirador.twin.v1.TwinEngine"

// TwinEngineServer is the server API for the twin engine service.
type TwinEngineServer interface {
	Start(context.Context, *emptypb.Empty) (*ControlResponse, error)
	Pause(context.Context, *emptypb.Empty) (*ControlResponse, error)
	Stop(context.Context, *emptypb.Empty) (*ControlResponse, error)
	Reset(context.Context, *emptypb.Empty) (*ControlResponse, error)
	GetStatus(context.Context, *emptypb.Empty) (*StatusResponse, error)
	FailNode(context.Context, *FailNodeRequest) (*InjectionResponse, error)
	DegradeNode(context.Context, *DegradeNodeRequest) (*InjectionResponse, error)
	RecoverNode(context.Context, *RecoverNodeRequest) (*InjectionResponse, error)
	CalculateBlastRadius(context.Context, *BlastRadiusRequest) (*BlastRadius, error)
	GetHealthState(context.Context, *HealthStateRequest) (*HealthState, error)
	ListHealthStates(context.Context, *emptypb.Empty) (*ListHealthStatesResponse, error)
	GetTelemetry(context.Context, *TelemetryRequest) (*TelemetryResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	DetectAnomalies(context.Context, *DetectAnomaliesRequest) (*DetectAnomaliesResponse, error)
}

// UnimplementedTwinEngineServer can be embedded for forward compatibility.
type UnimplementedTwinEngineServer struct{}

func (UnimplementedTwinEngineServer) Start(context.Context, *emptypb.Empty) (*ControlResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Start not implemented")
}

func (UnimplementedTwinEngineServer) Pause(context.Context, *emptypb.Empty) (*ControlResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Pause not implemented")
}

func (UnimplementedTwinEngineServer) Stop(context.Context, *emptypb.Empty) (*ControlResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Stop not implemented")
}

func (UnimplementedTwinEngineServer) Reset(context.Context, *emptypb.Empty) (*ControlResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Reset not implemented")
}

func (UnimplementedTwinEngineServer) GetStatus(context.Context, *emptypb.Empty) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}

func (UnimplementedTwinEngineServer) FailNode(context.Context, *FailNodeRequest) (*InjectionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FailNode not implemented")
}

func (UnimplementedTwinEngineServer) DegradeNode(context.Context, *DegradeNodeRequest) (*InjectionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DegradeNode not implemented")
}

func (UnimplementedTwinEngineServer) RecoverNode(context.Context, *RecoverNodeRequest) (*InjectionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecoverNode not implemented")
}

func (UnimplementedTwinEngineServer) CalculateBlastRadius(context.Context, *BlastRadiusRequest) (*BlastRadius, error) {
	return nil, status.Error(codes.Unimplemented, "method CalculateBlastRadius not implemented")
}

func (UnimplementedTwinEngineServer) GetHealthState(context.Context, *HealthStateRequest) (*HealthState, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHealthState not implemented")
}

func (UnimplementedTwinEngineServer) ListHealthStates(context.Context, *emptypb.Empty) (*ListHealthStatesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListHealthStates not implemented")
}

func (UnimplementedTwinEngineServer) GetTelemetry(context.Context, *TelemetryRequest) (*TelemetryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTelemetry not implemented")
}

func (UnimplementedTwinEngineServer) ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEvents not implemented")
}

func (UnimplementedTwinEngineServer) DetectAnomalies(context.Context, *DetectAnomaliesRequest) (*DetectAnomaliesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DetectAnomalies not implemented")
}

// RegisterTwinEngineServer attaches srv to s.
func RegisterTwinEngineServer(s grpc.ServiceRegistrar, srv TwinEngineServer) {
	s.RegisterService(&TwinEngine_ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler, running interceptors.
func unaryHandler[Req any, Resp any](method string, call func(TwinEngineServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TwinEngineServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TwinEngineServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TwinEngine_ServiceDesc is the grpc.ServiceDesc for the twin engine service.
var TwinEngine_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TwinEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Start", Handler: unaryHandler("Start", TwinEngineServer.Start)},
		{MethodName: "Pause", Handler: unaryHandler("Pause", TwinEngineServer.Pause)},
		{MethodName: "Stop", Handler: unaryHandler("Stop", TwinEngineServer.Stop)},
		{MethodName: "Reset", Handler: unaryHandler("Reset", TwinEngineServer.Reset)},
		{MethodName: "GetStatus", Handler: unaryHandler("GetStatus", TwinEngineServer.GetStatus)},
		{MethodName: "FailNode", Handler: unaryHandler("FailNode", TwinEngineServer.FailNode)},
		{MethodName: "DegradeNode", Handler: unaryHandler("DegradeNode", TwinEngineServer.DegradeNode)},
		{MethodName: "RecoverNode", Handler: unaryHandler("RecoverNode", TwinEngineServer.RecoverNode)},
		{MethodName: "CalculateBlastRadius", Handler: unaryHandler("CalculateBlastRadius", TwinEngineServer.CalculateBlastRadius)},
		{MethodName: "GetHealthState", Handler: unaryHandler("GetHealthState", TwinEngineServer.GetHealthState)},
		{MethodName: "ListHealthStates", Handler: unaryHandler("ListHealthStates", TwinEngineServer.ListHealthStates)},
		{MethodName: "GetTelemetry", Handler: unaryHandler("GetTelemetry", TwinEngineServer.GetTelemetry)},
		{MethodName: "ListEvents", Handler: unaryHandler("ListEvents", TwinEngineServer.ListEvents)},
		{MethodName: "DetectAnomalies", Handler: unaryHandler("DetectAnomalies", TwinEngineServer.DetectAnomalies)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mirador/twin/v1/twin.proto",
}

// TwinEngineClient is the client API for the twin engine service.
type TwinEngineClient interface {
	Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ControlResponse, error)
	Pause(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ControlResponse, error)
	Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ControlResponse, error)
	Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ControlResponse, error)
	GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StatusResponse, error)
	FailNode(ctx context.Context, in *FailNodeRequest, opts ...grpc.CallOption) (*InjectionResponse, error)
	DegradeNode(ctx context.Context, in *DegradeNodeRequest, opts ...grpc.CallOption) (*InjectionResponse, error)
	RecoverNode(ctx context.Context, in *RecoverNodeRequest, opts ...grpc.CallOption) (*InjectionResponse, error)
	CalculateBlastRadius(ctx context.Context, in *BlastRadiusRequest, opts ...grpc.CallOption) (*BlastRadius, error)
	GetHealthState(ctx context.Context, in *HealthStateRequest, opts ...grpc.CallOption) (*HealthState, error)
	ListHealthStates(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListHealthStatesResponse, error)
	GetTelemetry(ctx context.Context, in *TelemetryRequest, opts ...grpc.CallOption) (*TelemetryResponse, error)
	ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error)
	DetectAnomalies(ctx context.Context, in *DetectAnomaliesRequest, opts ...grpc.CallOption) (*DetectAnomaliesResponse, error)
}

type twinEngineClient struct {
	cc grpc.ClientConnInterface
}

// NewTwinEngineClient wraps cc; every call uses the JSON codec.
func NewTwinEngineClient(cc grpc.ClientConnInterface) TwinEngineClient {
	return &twinEngineClient{cc: cc}
}

func (c *twinEngineClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

func (c *twinEngineClient) Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ControlResponse, error) {
	out := new(ControlResponse)
	if err := c.invoke(ctx, "Start", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) Pause(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ControlResponse, error) {
	out := new(ControlResponse)
	if err := c.invoke(ctx, "Pause", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ControlResponse, error) {
	out := new(ControlResponse)
	if err := c.invoke(ctx, "Stop", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ControlResponse, error) {
	out := new(ControlResponse)
	if err := c.invoke(ctx, "Reset", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StatusResponse, error) {
	out := new(StatusResponse)
	if err := c.invoke(ctx, "GetStatus", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) FailNode(ctx context.Context, in *FailNodeRequest, opts ...grpc.CallOption) (*InjectionResponse, error) {
	out := new(InjectionResponse)
	if err := c.invoke(ctx, "FailNode", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) DegradeNode(ctx context.Context, in *DegradeNodeRequest, opts ...grpc.CallOption) (*InjectionResponse, error) {
	out := new(InjectionResponse)
	if err := c.invoke(ctx, "DegradeNode", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) RecoverNode(ctx context.Context, in *RecoverNodeRequest, opts ...grpc.CallOption) (*InjectionResponse, error) {
	out := new(InjectionResponse)
	if err := c.invoke(ctx, "RecoverNode", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) CalculateBlastRadius(ctx context.Context, in *BlastRadiusRequest, opts ...grpc.CallOption) (*BlastRadius, error) {
	out := new(BlastRadius)
	if err := c.invoke(ctx, "CalculateBlastRadius", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) GetHealthState(ctx context.Context, in *HealthStateRequest, opts ...grpc.CallOption) (*HealthState, error) {
	out := new(HealthState)
	if err := c.invoke(ctx, "GetHealthState", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) ListHealthStates(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListHealthStatesResponse, error) {
	out := new(ListHealthStatesResponse)
	if err := c.invoke(ctx, "ListHealthStates", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) GetTelemetry(ctx context.Context, in *TelemetryRequest, opts ...grpc.CallOption) (*TelemetryResponse, error) {
	out := new(TelemetryResponse)
	if err := c.invoke(ctx, "GetTelemetry", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	out := new(ListEventsResponse)
	if err := c.invoke(ctx, "ListEvents", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *twinEngineClient) DetectAnomalies(ctx context.Context, in *DetectAnomaliesRequest, opts ...grpc.CallOption) (*DetectAnomaliesResponse, error) {
	out := new(DetectAnomaliesResponse)
	if err := c.invoke(ctx, "DetectAnomalies", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
