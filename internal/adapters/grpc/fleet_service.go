package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "fleetdash.v1.FleetService"

const (
	getFleetMethod   = "/" + ServiceName + "/GetFleet"
	watchFleetMethod = "/" + ServiceName + "/WatchFleet"
)

// FleetServiceServer is the server API for fleetdash.v1.FleetService.
// Requests and responses are google.protobuf.Struct values.
type FleetServiceServer interface {
	GetFleet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchFleet(*structpb.Struct, FleetService_WatchFleetServer) error
}

// FleetService_WatchFleetServer is the server side of the WatchFleet stream.
type FleetService_WatchFleetServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchFleetServer struct {
	grpc.ServerStream
}

func (x *watchFleetServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func getFleetHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FleetServiceServer).GetFleet(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getFleetMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FleetServiceServer).GetFleet(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func watchFleetHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(FleetServiceServer).WatchFleet(in, &watchFleetServer{stream})
}

// FleetService_ServiceDesc is the grpc.ServiceDesc for fleetdash.v1.FleetService.
var FleetService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FleetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetFleet",
			Handler:    getFleetHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchFleet",
			Handler:       watchFleetHandler,
			ServerStreams: true,
		},
	},
	Metadata: "fleetdash/v1/fleet.proto",
}

// RegisterFleetServiceServer registers srv on s.
func RegisterFleetServiceServer(s grpc.ServiceRegistrar, srv FleetServiceServer) {
	s.RegisterService(&FleetService_ServiceDesc, srv)
}

// FleetClient is a client for fleetdash.v1.FleetService.
type FleetClient struct {
	cc grpc.ClientConnInterface
}

// NewFleetClient wraps an established connection.
func NewFleetClient(cc grpc.ClientConnInterface) *FleetClient {
	return &FleetClient{cc: cc}
}

// GetFleet returns the current fleet narrowed by filter.
func (c *FleetClient) GetFleet(ctx context.Context, filter string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := filterRequest(filter)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getFleetMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// FleetWatcher receives the fleet on every publish.
type FleetWatcher interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type fleetWatcher struct {
	grpc.ClientStream
}

func (x *fleetWatcher) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// WatchFleet opens a server stream. Cancel ctx to stop it.
func (c *FleetClient) WatchFleet(ctx context.Context, filter string, opts ...grpc.CallOption) (FleetWatcher, error) {
	in, err := filterRequest(filter)
	if err != nil {
		return nil, err
	}
	stream, err := c.cc.NewStream(ctx, &FleetService_ServiceDesc.Streams[0], watchFleetMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &fleetWatcher{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func filterRequest(filter string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"filter": filter})
}
