package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the full gRPC service name.
const ServiceName = "jetsoftime.v1.SettingsService"

// SettingsServer is the server API of the settings service. Every message is
// a structpb.Struct holding the JSON form of the request or response.
type SettingsServer interface {
	FlagString(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Resolve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Preset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Preview(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterSettingsServer registers srv on s.
func RegisterSettingsServer(s grpc.ServiceRegistrar, srv SettingsServer) {
	s.RegisterService(&settingsServiceDesc, srv)
}

type unaryMethod func(SettingsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SettingsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SettingsServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var settingsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SettingsServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("FlagString", SettingsServer.FlagString),
		unaryHandler("Validate", SettingsServer.Validate),
		unaryHandler("Resolve", SettingsServer.Resolve),
		unaryHandler("Preset", SettingsServer.Preset),
		unaryHandler("Preview", SettingsServer.Preview),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jetsoftime/v1/settings.proto",
}
