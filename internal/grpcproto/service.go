// Package grpcproto describes the homebox gRPC service. Messages are
// well-known protobuf types so no generated code is needed: requests and
// replies are structpb.Struct, calls without arguments take emptypb.Empty.
package grpcproto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "homebox.Homebox"

const (
	MethodLogin            = "Login"
	MethodLogout           = "Logout"
	MethodAllContainers    = "AllContainers"
	MethodContainer        = "Container"
	MethodAddContainer     = "AddContainer"
	MethodUpdateContainer  = "UpdateContainer"
	MethodDeleteContainer  = "DeleteContainer"
	MethodItemsInContainer = "ItemsInContainer"
	MethodItem             = "Item"
	MethodAddItem          = "AddItem"
	MethodUpdateItem       = "UpdateItem"
	MethodDeleteItem       = "DeleteItem"
	MethodMoveItem         = "MoveItem"
	MethodSweepOrphans     = "SweepOrphans"
)

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// HomeboxServer the server API of the homebox service
type HomeboxServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	AllContainers(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Container(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddContainer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateContainer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteContainer(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	ItemsInContainer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Item(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteItem(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	MoveItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SweepOrphans(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterHomeboxServer(s grpc.ServiceRegistrar, srv HomeboxServer) {
	s.RegisterService(&Homebox_ServiceDesc, srv)
}

func newStruct() *structpb.Struct { return new(structpb.Struct) }
func newEmpty() *emptypb.Empty    { return new(emptypb.Empty) }

// Homebox_ServiceDesc the grpc.ServiceDesc for the homebox service
var Homebox_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HomeboxServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodLogin, newStruct, HomeboxServer.Login),
		unary(MethodLogout, newEmpty, HomeboxServer.Logout),
		unary(MethodAllContainers, newEmpty, HomeboxServer.AllContainers),
		unary(MethodContainer, newStruct, HomeboxServer.Container),
		unary(MethodAddContainer, newStruct, HomeboxServer.AddContainer),
		unary(MethodUpdateContainer, newStruct, HomeboxServer.UpdateContainer),
		unary(MethodDeleteContainer, newStruct, HomeboxServer.DeleteContainer),
		unary(MethodItemsInContainer, newStruct, HomeboxServer.ItemsInContainer),
		unary(MethodItem, newStruct, HomeboxServer.Item),
		unary(MethodAddItem, newStruct, HomeboxServer.AddItem),
		unary(MethodUpdateItem, newStruct, HomeboxServer.UpdateItem),
		unary(MethodDeleteItem, newStruct, HomeboxServer.DeleteItem),
		unary(MethodMoveItem, newStruct, HomeboxServer.MoveItem),
		unary(MethodSweepOrphans, newEmpty, HomeboxServer.SweepOrphans),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "homebox.proto",
}

// unary builds the method handler that protoc-gen-go-grpc would generate
func unary[Req, Resp proto.Message](
	method string,
	newReq func() Req,
	call func(HomeboxServer, context.Context, Req) (Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(HomeboxServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(HomeboxServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// HomeboxClient the client API of the homebox service
type HomeboxClient struct {
	cc grpc.ClientConnInterface
}

func NewHomeboxClient(cc grpc.ClientConnInterface) *HomeboxClient {
	return &HomeboxClient{cc: cc}
}

func (c *HomeboxClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodLogin, in, newStruct(), opts)
}

func (c *HomeboxClient) Logout(ctx context.Context, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodLogout, newEmpty(), newEmpty(), opts)
}

func (c *HomeboxClient) AllContainers(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodAllContainers, newEmpty(), newStruct(), opts)
}

func (c *HomeboxClient) Container(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodContainer, in, newStruct(), opts)
}

func (c *HomeboxClient) AddContainer(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodAddContainer, in, newStruct(), opts)
}

func (c *HomeboxClient) UpdateContainer(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodUpdateContainer, in, newStruct(), opts)
}

func (c *HomeboxClient) DeleteContainer(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodDeleteContainer, in, newEmpty(), opts)
}

func (c *HomeboxClient) ItemsInContainer(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodItemsInContainer, in, newStruct(), opts)
}

func (c *HomeboxClient) Item(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodItem, in, newStruct(), opts)
}

func (c *HomeboxClient) AddItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodAddItem, in, newStruct(), opts)
}

func (c *HomeboxClient) UpdateItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodUpdateItem, in, newStruct(), opts)
}

func (c *HomeboxClient) DeleteItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodDeleteItem, in, newEmpty(), opts)
}

func (c *HomeboxClient) MoveItem(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodMoveItem, in, newStruct(), opts)
}

func (c *HomeboxClient) SweepOrphans(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodSweepOrphans, newEmpty(), newStruct(), opts)
}

func invoke[Resp proto.Message](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, out Resp, opts []grpc.CallOption) (Resp, error) {
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}
