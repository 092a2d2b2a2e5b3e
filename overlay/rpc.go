// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package overlay

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

// Empty is the zero-payload response/request used by Ping and by every
// Message call's acknowledgement.
type Empty struct{}

// Marshal returns the (empty) encoding of Empty; there is nothing to
// encode.
func (Empty) Marshal() []byte { return nil }

const consensusRPCServiceName = "ddpoa.ConsensusRPC"

// ConsensusRPCServer is implemented by whatever forwards inbound peer
// messages into the engine's notification queue.
type ConsensusRPCServer interface {
	Message(ctx context.Context, msg *Message) (*Empty, error)
	Ping(ctx context.Context, req *Empty) (*Empty, error)
}

// ConsensusRPCClient is the peer-facing half of the same service.
type ConsensusRPCClient interface {
	Message(ctx context.Context, in *Message, opts ...grpc.CallOption) (*Empty, error)
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
}

type consensusRPCClient struct {
	cc grpc.ClientConnInterface
}

// NewConsensusRPCClient builds a ConsensusRPCClient bound to cc. Callers
// dial with grpc.WithDefaultCallOptions(grpc.ForceCodec(wireCodec{}))
// so cc never tries the default proto.Message codec against our
// hand-rolled message types.
func NewConsensusRPCClient(cc grpc.ClientConnInterface) ConsensusRPCClient {
	return &consensusRPCClient{cc: cc}
}

func (c *consensusRPCClient) Message(ctx context.Context, in *Message, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+consensusRPCServiceName+"/Message", in, out, opts...); err != nil {
		return nil, fmt.Errorf("overlay: Message RPC: %w", err)
	}
	return out, nil
}

func (c *consensusRPCClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+consensusRPCServiceName+"/Ping", in, out, opts...); err != nil {
		return nil, fmt.Errorf("overlay: Ping RPC: %w", err)
	}
	return out, nil
}

// RegisterConsensusRPCServer registers srv's Message and Ping handlers
// against s, in the shape protoc-gen-go-grpc would have generated had
// these messages gone through protoc. They're hand-written instead,
// since they're hand-rolled protowire types rather than generated
// proto.Message implementations.
func RegisterConsensusRPCServer(s grpc.ServiceRegistrar, srv ConsensusRPCServer) {
	s.RegisterService(&consensusRPCServiceDesc, srv)
}

func consensusRPCMessageHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Message)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConsensusRPCServer).Message(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + consensusRPCServiceName + "/Message"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConsensusRPCServer).Message(ctx, req.(*Message))
	}
	return interceptor(ctx, in, info, handler)
}

func consensusRPCPingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConsensusRPCServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + consensusRPCServiceName + "/Ping"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ConsensusRPCServer).Ping(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var consensusRPCServiceDesc = grpc.ServiceDesc{
	ServiceName: consensusRPCServiceName,
	HandlerType: (*ConsensusRPCServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Message", Handler: consensusRPCMessageHandler},
		{MethodName: "Ping", Handler: consensusRPCPingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "overlay/consensus_rpc.proto",
}
