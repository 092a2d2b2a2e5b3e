// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package overlay

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/luxfi/log"
)

// startTestServer binds a Communicator's gRPC handlers to an ephemeral
// loopback port and returns a client dialed against it, bypassing
// Peer's fixed consensus port so the test can run concurrently with
// others.
func startTestServer(t *testing.T, comm *Communicator) ConsensusRPCClient {
	t.Helper()
	require := require.New(t)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	server := grpc.NewServer(grpc.ForceServerCodec(wireCodec{}))
	RegisterConsensusRPCServer(server, &rpcHandler{comm: comm})
	go server.Serve(lis)
	t.Cleanup(server.GracefulStop)

	conn, err := grpc.NewClient(
		lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wireCodec{})),
	)
	require.NoError(err)
	t.Cleanup(func() { conn.Close() })

	return NewConsensusRPCClient(conn)
}

func TestServerReceivesMessageIntoQueue(t *testing.T) {
	require := require.New(t)

	comm := NewCommunicator("self", log.NewNoOpLogger())
	client := startTestServer(t, comm)

	_, err := client.Message(context.Background(), &Message{
		Type:   MessageVote,
		Votes:  []string{"a", "b"},
		Epoch:  1,
		Signer: "peer-1",
	})
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	in, ok := comm.Recv(ctx)
	require.True(ok)
	require.Equal("peer-1", in.From)
	require.Equal(MessageVote, in.Msg.Type)
	require.Equal([]string{"a", "b"}, in.Msg.Votes)
}

func TestServerAnswersPing(t *testing.T) {
	require := require.New(t)

	comm := NewCommunicator("self", log.NewNoOpLogger())
	client := startTestServer(t, comm)

	_, err := client.Ping(context.Background(), &Empty{})
	require.NoError(err)
}

func TestRecvTimesOutWhenEmpty(t *testing.T) {
	require := require.New(t)

	comm := NewCommunicator("self", log.NewNoOpLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, ok := comm.Recv(ctx)
	require.False(ok)
}
