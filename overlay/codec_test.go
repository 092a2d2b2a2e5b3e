// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWireCodecMessageRoundTrip(t *testing.T) {
	require := require.New(t)

	c := wireCodec{}
	in := &Message{Type: MessageVote, Votes: []string{"a", "b"}, Epoch: 2, Signer: "self"}

	data, err := c.Marshal(in)
	require.NoError(err)

	var out Message
	require.NoError(c.Unmarshal(data, &out))
	require.Equal(*in, out)
}

func TestWireCodecEmpty(t *testing.T) {
	require := require.New(t)

	c := wireCodec{}
	data, err := c.Marshal(&Empty{})
	require.NoError(err)
	require.Nil(data)

	var out Empty
	require.NoError(c.Unmarshal(data, &out))
}

func TestWireCodecRejectsUnknownType(t *testing.T) {
	require := require.New(t)

	c := wireCodec{}
	_, err := c.Marshal("not a message")
	require.Error(err)
}

func TestWireCodecName(t *testing.T) {
	require := require.New(t)
	require.Equal("ddpoa-wire", wireCodec{}.Name())
}
