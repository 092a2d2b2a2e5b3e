// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageRoundTripVote(t *testing.T) {
	require := require.New(t)

	m := Message{
		Type:      MessageVote,
		Votes:     []string{"a", "b", "c"},
		Epoch:     3,
		Timestamp: 123456,
		Signer:    "self",
	}
	decoded, err := Unmarshal(m.Marshal())
	require.NoError(err)
	require.Equal(m, decoded)
}

func TestMessageRoundTripBootstrap(t *testing.T) {
	require := require.New(t)

	m := Message{
		Type: MessageBootstrap,
		Bootstrap: &Bootstrap{
			ChainHeadID: "deadbeef",
			NumBlocks:   42,
			PreID:       "feedface",
		},
		Timestamp: 99,
		Signer:    "peer-1",
	}
	decoded, err := Unmarshal(m.Marshal())
	require.NoError(err)
	require.Equal(m, decoded)
}

func TestMessageRoundTripEmptySlot(t *testing.T) {
	require := require.New(t)

	m := Message{Type: MessageEmptySlot, Timestamp: 1, Signer: "self"}
	decoded, err := Unmarshal(m.Marshal())
	require.NoError(err)
	require.Equal(m, decoded)
	require.Nil(decoded.Bootstrap)
}

func TestMessageTypeString(t *testing.T) {
	require := require.New(t)

	require.Equal("VOTE", MessageVote.String())
	require.Equal("BOOTSTRAP_REQUEST", MessageBootstrapRequest.String())
	require.Equal("UNKNOWN", MessageUnknown.String())
}
