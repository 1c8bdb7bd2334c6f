package natsutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/arloliu/allot/types"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestIsConnectivityError(t *testing.T) {
	require.False(t, IsConnectivityError(nil))
	require.False(t, IsConnectivityError(errors.New("bad json")))

	for _, err := range []error{
		nats.ErrTimeout,
		nats.ErrNoServers,
		fmt.Errorf("put: %w", nats.ErrConnectionClosed),
		jetstream.ErrNoStreamResponse,
		errors.New("dial tcp 127.0.0.1:4222: connection refused"),
		types.ErrConnectivity,
	} {
		require.True(t, IsConnectivityError(err), err.Error())
	}
}

func TestClassify(t *testing.T) {
	require.NoError(t, Classify(nil))

	plain := errors.New("bad json")
	require.Same(t, plain, Classify(plain))

	wrapped := Classify(nats.ErrTimeout)
	require.ErrorIs(t, wrapped, types.ErrConnectivity)
	require.ErrorIs(t, wrapped, nats.ErrTimeout)

	require.Equal(t, types.ErrConnectivity, Classify(types.ErrConnectivity))
}
