package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartEmbeddedNATS(t *testing.T) {
	ns, nc := StartEmbeddedNATS(t)

	require.True(t, nc.IsConnected())
	require.True(t, ns.ReadyForConnections(time.Second))
	require.True(t, ns.JetStreamEnabled())

	info, err := NewJetStream(t, nc).AccountInfo(t.Context())
	require.NoError(t, err)
	require.Zero(t, info.Streams)
}

func TestStartEmbeddedNATS_Isolated(t *testing.T) {
	t.Parallel()

	for range 3 {
		t.Run("parallel", func(t *testing.T) {
			t.Parallel()

			_, nc := StartEmbeddedNATS(t)
			// Each server is private, so the same bucket name never collides.
			CreateJetStreamKV(t, nc, "results")
		})
	}
}

func TestCreateJetStreamKV(t *testing.T) {
	_, nc := StartEmbeddedNATS(t)
	kv := CreateJetStreamKV(t, nc, "fixtures")

	_, err := kv.Put(t.Context(), "allot.project.X", []byte(`{}`))
	require.NoError(t, err)

	entry, err := kv.Get(t.Context(), "allot.project.X")
	require.NoError(t, err)
	require.Equal(t, []byte(`{}`), entry.Value())

	status, err := kv.Status(t.Context())
	require.NoError(t, err)
	require.Equal(t, int64(5), status.History())
}
