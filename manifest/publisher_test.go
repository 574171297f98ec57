package manifest

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	subtest "github.com/arloliu/subsample/testing"
)

func TestKVPublisher(t *testing.T) {
	_, nc := subtest.StartEmbeddedNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	pub, err := OpenKVPublisher(ctx, js, "", subtest.NewTestLogger(t))
	require.NoError(t, err)

	t.Run("latest before any publish", func(t *testing.T) {
		_, err := pub.Latest(ctx)
		require.ErrorIs(t, err, ErrNotFound)
	})

	first := sample()
	second := sample()

	t.Run("publish and get", func(t *testing.T) {
		require.NoError(t, pub.Publish(ctx, first))

		got, err := pub.Get(ctx, first.RunID)
		require.NoError(t, err)
		require.Equal(t, first.RunID, got.RunID)
		require.Equal(t, first.Digest, got.Digest)
		require.Equal(t, first.Tables, got.Tables)
	})

	t.Run("latest follows most recent publish", func(t *testing.T) {
		require.NoError(t, pub.Publish(ctx, second))

		got, err := pub.Latest(ctx)
		require.NoError(t, err)
		require.Equal(t, second.RunID, got.RunID)
	})

	t.Run("unknown run", func(t *testing.T) {
		_, err := pub.Get(ctx, "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("reopening the bucket sees earlier runs", func(t *testing.T) {
		again, err := OpenKVPublisher(ctx, js, DefaultBucket, nil)
		require.NoError(t, err)

		got, err := again.Get(ctx, first.RunID)
		require.NoError(t, err)
		require.Equal(t, first.RunID, got.RunID)
	})
}

func TestNewKVPublisher(t *testing.T) {
	_, nc := subtest.StartEmbeddedNATS(t)
	kv := subtest.CreateJetStreamKV(t, nc, "runs-test")

	pub := NewKVPublisher(kv, nil)
	m := sample()
	require.NoError(t, pub.Publish(t.Context(), m))

	entry, err := kv.Get(t.Context(), "latest")
	require.NoError(t, err)
	require.Equal(t, m.RunID, string(entry.Value()))
}
