package heartbeat

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	subtest "github.com/arloliu/subsample/testing"
)

func TestPublisher_Start(t *testing.T) {
	t.Run("publishes initial status", func(t *testing.T) {
		ctx := t.Context()

		_, nc := subtest.StartEmbeddedNATS(t)
		kv := subtest.CreateJetStreamKV(t, nc, "test-hb-start-1")

		publisher := New(kv, "", 100*time.Millisecond, subtest.NewTestLogger(t))
		require.NoError(t, publisher.Start(ctx, "run-1"))
		require.True(t, publisher.IsStarted())
		require.Equal(t, "run-1", publisher.RunID())

		status, err := Read(ctx, kv, "", "run-1")
		require.NoError(t, err)
		require.Equal(t, "run-1", status.RunID)
		require.Equal(t, "starting", status.Stage)
		require.False(t, status.StartedAt.IsZero())

		require.NoError(t, publisher.Stop())
	})

	t.Run("returns error if run ID not set", func(t *testing.T) {
		_, nc := subtest.StartEmbeddedNATS(t)
		kv := subtest.CreateJetStreamKV(t, nc, "test-hb-start-2")

		publisher := New(kv, "", time.Second, nil)

		err := publisher.Start(t.Context(), "")
		require.ErrorIs(t, err, ErrNoRunID)
		require.False(t, publisher.IsStarted())
	})

	t.Run("returns error if already started", func(t *testing.T) {
		ctx := t.Context()

		_, nc := subtest.StartEmbeddedNATS(t)
		kv := subtest.CreateJetStreamKV(t, nc, "test-hb-start-3")

		publisher := New(kv, "", time.Second, nil)
		require.NoError(t, publisher.Start(ctx, "run-1"))

		err := publisher.Start(ctx, "run-2")
		require.ErrorIs(t, err, ErrAlreadyStarted)

		require.NoError(t, publisher.Stop())
	})
}

func TestPublisher_Stage(t *testing.T) {
	ctx := t.Context()

	_, nc := subtest.StartEmbeddedNATS(t)
	kv := subtest.CreateJetStreamKV(t, nc, "test-hb-stage")

	publisher := New(kv, "progress", 50*time.Millisecond, nil)
	require.NoError(t, publisher.Start(ctx, "run-1"))
	defer func() { _ = publisher.Stop() }()

	publisher.SetStage("partition:mentions")

	require.Eventually(t, func() bool {
		status, err := Read(ctx, kv, "progress", "run-1")
		return err == nil && status.Stage == "partition:mentions"
	}, 2*time.Second, 20*time.Millisecond)

	first, err := Read(ctx, kv, "progress", "run-1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := Read(ctx, kv, "progress", "run-1")
		return err == nil && status.UpdatedAt.After(first.UpdatedAt)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestPublisher_Stop(t *testing.T) {
	t.Run("deletes the heartbeat entry", func(t *testing.T) {
		ctx := t.Context()

		_, nc := subtest.StartEmbeddedNATS(t)
		kv := subtest.CreateJetStreamKV(t, nc, "test-hb-stop-1")

		publisher := New(kv, "", 50*time.Millisecond, nil)
		require.NoError(t, publisher.Start(ctx, "run-1"))
		require.NoError(t, publisher.Stop())
		require.False(t, publisher.IsStarted())

		_, err := Read(ctx, kv, "", "run-1")
		require.ErrorIs(t, err, jetstream.ErrKeyNotFound)
	})

	t.Run("returns error if not started", func(t *testing.T) {
		_, nc := subtest.StartEmbeddedNATS(t)
		kv := subtest.CreateJetStreamKV(t, nc, "test-hb-stop-2")

		publisher := New(kv, "", time.Second, nil)
		require.ErrorIs(t, publisher.Stop(), ErrNotStarted)
	})
}
