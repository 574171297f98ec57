// Package testing provides test utilities for the subsample library.
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger: types.Logger writing through t.Logf
//
// Example usage:
//
//	import (
//	    "testing"
//	    subtest "github.com/arloliu/subsample/testing"
//	)
//
//	func TestPublish(t *testing.T) {
//	    _, nc := subtest.StartEmbeddedNATS(t)
//	    kv := subtest.CreateJetStreamKV(t, nc, "subsample-runs")
//	    // publish manifests to kv
//	}
package testing
