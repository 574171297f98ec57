// Package heartbeat publishes the progress of a running subsample run to NATS KV.
//
// A long run over large tables can take hours. While it is in progress the
// Publisher keeps a status entry fresh so that observers watching the manifest
// bucket can tell a live run from a crashed one.
//
// # Publisher Lifecycle
//
//  1. Create publisher with New(kv, prefix, interval, logger)
//  2. Start publishing with Start(ctx, runID)
//  3. Report progress with SetStage(stage)
//  4. Stop publishing with Stop(), which deletes the entry
//
// Example:
//
//	publisher := heartbeat.New(kv, "running", 5*time.Second, logger)
//	if err := publisher.Start(ctx, runID); err != nil {
//	    return err
//	}
//	defer publisher.Stop()
//
//	publisher.SetStage("partition:mentions")
//
// # Key Format
//
//	{prefix}.{runID}
//
// Example: "running.7c9e6679-7425-40de-944b-e07fc1f90ae7"
//
// The value is a JSON-encoded Status. A run that dies without calling Stop
// leaves an entry whose UpdatedAt stops advancing.
package heartbeat
