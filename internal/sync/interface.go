// Package sync implements the local/remote reconciliation engine.
package sync

import "context"

// Syncer reconciles the local todo store with the owner's remote collection.
//
// Both directions operate on full snapshots: the engine reads every record
// from source and destination, computes a plan, applies mutations to the
// destination store only, and reports a per-record outcome list. It never
// polls or runs continuously - each call is one reconciliation run.
//
// Runs are idempotent. Re-running Push only re-attempts records still
// pending; re-running Pull reports every already-imported record as
// existing. A run interrupted mid-way leaves completed records reconciled
// and the rest untouched, safe to resume by calling again.
//
// The engine provides no locking: callers must not invoke Push or Pull
// concurrently for the same owner.
type Syncer interface {
	// Push reconciles locally pending records into the remote collection.
	//
	// Every local record with synced=false is created remotely, carrying
	// its title and original creation time; on success the local record is
	// marked synced and the server-assigned id is stored as its remote id.
	//
	// Individual record failures are reported in the result list, never
	// escalated - partial failure is expected. The only error return is
	// ErrOwnerRequired (before any mutation) or a failure to read the
	// local snapshot.
	Push(ctx context.Context, ownerID string) ([]PushResult, error)

	// Pull imports remote records absent locally.
	//
	// Existence is determined by remote-id correlation, not content
	// equality. Imported records are inserted synced, with the remote
	// creation time normalized to local millisecond representation (the
	// current time substitutes a missing value). A record carrying a
	// reminder gets a notification scheduled best-effort: permission and
	// scheduling failures are logged and never fail the import.
	//
	// A local insert failure aborts only that record's import and is
	// reported in its outcome; the rest of the batch proceeds.
	Pull(ctx context.Context, ownerID string) ([]PullResult, error)
}
