// Package sync provides the reconciliation bridge between the local todo
// store and the owner's remote collection.
//
// Overview
//
// Records are created offline-first in the local SQLite store and mirrored
// to the remote collection on demand. The engine runs two directional
// batch algorithms over full snapshots:
//
//	Local store (SQLite)                Remote collection
//	  pending records  ── Push ──────▶  new documents (id assigned)
//	  missing records  ◀────── Pull ──  importable documents
//	        │
//	        └──▶ Notification scheduler (reminders re-established on import)
//
// Push selects every record not yet marked synced, creates its remote
// counterpart carrying the original creation time, and stores the returned
// document id locally. Pull imports every remote document with no local
// counterpart, correlating by remote id, and schedules a reminder
// notification for imported records that carry one.
//
// Both directions are idempotent and report per-record outcomes instead of
// failing the batch; see the Syncer interface for the exact contracts.
//
// Usage
//
// Basic usage:
//
//	st, err := store.Open(dbPath)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	if err := st.InitSchema(); err != nil {
//	    return err
//	}
//
//	syncer := sync.New(st, collection, scheduler, nil)
//
//	pushed, err := syncer.Push(ctx, ownerID)
//	if err != nil {
//	    return err
//	}
//	pulled, err := syncer.Pull(ctx, ownerID)
//	if err != nil {
//	    return err
//	}
package sync
