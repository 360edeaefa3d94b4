// Package crystal persists agent-authored artifacts ("crystals") as
// self-describing JSON records, one file per crystal.
//
// Records are create-only. A crystal is written exactly once under a
// generated opaque ID and never mutated or deleted by this package;
// every change is a new crystal with a new ID. That immutability lets
// the store keep a read-through LRU cache that never needs
// invalidation.
//
// # Basic Usage
//
//	store, err := crystal.NewStore(home, "crystals", crystal.NullScanner(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := store.Create(ctx, crystal.CreateRequest{
//	    Title:   "Session export",
//	    Content: "...",
//	})
//
// Content may be omitted from a create request, in which case the
// injected ContextScanner is consulted. The default scanner always
// reports nothing, so such a create fails with types.ErrNoContent until
// a real context-scanning integration is plugged in.
package crystal
