// Package reconcile merges a stream of watch-state observations into canonical records.
//
// A Mapper holds the records touched during one sync cycle in memory, indexed by primary
// key and by every identity pointer (see state.Entity.Pointers), and stages at most one
// insert or update per record. Observations that share any pointer collapse into the same
// record, so two backends reporting the same title under different native ids produce a
// single row with a metadata block per backend.
//
// # Lifecycle
//
//	mapper := reconcile.NewMapper(store, reconcile.WithLogger(log))
//	if err := mapper.LoadData(ctx, time.Time{}); err != nil { ... }
//	for _, obs := range observations {
//	    if err := mapper.Add(ctx, obs, reconcile.AddOptions{Policy: state.Trusted}); err != nil { ... }
//	}
//	result, err := mapper.Commit(ctx)
//
// Commit writes every staged record through the Store. Stores that implement Committer
// receive the whole batch and are expected to isolate per-record failures inside one
// transaction; other stores are written record by record. Either way a failed record is
// counted and the batch continues.
//
// A Mapper is not safe for concurrent use. Run one per sync cycle and let the Store
// serialize concurrent writers.
package reconcile
