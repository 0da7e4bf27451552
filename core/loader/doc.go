// Package loader registers features on the Fiber app.
//
// Each feature (history, ignore, backup, integrity) implements Feature and mounts its
// own routes. The Manager loads the enabled ones in registration order:
//
//	mgr := loader.NewManager()
//	mgr.Register(history.NewFeature(...))
//	loaded, err := mgr.LoadAll(app)
package loader
