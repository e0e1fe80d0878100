// Package watch triggers rebuilds when watched source trees change.
//
// A Watcher wraps fsnotify with per-path debouncing: editors and build
// steps emit bursts of events for the same file, and the watcher reports a
// path only after it has stayed quiet for the debounce window (300 ms by
// default). Paths that settle together are delivered as one change set, so
// one save of many files costs one rebuild.
//
// Directories created under a watched root join the watch set
// automatically. Editor temp files (.swp, .tmp, trailing ~) are ignored,
// as are hidden directories and node_modules.
//
// # Usage
//
//	w, err := watch.New(func(ctx context.Context, paths []string) error {
//		return rebuild(ctx)
//	}, watch.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	if err := w.Add("src"); err != nil {
//		return err
//	}
//	if err := w.Add("languages"); err != nil {
//		return err
//	}
//
//	w.Start(ctx)
//	defer w.Stop()
//	<-ctx.Done()
//
// Callback errors are logged and watching continues; a broken rebuild must
// not end the watch session.
package watch
