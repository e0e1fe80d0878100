package watch

import (
	"log/slog"
	"time"
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is reported.
// Panics if d is not positive.
func WithDebounce(d time.Duration) Option {
	if d <= 0 {
		panic("watch: debounce must be positive")
	}
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}
