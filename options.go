package arena

import "github.com/go-kit/log"

// Option configures an Arena.
type Option func(*Arena)

// WithLogger sets the logger the arena reports commit growth to, at debug
// level. A nil logger is ignored.
func WithLogger(logger log.Logger) Option {
	return func(a *Arena) {
		if logger != nil {
			a.logger = logger
		}
	}
}
