package querygate

import "fmt"

type options struct {
	inserts InsertHandler
	selects SelectHandler
	deletes DeleteHandler
	logger  *Logger
}

// Option configures an Interceptor.
type Option func(*options)

// WithInsertHandler attaches the embedded insert handler.
func WithInsertHandler(h InsertHandler) Option {
	return func(o *options) {
		o.inserts = h
	}
}

// WithSelectHandler attaches the embedded search execution path.
func WithSelectHandler(h SelectHandler) Option {
	return func(o *options) {
		o.selects = h
	}
}

// WithDeleteHandler attaches the embedded delete handler.
func WithDeleteHandler(h DeleteHandler) Option {
	return func(o *options) {
		o.deletes = h
	}
}

// WithLogger attaches a structured logger. If nil is passed, logging stays
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func errNoHandler(kind string) error {
	return fmt.Errorf("no %s handler configured", kind)
}
