package catalog

import "net/http"

const (
	defaultRoutePath = "/surveys/questions/"
	defaultCacheSize = 256
)

// GuardFunc may reject a request before the store is consulted. Returning an
// HTTPError selects the response status; any other error yields 403.
type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath string
	CacheSize int
	Guard     GuardFunc
	Store     Store
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath: defaultRoutePath,
		CacheSize: defaultCacheSize,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.CacheSize < 0 {
		opts.CacheSize = 0
	}
	if opts.Store == nil {
		opts.Store = NewMemory()
	}
	return opts
}

// WithRoutePath sets the prefix under which question ids are resolved.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithCacheSize bounds the number of memoised payloads; zero disables caching.
func WithCacheSize(size int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CacheSize = size
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithStore(store Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Store = store
	}
}
