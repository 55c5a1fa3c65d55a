package index

import (
	"context"
	"time"

	"github.com/zhifalaw/counsel/embedder"
	"github.com/zhifalaw/counsel/index/storer"
)

type Option func(*Options)

type Options struct {
	Collection   string
	Embedder     embedder.Embedder
	Remote       storer.Storer
	VerifyWithin time.Duration
	ScrollLimit  int
	Context      context.Context
}

func WithCollection(collection string) Option {
	return func(o *Options) {
		o.Collection = collection
	}
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = e
	}
}

// WithRemote supplies the networked storer to try first. Without one the
// index starts directly in memory mode.
func WithRemote(s storer.Storer) Option {
	return func(o *Options) {
		o.Remote = s
	}
}

func WithVerifyWithin(d time.Duration) Option {
	return func(o *Options) {
		o.VerifyWithin = d
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Collection:   "legal_documents",
		VerifyWithin: 5 * time.Second,
		ScrollLimit:  1000,
		Context:      context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
