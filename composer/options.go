package composer

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	TopK        int
	Temperature float32
	Timeout     time.Duration
	Context     context.Context
}

func WithTopK(topK int) Option {
	return func(o *Options) {
		o.TopK = topK
	}
}

func WithTemperature(temperature float32) Option {
	return func(o *Options) {
		o.Temperature = temperature
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopK:        5,
		Temperature: 0.3,
		Timeout:     60 * time.Second,
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
