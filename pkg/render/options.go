package render

import "github.com/goliatone/go-vkgen/pkg/registry"

// RequestOption mutates a Request during construction.
type RequestOption func(*Request)

// WithVideo attaches the video codec registry.
func WithVideo(video *registry.Registry) RequestOption {
	return func(req *Request) {
		req.Video = video
	}
}

// WithWalkOptions overrides the traversal options.
func WithWalkOptions(opts registry.WalkOptions) RequestOption {
	return func(req *Request) {
		req.Walk = opts
	}
}

// NewRequest builds a Request for reg with default walk options.
func NewRequest(reg *registry.Registry, options ...RequestOption) Request {
	req := Request{
		Registry: reg,
		Walk:     registry.NewWalkOptions(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&req)
	}
	return req
}
