package fetch

import "context"

// PageFetcher abstracts over the rendering and non-rendering fetch modes so
// the harvester and reference collector can swap strategies.
type PageFetcher interface {
	Fetch(ctx context.Context, urlStr string) (*Result, error)
}

// Plain is the non-rendering PageFetcher backed by a bare HTTP GET.
type Plain struct {
	Options *Options
}

// Fetch retrieves raw markup over plain HTTP.
func (p *Plain) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	return URL(ctx, urlStr, p.Options)
}
