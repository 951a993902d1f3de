package vision

import "context"

// Client port. Any vendor that can return ranked labels, text blocks, ranked
// logos and a dominant-color summary for an image URI is substitutable here.
type Client interface {
	Annotate(ctx context.Context, imageURI string) (*Observation, error)
}
