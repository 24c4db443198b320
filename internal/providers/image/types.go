package image

import "context"

// Generator is the contract implemented by all image providers. It returns the
// raw bytes of a single generated image for the given prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
