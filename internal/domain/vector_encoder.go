package domain

import "context"

// VectorEncoder turns texts into embedding vectors for post similarity search.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}
