package domain

import "context"

// EmbeddingDimensions is the vector length the similarity index was built with.
const EmbeddingDimensions = 2048

// EmbeddingResult carries a query embedding and the tokens it consumed.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder converts text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by embedders that can verify provider access.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
