package search

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cinelab-io/mflix-api/internal/domain"
	"github.com/cinelab-io/mflix-api/internal/domain/params"
	searchrepo "github.com/cinelab-io/mflix-api/internal/repository/search"
)

// Repository defines the search pipeline contract.
type Repository interface {
	Compound(ctx context.Context, q searchrepo.CompoundQuery, op params.SearchOperator, limit, skip int) (searchrepo.CompoundResult, error)
	NearestIDs(ctx context.Context, vector []float32, limit int) ([]searchrepo.ScoredID, error)
	FetchByIDs(ctx context.Context, ids []primitive.ObjectID) ([]bson.M, error)
}

// Embedder vectorizes the free-text query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
