// Package search executes the compound text and vector similarity
// pipelines. The vector flow is two collections wide: nearest-neighbor ids
// come from the pre-embedded collection, full records from the primary one.
package search

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cinelab-io/mflix-api/internal/domain/params"
)

// ScoredID pairs a movie identifier with its similarity score.
type ScoredID struct {
	ID    primitive.ObjectID `bson:"_id"`
	Score float64            `bson:"score"`
}

// CompoundResult is the decoded $facet output of a compound search.
type CompoundResult struct {
	Total   int
	Results []bson.M
}

// Repo implements usecase/search.Repository.
type Repo struct {
	movies   *mongo.Collection
	embedded *mongo.Collection
}

// New creates a search repository.
func New(movies, embedded *mongo.Collection) *Repo {
	return &Repo{movies: movies, embedded: embedded}
}

// Compound runs the compound text search against the primary collection.
func (r *Repo) Compound(
	ctx context.Context, q CompoundQuery, op params.SearchOperator, limit, skip int,
) (CompoundResult, error) {
	cur, err := r.movies.Aggregate(ctx, CompoundPipeline(q, op, limit, skip))
	if err != nil {
		return CompoundResult{}, fmt.Errorf("aggregate compound search: %w", err)
	}
	defer cur.Close(ctx)

	var facets []struct {
		TotalCount []struct {
			Count int `bson:"count"`
		} `bson:"totalCount"`
		Results []bson.M `bson:"results"`
	}
	if err := cur.All(ctx, &facets); err != nil {
		return CompoundResult{}, fmt.Errorf("decode compound search: %w", err)
	}
	if len(facets) == 0 {
		return CompoundResult{Results: []bson.M{}}, nil
	}

	out := CompoundResult{Results: facets[0].Results}
	if len(facets[0].TotalCount) > 0 {
		out.Total = facets[0].TotalCount[0].Count
	}
	if out.Results == nil {
		out.Results = []bson.M{}
	}
	return out, nil
}

// NearestIDs runs the nearest-neighbor phase, returning ids with scores in
// similarity order.
func (r *Repo) NearestIDs(ctx context.Context, vector []float32, limit int) ([]ScoredID, error) {
	cur, err := r.embedded.Aggregate(ctx, VectorPipeline(vector, limit))
	if err != nil {
		return nil, fmt.Errorf("aggregate vector search: %w", err)
	}
	defer cur.Close(ctx)

	var out []ScoredID
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode vector search: %w", err)
	}
	return out, nil
}

// FetchByIDs re-fetches normalized full records from the primary
// collection. The store does not preserve the similarity order here; the
// caller re-sorts after re-attaching scores.
func (r *Repo) FetchByIDs(ctx context.Context, ids []primitive.ObjectID) ([]bson.M, error) {
	cur, err := r.movies.Aggregate(ctx, FetchPipeline(ids))
	if err != nil {
		return nil, fmt.Errorf("fetch movies by ids: %w", err)
	}
	defer cur.Close(ctx)

	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode movies by ids: %w", err)
	}
	return out, nil
}
