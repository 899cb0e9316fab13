package search

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cinelab-io/mflix-api/internal/domain"
	"github.com/cinelab-io/mflix-api/internal/domain/params"
	searchrepo "github.com/cinelab-io/mflix-api/internal/repository/search"
)

// Service orchestrates compound text search and two-phase vector search.
type Service struct {
	repo     Repository
	embedder Embedder
}

// New creates a search service.
func New(repo Repository, embedder Embedder) *Service {
	return &Service{repo: repo, embedder: embedder}
}

// CompoundResult is one page of compound search hits with the total count.
type CompoundResult struct {
	Total   int
	Results []bson.M
	Limit   int
	Skip    int
}

// VectorHit is one vector search match: the full movie document plus its
// similarity score.
type VectorHit struct {
	Movie bson.M  `json:"movie"`
	Score float64 `json:"score"`
}

// Compound runs the compound full-text search. At least one text field must
// be supplied.
func (s *Service) Compound(
	ctx context.Context, q searchrepo.CompoundQuery, op params.SearchOperator, limit, skip int,
) (CompoundResult, error) {
	if q.IsEmpty() {
		return CompoundResult{}, domain.ErrNoSearchParameters
	}

	result, err := s.repo.Compound(ctx, q, op, limit, skip)
	if err != nil {
		return CompoundResult{}, fmt.Errorf("compound search: %w", err)
	}

	return CompoundResult{
		Total:   result.Total,
		Results: result.Results,
		Limit:   limit,
		Skip:    skip,
	}, nil
}

// Vector runs the two-phase similarity search: embed the query, fetch the
// nearest neighbor ids from the pre-embedded collection, refetch the full
// records from the primary collection, then re-attach scores by id. The
// refetch does not preserve order, so the final sort is done here.
func (s *Service) Vector(ctx context.Context, query string, limit int) ([]VectorHit, error) {
	if query == "" {
		return nil, domain.ErrMissingQuery
	}

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := s.repo.NearestIDs(ctx, emb.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(scored) == 0 {
		return []VectorHit{}, nil
	}

	ids := make([]primitive.ObjectID, len(scored))
	scores := make(map[primitive.ObjectID]float64, len(scored))
	for i, s := range scored {
		ids[i] = s.ID
		scores[s.ID] = s.Score
	}

	docs, err := s.repo.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch matched movies: %w", err)
	}

	hits := make([]VectorHit, 0, len(docs))
	for _, doc := range docs {
		id, ok := doc["_id"].(primitive.ObjectID)
		if !ok {
			continue
		}
		hits = append(hits, VectorHit{Movie: doc, Score: scores[id]})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	return hits, nil
}
