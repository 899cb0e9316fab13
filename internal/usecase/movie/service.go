package movie

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cinelab-io/mflix-api/internal/domain"
	"github.com/cinelab-io/mflix-api/internal/domain/params"
	movierepo "github.com/cinelab-io/mflix-api/internal/repository/movie"
)

// Service handles movie CRUD orchestration: identifier validation, payload
// guards, and not-found mapping. Query compilation lives in the repository.
type Service struct {
	repo Repository
}

// New creates a movie service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListResult carries one page of movies plus the total match count.
type ListResult struct {
	Movies []domain.Movie
	Total  int64
	Limit  int
	Skip   int
}

// WriteResult carries matched/modified counts for update operations.
type WriteResult struct {
	Matched  int64
	Modified int64
}

// List returns a filtered, sorted page of movies with the total count of
// matches (counted on the same filter, independent of pagination).
func (s *Service) List(ctx context.Context, q movierepo.ListQuery) (ListResult, error) {
	movies, err := s.repo.Find(ctx, q)
	if err != nil {
		return ListResult{}, fmt.Errorf("find movies: %w", err)
	}

	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return ListResult{}, fmt.Errorf("count movies: %w", err)
	}

	return ListResult{Movies: movies, Total: total, Limit: q.Limit, Skip: q.Skip}, nil
}

// Get fetches a single movie by its raw identifier.
func (s *Service) Get(ctx context.Context, rawID string) (domain.Movie, error) {
	id, err := params.ObjectID(rawID)
	if err != nil {
		return domain.Movie{}, err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

// Create inserts a movie. Title is the only schema requirement.
func (s *Service) Create(ctx context.Context, m *domain.Movie) (primitive.ObjectID, error) {
	if m == nil || m.Title == "" {
		return primitive.NilObjectID, domain.ErrMissingTitle
	}

	id, err := s.repo.Insert(ctx, m)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert movie: %w", err)
	}
	return id, nil
}

// CreateBatch inserts several movies at once. Every document must carry a
// title; validation completes before any write so a bad entry blocks the
// whole batch.
func (s *Service) CreateBatch(ctx context.Context, ms []domain.Movie) ([]primitive.ObjectID, error) {
	if len(ms) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	for i := range ms {
		if ms[i].Title == "" {
			return nil, fmt.Errorf("document %d: %w", i, domain.ErrMissingTitle)
		}
	}

	ids, err := s.repo.InsertMany(ctx, ms)
	if err != nil {
		return nil, fmt.Errorf("insert movies: %w", err)
	}
	return ids, nil
}

// Update applies a partial update to one movie. A zero matched count maps to
// not-found; modified may legitimately be zero when the patch is a no-op.
func (s *Service) Update(ctx context.Context, rawID string, patch bson.M) (WriteResult, error) {
	id, err := params.ObjectID(rawID)
	if err != nil {
		return WriteResult{}, err
	}
	if len(patch) == 0 {
		return WriteResult{}, domain.ErrEmptyUpdate
	}

	matched, modified, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return WriteResult{}, fmt.Errorf("update movie: %w", err)
	}
	if matched == 0 {
		return WriteResult{}, domain.ErrMovieNotFound
	}
	return WriteResult{Matched: matched, Modified: modified}, nil
}

// UpdateBatch applies one patch to the movies named by rawIDs. Identifier
// validation is atomic: one malformed id rejects the whole request before
// any write.
func (s *Service) UpdateBatch(ctx context.Context, rawIDs []string, patch bson.M) (WriteResult, error) {
	ids, err := params.ObjectIDs(rawIDs)
	if err != nil {
		return WriteResult{}, err
	}
	if len(ids) == 0 {
		return WriteResult{}, domain.ErrMissingFilter
	}
	if len(patch) == 0 {
		return WriteResult{}, domain.ErrEmptyUpdate
	}

	matched, modified, err := s.repo.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, patch)
	if err != nil {
		return WriteResult{}, fmt.Errorf("update movies: %w", err)
	}
	return WriteResult{Matched: matched, Modified: modified}, nil
}

// Delete removes one movie by its raw identifier.
func (s *Service) Delete(ctx context.Context, rawID string) (int64, error) {
	id, err := params.ObjectID(rawID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete movie: %w", err)
	}
	if deleted == 0 {
		return 0, domain.ErrMovieNotFound
	}
	return deleted, nil
}

// DeleteBatch removes every movie matching the filter. An empty filter is
// rejected so a bad request cannot wipe the collection.
func (s *Service) DeleteBatch(ctx context.Context, filter bson.M) (int64, error) {
	if len(filter) == 0 {
		return 0, domain.ErrMissingFilter
	}

	deleted, err := s.repo.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete movies: %w", err)
	}
	return deleted, nil
}
