// Package movie implements the movie CRUD repository over the primary
// collection. Store error signals are translated to domain sentinels here
// so upper layers never inspect driver types.
package movie

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cinelab-io/mflix-api/internal/db"
	"github.com/cinelab-io/mflix-api/internal/domain"
)

// Repo implements usecase/movie.Repository.
type Repo struct {
	col *mongo.Collection
}

// New creates a movie repository.
func New(col *mongo.Collection) *Repo {
	return &Repo{col: col}
}

// Find lists movies matching the compiled query.
func (r *Repo) Find(ctx context.Context, q ListQuery) ([]domain.Movie, error) {
	opts := options.Find().
		SetSort(q.Sort()).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cur, err := r.col.Find(ctx, q.Filter(), opts)
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Movie
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	return out, nil
}

// Count returns the number of movies matching the query filter.
func (r *Repo) Count(ctx context.Context, q ListQuery) (int64, error) {
	n, err := r.col.CountDocuments(ctx, q.Filter())
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// GetByID fetches a single movie, mapping a miss to ErrMovieNotFound.
func (r *Repo) GetByID(ctx context.Context, id primitive.ObjectID) (domain.Movie, error) {
	var m domain.Movie
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if db.IsNoDocuments(err) {
			return domain.Movie{}, domain.ErrMovieNotFound
		}
		return domain.Movie{}, fmt.Errorf("find movie %s: %w", id.Hex(), err)
	}
	return m, nil
}

// Insert creates a movie and returns the store-generated identifier.
func (r *Repo) Insert(ctx context.Context, m *domain.Movie) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return primitive.NilObjectID, mapWriteError("insert movie", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert movie: unexpected id type %T", res.InsertedID)
	}
	return id, nil
}

// InsertMany creates a batch of movies atomically validated by the caller.
func (r *Repo) InsertMany(ctx context.Context, ms []domain.Movie) ([]primitive.ObjectID, error) {
	docs := make([]any, len(ms))
	for i := range ms {
		docs[i] = &ms[i]
	}
	res, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		return nil, mapWriteError("insert movies", err)
	}
	ids := make([]primitive.ObjectID, 0, len(res.InsertedIDs))
	for _, raw := range res.InsertedIDs {
		if id, ok := raw.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// UpdateByID applies a $set patch to one movie.
func (r *Repo) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (matched, modified int64, err error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return 0, 0, mapWriteError("update movie", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// UpdateMany applies a $set patch to every movie matching the filter.
func (r *Repo) UpdateMany(ctx context.Context, filter bson.M, patch bson.M) (matched, modified int64, err error) {
	res, err := r.col.UpdateMany(ctx, filter, bson.M{"$set": patch})
	if err != nil {
		return 0, 0, mapWriteError("update movies", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// DeleteByID removes one movie, reporting whether anything was deleted.
func (r *Repo) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete movie %s: %w", id.Hex(), err)
	}
	return res.DeletedCount, nil
}

// DeleteMany removes every movie matching the filter. The caller guards
// against empty filters before this point.
func (r *Repo) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete movies: %w", err)
	}
	return res.DeletedCount, nil
}

// mapWriteError translates driver write errors to domain sentinels while
// keeping the original diagnostic in the message.
func mapWriteError(op string, err error) error {
	switch {
	case db.IsDuplicateKey(err):
		return fmt.Errorf("%s: %w: %s", op, domain.ErrDuplicateKey, err)
	case db.IsDocumentValidation(err):
		return fmt.Errorf("%s: %w: %s", op, domain.ErrDocumentValidation, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
