package movie

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cinelab-io/mflix-api/internal/domain"
	movierepo "github.com/cinelab-io/mflix-api/internal/repository/movie"
)

// Repository defines the storage contract for movie documents.
type Repository interface {
	Find(ctx context.Context, q movierepo.ListQuery) ([]domain.Movie, error)
	Count(ctx context.Context, q movierepo.ListQuery) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (domain.Movie, error)
	Insert(ctx context.Context, m *domain.Movie) (primitive.ObjectID, error)
	InsertMany(ctx context.Context, ms []domain.Movie) ([]primitive.ObjectID, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (matched, modified int64, err error)
	UpdateMany(ctx context.Context, filter bson.M, patch bson.M) (matched, modified int64, err error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
}
