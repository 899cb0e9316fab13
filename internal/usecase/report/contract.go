package report

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	reportrepo "github.com/cinelab-io/mflix-api/internal/repository/report"
)

// Repository defines the aggregation contract for the reporting pipelines.
type Repository interface {
	MoviesWithRecentComments(ctx context.Context, movieID *primitive.ObjectID, commentLimit int) ([]reportrepo.MovieComments, error)
	StatsByYear(ctx context.Context, startYear, endYear *int) ([]reportrepo.YearStats, error)
	StatsByDirector(ctx context.Context, limit int) ([]reportrepo.DirectorStats, error)
}
