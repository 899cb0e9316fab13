// Package report runs the reporting aggregation pipelines over the movie
// collection. Pipelines are pure data; this repository only executes them.
package report

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MovieComments is one row of the recent-comments report.
type MovieComments struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id"`
	Title             string             `json:"title" bson:"title"`
	Year              any                `json:"year,omitempty" bson:"year,omitempty"`
	CommentCount      int                `json:"commentCount" bson:"commentCount"`
	MostRecentComment time.Time          `json:"mostRecentComment" bson:"mostRecentComment"`
	Comments          []CommentSummary   `json:"comments" bson:"comments"`
}

// CommentSummary is a comment stripped to its displayable fields.
type CommentSummary struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Text  string             `json:"text" bson:"text"`
	Date  time.Time          `json:"date" bson:"date"`
}

// YearStats is one per-year group of the statistics report.
type YearStats struct {
	Year          int      `json:"year" bson:"year"`
	MovieCount    int      `json:"movieCount" bson:"movieCount"`
	AverageRating *float64 `json:"averageRating" bson:"averageRating"`
	HighestRating *float64 `json:"highestRating" bson:"highestRating"`
	LowestRating  *float64 `json:"lowestRating" bson:"lowestRating"`
	TotalVotes    int64    `json:"totalVotes" bson:"totalVotes"`
}

// DirectorStats is one per-director group of the statistics report.
type DirectorStats struct {
	Director      string   `json:"director" bson:"director"`
	MovieCount    int      `json:"movieCount" bson:"movieCount"`
	AverageRating *float64 `json:"averageRating" bson:"averageRating"`
}

// Repo implements usecase/report.Repository.
type Repo struct {
	movies            *mongo.Collection
	commentCollection string
}

// New creates a report repository. commentCollection is the join target of
// the comments report.
func New(movies *mongo.Collection, commentCollection string) *Repo {
	return &Repo{movies: movies, commentCollection: commentCollection}
}

// MoviesWithRecentComments runs the comments report.
func (r *Repo) MoviesWithRecentComments(
	ctx context.Context, movieID *primitive.ObjectID, commentLimit int,
) ([]MovieComments, error) {
	pipeline := CommentsPipeline(r.commentCollection, movieID, commentLimit)

	cur, err := r.movies.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate comments report: %w", err)
	}
	defer cur.Close(ctx)

	var out []MovieComments
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode comments report: %w", err)
	}
	return out, nil
}

// StatsByYear runs the per-year statistics report.
func (r *Repo) StatsByYear(ctx context.Context, startYear, endYear *int) ([]YearStats, error) {
	cur, err := r.movies.Aggregate(ctx, YearStatsPipeline(startYear, endYear))
	if err != nil {
		return nil, fmt.Errorf("aggregate year stats: %w", err)
	}
	defer cur.Close(ctx)

	var out []YearStats
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode year stats: %w", err)
	}
	return out, nil
}

// StatsByDirector runs the per-director statistics report.
func (r *Repo) StatsByDirector(ctx context.Context, limit int) ([]DirectorStats, error) {
	cur, err := r.movies.Aggregate(ctx, DirectorStatsPipeline(limit))
	if err != nil {
		return nil, fmt.Errorf("aggregate director stats: %w", err)
	}
	defer cur.Close(ctx)

	var out []DirectorStats
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode director stats: %w", err)
	}
	return out, nil
}
