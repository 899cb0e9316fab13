package report

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cinelab-io/mflix-api/internal/domain/params"
	reportrepo "github.com/cinelab-io/mflix-api/internal/repository/report"
)

// Service orchestrates the reporting aggregations.
type Service struct {
	repo Repository
}

// New creates a report service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecentComments runs the movies-with-recent-comments report. rawMovieID
// narrows the report to one movie when non-empty; a malformed id is fatal.
func (s *Service) RecentComments(ctx context.Context, rawMovieID string, commentLimit int) ([]reportrepo.MovieComments, error) {
	var movieID *primitive.ObjectID
	if rawMovieID != "" {
		id, err := params.ObjectID(rawMovieID)
		if err != nil {
			return nil, err
		}
		movieID = &id
	}

	rows, err := s.repo.MoviesWithRecentComments(ctx, movieID, commentLimit)
	if err != nil {
		return nil, fmt.Errorf("comments report: %w", err)
	}
	return rows, nil
}

// YearStats runs the per-year statistics report over an optional year range.
func (s *Service) YearStats(ctx context.Context, startYear, endYear *int) ([]reportrepo.YearStats, error) {
	rows, err := s.repo.StatsByYear(ctx, startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("year stats report: %w", err)
	}
	return rows, nil
}

// DirectorStats runs the per-director statistics report.
func (s *Service) DirectorStats(ctx context.Context, limit int) ([]reportrepo.DirectorStats, error) {
	rows, err := s.repo.StatsByDirector(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("director stats report: %w", err)
	}
	return rows, nil
}
