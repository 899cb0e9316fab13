package sdk

import (
	"net/url"
	"strconv"
	"time"
)

// Movie is the wire shape of a movie document. Year is `any` because the
// dataset stores strings alongside integers.
type Movie struct {
	ID        string   `json:"_id,omitempty"`
	Title     string   `json:"title"`
	Year      any      `json:"year,omitempty"`
	Plot      string   `json:"plot,omitempty"`
	FullPlot  string   `json:"fullplot,omitempty"`
	Runtime   int      `json:"runtime,omitempty"`
	Poster    string   `json:"poster,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Directors []string `json:"directors,omitempty"`
	Writers   []string `json:"writers,omitempty"`
	Cast      []string `json:"cast,omitempty"`
	Countries []string `json:"countries,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Rated     string   `json:"rated,omitempty"`
	Type      string   `json:"type,omitempty"`
}

// ListMoviesQuery filters and paginates ListMovies.
type ListMoviesQuery struct {
	Text      string
	Genre     string
	Year      int
	MinRating float64
	MaxRating float64
	SortBy    string
	SortOrder string
	Limit     int
	Skip      int
}

func (q ListMoviesQuery) encode() string {
	v := url.Values{}
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if q.Year > 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	if q.MinRating > 0 {
		v.Set("minRating", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}
	if q.MaxRating > 0 {
		v.Set("maxRating", strconv.FormatFloat(q.MaxRating, 'f', -1, 64))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	return v.Encode()
}

// Pagination echoes the applied paging and the total match count.
type Pagination struct {
	Total int64 `json:"total"`
	Limit int   `json:"limit"`
	Skip  int   `json:"skip"`
}

// MoviesPage is one page of the movie list.
type MoviesPage struct {
	Movies     []Movie    `json:"movies"`
	Pagination Pagination `json:"pagination"`
}

// WriteCounts carries matched/modified counts of update operations.
type WriteCounts struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// InsertResult carries the outcome of a batch insert.
type InsertResult struct {
	InsertedCount int      `json:"insertedCount"`
	InsertedIDs   []string `json:"insertedIds"`
}

// CommentSummary is one comment of the recent-comments report.
type CommentSummary struct {
	ID    string    `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Text  string    `json:"text"`
	Date  time.Time `json:"date"`
}

// MovieComments is one row of the recent-comments report.
type MovieComments struct {
	ID                string           `json:"_id"`
	Title             string           `json:"title"`
	Year              any              `json:"year,omitempty"`
	CommentCount      int              `json:"commentCount"`
	MostRecentComment time.Time        `json:"mostRecentComment"`
	Comments          []CommentSummary `json:"comments"`
}

// YearStats is one row of the per-year statistics report.
type YearStats struct {
	Year          int      `json:"year"`
	MovieCount    int      `json:"movieCount"`
	AverageRating *float64 `json:"averageRating"`
	HighestRating *float64 `json:"highestRating"`
	LowestRating  *float64 `json:"lowestRating"`
	TotalVotes    int64    `json:"totalVotes"`
}

// DirectorStats is one row of the per-director statistics report.
type DirectorStats struct {
	Director      string   `json:"director"`
	MovieCount    int      `json:"movieCount"`
	AverageRating *float64 `json:"averageRating"`
}

// CompoundSearchRequest is the body of CompoundSearch. Operator is one of
// must, should, mustNot, filter; empty defaults to must.
type CompoundSearchRequest struct {
	Plot      string `json:"plot,omitempty"`
	FullPlot  string `json:"fullplot,omitempty"`
	Directors string `json:"directors,omitempty"`
	Writers   string `json:"writers,omitempty"`
	Cast      string `json:"cast,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Skip      int    `json:"skip,omitempty"`
}

// SearchPage is one page of compound search hits.
type SearchPage struct {
	Results    []map[string]any `json:"results"`
	Pagination Pagination       `json:"pagination"`
}

// VectorHit is one similarity search match.
type VectorHit struct {
	Movie map[string]any `json:"movie"`
	Score float64        `json:"score"`
}

// HealthReport is the non-enveloped health body.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
