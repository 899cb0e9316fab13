package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movie mirrors the sample_mflix movie document. Only the identifier and
// title are required; every other field is omitted when absent rather than
// defaulted.
type Movie struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Year       any                `json:"year,omitempty" bson:"year,omitempty"`
	Plot       string             `json:"plot,omitempty" bson:"plot,omitempty"`
	FullPlot   string             `json:"fullplot,omitempty" bson:"fullplot,omitempty"`
	Runtime    int                `json:"runtime,omitempty" bson:"runtime,omitempty"`
	Poster     string             `json:"poster,omitempty" bson:"poster,omitempty"`
	Genres     []string           `json:"genres,omitempty" bson:"genres,omitempty"`
	Directors  []string           `json:"directors,omitempty" bson:"directors,omitempty"`
	Writers    []string           `json:"writers,omitempty" bson:"writers,omitempty"`
	Cast       []string           `json:"cast,omitempty" bson:"cast,omitempty"`
	Countries  []string           `json:"countries,omitempty" bson:"countries,omitempty"`
	Languages  []string           `json:"languages,omitempty" bson:"languages,omitempty"`
	Rated      string             `json:"rated,omitempty" bson:"rated,omitempty"`
	Awards     *Awards            `json:"awards,omitempty" bson:"awards,omitempty"`
	IMDB       *IMDB              `json:"imdb,omitempty" bson:"imdb,omitempty"`
	Tomatoes   *Tomatoes          `json:"tomatoes,omitempty" bson:"tomatoes,omitempty"`
	Metacritic int                `json:"metacritic,omitempty" bson:"metacritic,omitempty"`
	Type       string             `json:"type,omitempty" bson:"type,omitempty"`
	Released   *time.Time         `json:"released,omitempty" bson:"released,omitempty"`
}

// Awards holds award tallies for a movie.
type Awards struct {
	Wins        int    `json:"wins" bson:"wins"`
	Nominations int    `json:"nominations" bson:"nominations"`
	Text        string `json:"text,omitempty" bson:"text,omitempty"`
}

// IMDB holds IMDB rating data. Rating is `any` because the dataset stores
// empty strings alongside doubles.
type IMDB struct {
	Rating any `json:"rating,omitempty" bson:"rating,omitempty"`
	Votes  any `json:"votes,omitempty" bson:"votes,omitempty"`
	ID     int `json:"id,omitempty" bson:"id,omitempty"`
}

// Tomatoes holds Rotten Tomatoes viewer and critic blocks.
type Tomatoes struct {
	Viewer      *TomatoRating `json:"viewer,omitempty" bson:"viewer,omitempty"`
	Critic      *TomatoRating `json:"critic,omitempty" bson:"critic,omitempty"`
	Fresh       int           `json:"fresh,omitempty" bson:"fresh,omitempty"`
	Rotten      int           `json:"rotten,omitempty" bson:"rotten,omitempty"`
	LastUpdated *time.Time    `json:"lastUpdated,omitempty" bson:"lastUpdated,omitempty"`
}

// TomatoRating is a single Rotten Tomatoes rating block.
type TomatoRating struct {
	Rating     float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	NumReviews int     `json:"numReviews,omitempty" bson:"numReviews,omitempty"`
	Meter      int     `json:"meter,omitempty" bson:"meter,omitempty"`
}
