package movie

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/cinelab-io/mflix-api/internal/domain/params"
)

// ListQuery is the normalized parameter record for the list operation.
// Handlers build it from request parameters through the params package;
// raw request values never reach this compiler.
type ListQuery struct {
	Text      string
	Genre     string
	Year      *int
	MinRating *float64
	MaxRating *float64
	SortBy    string
	SortOrder params.SortOrder
	Limit     int
	Skip      int
}

// Filter compiles the query into a Mongo filter. Each supplied parameter
// contributes one constraint; constraints combine with implicit AND.
func (q ListQuery) Filter() bson.M {
	filter := bson.M{}

	if q.Text != "" {
		filter["$text"] = bson.M{"$search": q.Text}
	}
	if q.Genre != "" {
		// Case-insensitive substring match against the genres array.
		// Regex metacharacters in user input are passed through unescaped;
		// callers see the raw pattern semantics.
		filter["genres"] = bson.M{"$regex": q.Genre, "$options": "i"}
	}
	if q.Year != nil {
		filter["year"] = *q.Year
	}

	rating := bson.M{}
	if q.MinRating != nil {
		rating["$gte"] = *q.MinRating
	}
	if q.MaxRating != nil {
		rating["$lte"] = *q.MaxRating
	}
	if len(rating) > 0 {
		filter["imdb.rating"] = rating
	}

	return filter
}

// Sort compiles the single-field sort specification. The field name is a
// documented pass-through: no check that it names a real field.
func (q ListQuery) Sort() bson.D {
	field := q.SortBy
	if field == "" {
		field = "title"
	}
	order := q.SortOrder
	if order == 0 {
		order = params.Ascending
	}
	return bson.D{{Key: field, Value: int(order)}}
}
