package movie

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/cinelab-io/mflix-api/internal/domain/params"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }

func TestFilter_Empty(t *testing.T) {
	got := ListQuery{}.Filter()
	if len(got) != 0 {
		t.Errorf("empty query must compile to empty filter, got %v", got)
	}
}

func TestFilter_AllConstraintsCombine(t *testing.T) {
	q := ListQuery{
		Text:      "space opera",
		Genre:     "sci-fi",
		Year:      intPtr(1977),
		MinRating: floatPtr(7.5),
		MaxRating: floatPtr(9.0),
	}
	got := q.Filter()

	want := bson.M{
		"$text":       bson.M{"$search": "space opera"},
		"genres":      bson.M{"$regex": "sci-fi", "$options": "i"},
		"year":        1977,
		"imdb.rating": bson.M{"$gte": 7.5, "$lte": 9.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filter mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestFilter_OnlySuppliedRatingBound(t *testing.T) {
	got := ListQuery{MinRating: floatPtr(8.0)}.Filter()
	want := bson.M{"imdb.rating": bson.M{"$gte": 8.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = ListQuery{MaxRating: floatPtr(6.0)}.Filter()
	want = bson.M{"imdb.rating": bson.M{"$lte": 6.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilter_GenreRegexUnescaped(t *testing.T) {
	// Metacharacters pass through unescaped; this pins the documented
	// behavior rather than asserting it is desirable.
	got := ListQuery{Genre: "sci.*"}.Filter()
	want := bson.M{"genres": bson.M{"$regex": "sci.*", "$options": "i"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSort_Defaults(t *testing.T) {
	got := ListQuery{}.Sort()
	want := bson.D{{Key: "title", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSort_FieldPassThrough(t *testing.T) {
	// sortBy is not validated against known fields.
	q := ListQuery{SortBy: "no.such.field", SortOrder: params.Descending}
	got := q.Sort()
	want := bson.D{{Key: "no.such.field", Value: -1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
