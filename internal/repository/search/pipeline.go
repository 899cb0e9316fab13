package search

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cinelab-io/mflix-api/internal/domain/params"
)

// Search index names and vector parameters for the Atlas deployment.
const (
	searchIndex = "default"
	vectorIndex = "vector_index"
	vectorPath  = "plot_embedding"

	// Over-fetch factor for nearest-neighbor candidates: request limit×20
	// candidates, keep the top limit by score.
	candidateFactor = 20
)

// Fuzzy matching parameters for people-name fields: at most one character
// edit after an exact five-character prefix.
const (
	fuzzyMaxEdits     = 1
	fuzzyPrefixLength = 5
)

// CompoundQuery holds the optional text inputs of a compound search.
type CompoundQuery struct {
	Plot      string
	FullPlot  string
	Directors string
	Writers   string
	Cast      string
}

// IsEmpty reports whether no text field was supplied.
func (q CompoundQuery) IsEmpty() bool {
	return q.Plot == "" && q.FullPlot == "" && q.Directors == "" && q.Writers == "" && q.Cast == ""
}

// clauses builds one search clause per supplied field: phrase matches for
// plot text, fuzzy term matches for people names.
func (q CompoundQuery) clauses() bson.A {
	out := bson.A{}
	if q.Plot != "" {
		out = append(out, phraseClause("plot", q.Plot))
	}
	if q.FullPlot != "" {
		out = append(out, phraseClause("fullplot", q.FullPlot))
	}
	if q.Directors != "" {
		out = append(out, fuzzyClause("directors", q.Directors))
	}
	if q.Writers != "" {
		out = append(out, fuzzyClause("writers", q.Writers))
	}
	if q.Cast != "" {
		out = append(out, fuzzyClause("cast", q.Cast))
	}
	return out
}

func phraseClause(path, query string) bson.D {
	return bson.D{{Key: "phrase", Value: bson.D{
		{Key: "query", Value: query},
		{Key: "path", Value: path},
	}}}
}

func fuzzyClause(path, query string) bson.D {
	return bson.D{{Key: "text", Value: bson.D{
		{Key: "query", Value: query},
		{Key: "path", Value: path},
		{Key: "fuzzy", Value: bson.D{
			{Key: "maxEdits", Value: fuzzyMaxEdits},
			{Key: "prefixLength", Value: fuzzyPrefixLength},
		}},
	}}}
}

// CompoundPipeline builds the compound text search: one $search stage with
// the clauses grouped under the chosen operator, then a $facet splitting
// into a total count and a paginated, projected result list.
func CompoundPipeline(q CompoundQuery, op params.SearchOperator, limit, skip int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "index", Value: searchIndex},
			{Key: "compound", Value: bson.D{
				{Key: string(op), Value: q.clauses()},
			}},
		}}},
		{{Key: "$facet", Value: bson.D{
			{Key: "totalCount", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
			{Key: "results", Value: bson.A{
				bson.D{{Key: "$skip", Value: skip}},
				bson.D{{Key: "$limit", Value: limit}},
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "title", Value: 1},
					{Key: "year", Value: 1},
					{Key: "plot", Value: 1},
					{Key: "genres", Value: 1},
					{Key: "directors", Value: 1},
					{Key: "writers", Value: 1},
					{Key: "cast", Value: 1},
					{Key: "poster", Value: 1},
					{Key: "imdb", Value: 1},
					{Key: "score", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
				}}},
			}},
		}}},
	}
}

// VectorPipeline builds the nearest-neighbor phase against the
// pre-embedded collection, projecting only ids and similarity scores.
func VectorPipeline(vector []float32, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: vectorIndex},
			{Key: "path", Value: vectorPath},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: limit * candidateFactor},
			{Key: "limit", Value: limit},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}

// FetchPipeline re-fetches full movie records for the matched identifiers,
// normalizing the known-dirty year field (kept only when the stored type
// is a genuine integer, else null) and defaulting absent arrays to empty.
func FetchPipeline(ids []primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "year", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{
					bson.D{{Key: "$type", Value: "$year"}},
					bson.A{"int", "long"},
				}}},
				"$year",
				nil,
			}}}},
			{Key: "genres", Value: ifNullEmpty("$genres")},
			{Key: "directors", Value: ifNullEmpty("$directors")},
			{Key: "writers", Value: ifNullEmpty("$writers")},
			{Key: "cast", Value: ifNullEmpty("$cast")},
		}}},
	}
}

func ifNullEmpty(path string) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{path, bson.A{}}}}
}
