package report

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Year bounds for the data-quality filter. The dataset stores years as
// strings or out-of-range values in places; reports only aggregate rows
// whose year is a genuine number inside these bounds.
const (
	minYear = 1800
	maxYear = 2030
)

// Movie caps for the comments report: wider when narrowed to one movie.
const (
	commentReportLimitSingle = 50
	commentReportLimitAll    = 20
)

// yearQuality constrains year to numeric values within [minYear, maxYear].
func yearQuality(lo, hi int) bson.D {
	return bson.D{
		{Key: "$type", Value: "number"},
		{Key: "$gte", Value: lo},
		{Key: "$lte", Value: hi},
	}
}

// guardedRating evaluates to imdb.rating when it is a genuine double and
// to null otherwise, so $avg/$min/$max skip dirty values instead of
// treating them as zero.
func guardedRating() bson.D {
	return bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{
			bson.D{{Key: "$type", Value: "$imdb.rating"}},
			"double",
		}}},
		"$imdb.rating",
		nil,
	}}}
}

// CommentsPipeline builds the movies-with-recent-comments report. Stage
// order is fixed: quality match, comment join, empty-join drop, per-movie
// recent slice, recency sort, cap, flat projection.
func CommentsPipeline(commentCollection string, movieID *primitive.ObjectID, commentLimit int) mongo.Pipeline {
	match := bson.D{{Key: "year", Value: yearQuality(minYear, maxYear)}}
	movieCap := commentReportLimitAll
	if movieID != nil {
		match = append(match, bson.E{Key: "_id", Value: *movieID})
		movieCap = commentReportLimitSingle
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: commentCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "movie_id"},
			{Key: "as", Value: "comments"},
		}}},
		{{Key: "$match", Value: bson.D{
			{Key: "comments.0", Value: bson.D{{Key: "$exists", Value: true}}},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "recentComments", Value: bson.D{{Key: "$slice", Value: bson.A{
				bson.D{{Key: "$sortArray", Value: bson.D{
					{Key: "input", Value: "$comments"},
					{Key: "sortBy", Value: bson.D{{Key: "date", Value: -1}}},
				}}},
				commentLimit,
			}}}},
			{Key: "lastCommentDate", Value: bson.D{{Key: "$max", Value: "$comments.date"}}},
			// Count from the full joined set, not the truncated slice.
			{Key: "totalComments", Value: bson.D{{Key: "$size", Value: "$comments"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastCommentDate", Value: -1}}}},
		{{Key: "$limit", Value: movieCap}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "title", Value: 1},
			{Key: "year", Value: 1},
			{Key: "commentCount", Value: "$totalComments"},
			{Key: "mostRecentComment", Value: "$lastCommentDate"},
			{Key: "comments", Value: bson.D{{Key: "$map", Value: bson.D{
				{Key: "input", Value: "$recentComments"},
				{Key: "as", Value: "c"},
				{Key: "in", Value: bson.D{
					{Key: "_id", Value: "$$c._id"},
					{Key: "name", Value: "$$c.name"},
					{Key: "email", Value: "$$c.email"},
					{Key: "text", Value: "$$c.text"},
					{Key: "date", Value: "$$c.date"},
				}},
			}}}},
		}}},
	}
}

// YearStatsPipeline builds the per-year statistics report. startYear and
// endYear narrow the window inside the quality bounds when supplied.
func YearStatsPipeline(startYear, endYear *int) mongo.Pipeline {
	lo, hi := minYear, maxYear
	if startYear != nil && *startYear > lo {
		lo = *startYear
	}
	if endYear != nil && *endYear < hi {
		hi = *endYear
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "year", Value: yearQuality(lo, hi)}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$year"},
			{Key: "movieCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: guardedRating()}}},
			{Key: "highestRating", Value: bson.D{{Key: "$max", Value: guardedRating()}}},
			{Key: "lowestRating", Value: bson.D{{Key: "$min", Value: guardedRating()}}},
			{Key: "totalVotes", Value: bson.D{{Key: "$sum", Value: "$imdb.votes"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "year", Value: "$_id"},
			{Key: "movieCount", Value: 1},
			{Key: "averageRating", Value: bson.D{{Key: "$round", Value: bson.A{"$averageRating", 2}}}},
			{Key: "highestRating", Value: 1},
			{Key: "lowestRating", Value: 1},
			{Key: "totalVotes", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "year", Value: -1}}}},
	}
}

// DirectorStatsPipeline builds the per-director statistics report: fan the
// directors array out to one row per director, then group and rank by
// movie count.
func DirectorStatsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "directors", Value: bson.D{
				{Key: "$exists", Value: true},
				{Key: "$ne", Value: bson.A{}},
			}},
			{Key: "year", Value: yearQuality(minYear, maxYear)},
		}}},
		{{Key: "$unwind", Value: "$directors"}},
		{{Key: "$match", Value: bson.D{
			{Key: "directors", Value: bson.D{{Key: "$nin", Value: bson.A{nil, ""}}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$directors"},
			{Key: "movieCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: guardedRating()}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "movieCount", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "director", Value: "$_id"},
			{Key: "movieCount", Value: 1},
			{Key: "averageRating", Value: bson.D{{Key: "$round", Value: bson.A{"$averageRating", 2}}}},
		}}},
	}
}
