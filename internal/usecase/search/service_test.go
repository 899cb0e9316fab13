package search

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cinelab-io/mflix-api/internal/domain"
	"github.com/cinelab-io/mflix-api/internal/domain/params"
	searchrepo "github.com/cinelab-io/mflix-api/internal/repository/search"
)

// --- Mocks ---

type mockRepo struct {
	compound    searchrepo.CompoundResult
	compoundErr error
	scored      []searchrepo.ScoredID
	scoredErr   error
	docs        []bson.M
	fetchErr    error

	compoundCalls int
	fetchedIDs    []primitive.ObjectID
}

func (m *mockRepo) Compound(_ context.Context, _ searchrepo.CompoundQuery, _ params.SearchOperator, _, _ int) (searchrepo.CompoundResult, error) {
	m.compoundCalls++
	return m.compound, m.compoundErr
}
func (m *mockRepo) NearestIDs(_ context.Context, _ []float32, _ int) ([]searchrepo.ScoredID, error) {
	return m.scored, m.scoredErr
}
func (m *mockRepo) FetchByIDs(_ context.Context, ids []primitive.ObjectID) ([]bson.M, error) {
	m.fetchedIDs = ids
	return m.docs, m.fetchErr
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// --- Tests ---

func TestCompound_RequiresParameters(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{})

	_, err := svc.Compound(context.Background(), searchrepo.CompoundQuery{}, params.OperatorMust, 20, 0)
	if !errors.Is(err, domain.ErrNoSearchParameters) {
		t.Fatalf("expected ErrNoSearchParameters, got: %v", err)
	}
	if repo.compoundCalls != 0 {
		t.Error("repository must not be called with an empty query")
	}
}

func TestCompound(t *testing.T) {
	repo := &mockRepo{compound: searchrepo.CompoundResult{
		Total:   7,
		Results: []bson.M{{"title": "Blade Runner"}},
	}}
	svc := New(repo, &mockEmbedder{})

	result, err := svc.Compound(context.Background(),
		searchrepo.CompoundQuery{Plot: "replicant"}, params.OperatorShould, 20, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 7 || len(result.Results) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Limit != 20 || result.Skip != 40 {
		t.Errorf("pagination echo = %d/%d, expected 20/40", result.Limit, result.Skip)
	}
}

func TestVector_RequiresQuery(t *testing.T) {
	emb := &mockEmbedder{}
	svc := New(&mockRepo{}, emb)

	_, err := svc.Vector(context.Background(), "", 10)
	if !errors.Is(err, domain.ErrMissingQuery) {
		t.Fatalf("expected ErrMissingQuery, got: %v", err)
	}
	if emb.calls != 0 {
		t.Error("embedder must not be called without a query")
	}
}

func TestVector_EmbedErrorPropagates(t *testing.T) {
	emb := &mockEmbedder{err: domain.ErrEmbeddingUnauthorized}
	svc := New(&mockRepo{}, emb)

	_, err := svc.Vector(context.Background(), "space horror", 10)
	if !errors.Is(err, domain.ErrEmbeddingUnauthorized) {
		t.Fatalf("expected ErrEmbeddingUnauthorized, got: %v", err)
	}
}

func TestVector_NoMatches(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{})

	hits, err := svc.Vector(context.Background(), "space horror", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits == nil || len(hits) != 0 {
		t.Errorf("expected empty non-nil result, got: %v", hits)
	}
}

func TestVector_MergesScoresAndResorts(t *testing.T) {
	idA, idB, idC := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	repo := &mockRepo{
		scored: []searchrepo.ScoredID{
			{ID: idA, Score: 0.9},
			{ID: idB, Score: 0.8},
			{ID: idC, Score: 0.7},
		},
		// Refetch returns the documents out of phase-1 order.
		docs: []bson.M{
			{"_id": idC, "title": "C"},
			{"_id": idA, "title": "A"},
			{"_id": idB, "title": "B"},
		},
	}
	svc := New(repo, &mockEmbedder{})

	hits, err := svc.Vector(context.Background(), "space horror", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}

	wantTitles := []string{"A", "B", "C"}
	wantScores := []float64{0.9, 0.8, 0.7}
	for i, hit := range hits {
		if hit.Movie["title"] != wantTitles[i] {
			t.Errorf("hit %d title = %v, expected %s", i, hit.Movie["title"], wantTitles[i])
		}
		if hit.Score != wantScores[i] {
			t.Errorf("hit %d score = %f, expected %f", i, hit.Score, wantScores[i])
		}
	}

	if len(repo.fetchedIDs) != 3 {
		t.Errorf("expected 3 ids refetched, got %d", len(repo.fetchedIDs))
	}
}

func TestVector_SkipsDocsWithoutObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &mockRepo{
		scored: []searchrepo.ScoredID{{ID: id, Score: 0.5}},
		docs: []bson.M{
			{"_id": id, "title": "ok"},
			{"_id": "stringly-typed", "title": "bad"},
		},
	}
	svc := New(repo, &mockEmbedder{})

	hits, err := svc.Vector(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Movie["title"] != "ok" {
		t.Errorf("unexpected hits: %v", hits)
	}
}
