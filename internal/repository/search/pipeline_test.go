package search

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cinelab-io/mflix-api/internal/domain/params"
)

func findKey(t *testing.T, d bson.D, key string) any {
	t.Helper()
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("key %q not found in %v", key, d)
	return nil
}

func TestCompoundQuery_IsEmpty(t *testing.T) {
	if !(CompoundQuery{}).IsEmpty() {
		t.Error("zero query must be empty")
	}
	if (CompoundQuery{Cast: "keaton"}).IsEmpty() {
		t.Error("query with cast must not be empty")
	}
}

func TestCompoundQuery_OneClausePerSuppliedField(t *testing.T) {
	q := CompoundQuery{Plot: "heist", Directors: "nolan"}
	clauses := q.clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}

	// Plot uses a phrase clause.
	phrase := findKey(t, clauses[0].(bson.D), "phrase").(bson.D)
	if got := findKey(t, phrase, "path"); got != "plot" {
		t.Errorf("phrase path: got %v", got)
	}
	if got := findKey(t, phrase, "query"); got != "heist" {
		t.Errorf("phrase query: got %v", got)
	}

	// Directors use a fuzzy text clause with bounded edits.
	text := findKey(t, clauses[1].(bson.D), "text").(bson.D)
	fuzzy := findKey(t, text, "fuzzy").(bson.D)
	if got := findKey(t, fuzzy, "maxEdits"); got != fuzzyMaxEdits {
		t.Errorf("maxEdits: got %v", got)
	}
	if got := findKey(t, fuzzy, "prefixLength"); got != fuzzyPrefixLength {
		t.Errorf("prefixLength: got %v", got)
	}
}

func TestCompoundPipeline_OperatorGrouping(t *testing.T) {
	q := CompoundQuery{Plot: "war", Cast: "hanks"}

	for _, op := range []params.SearchOperator{
		params.OperatorMust, params.OperatorShould, params.OperatorMustNot, params.OperatorFilter,
	} {
		p := CompoundPipeline(q, op, 20, 0)
		search := p[0][0].Value.(bson.D)
		compound := findKey(t, search, "compound").(bson.D)
		if compound[0].Key != string(op) {
			t.Errorf("operator %s: clauses grouped under %q", op, compound[0].Key)
		}
	}
}

func TestCompoundPipeline_FacetPagination(t *testing.T) {
	p := CompoundPipeline(CompoundQuery{Plot: "x"}, params.OperatorMust, 25, 50)
	if len(p) != 2 || p[0][0].Key != "$search" || p[1][0].Key != "$facet" {
		t.Fatalf("unexpected pipeline shape: %v", p)
	}

	facet := p[1][0].Value.(bson.D)
	results := findKey(t, facet, "results").(bson.A)

	skipStage := results[0].(bson.D)
	if got := findKey(t, skipStage, "$skip"); got != 50 {
		t.Errorf("$skip: got %v", got)
	}
	limitStage := results[1].(bson.D)
	if got := findKey(t, limitStage, "$limit"); got != 25 {
		t.Errorf("$limit: got %v", got)
	}

	total := findKey(t, facet, "totalCount").(bson.A)
	countStage := total[0].(bson.D)
	if got := findKey(t, countStage, "$count"); got != "count" {
		t.Errorf("$count: got %v", got)
	}
}

func TestVectorPipeline_OverFetch(t *testing.T) {
	vec := []float32{0.1, 0.2, 0.3}
	p := VectorPipeline(vec, 10)

	vs := p[0][0].Value.(bson.D)
	if got := findKey(t, vs, "numCandidates"); got != 200 {
		t.Errorf("numCandidates: got %v, want 200", got)
	}
	if got := findKey(t, vs, "limit"); got != 10 {
		t.Errorf("limit: got %v", got)
	}
	if got := findKey(t, vs, "index"); got != vectorIndex {
		t.Errorf("index: got %v", got)
	}
	if got := findKey(t, vs, "path"); got != vectorPath {
		t.Errorf("path: got %v", got)
	}
}

func TestFetchPipeline_YearNormalization(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID()}
	p := FetchPipeline(ids)

	add := p[1][0].Value.(bson.D)
	year := findKey(t, add, "year").(bson.D)
	cond := findKey(t, year, "$cond").(bson.A)

	// Genuine integers pass, everything else becomes null.
	typeCheck := cond[0].(bson.D)
	in := findKey(t, typeCheck, "$in").(bson.A)
	wantTypes := bson.A{"int", "long"}
	if !reflect.DeepEqual(in[1], wantTypes) {
		t.Errorf("accepted year types: got %v, want %v", in[1], wantTypes)
	}
	if cond[1] != "$year" {
		t.Errorf("then-branch: got %v", cond[1])
	}
	if cond[2] != nil {
		t.Errorf("else-branch: got %v, want null", cond[2])
	}
}

func TestFetchPipeline_ArrayDefaults(t *testing.T) {
	p := FetchPipeline([]primitive.ObjectID{primitive.NewObjectID()})
	add := p[1][0].Value.(bson.D)

	for _, field := range []string{"genres", "directors", "writers", "cast"} {
		d := findKey(t, add, field).(bson.D)
		args := findKey(t, d, "$ifNull").(bson.A)
		if !reflect.DeepEqual(args[1], bson.A{}) {
			t.Errorf("%s default: got %v, want empty array", field, args[1])
		}
	}
}
