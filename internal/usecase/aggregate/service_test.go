package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/kailas-cloud/iajur/internal/domain/search/result"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockSearcher struct {
	mu      sync.Mutex
	results map[string][]result.Result
	errs    map[string]error
	delay   map[string]time.Duration
	calls   []string
	topKs   []int
}

func (m *mockSearcher) Search(ctx context.Context, query string, topK int) ([]result.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.topKs = append(m.topKs, topK)
	d := m.delay[query]
	m.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := m.errs[query]; err != nil {
		return nil, err
	}
	return m.results[query], nil
}

func res(id string, score float64) result.Result {
	return result.New(id, "T "+id, "", score, nil)
}

func ids(rs []result.Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID()
	}
	return out
}

func TestAggregate_DedupesSortsAndKeepsFirstOccurrence(t *testing.T) {
	ms := &mockSearcher{
		results: map[string][]result.Result{
			"a": {res("1", 0.7), res("2", 0.5)},
			"b": {res("2", 0.9), res("3", 0.7)},
			"c": {res("4", 0.8)},
		},
		// the slow first variant must still win the id collision
		delay: map[string]time.Duration{"a": 20 * time.Millisecond},
	}
	out := New(ms, Options{}).Aggregate(context.Background(), []string{"a", "b", "c"})

	got := ids(out.Results)
	want := []string{"4", "1", "3", "2"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if out.Results[3].Score() != 0.5 {
		t.Errorf("duplicate kept score %v, want first occurrence 0.5", out.Results[3].Score())
	}
	if out.Attempted != 3 || out.Failed != 0 || out.AllFailed() {
		t.Errorf("outcome counters = %+v", out)
	}
	for _, k := range ms.topKs {
		if k != DefaultTopK {
			t.Errorf("topK = %d, want %d", k, DefaultTopK)
		}
	}
}

func TestAggregate_FailedVariantDegrades(t *testing.T) {
	ms := &mockSearcher{
		results: map[string][]result.Result{"b": {res("1", 0.6)}},
		errs:    map[string]error{"a": errors.New("timeout")},
	}
	out := New(ms, Options{}).Aggregate(context.Background(), []string{"a", "b"})

	if len(out.Results) != 1 || out.Failed != 1 || out.AllFailed() {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestAggregate_AllFailed(t *testing.T) {
	ms := &mockSearcher{errs: map[string]error{"a": errors.New("x"), "b": errors.New("y")}}
	out := New(ms, Options{}).Aggregate(context.Background(), []string{"a", "b"})

	if !out.AllFailed() || len(out.Results) != 0 {
		t.Fatalf("expected all failed, got %+v", out)
	}
}

func TestAggregate_NoVariants(t *testing.T) {
	out := New(&mockSearcher{}, Options{}).Aggregate(context.Background(), nil)
	if out.AllFailed() || len(out.Results) != 0 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestAggregate_CapsResults(t *testing.T) {
	var many []result.Result
	for i := range 20 {
		many = append(many, res(fmt.Sprint(i), float64(i)/20))
	}
	ms := &mockSearcher{results: map[string][]result.Result{"a": many}}
	out := New(ms, Options{MaxResults: 15}).Aggregate(context.Background(), []string{"a"})

	if len(out.Results) != 15 {
		t.Fatalf("len = %d, want 15", len(out.Results))
	}
	if out.Results[0].ID() != "19" {
		t.Errorf("first = %s, want highest score", out.Results[0].ID())
	}
}

func TestAggregate_CanceledContext(t *testing.T) {
	ms := &mockSearcher{delay: map[string]time.Duration{"a": time.Second, "b": time.Second}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := New(ms, Options{}).Aggregate(ctx, []string{"a", "b"})
	if !out.AllFailed() {
		t.Fatalf("expected canceled searches to count as failures: %+v", out)
	}
}

func TestMerge_Properties(t *testing.T) {
	perVariant := [][]result.Result{
		{res("a", 0.5), res("b", 0.5), res("c", 0.9)},
		{res("b", 0.99), res("d", 0.5)},
		{res("a", 0.1), res("e", 0.3)},
	}
	merged := Merge(perVariant, 0)

	seen := map[string]bool{}
	for i, r := range merged {
		if seen[r.ID()] {
			t.Fatalf("duplicate id %s", r.ID())
		}
		seen[r.ID()] = true
		if i > 0 && merged[i-1].Score() < r.Score() {
			t.Fatalf("not score-descending at %d: %v", i, ids(merged))
		}
	}
	// ties keep discovery order
	want := []string{"c", "a", "b", "d", "e"}
	if fmt.Sprint(ids(merged)) != fmt.Sprint(want) {
		t.Errorf("ids = %v, want %v", ids(merged), want)
	}
}
