package address

import (
	"testing"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/similarity"
)

func tokCfg() similarity.TokenizedConfig {
	return similarity.TokenizedConfig{JaroWinkler: similarity.DefaultConfig(), UnmatchedIndexTokenWeight: 0.15}
}

func TestCompareEmptyBothSides(t *testing.T) {
	if got := Compare(entity.Address{}, entity.Address{}, tokCfg()); got != 0 {
		t.Errorf("Compare(empty,empty) = %v, want 0", got)
	}
}

func TestCompareExactMatch(t *testing.T) {
	a := entity.Address{Line1: "123 Main St", City: "Springfield", Country: "US"}
	got := Compare(a, a, tokCfg())
	if got < 0.95 {
		t.Errorf("Compare(identical) = %v, want close to 1.0", got)
	}
}

func TestCompareBounded(t *testing.T) {
	q := entity.Address{Line1: "1 Elm St", City: "Metropolis", Country: "US"}
	c := entity.Address{Line1: "2 Oak Ave", City: "Gotham", Country: "FR"}
	got := Compare(q, c, tokCfg())
	if got < 0 || got > 1 {
		t.Errorf("Compare out of [0,1]: %v", got)
	}
}

func TestCompareAllPicksBestOverCartesianProduct(t *testing.T) {
	target := entity.Address{Line1: "123 Main St", City: "Springfield", Country: "US"}
	queries := []entity.Address{{Line1: "nowhere", City: "nowhere"}, target}
	candidates := []entity.Address{{Line1: "elsewhere"}, target}
	got := CompareAll(queries, candidates, tokCfg())
	if got < 0.95 {
		t.Errorf("CompareAll = %v, want close to 1.0 (exact pair present)", got)
	}
}

func TestCompareAllEmptyLists(t *testing.T) {
	if got := CompareAll(nil, []entity.Address{{City: "x"}}, tokCfg()); got != 0 {
		t.Errorf("CompareAll(empty queries) = %v, want 0", got)
	}
}
