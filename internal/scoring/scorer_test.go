package scoring

import (
	"testing"

	"github.com/watchlist-screening/sanctions-engine/internal/config"
	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/prepare"
	"github.com/watchlist-screening/sanctions-engine/internal/trace"
)

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	store, err := config.NewStore(config.Default(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return New(store)
}

func candidate(name string) *entity.Entity {
	e := &entity.Entity{ID: "1", PrimaryName: name, Source: entity.SourceOFACSDN, Type: entity.TypePerson}
	e.Prepared = prepare.Prepare(e, prepare.Options{})
	return e
}

func TestScoreExactSourceIDShortcut(t *testing.T) {
	s := newScorer(t)
	c := candidate("Jose Cruz")
	c.SourceID = "OFAC-1234"
	q := &entity.QueryEntity{PrimaryName: "irrelevant", SourceID: "OFAC-1234"}

	b := s.Score(q, c, trace.Noop)
	if b.TotalWeightedScore != 1.0 {
		t.Errorf("exact sourceId match should score 1.0, got %v", b.TotalWeightedScore)
	}
}

func TestScoreNameOnlyBounded(t *testing.T) {
	s := newScorer(t)
	c := candidate("Jose Cruz")
	q := &entity.QueryEntity{PrimaryName: "Jose Cruz"}

	b := s.Score(q, c, trace.Noop)
	if b.TotalWeightedScore < 0 || b.TotalWeightedScore > 1 {
		t.Errorf("score out of [0,1]: %v", b.TotalWeightedScore)
	}
	if b.NameScore < 0.95 {
		t.Errorf("expected near-exact name match, got NameScore=%v", b.NameScore)
	}
}

func TestScoreUnrelatedNameIsLow(t *testing.T) {
	s := newScorer(t)
	c := candidate("Jose Cruz")
	q := &entity.QueryEntity{PrimaryName: "Zzqx Wwvy"}

	b := s.Score(q, c, trace.Noop)
	if b.TotalWeightedScore > 0.3 {
		t.Errorf("expected a low score for an unrelated name, got %v", b.TotalWeightedScore)
	}
}

func TestScoreExactMatchDominanceViaGovID(t *testing.T) {
	s := newScorer(t)
	c := candidate("Jose Cruz")
	c.GovernmentIDs = []entity.GovernmentID{{Type: entity.GovIDPassport, Identifier: "X123456", CountryCode: "US"}}
	q := &entity.QueryEntity{
		PrimaryName:   "Totally Different Name",
		GovernmentIDs: []entity.GovernmentID{{Type: entity.GovIDPassport, Identifier: "x-123456", CountryCode: "US"}},
	}

	b := s.Score(q, c, trace.Noop)
	if b.GovIDScore != 1.0 {
		t.Fatalf("expected GovIDScore 1.0, got %v", b.GovIDScore)
	}
	if b.TotalWeightedScore < 0.7 {
		t.Errorf("expected exact-match dominance to lift total score, got %v", b.TotalWeightedScore)
	}
}

func TestScoreGovIDBothCountryCodesBlankIsExact(t *testing.T) {
	s := newScorer(t)
	c := candidate("Jose Cruz")
	c.GovernmentIDs = []entity.GovernmentID{{Identifier: "A1"}}
	q := &entity.QueryEntity{GovernmentIDs: []entity.GovernmentID{{Identifier: "a-1"}}}

	b := s.Score(q, c, trace.Noop)
	if b.GovIDScore != 1.0 {
		t.Fatalf("expected 1.0 for a matching id with both country codes blank, got %v", b.GovIDScore)
	}
	if b.TotalWeightedScore < 0.7 {
		t.Errorf("expected exact-match dominance to lift total score, got %v", b.TotalWeightedScore)
	}
}

func TestScoreGovIDCountryMismatchPenalized(t *testing.T) {
	s := newScorer(t)
	c := candidate("Jose Cruz")
	c.GovernmentIDs = []entity.GovernmentID{{Identifier: "A1", CountryCode: "US"}}
	q := &entity.QueryEntity{GovernmentIDs: []entity.GovernmentID{{Identifier: "a1", CountryCode: "FR"}}}

	b := s.Score(q, c, trace.Noop)
	if b.GovIDScore != 0.7 {
		t.Errorf("expected 0.7 for mismatched country code on matching id, got %v", b.GovIDScore)
	}
}

func TestScorePhoneticVetoZerosNameScore(t *testing.T) {
	s := newScorer(t)
	c := candidate("Smith")
	q := &entity.QueryEntity{PrimaryName: "Jones"}
	b := s.Score(q, c, trace.Noop)
	if b.NameScore != 0 {
		t.Errorf("expected phonetic veto to zero the name score, got %v", b.NameScore)
	}
}
