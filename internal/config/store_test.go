package config

import "testing"

func TestStoreGetReturnsInitial(t *testing.T) {
	s, err := NewStore(Default(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if s.Get().Weights.MinimumScore != Default().Weights.MinimumScore {
		t.Errorf("Get() did not return the seeded config")
	}
}

func TestNewStoreRejectsInvalidInitial(t *testing.T) {
	bad := Default()
	bad.Weights.MinimumScore = 2.0
	if _, err := NewStore(bad, nil); err == nil {
		t.Error("expected NewStore to reject an invalid initial config")
	}
}

func TestStoreReplacePreservesOtherHalf(t *testing.T) {
	s, _ := NewStore(Default(), nil)
	newSim := Default().Similarity
	newSim.JaroWinklerPrefixSize = 8
	if err := s.ReplaceSimilarity(newSim); err != nil {
		t.Fatalf("ReplaceSimilarity: %v", err)
	}
	got := s.Get()
	if got.Similarity.JaroWinklerPrefixSize != 8 {
		t.Errorf("ReplaceSimilarity did not apply")
	}
	if got.Weights.NameWeight != Default().Weights.NameWeight {
		t.Errorf("ReplaceSimilarity unexpectedly changed weights")
	}
}

func TestStoreReplaceRejectsInvalid(t *testing.T) {
	s, _ := NewStore(Default(), nil)
	badWeights := Default().Weights
	badWeights.ExactMatchThreshold = -1
	if err := s.ReplaceWeights(badWeights); err == nil {
		t.Error("expected ReplaceWeights to reject an invalid config")
	}
	if s.Get().Weights.ExactMatchThreshold == -1 {
		t.Error("an invalid Replace must not mutate the live config")
	}
}

func TestStoreReset(t *testing.T) {
	s, _ := NewStore(Default(), nil)
	w := Default().Weights
	w.NameWeight = 99
	if err := s.ReplaceWeights(w); err != nil {
		t.Fatalf("ReplaceWeights: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.Get().Weights.NameWeight != Default().Weights.NameWeight {
		t.Errorf("Reset did not restore defaults")
	}
}
