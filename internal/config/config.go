// Package config defines the typed, validated ScoreConfig parameter
// container (SimilarityConfig + WeightConfig) and the atomic store an
// admin API can update without tearing a scorer's compound read.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// SimilarityConfig holds the JaroWinkler/TokenizedSimilarity/Phonetic
// algorithm knobs.
type SimilarityConfig struct {
	JaroWinklerBoostThreshold      float64 `json:"jaroWinklerBoostThreshold" validate:"gte=0,lte=1"`
	JaroWinklerPrefixSize          int     `json:"jaroWinklerPrefixSize" validate:"gte=0"`
	LengthDifferenceCutoffFactor   float64 `json:"lengthDifferenceCutoffFactor" validate:"gte=0,lte=1"`
	LengthDifferencePenaltyWeight  float64 `json:"lengthDifferencePenaltyWeight" validate:"gte=0"`
	DifferentLetterPenaltyWeight   float64 `json:"differentLetterPenaltyWeight" validate:"gte=0"`
	ExactMatchFavoritism           float64 `json:"exactMatchFavoritism" validate:"gte=0"`
	UnmatchedIndexTokenWeight      float64 `json:"unmatchedIndexTokenWeight" validate:"gte=0"`
	PhoneticFilteringDisabled      bool    `json:"phoneticFilteringDisabled"`
	KeepStopwords                  bool    `json:"keepStopwords"`
}

// PhaseFlags are the scorer's per-factor enable switches.
type PhaseFlags struct {
	Name    bool `json:"name"`
	AltName bool `json:"altName"`
	Address bool `json:"address"`
	GovID   bool `json:"govId"`
	Crypto  bool `json:"crypto"`
	Contact bool `json:"contact"`
	Date    bool `json:"date"`
}

// WeightConfig holds the scorer's aggregation weights.
type WeightConfig struct {
	NameWeight           float64    `json:"nameWeight" validate:"gte=0"`
	AddressWeight        float64    `json:"addressWeight" validate:"gte=0"`
	CriticalIDWeight     float64    `json:"criticalIdWeight" validate:"gte=0"`
	SupportingInfoWeight float64    `json:"supportingInfoWeight" validate:"gte=0"`
	MinimumScore         float64    `json:"minimumScore" validate:"gte=0,lte=1"`
	ExactMatchThreshold  float64    `json:"exactMatchThreshold" validate:"gte=0,lte=1"`
	Phases               PhaseFlags `json:"phases"`
}

// ScoreConfig is the process-wide tunable parameter container.
type ScoreConfig struct {
	Similarity SimilarityConfig `json:"similarity" validate:"required"`
	Weights    WeightConfig     `json:"weights" validate:"required"`
}

var validate = validator.New()

// Validate checks field bounds: weights >= 0, probabilities in [0,1],
// integer sizes >= 0.
func (c ScoreConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid score config: %w", err)
	}
	return nil
}

// Default returns the documented default ScoreConfig.
func Default() ScoreConfig {
	return ScoreConfig{
		Similarity: SimilarityConfig{
			JaroWinklerBoostThreshold:     0.7,
			JaroWinklerPrefixSize:         4,
			LengthDifferenceCutoffFactor:  0.9,
			LengthDifferencePenaltyWeight: 0.3,
			DifferentLetterPenaltyWeight:  0.9,
			ExactMatchFavoritism:          0.0,
			UnmatchedIndexTokenWeight:     0.15,
			PhoneticFilteringDisabled:     false,
			KeepStopwords:                 false,
		},
		Weights: WeightConfig{
			NameWeight:           35,
			AddressWeight:        25,
			CriticalIDWeight:     50,
			SupportingInfoWeight: 15,
			MinimumScore:         0.88,
			ExactMatchThreshold:  0.99,
			Phases: PhaseFlags{
				Name: true, AltName: true, Address: true, GovID: true,
				Crypto: true, Contact: true, Date: true,
			},
		},
	}
}

// FromEnv returns Default() overridden by SCREENING_* environment
// variables.
func FromEnv() ScoreConfig {
	cfg := Default()
	cfg.Weights.MinimumScore = getEnvFloat("SCREENING_MIN_SCORE", cfg.Weights.MinimumScore)
	cfg.Weights.NameWeight = getEnvFloat("SCREENING_NAME_WEIGHT", cfg.Weights.NameWeight)
	cfg.Weights.AddressWeight = getEnvFloat("SCREENING_ADDRESS_WEIGHT", cfg.Weights.AddressWeight)
	cfg.Weights.CriticalIDWeight = getEnvFloat("SCREENING_CRITICAL_ID_WEIGHT", cfg.Weights.CriticalIDWeight)
	cfg.Weights.SupportingInfoWeight = getEnvFloat("SCREENING_SUPPORTING_WEIGHT", cfg.Weights.SupportingInfoWeight)
	cfg.Similarity.PhoneticFilteringDisabled = getEnvBool("SCREENING_DISABLE_PHONETIC", cfg.Similarity.PhoneticFilteringDisabled)
	cfg.Similarity.KeepStopwords = getEnvBool("SCREENING_KEEP_STOPWORDS", cfg.Similarity.KeepStopwords)
	return cfg
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}
