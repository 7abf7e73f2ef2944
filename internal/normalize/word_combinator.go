package normalize

import "strings"

// particles are the short connecting words WordCombinator merges into
// adjacent tokens to produce alternate name forms, e.g. "de la cruz" ->
// "dela cruz" -> "delacruz".
var particles = set(
	"de", "la", "el", "du", "van", "von", "der", "da", "di", "dos", "das",
)

// GenerateWordCombinations returns name plus alternate forms obtained by
// merging runs of consecutive particles (pass 1), then merging each
// particle-run with the following non-particle word (pass 2). Each pass
// that changes the token count contributes one additional variant. Order
// is deterministic and name is always first.
func GenerateWordCombinations(name string) []string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return nil
	}

	variants := []string{name}
	seen := map[string]bool{name: true}

	pass1 := mergeParticleRuns(tokens)
	if joined := strings.Join(pass1, " "); !seen[joined] {
		variants = append(variants, joined)
		seen[joined] = true
	}

	pass2 := mergeParticleRunsWithFollowing(tokens)
	if joined := strings.Join(pass2, " "); !seen[joined] {
		variants = append(variants, joined)
		seen[joined] = true
	}

	return variants
}

// mergeParticleRuns merges consecutive particle tokens into one token,
// leaving non-particle tokens untouched.
func mergeParticleRuns(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	i := 0
	changed := false
	for i < len(tokens) {
		if particles[tokens[i]] {
			run := tokens[i]
			j := i + 1
			for j < len(tokens) && particles[tokens[j]] {
				run += tokens[j]
				j++
			}
			if j-i > 1 {
				changed = true
			}
			out = append(out, run)
			i = j
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	if !changed {
		return tokens
	}
	return out
}

// mergeParticleRunsWithFollowing merges each run of consecutive particles
// with the following non-particle word, e.g. "de la cruz" -> "delacruz".
func mergeParticleRunsWithFollowing(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	i := 0
	changed := false
	for i < len(tokens) {
		if particles[tokens[i]] {
			run := tokens[i]
			j := i + 1
			for j < len(tokens) && particles[tokens[j]] {
				run += tokens[j]
				j++
			}
			if j < len(tokens) {
				run += tokens[j]
				j++
				changed = true
			}
			out = append(out, run)
			i = j
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	if !changed {
		return tokens
	}
	return out
}
