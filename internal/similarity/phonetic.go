package similarity

import "strings"

// soundexClasses maps each consonant to its digit class. Vowels and h/w/y
// (after the first letter) are dropped.
var soundexClasses = map[rune]byte{
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

// soundex computes a 4-character Soundex code for s: retain the first
// letter, map subsequent consonants to their digit class, drop vowels and
// h/w/y after the first letter, collapse adjacent equal digits, and
// pad/truncate to 4 characters. Unlike classic American Soundex, h and w
// separate equal digits just as vowels do, so both digits are kept.
func soundex(s string) string {
	s = strings.ToLower(s)
	var letters []rune
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return "0000"
	}

	code := []byte{byte(letters[0] - 'a' + 'A')}
	lastClass := byte(0)
	if c, ok := soundexClasses[letters[0]]; ok {
		lastClass = c
	}

	for _, r := range letters[1:] {
		c, isConsonant := soundexClasses[r]
		if !isConsonant {
			lastClass = 0
			continue
		}
		if c != lastClass {
			code = append(code, c)
		}
		lastClass = c
		if len(code) == 4 {
			break
		}
	}

	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code[:4])
}

// PhoneticConfig controls PhoneticCompatible's fail-open behavior.
type PhoneticConfig struct {
	Disabled bool
}

// PhoneticCompatible reports whether a and b are phonetically compatible:
// true when filtering is disabled, either input is shorter than 2 runes
// (fail-open), or their Soundex codes are equal. Used as a cheap veto prior
// to expensive string comparison — never a replacement for JaroWinkler.
func PhoneticCompatible(a, b string, cfg PhoneticConfig) bool {
	if cfg.Disabled {
		return true
	}
	if len([]rune(a)) < 2 || len([]rune(b)) < 2 {
		return true
	}
	return soundex(a) == soundex(b)
}
