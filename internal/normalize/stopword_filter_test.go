package normalize

import "testing"

func TestRemoveStopwords(t *testing.T) {
	cases := []struct {
		in, lang, want string
	}{
		{"jose de la cruz", "es", "jose cruz"},
		{"jean de la cruz", "fr", "jean cruz"},
		{"", "en", ""},
		{"the company of nations", "en", "company nations"},
	}
	for _, c := range cases {
		if got := RemoveStopwords(c.in, c.lang); got != c.want {
			t.Errorf("RemoveStopwords(%q,%q) = %q, want %q", c.in, c.lang, got, c.want)
		}
	}
}

func TestStopwordsForUnknownLanguageFallsBackToEnglish(t *testing.T) {
	sw := StopwordsFor("xx")
	if !sw["the"] {
		t.Errorf("expected fallback to English stopwords for unknown language tag")
	}
}
