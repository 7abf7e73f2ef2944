package normalize

import "testing"

func TestDetectLanguage(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "en"},
		{"جوزيه", "ar"},
		{"Иванов", "ru"},
		{"李明", "zh"},
		{"jose de la cruz", "es"},
		// "de"/"la" overlap both es and fr stop-word sets; es is checked
		// first in supportedLanguages and a later tie never overtakes it.
		{"jean de la croix", "es"},
		{"random english words", "en"},
	}
	for _, c := range cases {
		if got := DetectLanguage(c.in); got != c.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
