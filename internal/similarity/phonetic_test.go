package similarity

import "testing"

func TestPhoneticCompatibleSamePhoneticClass(t *testing.T) {
	if !PhoneticCompatible("robert", "rupert", PhoneticConfig{}) {
		t.Errorf("expected robert/rupert to be phonetically compatible")
	}
}

func TestPhoneticCompatibleVetoesDistinctCodes(t *testing.T) {
	if PhoneticCompatible("smith", "jones", PhoneticConfig{}) {
		t.Errorf("expected smith/jones to be phonetically incompatible")
	}
}

func TestPhoneticCompatibleDisabledAlwaysPasses(t *testing.T) {
	if !PhoneticCompatible("smith", "jones", PhoneticConfig{Disabled: true}) {
		t.Errorf("expected disabled phonetic filter to always pass")
	}
}

func TestPhoneticCompatibleShortInputsFailOpen(t *testing.T) {
	if !PhoneticCompatible("a", "zzzz", PhoneticConfig{}) {
		t.Errorf("expected single-rune input to fail open")
	}
}

func TestSoundexKnownCodes(t *testing.T) {
	cases := []struct{ in, want string }{
		{"robert", "R163"},
		{"rupert", "R163"},
		{"jackson", "J250"},
	}
	for _, c := range cases {
		if got := soundex(c.in); got != c.want {
			t.Errorf("soundex(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
