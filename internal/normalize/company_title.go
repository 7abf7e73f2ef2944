package normalize

import "strings"

// companySuffixes is the ordered, longest-first trailing-suffix list
// CompanyTitleStripper iterates. Matching is against an already-normalized
// (lowercased, punctuation-stripped) string, so "L.L.C." has already become
// "l l c" by the time this list is consulted.
var companySuffixes = []string{
	" incorporated",
	" corporation",
	" l l c",
	" limited",
	" company",
	" llc",
	" corp",
	" ltd",
	" inc",
	" co",
	" sa",
	" srl",
	" gmbh",
}

// StripCompanyTitles repeatedly strips the longest matching trailing
// corporate suffix from name until no suffix matches.
func StripCompanyTitles(name string) string {
	for {
		stripped := false
		for _, suffix := range companySuffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return name
}
