// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

// UniqueLetters assigns disambiguating letters to keys whose normalized
// markers clash. Keys are grouped by NormalizedMarker; inside a clashing
// group letters follow the order of cited, so cited must be in order of
// first appearance. Keys with a unique marker, and keys without a marker,
// get no entry in the result.
func UniqueLetters(cited *CitedKeys) map[string]string {
	var markers []string
	clashing := make(map[string][]string)
	for _, ck := range cited.Values() {
		if ck.NormalizedMarker == "" {
			continue
		}
		if _, ok := clashing[ck.NormalizedMarker]; !ok {
			markers = append(markers, ck.NormalizedMarker)
		}
		clashing[ck.NormalizedMarker] = append(clashing[ck.NormalizedMarker], ck.Key)
	}

	letters := make(map[string]string)
	for _, m := range markers {
		keys := clashing[m]
		if len(keys) < 2 {
			continue
		}
		for i, key := range keys {
			letters[key] = Letter(i)
		}
	}
	return letters
}

// Letter returns the i-th unique letter: a..z, then aa, ab, ...
func Letter(i int) string {
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('a' + (n-1)%26)}, b...)
	}
	return string(b)
}
