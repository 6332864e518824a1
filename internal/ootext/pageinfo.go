// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ootext

import "strings"

// NormalizePageInfo trims surrounding whitespace from page info. Blank page
// info becomes the empty Text, which means "no page info".
func NormalizePageInfo(t Text) Text {
	return Text(strings.TrimSpace(string(t)))
}

// ComparePageInfo orders page info values: absent before present, then by
// their markup. Both sides are normalized first.
func ComparePageInfo(a, b Text) int {
	a, b = NormalizePageInfo(a), NormalizePageInfo(b)
	switch {
	case a.IsEmpty() && b.IsEmpty():
		return 0
	case a.IsEmpty():
		return -1
	case b.IsEmpty():
		return 1
	}
	return strings.Compare(string(a), string(b))
}
