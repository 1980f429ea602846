// util/text.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"iter"
	"slices"
	"strings"
)

// EditDistance returns the Levenshtein distance between a and b.
// https://en.wikipedia.org/wiki/Levenshtein_distance
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// SimilarStrings returns the distinct strings from seq that are within
// maxEdits edits of s but not equal to it, sorted by edit distance and
// then alphabetically.
func SimilarStrings(s string, seq iter.Seq[string], maxEdits int) []string {
	s = strings.ToUpper(s)
	dist := make(map[string]int)
	for c := range seq {
		if _, ok := dist[c]; ok || c == s {
			continue
		}
		if d := EditDistance(s, strings.ToUpper(c)); d <= maxEdits {
			dist[c] = d
		}
	}

	similar := SortedMapKeys(dist)
	slices.SortStableFunc(similar, func(a, b string) int { return dist[a] - dist[b] })
	return similar
}
