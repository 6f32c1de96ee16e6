package search

import (
	"cmp"
	"slices"
	"strings"
)

// Name tiers, best first.
const (
	tierExact = iota
	tierPrefix
	tierOther
)

func nameTier(lowerName string, lowerTerm string) int {
	switch {
	case lowerName == lowerTerm:
		return tierExact
	case strings.HasPrefix(lowerName, lowerTerm):
		return tierPrefix
	default:
		return tierOther
	}
}

// rankByName orders items exact-name first, then name-prefix, then the rest;
// each tier by lowercased name, ties by path.
func rankByName[T any](items []T, term string, key func(T) (name string, path string)) {
	lowerTerm := strings.ToLower(term)
	slices.SortStableFunc(items, func(a, b T) int {
		aName, aPath := key(a)
		bName, bPath := key(b)
		aLower, bLower := strings.ToLower(aName), strings.ToLower(bName)
		return cmp.Or(
			cmp.Compare(nameTier(aLower, lowerTerm), nameTier(bLower, lowerTerm)),
			cmp.Compare(aLower, bLower),
			cmp.Compare(aPath, bPath),
		)
	})
}

// rankFuzzy orders by how many terms equal the whole name, then how many
// terms the name starts with (both descending), then by name and path.
func rankFuzzy[T any](items []T, terms []string, key func(T) (name string, path string)) {
	score := func(lowerName string) (exact int, prefix int) {
		for _, term := range terms {
			if lowerName == term {
				exact++
			}
			if strings.HasPrefix(lowerName, term) {
				prefix++
			}
		}
		return exact, prefix
	}
	slices.SortStableFunc(items, func(a, b T) int {
		aName, aPath := key(a)
		bName, bPath := key(b)
		aLower, bLower := strings.ToLower(aName), strings.ToLower(bName)
		aExact, aPrefix := score(aLower)
		bExact, bPrefix := score(bLower)
		return cmp.Or(
			cmp.Compare(bExact, aExact),
			cmp.Compare(bPrefix, aPrefix),
			cmp.Compare(aLower, bLower),
			cmp.Compare(aPath, bPath),
		)
	})
}

// rankBySize orders smallest first, ties by path.
func rankBySize(results []SearchResult) {
	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return cmp.Or(
			cmp.Compare(a.SizeBytes, b.SizeBytes),
			cmp.Compare(a.Path, b.Path),
		)
	})
}

// fuzzyTerms splits a query on whitespace into lowercased terms.
func fuzzyTerms(query string) []string {
	fields := strings.Fields(query)
	for i, field := range fields {
		fields[i] = strings.ToLower(field)
	}
	return fields
}

// matchesAllTerms reports whether lowerName contains every term.
func matchesAllTerms(lowerName string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	for _, term := range terms {
		if !strings.Contains(lowerName, term) {
			return false
		}
	}
	return true
}
