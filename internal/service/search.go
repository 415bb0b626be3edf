package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"

	"github.com/mmcdole/postdeck/internal/domain"
)

// PostMatch is a post title hit with match metadata for highlighting
type PostMatch struct {
	Marker         int   // pagination marker (post position) of the match
	Title          string
	MatchedIndexes []int // Character positions that matched
	Score          int   // Match score (higher is better)
}

// PostIndex implements sahilm/fuzzy.Source over a deck's post titles
type PostIndex struct {
	titles      []string
	lowerTitles []string // Pre-computed lowercase titles
}

// NewPostIndex indexes the plain-text titles of posts in order
func NewPostIndex(posts []domain.Post) *PostIndex {
	idx := &PostIndex{
		titles:      make([]string, len(posts)),
		lowerTitles: make([]string, len(posts)),
	}
	for i, p := range posts {
		idx.titles[i] = p.TitleText
		idx.lowerTitles[i] = strings.ToLower(p.TitleText)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *PostIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of posts (implements fuzzy.Source)
func (idx *PostIndex) Len() int { return len(idx.titles) }

// Find returns posts whose titles fuzzily match query, best first
func (idx *PostIndex) Find(query string) []PostMatch {
	if query == "" || idx.Len() == 0 {
		return nil
	}

	matches := sfuzzy.FindFrom(strings.ToLower(query), idx)
	results := make([]PostMatch, len(matches))
	for i, m := range matches {
		results[i] = PostMatch{
			Marker:         m.Index,
			Title:          idx.titles[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// SuggestSources ranks previously used sources against partial input.
// Empty input returns history unchanged (most recent first).
func SuggestSources(input string, history []string, limit int) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		if limit > 0 && len(history) > limit {
			return history[:limit]
		}
		return history
	}

	ranks := fuzzy.RankFindFold(input, history)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	suggestions := make([]string, 0, len(ranks))
	for _, r := range ranks {
		suggestions = append(suggestions, r.Target)
		if limit > 0 && len(suggestions) == limit {
			break
		}
	}
	return suggestions
}
