package forum

import (
	"sort"
	"strings"
)

// SearchQuestions filters the snapshot down to the questions matching the filter.
// Present predicates are ANDed: Category and Status require an exact match and
// Search does a case-insensitive substring match on one of the question's title,
// content or tags. The snapshot's relative order is preserved; this is a filter,
// not a relevance ranker.
func SearchQuestions(snapshot []Question, filter QueryFilter) []Question {
	filter.Clean()

	matches := make([]Question, 0, len(snapshot))
	search := strings.ToLower(filter.Search)
	for _, q := range snapshot {
		if filter.Category != "" && q.Category != filter.Category {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if search != "" && !matchesSearch(q, search) {
			continue
		}
		matches = append(matches, q)
	}
	return matches
}

func matchesSearch(q Question, search string) bool {
	if strings.Contains(strings.ToLower(q.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(q.Content), search) {
		return true
	}
	for _, tag := range q.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// ByVotes returns a copy of the questions reordered by highest tally first;
// a display concern for leaderboard-style listings, kept out of SearchQuestions.
func ByVotes(questions []Question) []Question {
	ordered := append([]Question(nil), questions...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Votes > ordered[j].Votes })
	return ordered
}
