package naming

import "sort"

// DefaultMinScore is the lowest similarity still worth suggesting.
const DefaultMinScore = 0.5

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is sorted by descending score, ties broken by name.
type CandidateList []Candidate

// Names returns the candidate names in rank order.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}

	return names
}

// Suggest ranks known names by similarity to unknown and keeps at most
// limit candidates scoring at least DefaultMinScore.
func Suggest(unknown string, known []string, limit int) CandidateList {
	var candidates CandidateList

	for _, name := range known {
		score := Similarity(unknown, name)
		if score < DefaultMinScore {
			continue
		}

		candidates = append(candidates, Candidate{Name: name, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}

		return candidates[i].Name < candidates[j].Name
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates
}
