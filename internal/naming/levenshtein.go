package naming

// Levenshtein returns the number of single byte insertions, deletions and
// substitutions turning a into b.
func Levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			diag, row[i] = row[i], min(row[i]+1, row[i-1]+1, diag+cost)
		}
	}

	return row[len(a)]
}

// Similarity scores two identifiers from 0 to 1 after normalizing both, so
// "OrderID" and "order_id" score 1.
func Similarity(a, b string) float64 {
	a, b = NormalizeIdent(a), NormalizeIdent(b)

	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}
