package crown

//go:generate go tool stringer -type=Policy -trimprefix=Policy -output=policy_string.go

// Policy decides what happens to external data that no leaf of a branch
// claims.
type Policy int

const (
	// PolicySkip drops unknown data silently.
	PolicySkip Policy = iota
	// PolicyForbid fails on unknown data.
	PolicyForbid
	// PolicyCollect gathers unknown data and threads it up to the root.
	PolicyCollect
)
