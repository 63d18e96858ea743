// Package naming provides identifier tokenization, name style conversion
// and edit-distance based suggestions for misspelled field references.
//
// Key functions:
//   - Tokenize: splits CamelCase, snake_case and kebab-case identifiers
//   - Style.Convert: renders a field identifier in an external name style
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names against an unknown one
package naming
