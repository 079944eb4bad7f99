// Package completion provides ready-made completers.
//
// WordCompleter offers the words of a fixed list that start with the word
// before the cursor. FuzzyCompleter wraps another completer and keeps the
// candidates that contain the typed characters in order, best matches
// first.
//
// # Scoring
//
// The default scorer favors:
//   - Consecutive character matches
//   - Matches at word boundaries (start of word, camelCase transitions)
//   - Matches starting at the beginning of the candidate
//   - Shorter candidates
//   - Few gaps between matched characters
//
// Large candidate lists are matched in parallel and honour cancellation
// of the completion request.
package completion
