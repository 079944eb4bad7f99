package completion

import (
	"context"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// parallelThreshold is the candidate count above which matching is
// spread over several goroutines.
const parallelThreshold = 4096

// Match is a candidate that contains the query.
type Match struct {
	// Index is the candidate's position in the input slice.
	Index int
	// Score rates the match. Higher is better.
	Score int
	// Positions are the rune indexes of the matched characters.
	Positions []int
}

// Matcher performs fuzzy matching of a query against candidates.
type Matcher struct {
	// Scorer rates matches. Nil means DefaultScorer.
	Scorer Scorer
	// CaseSensitive disables case folding.
	CaseSensitive bool
	// MinScore drops matches scoring at or below it.
	MinScore int
	// Workers bounds parallel matching. Zero means GOMAXPROCS.
	Workers int
}

// NewMatcher returns a case-insensitive matcher with the default scorer.
func NewMatcher() *Matcher {
	return &Matcher{Scorer: DefaultScorer{}}
}

func (m *Matcher) normalize(s string) string {
	if m.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// Match returns the candidates containing every rune of query in order,
// best first. Ties keep input order. An empty query matches everything
// with score zero. limit <= 0 means no limit. A cancelled ctx stops the
// match and returns its error.
func (m *Matcher) Match(ctx context.Context, query string, candidates []string, limit int) ([]Match, error) {
	q := []rune(m.normalize(query))
	if len(q) == 0 {
		n := len(candidates)
		if limit > 0 {
			n = min(n, limit)
		}
		out := make([]Match, n)
		for i := range out {
			out[i] = Match{Index: i}
		}
		return out, nil
	}

	var (
		matches []Match
		err     error
	)
	if len(candidates) > parallelThreshold {
		matches, err = m.matchParallel(ctx, q, candidates)
	} else {
		matches, err = m.matchRange(ctx, q, candidates, 0)
	}
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.Index - b.Index
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// matchRange matches candidates whose indexes start at offset.
func (m *Matcher) matchRange(ctx context.Context, q []rune, candidates []string, offset int) ([]Match, error) {
	var out []Match
	for i, c := range candidates {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if score, pos := m.score(q, c); score > m.MinScore {
			out = append(out, Match{Index: offset + i, Score: score, Positions: pos})
		}
	}
	return out, nil
}

func (m *Matcher) matchParallel(ctx context.Context, q []rune, candidates []string) ([]Match, error) {
	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(candidates) + workers - 1) / workers

	var (
		wg      sync.WaitGroup
		results = make([][]Match, workers)
		errs    = make([]error, workers)
	)
	for w := range workers {
		start := w * chunk
		if start >= len(candidates) {
			break
		}
		end := min(start+chunk, len(candidates))
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[w], errs[w] = m.matchRange(ctx, q, candidates[start:end], start)
		}()
	}
	wg.Wait()

	var out []Match
	for w := range workers {
		if errs[w] != nil {
			return nil, errs[w]
		}
		out = append(out, results[w]...)
	}
	return out, nil
}

// score matches q greedily left to right against text.
func (m *Matcher) score(q []rune, text string) (int, []int) {
	if text == "" {
		return 0, nil
	}
	original := []rune(text)
	norm := []rune(m.normalize(text))
	if len(norm) != len(original) {
		// Case folding changed the rune count; match on the original.
		norm = original
	}

	positions := make([]int, 0, len(q))
	qi := 0
	for i := 0; i < len(norm) && qi < len(q); i++ {
		if norm[i] == q[qi] {
			positions = append(positions, i)
			qi++
		}
	}
	if qi != len(q) {
		return 0, nil
	}

	scorer := m.Scorer
	if scorer == nil {
		scorer = DefaultScorer{}
	}
	return scorer.Score(q, original, norm, positions), positions
}
