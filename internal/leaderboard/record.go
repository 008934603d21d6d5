// Package leaderboard stores submitted scores and serves them over HTTP.
package leaderboard

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"
)

// PageSize is the number of records per page.
const PageSize = 25

var (
	ErrInvalidUsername = errors.New("leaderboard: username must be 1-30 letters or digits")
	ErrInvalidScore    = errors.New("leaderboard: score must not be negative")
	ErrInvalidPage     = errors.New("leaderboard: page must be at least 1")
	ErrUnknownSorting  = errors.New("leaderboard: unknown sorting")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z\d]{1,30}$`)

// ValidUsername reports whether name may be submitted.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// Record is a stored score.
type Record struct {
	Username  string    `json:"username" msgpack:"username"`
	Score     int       `json:"score" msgpack:"score"`
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
}

// Submission is the body of a score submission.
type Submission struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Validate checks the username pattern and the score range.
func (s Submission) Validate() error {
	if !ValidUsername(s.Username) {
		return ErrInvalidUsername
	}
	if s.Score < 0 {
		return ErrInvalidScore
	}
	return nil
}

// Sorting is a record ordering.
type Sorting string

const (
	ScoreDesc Sorting = "score_desc"
	ScoreAsc  Sorting = "score_asc"
	DateDesc  Sorting = "date_desc"
	DateAsc   Sorting = "date_asc"
)

// Sortings lists the supported orderings, default first.
var Sortings = []Sorting{ScoreDesc, ScoreAsc, DateDesc, DateAsc}

// ParseSorting parses a sorting name. The empty string selects ScoreDesc.
func ParseSorting(s string) (Sorting, error) {
	if s == "" {
		return ScoreDesc, nil
	}
	if slices.Contains(Sortings, Sorting(s)) {
		return Sorting(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSorting, s)
}

// compare orders two records. Score orderings break ties by the older record
// first; date orderings break ties by the higher score first.
func (s Sorting) compare(a, b Record) int {
	byScore := cmp.Compare(a.Score, b.Score)
	byDate := a.Timestamp.Compare(b.Timestamp)
	switch s {
	case ScoreAsc:
		return cmp.Or(byScore, byDate)
	case DateDesc:
		return cmp.Or(-byDate, -byScore)
	case DateAsc:
		return cmp.Or(byDate, -byScore)
	default:
		return cmp.Or(-byScore, byDate)
	}
}

// sortRecords orders records in place; equal records keep insertion order.
func sortRecords(records []Record, s Sorting) {
	slices.SortStableFunc(records, s.compare)
}

// page returns the 1-based page of records, which may be empty.
func page(records []Record, n int) []Record {
	start := (n - 1) * PageSize
	if start >= len(records) {
		return []Record{}
	}
	end := min(start+PageSize, len(records))
	return records[start:end]
}
