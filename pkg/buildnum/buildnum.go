// Package buildnum generates build metadata tokens for build bumps.
package buildnum

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bcomnes/bumpversion/pkg/version"
)

const (
	// StrategyTimestamp derives the token from the current UTC time.
	StrategyTimestamp = "timestamp"
	// StrategyCounter increments the previous numeric build token.
	StrategyCounter = "counter"

	// DefaultLayout is the time layout used by Timestamp when none is set.
	DefaultLayout = "20060102150405"
)

// Strategies lists the strategy names accepted by New.
var Strategies = []string{StrategyTimestamp, StrategyCounter}

// Timestamp produces tokens from the clock. The previous build is ignored.
type Timestamp struct {
	Layout string
	Now    func() time.Time
}

// NextBuild implements version.BuildGenerator.
func (g Timestamp) NextBuild(_ []string) (string, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	layout := g.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	token := now().UTC().Format(layout)
	if !version.IsIdentifier(token) {
		return "", fmt.Errorf("layout %q does not produce a build identifier: %q", layout, token)
	}
	return token, nil
}

// Counter produces the previous build number plus one. The last token of
// the previous build metadata is used; zero padding is kept ("007" → "008").
// Without a numeric previous token the counter starts at 1.
type Counter struct{}

// NextBuild implements version.BuildGenerator.
func (Counter) NextBuild(prev []string) (string, error) {
	if len(prev) == 0 {
		return "1", nil
	}
	last := prev[len(prev)-1]
	n, err := strconv.ParseUint(last, 10, 64)
	if err != nil {
		return "1", nil
	}
	if n == ^uint64(0) {
		return "", fmt.Errorf("build number %s cannot be incremented", last)
	}
	next := strconv.FormatUint(n+1, 10)
	if pad := len(last) - len(next); pad > 0 {
		next = strings.Repeat("0", pad) + next
	}
	return next, nil
}

// New returns the generator for strategy. An empty strategy selects the
// timestamp strategy. layout only applies to the timestamp strategy.
func New(strategy, layout string) (version.BuildGenerator, error) {
	switch strings.ToLower(strategy) {
	case "", StrategyTimestamp:
		return Timestamp{Layout: layout}, nil
	case StrategyCounter:
		return Counter{}, nil
	}
	return nil, fmt.Errorf("unknown build number strategy %q (want one of %s)", strategy, strings.Join(Strategies, ", "))
}
