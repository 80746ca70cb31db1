package grade

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/nao1215/edureport/internal/model"
)

// Infer derives the display grade of a point-based grade from the
// evaluation criteria embedded in its more-details blobs.
//
// Inference is attempted only when MaxPoints is non-zero and Percent is
// known. Blobs are tried in order; the first blob carrying a threshold
// table whose sorted bounds reach Percent decides the result. A malformed
// table ends the attempt with no grade. Infer never fails loudly: every
// problem degrades to ("", false).
func Infer(g model.Grade) (string, bool) {
	if g.MaxPoints == nil || *g.MaxPoints == 0 || g.Percent == nil {
		return "", false
	}

	for _, blob := range g.MoreDetails {
		thresholds, err := ParseThresholds(blob)
		if errors.Is(err, ErrNotCriteria) {
			continue
		}
		if err != nil {
			return "", false
		}

		label, matched := Match(thresholds, *g.Percent)
		if !matched {
			continue
		}
		return label, label != ""
	}

	return "", false
}

// Match returns the grade of the lowest threshold whose upper bound is at
// least percent. The input order does not matter; ties keep input order.
func Match(thresholds []Threshold, percent float64) (string, bool) {
	sorted := slices.Clone(thresholds)
	slices.SortStableFunc(sorted, func(a, b Threshold) int {
		switch {
		case a.UpperBound < b.UpperBound:
			return -1
		case a.UpperBound > b.UpperBound:
			return 1
		default:
			return 0
		}
	})

	for _, threshold := range sorted {
		if percent <= threshold.UpperBound {
			return threshold.Grade, true
		}
	}
	return "", false
}

// FormatDisplay composes the grade text shown in the grades report.
//
//   - verbal grades show verbalLabel, even when a grade could be inferred
//   - an inferred grade shows "{grade} ({points}b / {max}b)"
//   - other point-based grades show "{points}b / {max}b"
//   - everything else shows the raw value
func FormatDisplay(g model.Grade, inferred, verbalLabel string) string {
	if g.Verbal {
		return verbalLabel
	}

	hasMax := g.MaxPoints != nil && *g.MaxPoints != 0
	switch {
	case inferred != "" && hasMax:
		return fmt.Sprintf("%s (%sb / %sb)", inferred, g.Value, formatMax(*g.MaxPoints))
	case hasMax:
		return fmt.Sprintf("%sb / %sb", g.Value, formatMax(*g.MaxPoints))
	default:
		return g.Value
	}
}

// formatMax truncates the maximum to whole points.
func formatMax(v float64) string {
	return strconv.Itoa(int(v))
}
