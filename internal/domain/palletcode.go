package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// palletCodePattern is the user-facing D-code contract: the letter D followed
// by one or more decimal digits, e.g. D40505050. Matching is done on the
// normalized (trimmed, uppercased) form.
var palletCodePattern = regexp.MustCompile(`^D\d+$`)

const placeholderPrefix = "no-code-"

// NormalizeCode trims and uppercases a pallet code as entered by the operator.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidPalletCode reports whether a non-empty normalized code matches the
// D-code format. An empty code is NOT a format error — it means the operator
// omitted the code and a placeholder will be synthesized; callers must branch
// on empty before calling this.
func ValidPalletCode(code string) bool {
	return palletCodePattern.MatchString(NormalizeCode(code))
}

// PlaceholderCode synthesizes a code for a check started without a D-code.
// The suffix is the last four digits of the epoch-millisecond timestamp;
// collisions within the same day are accepted as a known limitation.
func PlaceholderCode(now time.Time) string {
	return fmt.Sprintf("%s%04d", placeholderPrefix, now.UnixMilli()%10000)
}

// IsPlaceholder reports whether a code was synthesized rather than entered.
func IsPlaceholder(code string) bool {
	return strings.HasPrefix(code, placeholderPrefix)
}

// HasDuplicateCode reports whether the given code was already used by one of
// today's completed checks. Comparison is case-insensitive. Empty and
// placeholder codes never count as duplicates.
func HasDuplicateCode(code string, checks []PalletCheck) bool {
	normalized := NormalizeCode(code)
	if normalized == "" || IsPlaceholder(code) {
		return false
	}
	for _, c := range checks {
		if strings.EqualFold(c.Code, normalized) {
			return true
		}
	}
	return false
}
