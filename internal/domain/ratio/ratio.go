// Package ratio implements fixed-point ratio arithmetic over a base of 10^6.
package ratio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/spacegov/spacegov/internal/domain"
)

// RatioBase is the denominator every ratio is expressed against (100%)
const RatioBase uint32 = 1_000_000

// ApplyRatioCeiled returns ceil(value * r / RatioBase)
func ApplyRatioCeiled(value uint64, r uint32) (uint64, error) {
	if r > RatioBase {
		return 0, fmt.Errorf("%w: %d > %d", domain.ErrRatioOutOfBounds, r, RatioBase)
	}
	product := new(uint256.Int).Mul(uint256.NewInt(value), uint256.NewInt(uint64(r)))
	base := uint256.NewInt(uint64(RatioBase))
	quo, rem := new(uint256.Int), new(uint256.Int)
	quo.DivMod(product, base, rem)
	if !rem.IsZero() {
		quo.AddUint64(quo, 1)
	}
	return quo.Uint64(), nil
}

// ApplyRatioFloored returns floor(value * r / RatioBase)
func ApplyRatioFloored(value uint64, r uint32) (uint64, error) {
	if r > RatioBase {
		return 0, fmt.Errorf("%w: %d > %d", domain.ErrRatioOutOfBounds, r, RatioBase)
	}
	product := new(uint256.Int).Mul(uint256.NewInt(value), uint256.NewInt(uint64(r)))
	return product.Div(product, uint256.NewInt(uint64(RatioBase))).Uint64(), nil
}

// SupportReached reports (RatioBase - threshold) * yes > threshold * no.
// The comparison is strict: landing exactly on the threshold is not support.
func SupportReached(yes, no uint64, threshold uint32) bool {
	if threshold > RatioBase {
		return false
	}
	lhs := new(uint256.Int).Mul(uint256.NewInt(uint64(RatioBase-threshold)), uint256.NewInt(yes))
	rhs := new(uint256.Int).Mul(uint256.NewInt(uint64(threshold)), uint256.NewInt(no))
	return lhs.Gt(rhs)
}

// SupportReachedEarly assumes every address that has not voted yet votes no
func SupportReachedEarly(yes, abstain, total uint64, threshold uint32) bool {
	var noWorst uint64
	if total > yes+abstain {
		noWorst = total - yes - abstain
	}
	return SupportReached(yes, noWorst, threshold)
}

// ParticipationReached reports cast >= minVotingPower
func ParticipationReached(cast, minVotingPower uint64) bool {
	return cast >= minVotingPower
}

// Parse reads a ratio written as a percentage ("25%"), a fraction ("0.25")
// or a raw numerator ("250000").
func Parse(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty ratio")
	}

	var value float64
	switch {
	case strings.HasSuffix(s, "%"):
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
		}
		value = f / 100 * float64(RatioBase)
	case strings.Contains(s, "."):
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fraction %q: %w", s, err)
		}
		value = f * float64(RatioBase)
	default:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid ratio %q: %w", s, err)
		}
		value = float64(n)
	}

	if math.IsNaN(value) {
		return 0, fmt.Errorf("invalid ratio %q", s)
	}
	if value < 0 || value > float64(RatioBase) {
		return 0, fmt.Errorf("%w: %s", domain.ErrRatioOutOfBounds, s)
	}
	// round to the nearest unit to absorb float noise like 0.29*1e6
	return uint32(value + 0.5), nil
}

// Format renders a ratio as a percentage, trimming trailing zeros
func Format(r uint32) string {
	pct := strconv.FormatFloat(float64(r)*100/float64(RatioBase), 'f', 4, 64)
	pct = strings.TrimRight(strings.TrimRight(pct, "0"), ".")
	return pct + "%"
}
