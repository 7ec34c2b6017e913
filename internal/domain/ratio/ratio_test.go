package ratio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain"
)

func TestApplyRatioCeiled(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		ratio uint32
		want  uint64
	}{
		{"zero ratio", 10, 0, 0},
		{"full ratio", 10, RatioBase, 10},
		{"exact", 10, 500_000, 5},
		{"rounds up", 10, 250_000, 3},
		{"tiny ratio rounds up to one", 10, 1, 1},
		{"zero value", 0, 300_000, 0},
		{"max value does not overflow", math.MaxUint64, RatioBase, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyRatioCeiled(tt.value, tt.ratio)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyRatioFloored(t *testing.T) {
	got, err := ApplyRatioFloored(10, 250_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got)

	got, err = ApplyRatioFloored(math.MaxUint64, 500_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64/2), got)
}

func TestApplyRatio_OutOfBounds(t *testing.T) {
	_, err := ApplyRatioCeiled(10, RatioBase+1)
	assert.ErrorIs(t, err, domain.ErrRatioOutOfBounds)

	_, err = ApplyRatioFloored(10, RatioBase+1)
	assert.ErrorIs(t, err, domain.ErrRatioOutOfBounds)
}

func TestSupportReached(t *testing.T) {
	tests := []struct {
		name      string
		yes, no   uint64
		threshold uint32
		want      bool
	}{
		{"zero threshold no votes", 0, 0, 0, false},
		{"zero threshold one yes", 1, 0, 0, true},
		{"zero threshold only no", 0, 3, 0, false},
		{"half exactly is not enough", 1, 1, 500_000, false},
		{"half plus one", 2, 1, 500_000, true},
		{"max threshold unanimous", 5, 0, RatioBase - 1, true},
		{"max threshold one dissent", 999_999, 1, RatioBase - 1, false},
		{"max threshold outweighs one dissent", 1_000_000, 1, RatioBase - 1, true},
		{"full threshold never", 10, 0, RatioBase, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportReached(tt.yes, tt.no, tt.threshold))
		})
	}
}

func TestSupportReachedEarly(t *testing.T) {
	// 10 editors, 6 yes at 50%: even if the other 4 vote no, yes wins
	assert.True(t, SupportReachedEarly(6, 0, 10, 500_000))
	// 5 yes could still be tied
	assert.False(t, SupportReachedEarly(5, 0, 10, 500_000))
	// abstentions do not count against
	assert.True(t, SupportReachedEarly(3, 5, 10, 500_000))
}

func TestParticipationReached(t *testing.T) {
	min, err := ApplyRatioCeiled(10, 250_000)
	require.NoError(t, err)
	assert.False(t, ParticipationReached(2, min))
	assert.True(t, ParticipationReached(3, min))
	assert.True(t, ParticipationReached(0, 0))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"25%", 250_000, false},
		{"50 %", 500_000, false},
		{"0.5", 500_000, false},
		{"0.29", 290_000, false},
		{"250000", 250_000, false},
		{"100%", RatioBase, false},
		{"101%", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN%", 0, true},
		{"nan%", 0, true},
		{"Inf%", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "25%", Format(250_000))
	assert.Equal(t, "0.0001%", Format(1))
	assert.Equal(t, "100%", Format(RatioBase))
	assert.Equal(t, "0%", Format(0))
}
