package identity

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequence_EmptySet(t *testing.T) {
	seq, err := NextSequence("TS05HYDEGC", nil)
	require.NoError(t, err)
	assert.Equal(t, "00001", seq)
}

func TestNextSequence_MaxPlusOne(t *testing.T) {
	existing := []string{
		"TS05HYDEGC0000101",
		"TS05HYDEGC0004201",
		"TS05HYDEGC0000302",
	}
	seq, err := NextSequence("TS05HYDEGC", existing)
	require.NoError(t, err)
	assert.Equal(t, "00043", seq)
}

func TestNextSequence_IgnoresOtherPrefixes(t *testing.T) {
	existing := []string{
		"MH01PUNEKP0999901", // 其他前缀不参与
		"TS05HYDEGC0000201",
		"not-a-code",
		"TS05HYDEGC000",
	}
	seq, err := NextSequence("TS05HYDEGC", existing)
	require.NoError(t, err)
	assert.Equal(t, "00003", seq)
}

func TestNextSequence_Monotonicity(t *testing.T) {
	// 逐步扩大既有码集合，nextSequence 永远大于集合内任何序号
	prefix := "TS05HYDEGC"
	var existing []string
	for i := 0; i < 50; i++ {
		seq, err := NextSequence(prefix, existing)
		require.NoError(t, err)

		n, err := strconv.Atoi(seq)
		require.NoError(t, err)
		for _, code := range existing {
			m, _ := strconv.Atoi(code[10:15])
			assert.Greater(t, n, m)
		}

		existing = append(existing, fmt.Sprintf("%s%s01", prefix, seq))
	}
}

func TestNextSequence_Idempotent(t *testing.T) {
	existing := []string{"TS05HYDEGC0001001"}
	first, err := NextSequence("TS05HYDEGC", existing)
	require.NoError(t, err)
	second, err := NextSequence("TS05HYDEGC", existing)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNextSequence_Exhausted(t *testing.T) {
	existing := []string{"TS05HYDEGC9999901"}
	_, err := NextSequence("TS05HYDEGC", existing)
	require.Error(t, err)
}

func TestFallbackSequence_Format(t *testing.T) {
	seq := FallbackSequence(time.UnixMilli(1700000000123))
	assert.Len(t, seq, 5)
	n, err := strconv.Atoi(seq)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, MaxSequence)
}
