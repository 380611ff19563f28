package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToInt32(t *testing.T) {
	for _, v := range []int{0, -5, math.MaxInt32, math.MinInt32} {
		got, err := IntToInt32(v)
		require.NoError(t, err)
		assert.Equal(t, int32(v), got)
	}

	_, err := IntToInt32(math.MaxInt32 + 1)
	assert.Error(t, err)
	_, err = IntToInt32(math.MinInt32 - 1)
	assert.Error(t, err)
}
