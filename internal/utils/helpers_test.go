package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundToOneDecimal(t *testing.T) {
	assert.Equal(t, 3.7, RoundToOneDecimal(11.0/3.0))
	assert.Equal(t, 4.6, RoundToOneDecimal(4.55))
	assert.Equal(t, 0.0, RoundToOneDecimal(0))
	assert.Equal(t, 5.0, RoundToOneDecimal(5))
}

func TestRoundToTwoDecimals(t *testing.T) {
	assert.Equal(t, 149.99, RoundToTwoDecimals(149.994))
	assert.Equal(t, 150.0, RoundToTwoDecimals(149.996))
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}

	// non-positive lengths fall back to 6 digits
	code, err = GenerateOTP(0)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestParsePagination(t *testing.T) {
	page, limit := ParsePagination("", "", 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = ParsePagination("3", "50", 20, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)

	_, limit = ParsePagination("1", "500", 20, 100)
	assert.Equal(t, 100, limit)

	page, limit = ParsePagination("-1", "bad", 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 40, Offset(3, 20))
}
