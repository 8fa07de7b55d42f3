package utils

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// RoundToOneDecimal rounds a value to one decimal place. Used for the
// stored product rating aggregate.
func RoundToOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}

// RoundToTwoDecimals rounds a value to two decimal places (currency)
func RoundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// GenerateOTP generates a numeric one-time password of the given length
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate OTP digit: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// ParsePagination extracts page/limit from query values with defaults.
// Page starts at 1; limit is capped at maxLimit.
func ParsePagination(pageStr, limitStr string, defaultLimit, maxLimit int) (page, limit int) {
	page = 1
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	limit = defaultLimit
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
		limit = l
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// Offset converts a 1-based page and limit into a SQL offset
func Offset(page, limit int) int {
	return (page - 1) * limit
}
