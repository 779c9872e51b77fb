package utils

import (
	"strconv"
	"strings"

	"artframe-storefront/models"
)

// FormatPrice formats a whole-unit amount as rupees with Indian digit grouping,
// e.g. 2496 -> "₹2,496", 1234567 -> "₹12,34,567"
func FormatPrice(amount models.Price) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(int64(amount), 10)
	prefix := "₹"
	if neg {
		prefix = "-₹"
	}
	if len(s) <= 3 {
		return prefix + s
	}

	var b strings.Builder
	// Pre-allocate: digits + separators + sign
	b.Grow(len(s) + len(s)/2 + 4)
	b.WriteString(prefix)

	// Last three digits form one group, the rest are grouped in pairs
	head, tail := s[:len(s)-3], s[len(s)-3:]
	rem := len(head) % 2
	if rem == 0 {
		rem = 2
	}
	b.WriteString(head[:rem])
	for i := rem; i < len(head); i += 2 {
		b.WriteByte(',')
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)

	return b.String()
}
