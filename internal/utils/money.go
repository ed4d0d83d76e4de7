package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMoney renders 1234.5 as "$1,234.50".
func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	return fmt.Sprintf("%s$%s.%s", sign, formatThousand(whole), frac)
}

// FormatDecimal keeps two decimals, used for distance metrics.
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatNumber renders integer counts with thousand separators.
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + formatThousand(strconv.Itoa(-n))
	}
	return formatThousand(strconv.Itoa(n))
}

func formatThousand(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var out strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
