package domain

import "fmt"

// FormatMoney renders a dollar amount in billions at or above 1e9 and in
// millions otherwise, e.g. 2.01e8 -> "$201.00M".
func FormatMoney(v float64) string {
	if v >= 1e9 {
		return fmt.Sprintf("$%.2fB", v/1e9)
	}
	return fmt.Sprintf("$%.2fM", v/1e6)
}
