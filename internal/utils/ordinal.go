package utils

import "fmt"

// Ordinal returns the English ordinal abbreviation for k (1st, 2nd, 3rd, 11th).
// k must be greater than zero.
func Ordinal(k int) string {
	if k <= 0 {
		panic(fmt.Sprintf("utils: ordinal of non-positive number %d", k))
	}
	if k%100 >= 11 && k%100 <= 13 {
		return fmt.Sprintf("%dth", k)
	}
	switch k % 10 {
	case 1:
		return fmt.Sprintf("%dst", k)
	case 2:
		return fmt.Sprintf("%dnd", k)
	case 3:
		return fmt.Sprintf("%drd", k)
	}
	return fmt.Sprintf("%dth", k)
}

// Plural returns "s" unless n is one.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
