package util

import "strings"

// ParseIntDefault reads the leading integer of a quantity cell ("3",
// "3 pcs", " 12 "). It returns fallback when the cell has no leading
// digits or when the parsed value is zero; the import sheets rely on
// zero-or-garbage quantities falling back the same way.
func ParseIntDefault(input string, fallback int) int {
	s := strings.TrimSpace(input)
	if s == "" {
		return fallback
	}

	i := 0
	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		i++
	}

	value := 0
	digits := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		value = value*10 + int(c-'0')
		digits++
	}
	if digits == 0 || value == 0 {
		return fallback
	}
	if negative {
		return -value
	}
	return value
}

// UnitCount is the number of physical units a line item expands to.
// Unparseable or sub-1 quantities count as a single unit.
func UnitCount(quantity string) int {
	n := ParseIntDefault(quantity, 1)
	if n < 1 {
		return 1
	}
	return n
}
