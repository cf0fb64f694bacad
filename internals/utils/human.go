// Package utils has small helpers for terminal output
package utils

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/constraints"
)

var units = []struct {
	size   uint64
	suffix string
}{
	{1000000000, "B"},
	{1000000, "M"},
	{1000, "K"},
}

// HumanInteger returns the number in a short human readable format like "3.4K".
// Numbers below 10 of a unit get one decimal.
func HumanInteger[N constraints.Integer](input N) string {
	if input < 0 {
		return "-" + HumanInteger(-int64(input))
	}
	num := uint64(input)
	for _, unit := range units {
		if num < unit.size {
			continue
		}
		if num < unit.size*10 && num%unit.size != 0 {
			return fmt.Sprintf("%.1f%s", float64(num)/float64(unit.size), unit.suffix)
		}
		return strconv.FormatUint(num/unit.size, 10) + unit.suffix
	}
	return strconv.FormatUint(num, 10)
}
