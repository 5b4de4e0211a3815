package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/cohort/internal/schema"
)

// ParseCell converts a cleaned cell to the value stored in a record.
// Empty cells become nil for every type.
func ParseCell(value string, ft schema.FieldType) (any, error) {
	if value == "" {
		return nil, nil
	}

	switch ft {
	case schema.FieldInt:
		return parseInt(value)
	case schema.FieldBool:
		return parseBool(value)
	case schema.FieldDate:
		return ParseDate(value)
	default:
		return value, nil
	}
}

// parseInt accepts integers and integral floats ("4.0"), which spreadsheet
// exports produce for numeric columns with gaps.
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer")
	}
	return int(f), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "t", "1":
		return true, nil
	case "no", "n", "false", "f", "0":
		return false, nil
	}
	return false, fmt.Errorf("must be yes/no, true/false, or 1/0")
}

// ParseDate reads a day-first date (d/m/yyyy, d-m-yyyy or d.m.yyyy) or an
// ISO date (yyyy-mm-dd) and returns it as a [day, month, year] triple.
func ParseDate(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(parts) != 3 {
		return nil, fmt.Errorf("not a date")
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("not a date")
		}
		nums[i] = n
	}

	d, m, y := nums[0], nums[1], nums[2]
	if len(parts[0]) == 4 {
		y, m, d = nums[0], nums[1], nums[2]
	}
	if y < 1000 {
		return nil, fmt.Errorf("year must have four digits")
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return nil, fmt.Errorf("day or month out of range")
	}
	return []int{d, m, y}, nil
}
