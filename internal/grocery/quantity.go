package grocery

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalRe  = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	fractionRe = regexp.MustCompile(`^-?\d+/\d+$`)
	mixedRe    = regexp.MustCompile(`^-?\d+\s+\d+/\d+$`)
)

// ParseQuantity converts a raw ingredient quantity into a number. It accepts
// plain decimals ("2", "-1.25", "0,5" with a comma separator), simple
// fractions ("1/2", "-3/4") and mixed numbers ("1 1/2", "-2 3/4"). Anything
// else logs a warning and counts as zero: a malformed quantity must never
// stop the grocery list from rendering. A zero denominator collapses the
// fractional part to zero for the same reason.
func ParseQuantity(raw Quantity) float64 {
	str := strings.Replace(strings.TrimSpace(string(raw)), ",", ".", 1)

	switch {
	case decimalRe.MatchString(str):
		v, _ := strconv.ParseFloat(str, 64)
		return v

	case fractionRe.MatchString(str):
		parts := strings.SplitN(str, "/", 2)
		num, _ := strconv.ParseFloat(parts[0], 64)
		den, _ := strconv.ParseFloat(parts[1], 64)
		if den == 0 {
			return 0
		}
		return num / den

	case mixedRe.MatchString(str):
		fields := strings.Fields(str)
		whole, _ := strconv.ParseFloat(fields[0], 64)
		parts := strings.SplitN(fields[1], "/", 2)
		num, _ := strconv.ParseFloat(parts[0], 64)
		den, _ := strconv.ParseFloat(parts[1], 64)
		if den == 0 {
			return whole
		}
		sign := 1.0
		if whole < 0 {
			sign = -1
		}
		return whole + sign*(num/den)
	}

	if str != "" {
		log.Printf("Warning: could not parse quantity %q, counting it as 0", raw)
	}
	return 0
}
