// Package price implements the fixed-point price representation used across the
// engine: an int64 with 4 implied decimal places, so "140.30" is stored as 1403000.
// Prices stay integral end to end; floating point never enters a comparison.
package price

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Scale is the number of unscaled units per whole price unit.
const Scale = 10000

// ErrInvalidPrice is returned when a price string cannot be parsed.
var ErrInvalidPrice = errors.New("invalid price")

// Price is a price with 4 implied decimal places.
type Price int64

// Parse converts a decimal string such as "140.30" into a scaled Price.
// At most 4 fractional digits are accepted.
func Parse(s string) (Price, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidPrice)
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 4 {
		return 0, fmt.Errorf("%w: more than 4 decimal places in %q", ErrInvalidPrice, s)
	}

	units := int64(0)
	if whole != "" {
		u, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || u < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
		}
		units = u
	}

	fracUnits := int64(0)
	if frac != "" {
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
		}
		for i := len(frac); i < 4; i++ {
			f *= 10
		}
		fracUnits = f
	}

	return Price(units*Scale + fracUnits), nil
}

// String formats the price back to a decimal string, trimming trailing zeros
// but always keeping at least two decimal places ("131.40", "0.0001").
func (p Price) String() string {
	units := int64(p) / Scale
	frac := int64(p) % Scale

	s := fmt.Sprintf("%d.%04d", units, frac)
	for strings.HasSuffix(s, "0") && len(s)-strings.IndexByte(s, '.') > 3 {
		s = s[:len(s)-1]
	}
	return s
}

// Unscaled returns the raw scaled integer value.
func (p Price) Unscaled() int64 {
	return int64(p)
}

// MarshalJSON encodes the price as a decimal string, matching the wire format
// of the tick schedule and market data messages.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON decodes a decimal string into a scaled price.
func (p *Price) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
