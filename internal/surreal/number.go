// Package surreal provides the three-axis price value used as currency.
//
// A Number is Real + Eps·ε + Omega·ω. The infinitesimal axis carries soft
// preferences (reputation, specialty nuance) that only matter when real
// amounts tie. The infinite axis carries legal status: any positive Omega
// marks an amount as untradeable without a permit.
package surreal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tolerance is the per-axis slack used by Equal and Compare.
const Tolerance = 1e-10

// Number is an immutable price value. All operations return new values.
type Number struct {
	Real  float64 `json:"real"`
	Eps   float64 `json:"eps"`
	Omega float64 `json:"omega"`
}

// Zero is the neutral value.
var Zero = Number{}

// New builds a Number from its three components.
func New(real, eps, omega float64) Number {
	return Number{Real: real, Eps: eps, Omega: omega}
}

// FromReal builds a purely finite Number.
func FromReal(real float64) Number {
	return Number{Real: real}
}

// Add returns the componentwise sum.
func (n Number) Add(o Number) Number {
	return Number{Real: n.Real + o.Real, Eps: n.Eps + o.Eps, Omega: n.Omega + o.Omega}
}

// Sub returns the componentwise difference.
func (n Number) Sub(o Number) Number {
	return Number{Real: n.Real - o.Real, Eps: n.Eps - o.Eps, Omega: n.Omega - o.Omega}
}

// AddReal adds a plain amount to the real axis only.
func (n Number) AddReal(k float64) Number {
	n.Real += k
	return n
}

// SubReal subtracts a plain amount from the real axis only.
func (n Number) SubReal(k float64) Number {
	n.Real -= k
	return n
}

// Scale multiplies every axis by k.
func (n Number) Scale(k float64) Number {
	return Number{Real: n.Real * k, Eps: n.Eps * k, Omega: n.Omega * k}
}

func compareAxis(a, b float64) int {
	switch {
	case a == b, math.Abs(a-b) < Tolerance:
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

// Compare orders lexicographically: Omega first, then Real, then Eps.
// It returns -1, 0 or +1. Omega is compared exactly so that legality is
// never lost to rounding; Real and Eps use Tolerance.
func (n Number) Compare(o Number) int {
	switch {
	case n.Omega < o.Omega:
		return -1
	case n.Omega > o.Omega:
		return 1
	}
	if c := compareAxis(n.Real, o.Real); c != 0 {
		return c
	}
	return compareAxis(n.Eps, o.Eps)
}

func (n Number) Less(o Number) bool      { return n.Compare(o) < 0 }
func (n Number) LessEq(o Number) bool    { return n.Compare(o) <= 0 }
func (n Number) Greater(o Number) bool   { return n.Compare(o) > 0 }
func (n Number) GreaterEq(o Number) bool { return n.Compare(o) >= 0 }

// Equal reports whether Omega matches exactly and Real and Eps match
// within Tolerance.
func (n Number) Equal(o Number) bool {
	return n.Compare(o) == 0
}

// IsLegal reports whether the value is tradeable (Omega <= 0).
func (n Number) IsLegal() bool {
	return n.Omega <= 0
}

// ClearOmega returns a copy with the infinite axis forced to zero,
// i.e. the value once a permit has been applied.
func (n Number) ClearOmega() Number {
	n.Omega = 0
	return n
}

// Max returns the greatest argument under Compare.
func Max(first Number, rest ...Number) Number {
	m := first
	for _, x := range rest {
		if x.Greater(m) {
			m = x
		}
	}
	return m
}

// Min returns the least argument under Compare.
func Min(first Number, rest ...Number) Number {
	m := first
	for _, x := range rest {
		if x.Less(m) {
			m = x
		}
	}
	return m
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// signed formats f with an explicit leading sign.
func signed(f float64) string {
	s := formatFloat(f)
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return s
	}
	return "+" + s
}

// String renders "<real> [±<eps>ε] [±<omega>ω]". Zero axes are omitted,
// except the real part which is always present.
func (n Number) String() string {
	var b strings.Builder
	b.WriteString(formatFloat(n.Real))
	if n.Eps != 0 {
		b.WriteString(" ")
		b.WriteString(signed(n.Eps))
		b.WriteString("ε")
	}
	if n.Omega != 0 {
		b.WriteString(" ")
		b.WriteString(signed(n.Omega))
		b.WriteString("ω")
	}
	return b.String()
}

// Parse reads the form produced by String.
func Parse(s string) (Number, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 3 {
		return Number{}, fmt.Errorf("parse surreal %q: want 1 to 3 terms", s)
	}

	var n Number
	var err error
	if n.Real, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return Number{}, fmt.Errorf("parse surreal %q: real part: %w", s, err)
	}

	seenEps, seenOmega := false, false
	for _, f := range fields[1:] {
		switch {
		case strings.HasSuffix(f, "ε") && !seenEps && !seenOmega:
			n.Eps, err = strconv.ParseFloat(strings.TrimSuffix(f, "ε"), 64)
			seenEps = true
		case strings.HasSuffix(f, "ω") && !seenOmega:
			n.Omega, err = strconv.ParseFloat(strings.TrimSuffix(f, "ω"), 64)
			seenOmega = true
		default:
			return Number{}, fmt.Errorf("parse surreal %q: unexpected term %q", s, f)
		}
		if err != nil {
			return Number{}, fmt.Errorf("parse surreal %q: term %q: %w", s, f, err)
		}
	}
	return n, nil
}

// MarshalText implements encoding.TextMarshaler using String.
func (n Number) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (n *Number) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
