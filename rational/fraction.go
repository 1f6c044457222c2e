// Package rational implements exact fraction arithmetic used by the
// repetition-vector computation (see package repvec). Fractions normalize to
// lowest terms on every construction; a zero-denominator Fraction is the
// "inconsistent" sentinel consumed by repvec, exactly as CFraction(0,0) is
// used in the FSM-SADF repetition-vector propagation (repvec marks a
// not-yet-determined entry with Zero(), 0/1, instead).
package rational

import "fmt"

// Fraction is an exact num/den pair in lowest terms, den >= 0.
// Den == 0 is the inconsistency sentinel; Num is not meaningful in that case
// except that Zero() == Fraction{0, 1} is the distinguished "unset" value.
type Fraction struct {
	Num int64
	Den int64
}

// New returns num/den normalized to lowest terms with a non-negative
// denominator. New(n, 0) returns the inconsistency sentinel Fraction{0, 0}
// regardless of n.
func New(num, den int64) Fraction {
	if den == 0 {
		return Fraction{0, 0}
	}
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Fraction{0, 1}
	}
	g := gcd(abs(num), den)
	return Fraction{num / g, den / g}
}

// Zero is the additive identity 0/1.
func Zero() Fraction { return Fraction{0, 1} }

// One is the multiplicative identity 1/1.
func One() Fraction { return Fraction{1, 1} }

// Inconsistent is the 0/0 sentinel.
func Inconsistent() Fraction { return Fraction{0, 0} }

// IsInconsistent reports whether f is the 0/0 sentinel.
func (f Fraction) IsInconsistent() bool { return f.Den == 0 }

// Add returns f + g.
func (f Fraction) Add(g Fraction) Fraction {
	if f.IsInconsistent() || g.IsInconsistent() {
		return Inconsistent()
	}
	return New(f.Num*g.Den+g.Num*f.Den, f.Den*g.Den)
}

// Sub returns f - g.
func (f Fraction) Sub(g Fraction) Fraction {
	if f.IsInconsistent() || g.IsInconsistent() {
		return Inconsistent()
	}
	return New(f.Num*g.Den-g.Num*f.Den, f.Den*g.Den)
}

// Mul returns f * g.
func (f Fraction) Mul(g Fraction) Fraction {
	if f.IsInconsistent() || g.IsInconsistent() {
		return Inconsistent()
	}
	return New(f.Num*g.Num, f.Den*g.Den)
}

// Quo returns f / g. Dividing by a zero-numerator fraction yields the
// inconsistency sentinel, matching the source's treatment of a zero rate.
func (f Fraction) Quo(g Fraction) Fraction {
	if f.IsInconsistent() || g.IsInconsistent() || g.Num == 0 {
		return Inconsistent()
	}
	return New(f.Num*g.Den, f.Den*g.Num)
}

// Cmp compares f and g by cross-multiplication, returning -1, 0, or 1.
// Both operands must be consistent (Den != 0); Cmp panics otherwise, since
// comparing the sentinel is a programmer error, not a recoverable input.
func (f Fraction) Cmp(g Fraction) int {
	if f.IsInconsistent() || g.IsInconsistent() {
		panic("rational: Cmp on inconsistent fraction")
	}
	lhs := f.Num * g.Den
	rhs := g.Num * f.Den
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Equal reports whether f and g denote the same value, by cross
// multiplication. Two inconsistency sentinels compare equal.
func (f Fraction) Equal(g Fraction) bool {
	if f.IsInconsistent() || g.IsInconsistent() {
		return f.IsInconsistent() && g.IsInconsistent()
	}
	return f.Num*g.Den == g.Num*f.Den
}

// String renders the fraction as "num/den".
func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// gcd returns the greatest common divisor of a, b (both expected >= 0,
// not both zero).
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// GCD returns the greatest common divisor of a and b (accepts any sign,
// magnitude-based); GCD(0, 0) = 0.
func GCD(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b; LCM(a, 0) = 0.
func LCM(a, b int64) int64 {
	a, b = abs(a), abs(b)
	if a == 0 || b == 0 {
		return 0
	}
	return a / GCD(a, b) * b
}
