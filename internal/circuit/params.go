package circuit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrAngle is returned for rotation angles that cannot be parsed.
var ErrAngle = errors.New("invalid angle")

// maxPiDenominator bounds the fractions FormatAngle writes in pi notation.
const maxPiDenominator = 8

// ParseAngle parses a rotation angle. Plain numbers ("1.57", "3e-2") and
// multiples of pi ("pi", "-pi/2", "3pi/4", "3*pi/4") are accepted; case and
// whitespace are ignored.
func ParseAngle(s string) (float64, error) {
	expr := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if expr == "" {
		return 0, fmt.Errorf("%w: empty", ErrAngle)
	}

	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w %q", ErrAngle, s)
		}
		return v, nil
	}

	sign := 1.0
	if rest, ok := strings.CutPrefix(expr, "-"); ok {
		sign, expr = -1, rest
	}

	num, den, hasDen := strings.Cut(expr, "/")
	coeff, ok := strings.CutSuffix(num, "pi")
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrAngle, s)
	}

	k := 1.0
	if coeff = strings.TrimSuffix(coeff, "*"); coeff != "" {
		v, err := strconv.ParseFloat(coeff, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w %q: bad coefficient", ErrAngle, s)
		}
		k = v
	}

	v := sign * k * math.Pi
	if hasDen {
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("%w %q: bad denominator", ErrAngle, s)
		}
		v /= d
	}
	return v, nil
}

// FormatAngle writes small rational multiples of pi in pi notation, reduced
// to the lowest denominator, and everything else as a plain number.
func FormatAngle(val float64) string {
	for den := 1; den <= maxPiDenominator; den++ {
		n := math.Round(val * float64(den) / math.Pi)
		if n == 0 || math.Abs(n) > 4*float64(den) {
			continue
		}
		if math.Abs(val-n*math.Pi/float64(den)) > 1e-10 {
			continue
		}

		var sb strings.Builder
		if n < 0 {
			sb.WriteByte('-')
			n = -n
		}
		if n != 1 {
			fmt.Fprintf(&sb, "%d*", int(n))
		}
		sb.WriteString("pi")
		if den > 1 {
			fmt.Fprintf(&sb, "/%d", den)
		}
		return sb.String()
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}
