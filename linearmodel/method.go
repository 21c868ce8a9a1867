package linearmodel

import (
	"fmt"
	"strings"
)

// Method selects the algorithm used to estimate a line. All methods honor the same contract and
// degenerate input policies so they can be swapped freely.
type Method int

const (
	// MethodManual uses the closed form sums of deviations from the mean
	MethodManual Method = iota
	// MethodGonum delegates to gonum's stat.LinearRegression
	MethodGonum
	// MethodQR solves least squares on the [1 x] design matrix with a QR factorization
	MethodQR
)

var methodNames = map[Method]string{
	MethodManual: "manual",
	MethodGonum:  "gonum",
	MethodQR:     "qr",
}

func (m Method) String() string {
	if name, exists := methodNames[m]; exists {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod converts a method name into a Method. Matching is case insensitive.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnknownMethod)
}

func (m Method) MarshalText() ([]byte, error) {
	if _, exists := methodNames[m]; !exists {
		return nil, fmt.Errorf("%d, %w", int(m), ErrUnknownMethod)
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
