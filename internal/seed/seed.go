// Package seed maps a numeric seed string to the worker counts and dataset
// size used by a benchmark run.
package seed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
)

// MinDigits is the width the seed is zero-padded to before slicing.
const MinDigits = 9

// rngDigits is the number of trailing digits folded into RNGSeed. Eighteen
// decimal digits always fit in an int64.
const rngDigits = 18

// Params holds the values derived from a seed.
type Params struct {
	Threads   int   `json:"threads" yaml:"threads"`
	Processes int   `json:"processes" yaml:"processes"`
	DataCount int   `json:"data" yaml:"data"`
	RNGSeed   int64 `json:"-" yaml:"-"`
}

// Derive computes Params from s. The mapping is pure and total over digit
// strings of any length: the same seed always yields the same Params.
//
//	threads   = last two digits mod 4 + 2
//	processes = digits [3:5] mod 3 + 2
//	data      = last three digits * 10
func Derive(s string) (Params, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Params{}, fmt.Errorf("%w: empty seed", core.ErrConfiguration)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return Params{}, fmt.Errorf("%w: seed %q is not a digit string", core.ErrConfiguration, s)
		}
	}

	tail := s
	if len(tail) > rngDigits {
		tail = tail[len(tail)-rngDigits:]
	}
	value, err := strconv.ParseInt(tail, 10, 64)
	if err != nil {
		return Params{}, fmt.Errorf("%w: seed %q: %v", core.ErrConfiguration, s, err)
	}

	if len(s) < MinDigits {
		s = strings.Repeat("0", MinDigits-len(s)) + s
	}
	n := len(s)

	return Params{
		Threads:   digits(s[n-2:])%4 + 2,
		Processes: digits(s[3:5])%3 + 2,
		DataCount: digits(s[n-3:]) * 10,
		RNGSeed:   value,
	}, nil
}

// Alternative returns the worker counts of the alternative configuration:
// doubled threads and one extra process.
func Alternative(p Params) (threads, processes int) {
	return max(2, p.Threads*2), max(1, p.Processes+1)
}

// Configs returns the two canonical configurations for p over dataCount items.
func Configs(p Params, dataCount int) []core.ConfigSpec {
	altThreads, altProcs := Alternative(p)
	return []core.ConfigSpec{
		{Label: "nim_config", Threads: p.Threads, Processes: p.Processes, DataCount: dataCount},
		{Label: "alt_config", Threads: altThreads, Processes: altProcs, DataCount: dataCount},
	}
}

// digits parses a slice already validated as ASCII digits.
func digits(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v = v*10 + int(s[i]-'0')
	}
	return v
}
