package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nexus-edge/hvac-console/internal/domain"
)

// OutOfRangeError reports a register number past the end of a bank.
type OutOfRangeError struct {
	Value uint64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("Number %d (or %d) is out of available register range", e.Value, int16(e.Value))
}

// Unwrap makes the error match domain.ErrInvalidAddress.
func (e *OutOfRangeError) Unwrap() error {
	return domain.ErrInvalidAddress
}

// ParseRegisterSet expands "N" and "A-B" tokens into the sorted set of
// distinct register ids. A leading "all" selects the whole bank. Any id at or
// past size rejects the whole set.
func ParseRegisterSet(tokens []string, size int) ([]uint16, error) {
	if len(tokens) == 0 || size <= 0 {
		return nil, nil
	}
	if tokens[0] == "all" {
		tokens = append([]string{fmt.Sprintf("0-%d", size-1)}, tokens[1:]...)
	}

	seen := make(map[uint16]struct{})
	for _, tok := range tokens {
		lo, hi, err := parseSpan(tok)
		if err != nil {
			return nil, err
		}
		for _, n := range []uint64{lo, hi} {
			if n >= uint64(size) {
				return nil, &OutOfRangeError{Value: n}
			}
		}
		for id := lo; id <= hi; id++ {
			seen[uint16(id)] = struct{}{}
		}
	}

	ids := make([]uint16, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func parseSpan(tok string) (lo, hi uint64, err error) {
	first, second, isRange := strings.Cut(tok, "-")
	lo, err = strconv.ParseUint(first, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrSyntax, tok)
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err = strconv.ParseUint(second, 10, 32)
	if err != nil || hi < lo {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrSyntax, tok)
	}
	return lo, hi, nil
}

// arity prints the parameter count diagnostic and reports whether tokens
// holds exactly n entries.
func (e *Env) arity(tokens []string, n int) bool {
	switch {
	case len(tokens) < n:
		e.failf("Too few parameters.")
		return false
	case len(tokens) > n:
		e.failf("Too many parameters.")
		return false
	}
	return true
}

// single returns the one token of arg.
func (e *Env) single(arg string) (string, bool) {
	tokens := strings.Fields(arg)
	if !e.arity(tokens, 1) {
		return "", false
	}
	return tokens[0], true
}

func (e *Env) parseInt(tok string) (int32, bool) {
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		e.failf("Not a number: %q", tok)
		return 0, false
	}
	return int32(v), true
}

func (e *Env) parseFloat(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		e.failf("Not a number: %q", tok)
		return 0, false
	}
	return v, true
}
