//go:build fuzz
// +build fuzz

package console_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/nexus-edge/hvac-console/internal/console"
	"github.com/nexus-edge/hvac-console/internal/domain"
)

// FuzzParseRegisterSet checks that any accepted set is sorted, distinct and
// inside the bank, and that rejections carry a known error.
func FuzzParseRegisterSet(f *testing.F) {
	seeds := []string{
		"1 2 5-10 15 16",
		"all",
		"all 3",
		"0-45",
		"46",
		"10-5",
		"-",
		"1--2",
		"18446744073709551615",
		"  7   7 7-7 ",
		"abc",
	}
	for _, s := range seeds {
		f.Add(s, uint8(domain.HoldingCount))
	}

	f.Fuzz(func(t *testing.T, input string, size uint8) {
		ids, err := console.ParseRegisterSet(strings.Fields(input), int(size))
		if err != nil {
			var oor *console.OutOfRangeError
			if !errors.Is(err, domain.ErrSyntax) && !errors.As(err, &oor) {
				t.Fatalf("unexpected error kind for %q: %v", input, err)
			}
			return
		}
		for i, id := range ids {
			if int(id) >= int(size) {
				t.Fatalf("id %d outside bank of %d for %q", id, size, input)
			}
			if i > 0 && ids[i-1] >= id {
				t.Fatalf("ids not strictly increasing for %q: %v", input, ids)
			}
		}
	})
}
