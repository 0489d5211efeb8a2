// Package settings persists the holding register bank to files and reads it
// back. Two formats are supported: the line oriented reg[N] = V text format
// and a YAML snapshot chosen by the .yaml or .yml extension.
package settings

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
)

// commentColumn is where the # description starts in exported lines.
const commentColumn = 24

var linePattern = regexp.MustCompile(`reg\[(\d+)\]\s*=\s*(\d+)`)

// Assignment is one register value read from a file.
type Assignment struct {
	ID    uint16
	Value uint16
}

// Export writes one reg[N] = V line per value, followed by the register
// description.
func Export(w io.Writer, values []uint16) error {
	bw := bufio.NewWriter(w)
	for i, v := range values {
		left := fmt.Sprintf("reg[%d] = %d", i, v)
		pad := commentColumn - len(left)
		if pad < 1 {
			pad = 1
		}
		desc := catalog.Describe(domain.BankHolding, uint16(i)).Description
		if _, err := fmt.Fprintf(bw, "%s%s# %s\n", left, strings.Repeat(" ", pad), desc); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrFileIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFileIO, err)
	}
	return nil
}

// Import parses reg[N] = V lines from r. Lines that do not match are
// ignored. The whole input is validated before anything is returned.
func Import(r io.Reader) ([]Assignment, error) {
	var out []Assignment
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		m := linePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		id, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil || id >= domain.HoldingCount {
			return nil, fmt.Errorf("%w: line %d: reg[%s]", domain.ErrInvalidAddress, lineNo, m[1])
		}
		value, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil || value > 0xFFFF {
			return nil, fmt.Errorf("%w: line %d: reg[%d] = %s", domain.ErrValueOverflow, lineNo, id, m[2])
		}
		out = append(out, Assignment{ID: uint16(id), Value: uint16(value)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFileIO, err)
	}
	return out, nil
}

// Apply overlays assignments onto a copy of base.
func Apply(base []uint16, assignments []Assignment) []uint16 {
	out := make([]uint16, len(base))
	copy(out, base)
	for _, a := range assignments {
		if int(a.ID) < len(out) {
			out[a.ID] = a.Value
		}
	}
	return out
}

// IsYAML reports whether path selects the YAML snapshot format.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveFile writes the holding bank to path in the format its extension
// selects.
func SaveFile(path string, values []uint16, device domain.Device) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFileIO, err)
	}

	if IsYAML(path) {
		err = EncodeSnapshot(f, NewSnapshot(values, device))
	} else {
		err = Export(f, values)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %v", domain.ErrFileIO, cerr)
	}
	return err
}

// LoadFile reads assignments from path in the format its extension selects.
func LoadFile(path string) ([]Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFileIO, err)
	}
	defer f.Close()

	if IsYAML(path) {
		snap, err := DecodeSnapshot(f)
		if err != nil {
			return nil, err
		}
		return snap.Assignments()
	}
	return Import(f)
}
