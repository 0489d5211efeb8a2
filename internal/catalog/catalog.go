// Package catalog holds the static metadata of every register the heat pump
// controller exposes: description, display scale, signedness, valid range and
// factory default.
package catalog

import (
	"strings"

	"github.com/nexus-edge/hvac-console/internal/domain"
)

// UnknownDescription is reported for ids outside the register map.
const UnknownDescription = "unknown?"

// Bounds is an inclusive range of accepted values. For signed registers the
// range applies to the two's complement interpretation.
type Bounds struct {
	Min int32
	Max int32
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v int32) bool {
	return v >= b.Min && v <= b.Max
}

// Descriptor is the metadata of one register.
type Descriptor struct {
	ID          uint16
	Bank        domain.Bank
	Name        string
	Description string

	// Scale is the decimal exponent of the stored integer:
	// 0 raw, -1 tenths, -2 hundredths.
	Scale int8

	// Signed registers carry an int16 in two's complement.
	Signed bool

	// Bounds is nil when any 16-bit value is accepted. Holding only.
	Bounds *Bounds

	// Default is the factory value used by restore_default. Holding only.
	Default uint16
}

// Known reports whether the descriptor came from the register map.
func (d Descriptor) Known() bool {
	return d.Description != UnknownDescription
}

// Value interprets raw according to the descriptor signedness.
func (d Descriptor) Value(raw uint16) int32 {
	if d.Signed {
		return int32(int16(raw))
	}
	return int32(raw)
}

var (
	holdingByName map[string]Descriptor
	inputByName   map[string]Descriptor
)

func init() {
	holdingByName = index(holdingRegisters[:], domain.BankHolding)
	inputByName = index(inputRegisters[:], domain.BankInput)
}

// index stamps id and bank into every entry and builds the name index.
func index(descs []Descriptor, bank domain.Bank) map[string]Descriptor {
	m := make(map[string]Descriptor, len(descs))
	for i := range descs {
		descs[i].ID = uint16(i)
		descs[i].Bank = bank
		m[descs[i].Name] = descs[i]
	}
	return m
}

// Describe returns the descriptor of a register. Ids outside the map yield a
// descriptor with UnknownDescription instead of failing.
func Describe(bank domain.Bank, id uint16) Descriptor {
	switch bank {
	case domain.BankHolding:
		if int(id) < len(holdingRegisters) {
			return holdingRegisters[id]
		}
	case domain.BankInput:
		if int(id) < len(inputRegisters) {
			return inputRegisters[id]
		}
	}
	return Descriptor{ID: id, Bank: bank, Name: "unknown", Description: UnknownDescription}
}

// ScaleOf returns the display exponent of a register.
func ScaleOf(bank domain.Bank, id uint16) int8 {
	return Describe(bank, id).Scale
}

// BoundsOf returns the valid range of a holding register, if it has one.
func BoundsOf(id uint16) (Bounds, bool) {
	d := Describe(domain.BankHolding, id)
	if d.Bounds == nil {
		return Bounds{}, false
	}
	return *d.Bounds, true
}

// Lookup finds a register by its name. Matching is case-insensitive.
func Lookup(bank domain.Bank, name string) (Descriptor, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	var d Descriptor
	var ok bool
	switch bank {
	case domain.BankHolding:
		d, ok = holdingByName[name]
	case domain.BankInput:
		d, ok = inputByName[name]
	}
	return d, ok
}

// Holding returns all holding register descriptors in id order.
func Holding() []Descriptor {
	out := make([]Descriptor, len(holdingRegisters))
	copy(out, holdingRegisters[:])
	return out
}

// Input returns all input register descriptors in id order.
func Input() []Descriptor {
	out := make([]Descriptor, len(inputRegisters))
	copy(out, inputRegisters[:])
	return out
}

// Defaults returns the factory value of every holding register in id order.
func Defaults() []uint16 {
	out := make([]uint16, len(holdingRegisters))
	for i, d := range holdingRegisters {
		out[i] = d.Default
	}
	return out
}

// Validate checks value against the bounds of holding register id. The value
// is the signed or unsigned interpretation the register uses.
func Validate(id uint16, value int32) error {
	d := Describe(domain.BankHolding, id)
	if !d.Known() {
		return domain.ErrInvalidAddress
	}
	if d.Bounds != nil && !d.Bounds.Contains(value) {
		return domain.ErrValueOutOfRange
	}
	if d.Signed {
		if value < -32768 || value > 32767 {
			return domain.ErrValueOutOfRange
		}
	} else if value < 0 || value > 65535 {
		return domain.ErrValueOutOfRange
	}
	return nil
}

// Encode converts a validated value into its 16-bit wire representation.
func Encode(value int32) uint16 {
	return uint16(value)
}
