package settings

import (
	"fmt"
	"io"
	"time"

	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the current YAML snapshot layout.
const SnapshotVersion = 1

// Snapshot is the YAML form of the holding bank.
type Snapshot struct {
	Version   int                `yaml:"version"`
	TakenAt   time.Time          `yaml:"taken_at"`
	Device    string             `yaml:"device,omitempty"`
	Registers []SnapshotRegister `yaml:"registers"`
}

// SnapshotRegister is one register entry of a snapshot. Name and
// Description are informational; ID and Value are authoritative.
type SnapshotRegister struct {
	ID          uint16 `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Value       uint32 `yaml:"value"`
	Description string `yaml:"description,omitempty"`
}

// NewSnapshot builds a snapshot of values.
func NewSnapshot(values []uint16, device domain.Device) Snapshot {
	s := Snapshot{
		Version:   SnapshotVersion,
		TakenAt:   time.Now().UTC().Truncate(time.Second),
		Registers: make([]SnapshotRegister, len(values)),
	}
	if device.Protocol != "" {
		s.Device = device.Address()
	}
	for i, v := range values {
		d := catalog.Describe(domain.BankHolding, uint16(i))
		s.Registers[i] = SnapshotRegister{
			ID:          uint16(i),
			Name:        d.Name,
			Value:       uint32(v),
			Description: d.Description,
		}
	}
	return s
}

// EncodeSnapshot writes s as YAML.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFileIO, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFileIO, err)
	}
	return nil
}

// DecodeSnapshot reads a YAML snapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", domain.ErrFileIO, err)
	}
	if s.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported snapshot version %d", domain.ErrFileIO, s.Version)
	}
	return s, nil
}

// Assignments validates the snapshot and converts it to assignments.
func (s Snapshot) Assignments() ([]Assignment, error) {
	out := make([]Assignment, 0, len(s.Registers))
	for _, r := range s.Registers {
		if r.ID >= domain.HoldingCount {
			return nil, fmt.Errorf("%w: reg[%d]", domain.ErrInvalidAddress, r.ID)
		}
		if r.Value > 0xFFFF {
			return nil, fmt.Errorf("%w: reg[%d] = %d", domain.ErrValueOverflow, r.ID, r.Value)
		}
		out = append(out, Assignment{ID: r.ID, Value: uint16(r.Value)})
	}
	return out, nil
}
