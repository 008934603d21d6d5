// Package wave owns enemy formations and the wave/difficulty progression.
package wave

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tomz197/invaders/internal/object"
)

// TableVersion is the formation asset format this package reads.
const TableVersion = 1

// TiersPerStage is the number of difficulty tiers cycled within a stage.
const TiersPerStage = 3

var (
	ErrEmptyTable         = errors.New("wave: formation table has no stages")
	ErrUnsupportedVersion = errors.New("wave: unsupported formation table version")
)

//go:embed formations.json
var defaultFormations []byte

// Slot describes one invader in a formation row.
type Slot struct {
	Color     object.Color     `json:"color"`
	Direction object.Direction `json:"direction"`
}

// Row is an ordered list of slots; a nil slot is a gap.
type Row []*Slot

// Formation is an ordered list of rows, top row first. Empty rows are legal
// and push the following rows down.
type Formation []Row

// Count returns the number of populated slots.
func (f Formation) Count() int {
	n := 0
	for _, row := range f {
		for _, slot := range row {
			if slot != nil {
				n++
			}
		}
	}
	return n
}

// Placement is a populated slot with its spawn position.
type Placement struct {
	X, Y float64
	Slot Slot
}

// Layout positions the formation's invaders. Every slot in a row, gap or not,
// takes one invader width; the remaining width is split evenly between and
// around the slots. Row i starts at y = i*height.
func (f Formation) Layout(fieldWidth, width, height float64) []Placement {
	placements := make([]Placement, 0, f.Count())
	for r, row := range f {
		slots := float64(len(row))
		spacing := (fieldWidth - slots*width) / (slots + 1)
		for i, slot := range row {
			if slot == nil {
				continue
			}
			placements = append(placements, Placement{
				X:    spacing*float64(i+1) + width*float64(i),
				Y:    float64(r) * height,
				Slot: *slot,
			})
		}
	}
	return placements
}

// Spawn creates the formation's invaders left to right, row by row, using d
// for their stats and nextID for their identities.
func (f Formation) Spawn(field object.Field, d object.Difficulty, nextID func() object.ID) []*object.Invader {
	placements := f.Layout(field.Width, object.InvaderWidth, object.InvaderHeight)
	invaders := make([]*object.Invader, 0, len(placements))
	for _, p := range placements {
		invaders = append(invaders, object.NewInvader(nextID(), p.X, p.Y, p.Slot.Direction, p.Slot.Color, d))
	}
	return invaders
}

// Table maps (stage, tier) to a formation. It is immutable once loaded.
type Table struct {
	version int
	stages  [][TiersPerStage]Formation
}

type tableFile struct {
	Version int `json:"version"`
	Stages  []struct {
		Tiers []Formation `json:"tiers"`
	} `json:"stages"`
}

// LoadTable reads a formation table from JSON.
func LoadTable(r io.Reader) (*Table, error) {
	var file tableFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode formation table: %w", err)
	}
	if file.Version != TableVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}
	if len(file.Stages) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{version: file.Version, stages: make([][TiersPerStage]Formation, len(file.Stages))}
	for i, stage := range file.Stages {
		if len(stage.Tiers) != TiersPerStage {
			return nil, fmt.Errorf("stage %d: want %d tiers, got %d", i+1, TiersPerStage, len(stage.Tiers))
		}
		for j, f := range stage.Tiers {
			if f.Count() == 0 {
				return nil, fmt.Errorf("stage %d tier %d: formation has no invaders", i+1, j+1)
			}
			t.stages[i][j] = f
		}
	}
	return t, nil
}

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return LoadTable(bytes.NewReader(defaultFormations))
})

// DefaultTable returns the formation table embedded in the binary.
func DefaultTable() *Table {
	t, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded formation table: %v", err))
	}
	return t
}

// Len returns the number of stages defined in the table.
func (t *Table) Len() int {
	return len(t.stages)
}

// Version returns the asset version the table was loaded from.
func (t *Table) Version() int {
	return t.version
}

// StageIndex maps a stage number to a table entry. Stages 1..Len use their
// own entry. Later stages cycle through entries 1..Len-1, so the opening
// entry is only ever played once.
func (t *Table) StageIndex(stage int) int {
	n := len(t.stages)
	switch {
	case stage < 1:
		return 0
	case stage <= n:
		return stage - 1
	case n == 1:
		return 0
	}
	return 1 + (stage-1)%(n-1)
}

// Formation returns the formation for a stage and tier (1-based).
func (t *Table) Formation(stage int, tier Tier) Formation {
	idx := t.StageIndex(stage)
	return t.stages[idx][tier.index()]
}
