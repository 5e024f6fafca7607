package room

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Surface is one walkable patch recovered from the room scan: an
// axis-aligned rectangle in the XZ plane at height Y. Real scans produce
// many small patches; the floor of a living room is typically one large one
// plus rugs and low furniture tops.
type Surface struct {
	Name     string  `yaml:"name"`
	MinX     float64 `yaml:"min_x"`
	MaxX     float64 `yaml:"max_x"`
	MinZ     float64 `yaml:"min_z"`
	MaxZ     float64 `yaml:"max_z"`
	Y        float64 `yaml:"y"`
	Walkable bool    `yaml:"walkable"`
}

// Obstacle is scanned solid geometry the agent must path around and the
// ball bounces off: a box footprint in the XZ plane.
type Obstacle struct {
	Name   string  `yaml:"name"`
	MinX   float64 `yaml:"min_x"`
	MaxX   float64 `yaml:"max_x"`
	MinZ   float64 `yaml:"min_z"`
	MaxZ   float64 `yaml:"max_z"`
	Height float64 `yaml:"height"`
}

// Scan is one scanned room, as exported by the headset-side room
// understanding pipeline (see cmd/roomconv for the raw-dump converter).
type Scan struct {
	Name      string     `yaml:"name"`
	CellSize  float64    `yaml:"cell_size"`
	Surfaces  []Surface  `yaml:"surfaces"`
	Obstacles []Obstacle `yaml:"obstacles"`
}

// LoadScan loads a room scan from YAML.
func LoadScan(path string) (*Scan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read room scan %s: %w", path, err)
	}
	var scan Scan
	if err := yaml.Unmarshal(raw, &scan); err != nil {
		return nil, fmt.Errorf("parse room scan %s: %w", path, err)
	}
	if scan.CellSize <= 0 {
		scan.CellSize = 0.25
	}
	if err := scan.validate(); err != nil {
		return nil, fmt.Errorf("room scan %s: %w", path, err)
	}
	return &scan, nil
}

func (s *Scan) validate() error {
	walkable := 0
	for i, sf := range s.Surfaces {
		if sf.MinX >= sf.MaxX || sf.MinZ >= sf.MaxZ {
			return fmt.Errorf("surface %d (%s): degenerate extent", i, sf.Name)
		}
		if sf.Walkable {
			walkable++
		}
	}
	if walkable == 0 {
		return fmt.Errorf("no walkable surface")
	}
	for i, ob := range s.Obstacles {
		if ob.MinX >= ob.MaxX || ob.MinZ >= ob.MaxZ {
			return fmt.Errorf("obstacle %d (%s): degenerate extent", i, ob.Name)
		}
	}
	return nil
}

// Bounds returns the XZ extent covering every surface.
func (s *Scan) Bounds() (minX, maxX, minZ, maxZ float64) {
	first := true
	for _, sf := range s.Surfaces {
		if first {
			minX, maxX, minZ, maxZ = sf.MinX, sf.MaxX, sf.MinZ, sf.MaxZ
			first = false
			continue
		}
		if sf.MinX < minX {
			minX = sf.MinX
		}
		if sf.MaxX > maxX {
			maxX = sf.MaxX
		}
		if sf.MinZ < minZ {
			minZ = sf.MinZ
		}
		if sf.MaxZ > maxZ {
			maxZ = sf.MaxZ
		}
	}
	return
}
