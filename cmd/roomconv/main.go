// roomconv converts a headset-side room-scan dump into a room YAML file
// for the kuro runtime.
//
// The dump format is one record per line:
//
//	surface,<name>,<min_x>,<max_x>,<min_z>,<max_z>,<y>,<walkable>
//	obstacle,<name>,<min_x>,<max_x>,<min_z>,<max_z>,<height>
//
// Usage:
//
//	go run ./cmd/roomconv -in scan_dump.csv -out data/rooms/room.yaml -name "Living Room"
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kurolab/kuro/internal/room"
)

func main() {
	in := flag.String("in", "", "scan dump CSV (required)")
	out := flag.String("out", "", "output room YAML (required)")
	name := flag.String("name", "Scanned Room", "room name")
	cell := flag.Float64("cell", 0.25, "navigation cell size")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := convert(*in, *out, *name, *cell); err != nil {
		fmt.Fprintf(os.Stderr, "roomconv: %v\n", err)
		os.Exit(1)
	}
}

func convert(inPath, outPath, name string, cell float64) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	scan := room.Scan{Name: name, CellSize: cell}

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		switch fields[0] {
		case "surface":
			sf, err := parseSurface(fields)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			scan.Surfaces = append(scan.Surfaces, sf)
		case "obstacle":
			ob, err := parseObstacle(fields)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			scan.Obstacles = append(scan.Obstacles, ob)
		default:
			return fmt.Errorf("line %d: unknown record %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(&scan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d surfaces, %d obstacles\n", outPath, len(scan.Surfaces), len(scan.Obstacles))
	return nil
}

func parseSurface(fields []string) (room.Surface, error) {
	if len(fields) != 8 {
		return room.Surface{}, fmt.Errorf("surface needs 8 fields, got %d", len(fields))
	}
	nums, err := parseFloats(fields[2:7])
	if err != nil {
		return room.Surface{}, err
	}
	walkable, err := strconv.ParseBool(strings.TrimSpace(fields[7]))
	if err != nil {
		return room.Surface{}, fmt.Errorf("walkable: %w", err)
	}
	return room.Surface{
		Name:     strings.TrimSpace(fields[1]),
		MinX:     nums[0],
		MaxX:     nums[1],
		MinZ:     nums[2],
		MaxZ:     nums[3],
		Y:        nums[4],
		Walkable: walkable,
	}, nil
}

func parseObstacle(fields []string) (room.Obstacle, error) {
	if len(fields) != 7 {
		return room.Obstacle{}, fmt.Errorf("obstacle needs 7 fields, got %d", len(fields))
	}
	nums, err := parseFloats(fields[2:7])
	if err != nil {
		return room.Obstacle{}, err
	}
	return room.Obstacle{
		Name:   strings.TrimSpace(fields[1]),
		MinX:   nums[0],
		MaxX:   nums[1],
		MinZ:   nums[2],
		MaxZ:   nums[3],
		Height: nums[4],
	}, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
