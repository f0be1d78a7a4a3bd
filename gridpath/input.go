package gridpath

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Query is one request against the grid: Kind 1 is a shortest-path query
// between Source and Target, Kind 2 finds the closest compute satellite to
// Source.
type Query struct {
	Kind   int
	Source Point
	Target Point
}

// ReadInput parses the grid input format: a satellite count, one
// "x y type direction capacity" line per satellite, a query count, then
// one query per line.
func ReadInput(r io.Reader) (*Grid, []Query, error) {
	scanner := bufio.NewScanner(r)
	readLine := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	line, err := readLine()
	if err != nil {
		return nil, nil, err
	}
	count, err := strconv.Atoi(line)
	if err != nil {
		return nil, nil, fmt.Errorf("bad satellite count %q: %w", line, err)
	}

	grid := NewGrid()
	for i := 0; i < count; i++ {
		line, err := readLine()
		if err != nil {
			return nil, nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, nil, fmt.Errorf("satellite line %q: want 5 fields, got %d", line, len(fields))
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, nil, err
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, nil, err
		}
		capacity, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, nil, err
		}
		grid.Add(Satellite{
			Pos:             Point{x, y},
			Type:            fields[2],
			Direction:       fields[3],
			ComputeCapacity: capacity,
		})
	}

	line, err = readLine()
	if err != nil {
		return nil, nil, err
	}
	queryCount, err := strconv.Atoi(line)
	if err != nil {
		return nil, nil, fmt.Errorf("bad query count %q: %w", line, err)
	}

	queries := make([]Query, 0, queryCount)
	for i := 0; i < queryCount; i++ {
		line, err := readLine()
		if err != nil {
			return nil, nil, err
		}
		fields := strings.Fields(line)
		nums := make([]int, len(fields))
		for j, f := range fields {
			nums[j], err = strconv.Atoi(f)
			if err != nil {
				return nil, nil, fmt.Errorf("bad query line %q: %w", line, err)
			}
		}
		switch {
		case len(nums) == 5 && nums[0] == 1:
			queries = append(queries, Query{
				Kind:   1,
				Source: Point{nums[1], nums[2]},
				Target: Point{nums[3], nums[4]},
			})
		case len(nums) == 3 && nums[0] == 2:
			queries = append(queries, Query{
				Kind:   2,
				Source: Point{nums[1], nums[2]},
			})
		default:
			return nil, nil, fmt.Errorf("unrecognized query line %q", line)
		}
	}
	return grid, queries, nil
}

func ReadInputFile(path string) (*Grid, []Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadInput(f)
}

// RunQueries evaluates every query and writes human-readable results.
func RunQueries(grid *Grid, queries []Query, w io.Writer) {
	for _, q := range queries {
		switch q.Kind {
		case 1:
			path := grid.ShortestPath(q.Source, q.Target)
			if path == nil {
				fmt.Fprintf(w, "No path found between (%d,%d) and (%d,%d).\n", q.Source.X, q.Source.Y, q.Target.X, q.Target.Y)
				continue
			}
			parts := make([]string, len(path))
			for i, p := range path {
				parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
			}
			fmt.Fprintf(w, "Shortest path from (%d,%d) to (%d,%d): %s\n", q.Source.X, q.Source.Y, q.Target.X, q.Target.Y, strings.Join(parts, " -> "))
		case 2:
			cs, ok := grid.ClosestCompute(q.Source)
			if !ok {
				fmt.Fprintf(w, "No Compute Satellite found for (%d,%d).\n", q.Source.X, q.Source.Y)
				continue
			}
			fmt.Fprintf(w, "Closest Compute Satellite to (%d,%d): (%d,%d)\n", q.Source.X, q.Source.Y, cs.X, cs.Y)
		}
	}
}
