// Package topology ingests link-interval tables and replays them as
// neighbor events against the simulation clock. Only LEO_LEO records enter
// the routing mesh; everything else is filtered here, outside the core.
package topology

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/orbmesh/orbmesh/state"
)

// TimeLayout matches the link topology table export format,
// e.g. "01-Jan-2026 00:00:00".
const TimeLayout = "02-Jan-2006 15:04:05"

const LinkTypeLeo = "LEO_LEO"

// Link is one ordered link-interval record.
type Link struct {
	Source      state.NodeId
	Destination state.NodeId
	StartTime   time.Time
	EndTime     time.Time
	LinkType    string
}

// nodeName keeps the first whitespace-delimited token of an exported
// satellite name ("SAT_07 (LEO)" -> "SAT_07").
func nodeName(raw string) state.NodeId {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return state.NodeId(fields[0])
}

// Parse reads a link topology CSV. The header row must contain Source,
// Target, StartTime, EndTime and LinkType columns.
func Parse(r io.Reader) ([]Link, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read topology header: %w", err)
	}
	col := make(map[string]int)
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Source", "Target", "StartTime", "EndTime", "LinkType"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("topology table is missing the %s column", required)
		}
	}

	links := make([]Link, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, err := time.Parse(TimeLayout, strings.TrimSpace(row[col["StartTime"]]))
		if err != nil {
			return nil, fmt.Errorf("bad StartTime %q: %w", row[col["StartTime"]], err)
		}
		end, err := time.Parse(TimeLayout, strings.TrimSpace(row[col["EndTime"]]))
		if err != nil {
			return nil, fmt.Errorf("bad EndTime %q: %w", row[col["EndTime"]], err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("link %s -> %s has end before start", row[col["Source"]], row[col["Target"]])
		}
		links = append(links, Link{
			Source:      nodeName(row[col["Source"]]),
			Destination: nodeName(row[col["Target"]]),
			StartTime:   start,
			EndTime:     end,
			LinkType:    strings.TrimSpace(row[col["LinkType"]]),
		})
	}
	return links, nil
}

func ParseFile(path string) ([]Link, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// FilterMesh keeps only the records that enter the routing mesh.
func FilterMesh(links []Link) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if l.LinkType == LinkTypeLeo {
			out = append(out, l)
		}
	}
	return out
}

// Nodes extracts the sorted set of node ids appearing in mesh links.
func Nodes(links []Link) []state.NodeId {
	set := make(map[state.NodeId]bool)
	for _, l := range links {
		if l.LinkType != LinkTypeLeo {
			continue
		}
		set[l.Source] = true
		set[l.Destination] = true
	}
	out := make([]state.NodeId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Rebase shifts every window so the earliest start lands on base,
// preserving relative offsets. Used to replay historical tables against
// the current clock.
func Rebase(links []Link, base time.Time) []Link {
	if len(links) == 0 {
		return links
	}
	earliest := links[0].StartTime
	for _, l := range links {
		if l.StartTime.Before(earliest) {
			earliest = l.StartTime
		}
	}
	shift := base.Sub(earliest)
	out := make([]Link, len(links))
	for i, l := range links {
		out[i] = l
		out[i].StartTime = l.StartTime.Add(shift)
		out[i].EndTime = l.EndTime.Add(shift)
	}
	return out
}
