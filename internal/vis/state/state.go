// Package state manages the playback viewer's state: the loaded grid
// and per-agent path table, and where the scrubber currently sits.
package state

import (
	"github.com/elektrokombinacija/mapf-het-research/internal/core"
	"github.com/elektrokombinacija/mapf-het-research/internal/gridio"
)

// State is everything the viewer needs to render one frame. It never
// mutates Grid or Paths; only Playback.CurrentTime changes as the user
// scrubs or plays.
type State struct {
	Grid         *core.Grid
	EndpointKind map[core.Cell]core.EndpointKind // for tinting workpoint/home cells
	Paths        [][]core.Cell                   // Paths[a][t], same shape as core.Token.Path
	Horizon      int

	Playback *PlaybackState
}

// Load reads a map file and a path-table file written by
// gridio.WritePathTable and builds a ready-to-render State.
func Load(mapFile, pathFile string) (*State, error) {
	m, err := gridio.LoadMap(mapFile)
	if err != nil {
		return nil, err
	}
	paths, err := gridio.ReadPathTable(pathFile, m.Grid)
	if err != nil {
		return nil, err
	}
	horizon := m.Horizon
	if len(paths) > 0 {
		horizon = len(paths[0])
	}
	kind := make(map[core.Cell]core.EndpointKind, len(m.Endpoints))
	for _, e := range m.Endpoints {
		kind[e.Loc] = e.Kind
	}
	return &State{
		Grid:         m.Grid,
		EndpointKind: kind,
		Paths:        paths,
		Horizon:      horizon,
		Playback:     NewPlaybackState(float64(horizon - 1)),
	}, nil
}

// CurrentCells returns every agent's cell at the current (floored)
// timestep.
func (s *State) CurrentCells() []core.Cell {
	t := int(s.Playback.CurrentTime)
	out := make([]core.Cell, len(s.Paths))
	for a, row := range s.Paths {
		switch {
		case t < 0:
			out[a] = row[0]
		case t < len(row):
			out[a] = row[t]
		default:
			out[a] = row[len(row)-1]
		}
	}
	return out
}

// Trail returns agent a's path prefix from t=0 up to (and including)
// the current timestep, for drawing a history line behind it.
func (s *State) Trail(agent int) []core.Cell {
	if agent < 0 || agent >= len(s.Paths) {
		return nil
	}
	row := s.Paths[agent]
	t := int(s.Playback.CurrentTime) + 1
	if t > len(row) {
		t = len(row)
	}
	if t < 0 {
		t = 0
	}
	return row[:t]
}
