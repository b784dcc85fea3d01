package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/orbitsim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames,omitempty"`
}

type ExportFrame struct {
	Tick      int          `json:"tick"`
	Time      float64      `json:"time"`
	Positions [][3]float32 `json:"positions"`
}

// ExportJSON writes the run metadata and, when frames is non-nil, the
// sampled trajectory.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	data := ExportData{Run: *meta}
	if frames != nil {
		data.Frames = make([]ExportFrame, len(frames))
		for i, f := range frames {
			pos := make([][3]float32, len(f.Positions))
			for j, p := range f.Positions {
				pos[j] = p
			}
			data.Frames[i] = ExportFrame{Tick: f.Tick, Time: f.Time, Positions: pos}
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes one row per body per frame: tick, time, body, x, y, z.
// Bodies without a name are labelled by index.
func WriteCSV(w io.Writer, frames []sim.Frame, names []string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"tick", "time", "body", "x", "y", "z"}); err != nil {
		return err
	}

	for _, f := range frames {
		tick := strconv.Itoa(f.Tick)
		t := strconv.FormatFloat(f.Time, 'f', 6, 64)
		for i, p := range f.Positions {
			name := strconv.Itoa(i)
			if i < len(names) && names[i] != "" {
				name = names[i]
			}
			row := []string{
				tick, t, name,
				strconv.FormatFloat(float64(p[0]), 'g', -1, 32),
				strconv.FormatFloat(float64(p[1]), 'g', -1, 32),
				strconv.FormatFloat(float64(p[2]), 'g', -1, 32),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
