package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/motion2d/internal/sim"
)

type ExportData struct {
	Name     string             `json:"name"`
	Preset   string             `json:"preset,omitempty"`
	Seed     int64              `json:"seed"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Engines  []string           `json:"engines"`
	Steps    int                `json:"steps"`
	Frames   []sim.Frame        `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	data := ExportData{
		Name:     info.Name,
		Preset:   info.Preset,
		Seed:     info.Seed,
		Dt:       info.Dt,
		Duration: info.Duration,
		Engines:  info.Engines,
		Steps:    result.StepsTaken,
		Frames:   result.Frames,
		Metrics:  result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func speed(vx, vy float64) float64 {
	return math.Hypot(vx, vy)
}
