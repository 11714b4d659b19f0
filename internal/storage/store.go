package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"time", "kind", "index", "x", "y", "vx", "vy", "angle", "colliding"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Name     string
	Preset   string
	Seed     int64
	Dt       float64
	Duration float64
	Engines  []string
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Engines     []string           `json:"engines"`
	Steps       int                `json:"steps"`
	Frames      int                `json:"frames"`
	Particles   int                `json:"particles"`
	Rigidbodies int                `json:"rigidbodies"`
	Metrics     map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	name := info.Name
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.Unix())
	runDir := filepath.Join(s.baseDir, runID)
	for i := 1; exists(runDir); i++ {
		runID = fmt.Sprintf("%s_%d_%d", name, now.Unix(), i)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Preset:    info.Preset,
		Timestamp: now,
		Seed:      info.Seed,
		Dt:        info.Dt,
		Duration:  info.Duration,
		Engines:   info.Engines,
		Steps:     result.StepsTaken,
		Frames:    len(result.Frames),
		Metrics:   result.Metrics,
	}
	for _, o := range result.Final().Objects {
		switch o.Kind {
		case scene.KindParticle:
			meta.Particles++
		case scene.KindRigidbody:
			meta.Rigidbodies++
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteFrames writes frames in long format, one row per object per frame.
// A frame without objects is written as a single row with an empty kind
// and index -1.
func WriteFrames(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	for _, f := range frames {
		t := strconv.FormatFloat(f.Time, 'f', 6, 64)
		if len(f.Objects) == 0 {
			if err := w.Write([]string{t, "", "-1", "0", "0", "0", "0", "0", "false"}); err != nil {
				return err
			}
			continue
		}
		for _, o := range f.Objects {
			row := []string{
				t,
				string(o.Kind),
				strconv.Itoa(o.Index),
				strconv.FormatFloat(o.X, 'f', 6, 64),
				strconv.FormatFloat(o.Y, 'f', 6, 64),
				strconv.FormatFloat(o.VX, 'f', 6, 64),
				strconv.FormatFloat(o.VY, 'f', 6, 64),
				strconv.FormatFloat(o.Angle, 'f', 6, 64),
				strconv.FormatBool(o.Colliding),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the metadata of every run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadFrames(file)
}

// ReadFrames parses the output of WriteFrames. Consecutive rows sharing a
// time belong to the same frame; an empty-kind row is an empty frame.
// Malformed rows are skipped.
func ReadFrames(in io.Reader) ([]sim.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	if len(records) < 2 {
		return frames, nil
	}

	last := ""
	for _, record := range records[1:] {
		if len(record) != len(frameHeader) {
			continue
		}

		if record[1] == "" {
			t, err := strconv.ParseFloat(record[0], 64)
			if err != nil {
				continue
			}
			frames = append(frames, sim.Frame{Time: t, Objects: make([]sim.ObjectState, 0)})
			last = record[0]
			continue
		}

		o, err := parseObject(record)
		if err != nil {
			continue
		}

		if record[0] != last || len(frames) == 0 {
			t, err := strconv.ParseFloat(record[0], 64)
			if err != nil {
				continue
			}
			frames = append(frames, sim.Frame{Time: t, Objects: make([]sim.ObjectState, 0)})
			last = record[0]
		}
		f := &frames[len(frames)-1]
		f.Objects = append(f.Objects, o)
	}

	return frames, nil
}

func parseObject(record []string) (sim.ObjectState, error) {
	var o sim.ObjectState
	o.Kind = scene.Kind(record[1])
	if o.Kind != scene.KindParticle && o.Kind != scene.KindRigidbody {
		return o, fmt.Errorf("unknown kind %q", record[1])
	}

	idx, err := strconv.Atoi(record[2])
	if err != nil {
		return o, err
	}
	o.Index = idx

	vals := make([]float64, 5)
	for i := range vals {
		v, err := strconv.ParseFloat(record[3+i], 64)
		if err != nil {
			return o, err
		}
		vals[i] = v
	}
	o.X, o.Y, o.VX, o.VY, o.Angle = vals[0], vals[1], vals[2], vals[3], vals[4]

	o.Colliding, err = strconv.ParseBool(record[8])
	return o, err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
