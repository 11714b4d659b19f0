package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/motion2d/internal/scene"
	"github.com/san-kum/motion2d/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Time: 0, Objects: []sim.ObjectState{
				{Kind: scene.KindParticle, Index: 0, X: 1, Y: 100, VY: 0},
				{Kind: scene.KindRigidbody, Index: 0, X: 5, Y: 5, Angle: 0.25, Colliding: true},
			}},
			{Time: 0.01, Objects: []sim.ObjectState{
				{Kind: scene.KindParticle, Index: 0, X: 1, Y: 99.95, VY: -5},
				{Kind: scene.KindRigidbody, Index: 0, X: 5, Y: 5, Angle: 0.26},
			}},
		},
		StepsTaken: 1,
		Metrics: map[string]float64{
			"kinetic_energy": 1.5,
		},
	}
}

func sampleInfo() RunInfo {
	return RunInfo{Name: "test", Preset: "drop", Seed: 42, Dt: 0.01, Duration: 0.01, Engines: []string{"particle"}}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Name != "test" || meta.Preset != "drop" {
		t.Errorf("unexpected names %q/%q", meta.Name, meta.Preset)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Particles != 1 || meta.Rigidbodies != 1 || meta.Frames != 2 || meta.Steps != 1 {
		t.Errorf("unexpected counts %+v", meta)
	}
	if meta.Metrics["kinetic_energy"] != 1.5 {
		t.Errorf("expected kinetic_energy 1.5, got %f", meta.Metrics["kinetic_energy"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if len(frames[1].Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(frames[1].Objects))
	}

	got := frames[1].Objects[0]
	if got.Kind != scene.KindParticle || math.Abs(got.Y-99.95) > 1e-6 || got.VY != -5 {
		t.Errorf("unexpected particle row %+v", got)
	}
	if !frames[0].Objects[1].Colliding || frames[1].Objects[1].Colliding {
		t.Error("colliding flags lost")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("run IDs collide: %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		t.Fatalf("frames.csv not created: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "time,kind,index,x,y,vx,vy,angle,colliding" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 5 {
		t.Errorf("expected header plus 4 rows, got %d lines", len(lines))
	}
}

func TestReadFramesSkipsMalformed(t *testing.T) {
	in := strings.Join([]string{
		"time,kind,index,x,y,vx,vy,angle,colliding",
		"0.000000,particle,0,1,2,3,4,0,false",
		"0.000000,blob,1,1,2,3,4,0,false",
		"0.000000,particle,x,1,2,3,4,0,false",
		"0.100000,particle,0,1,2,3,4,0",
		"0.100000,particle,0,5,6,7,8,0,true",
	}, "\n")

	frames, err := ReadFrames(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if len(frames[0].Objects) != 1 || len(frames[1].Objects) != 1 {
		t.Errorf("unexpected objects %+v", frames)
	}
	if !frames[1].Objects[0].Colliding || frames[1].Objects[0].X != 5 {
		t.Errorf("unexpected row %+v", frames[1].Objects[0])
	}
}

func TestFramesKeepEmpty(t *testing.T) {
	frames := []sim.Frame{
		{Time: 0},
		{Time: 0.1, Objects: []sim.ObjectState{{Kind: scene.KindParticle, Index: 0, X: 1, Y: 2}}},
		{Time: 0.2},
	}

	var buf bytes.Buffer
	if err := WriteFrames(&buf, frames); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ReadFrames(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(got))
	}
	for i, want := range []int{0, 1, 0} {
		if len(got[i].Objects) != want {
			t.Errorf("frame %d: expected %d objects, got %d", i, want, len(got[i].Objects))
		}
	}
	if got[2].Time != 0.2 {
		t.Errorf("expected last frame at 0.2, got %v", got[2].Time)
	}
	if counts := Counts(got); counts[0] != 0 || counts[1] != 1 || counts[2] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestTrack(t *testing.T) {
	s := Track(sampleResult().Frames, scene.KindParticle, 0)
	if s.Len() != 2 {
		t.Fatalf("expected 2 samples, got %d", s.Len())
	}
	if s.Y[1] != 99.95 || s.Speed[1] != 5 {
		t.Errorf("unexpected series %+v", s)
	}

	r := Track(sampleResult().Frames, scene.KindRigidbody, 0)
	if r.Angle[1] != 0.26 {
		t.Errorf("unexpected angle %v", r.Angle)
	}

	if Track(sampleResult().Frames, scene.KindParticle, 3).Len() != 0 {
		t.Error("expected empty series for missing object")
	}
}

func TestTrackFollowsIndex(t *testing.T) {
	// particle 0 is pruned after the first frame and particle 1 shifts down
	frames := []sim.Frame{
		{Time: 0, Objects: []sim.ObjectState{
			{Kind: scene.KindParticle, Index: 0, X: 1},
			{Kind: scene.KindParticle, Index: 1, X: 50},
		}},
		{Time: 0.1, Objects: []sim.ObjectState{
			{Kind: scene.KindParticle, Index: 0, X: 51},
		}},
	}

	s := Track(frames, scene.KindParticle, 0)
	if s.Len() != 2 || s.X[0] != 1 || s.X[1] != 51 {
		t.Errorf("expected slice position 0 in each frame, got %v", s.X)
	}
}

func TestCounts(t *testing.T) {
	c := Counts(sampleResult().Frames)
	if len(c) != 2 || c[0] != 2 || c[1] != 2 {
		t.Errorf("unexpected counts %v", c)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, sampleInfo(), sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Name != "test" || data.Steps != 1 || len(data.Frames) != 2 {
		t.Errorf("unexpected export %+v", data)
	}
	if data.Frames[0].Objects[1].Kind != scene.KindRigidbody {
		t.Errorf("kind lost in export: %+v", data.Frames[0].Objects[1])
	}
}
