package cuts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

func TestDefault(t *testing.T) {
	all, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if len(all) < 5 {
		t.Fatalf("Default() returned %d cuts", len(all))
	}

	depthCritical := 0
	for _, c := range all {
		if c.IsDepthCritical() {
			depthCritical++
			if c.Group != models.GroupRaggeds {
				t.Errorf("%s is depth critical outside the Raggeds", c.ID)
			}
		}
	}
	if depthCritical == 0 {
		t.Error("expected at least one depth-critical cut")
	}

	conch, ok := Find(all, "conch")
	if !ok {
		t.Fatal("conch cut missing")
	}
	if conch.OffsetMinutes != 20 || conch.BearingDeg != 50 {
		t.Errorf("conch = %+v", conch)
	}
	hog, _ := Find(all, "hog-cay")
	if hog.MLWDepthFt == nil || *hog.MLWDepthFt != 2.5 {
		t.Errorf("hog-cay mlw depth = %v", hog.MLWDepthFt)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "cuts: []", "no cuts"},
		{"bad yaml", "cuts: [", "parse cuts"},
		{"missing id", "cuts:\n  - name: X\n    max_current_knots: 2\n", "id is required"},
		{"bad bearing", "cuts:\n  - id: a\n    max_current_knots: 2\n    bearing_deg: 360\n", "out of range"},
		{"no depth", "cuts:\n  - id: a\n    max_current_knots: 2\n    depth_critical: true\n", "requires mlw_depth_ft"},
		{"group", "cuts:\n  - id: a\n    max_current_knots: 2\n    group: bimini\n", "unknown group"},
		{"duplicate", "cuts:\n  - id: a\n    max_current_knots: 2\n  - id: a\n    max_current_knots: 2\n", "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestParse_DefaultsGroup(t *testing.T) {
	all, err := Parse([]byte("cuts:\n  - id: a\n    max_current_knots: 2\n    bearing_deg: 45\n"))
	if err != nil {
		t.Fatal(err)
	}
	if all[0].Group != models.GroupExuma {
		t.Errorf("Group = %q, want exuma", all[0].Group)
	}
}

func TestLoadFile(t *testing.T) {
	all, err := LoadFile("")
	if err != nil || len(all) == 0 {
		t.Fatalf("LoadFile(\"\") = %d cuts, %v", len(all), err)
	}

	path := filepath.Join(t.TempDir(), "cuts.yaml")
	os.WriteFile(path, []byte("cuts:\n  - id: custom\n    name: Custom Cut\n    max_current_knots: 1.2\n    bearing_deg: 10\n    offset_minutes: -15\n"), 0o644)
	all, err = LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(all) != 1 || all[0].OffsetMinutes != -15 {
		t.Errorf("LoadFile() = %+v", all)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() on a missing file should fail")
	}
}

func TestGroupLabel(t *testing.T) {
	if got := GroupLabel(models.GroupRaggeds); got != "Off to The Raggeds" {
		t.Errorf("GroupLabel(raggeds) = %q", got)
	}
	if got := GroupLabel("other"); got != "other" {
		t.Errorf("GroupLabel(other) = %q", got)
	}
}
