package vamana

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	g := buildGraph(t, twoClusters(), Params{R: 4, L: 10, Alpha: 1.2, Seed: 21})

	path := filepath.Join(t.TempDir(), "graph.vamana")
	if err := g.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Len() != g.Len() {
		t.Errorf("Expected %d vertices, got %d", g.Len(), loaded.Len())
	}
	if loaded.Dim() != g.Dim() {
		t.Errorf("Expected dim %d, got %d", g.Dim(), loaded.Dim())
	}
	if loaded.Medoid() != g.Medoid() {
		t.Errorf("Expected medoid %d, got %d", g.Medoid(), loaded.Medoid())
	}
	if loaded.MaxDegree() != g.MaxDegree() {
		t.Errorf("Expected max degree %d, got %d", g.MaxDegree(), loaded.MaxDegree())
	}

	if !reflect.DeepEqual(loaded.Vertices(), g.Vertices()) {
		t.Error("Loaded vertices differ from saved vertices")
	}
	for i := 0; i < g.Len(); i++ {
		if !reflect.DeepEqual(loaded.Vector(i), g.Vector(i)) {
			t.Errorf("Vector %d differs after round trip", i)
		}
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.vamana")
	if err := os.WriteFile(path, []byte("NOTAGRAPH-------"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid magic")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.vamana")); err == nil {
		t.Error("Expected error for missing file")
	}
}
