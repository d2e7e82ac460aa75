package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/seonet/internal/seo"
	"github.com/san-kum/seonet/internal/sim"
)

func TestVoltagePlotSave(t *testing.T) {
	times := []float64{0, 1e-9, 2e-9}
	voltages := [][]float64{{0, 0}, {0.004, 0.001}, {-0.003, 0.002}}

	p, err := VoltagePlot("test", times, voltages, nil)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}

	for _, name := range []string{"v.png", "v.svg"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(p, path, 6, 3); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written", name)
		}
	}
}

func TestVoltagePlotErrors(t *testing.T) {
	if _, err := VoltagePlot("empty", nil, nil, nil); err == nil {
		t.Error("expected error for empty samples")
	}
	if _, err := VoltagePlot("missing", []float64{0}, [][]float64{{1}}, []int{3}); err == nil {
		t.Error("expected error for missing node")
	}
}

func TestRasterPlot(t *testing.T) {
	if _, err := RasterPlot("none", nil); err == nil {
		t.Error("expected error without events")
	}
	p, err := RasterPlot("raster", []sim.Event{{Time: 1e-9, Node: 0, Direction: seo.Up}})
	if err != nil {
		t.Fatalf("raster: %v", err)
	}
	path := filepath.Join(t.TempDir(), "r.png")
	if err := Save(p, path, 4, 3); err != nil {
		t.Fatalf("save: %v", err)
	}
}
