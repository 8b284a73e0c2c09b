package rollout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotScores saves a line chart of episode scores to path, one line per
// named series. The image format follows the file extension.
func PlotScores(path, title string, series map[string][]int) error {
	if len(series) == 0 {
		return fmt.Errorf("rollout: nothing to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Rows cleared"

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		scores := series[name]
		points := make(plotter.XYs, len(scores))
		for j, v := range scores {
			points[j] = plotter.XY{
				X: float64(j + 1),
				Y: float64(v),
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("rollout: series %q: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("rollout: create plot dir: %w", err)
		}
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("rollout: save plot: %w", err)
	}
	return nil
}
