// Command traj-plot samples every channel of a trajectory file at a fixed
// step and renders one line chart per group into a standalone HTML page.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/trajectory"
	"github.com/banshee-data/trajectory/internal/config"
	"github.com/banshee-data/trajectory/internal/uri"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func main() {
	log.SetFlags(0)

	configPath := flag.String("config", "", "optional tool config JSON")
	delta := flag.Float64("delta", 0, "sampling step in seconds (0 = config default)")
	output := flag.String("o", "trajectory.html", "output HTML path")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: traj-plot [flags] <trajectory-uri>")
	}

	cfg := config.Empty()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}
	if *delta == 0 {
		*delta = cfg.GetSampleDeltaTime()
	}

	resolver := &uri.Resolver{SearchDirs: cfg.SearchDirs, SchemeAliases: cfg.SchemeAliases}
	path := resolver.Resolve(flag.Arg(0))
	if path == "" {
		path = flag.Arg(0)
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	traj := trajectory.New()
	err = traj.Deserialize(f)
	f.Close()
	if err != nil {
		log.Fatalf("deserialize %s: %v", path, err)
	}

	page, err := renderPage(traj, *delta, cfg)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	defer out.Close()
	if err := page.Render(out); err != nil {
		log.Fatalf("render: %v", err)
	}
	log.Printf("✓ wrote %s", *output)
}

// renderPage samples the trajectory and builds one chart per group over the
// shared time axis.
func renderPage(traj *trajectory.Trajectory, delta float64, cfg *config.ToolConfig) (*components.Page, error) {
	rows, err := traj.SamplePointsSameDeltaTime(delta, true)
	if err != nil {
		return nil, err
	}
	dof := traj.Spec().DOF()
	numRows := len(rows) / dof
	// downsample by stride to stay within the row cap
	stride := 1
	if maxRows := cfg.GetPlotMaxRows(); numRows > maxRows {
		stride = (numRows + maxRows - 1) / maxRows
		log.Printf("downsampling %d rows by %dx to stay under %d", numRows, stride, maxRows)
	}

	times := make([]string, 0, numRows/stride+1)
	for i := 0; i < numRows; i += stride {
		times = append(times, fmt.Sprintf("%.4f", float64(i)*delta))
	}

	page := components.NewPage()
	for _, g := range traj.Spec().Groups {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{PageTitle: cfg.GetPlotTitle(), Width: "1200px", Height: "400px"}),
			charts.WithTitleOpts(opts.Title{Title: g.Name, Subtitle: fmt.Sprintf("dof=%d interpolation=%s", g.DOF, g.Interpolation)}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
			charts.WithXAxisOpts(opts.XAxis{Name: "time (s)"}),
		)
		line.SetXAxis(times)
		for c := 0; c < g.DOF; c++ {
			series := make([]opts.LineData, 0, len(times))
			for i := 0; i < numRows; i += stride {
				series = append(series, opts.LineData{Value: rows[i*dof+g.Offset+c]})
			}
			line.AddSeries(fmt.Sprintf("%s[%d]", g.Category(), c), series)
		}
		page.AddCharts(line)
	}
	return page, nil
}
