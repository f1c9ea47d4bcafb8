// Command trajtool inspects, resamples and converts trajectory files.
//
// Usage:
//
//	trajtool info <uri>
//	trajtool sample -t 0.5 <uri>
//	trajtool resample -delta 0.01 -o out.bin <uri>
//	trajtool convert -textual -o out.xml <uri>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/trajectory"
	"github.com/banshee-data/trajectory/internal/config"
	"github.com/banshee-data/trajectory/internal/uri"
	"github.com/banshee-data/trajectory/internal/version"
)

func main() {
	log.SetFlags(0)

	configPath := flag.String("config", "", "optional tool config JSON")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("trajtool", version.String())
		return
	}
	if flag.NArg() < 1 {
		log.Fatalf("usage: trajtool [flags] <info|sample|resample|convert> ...")
	}

	cfg := config.Empty()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}
	resolver := &uri.Resolver{SearchDirs: cfg.SearchDirs, SchemeAliases: cfg.SchemeAliases}

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "info":
		err = runInfo(resolver, args)
	case "sample":
		err = runSample(resolver, args)
	case "resample":
		err = runResample(resolver, cfg, args)
	case "convert":
		err = runConvert(resolver, args)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatalf("trajtool: %v", err)
	}
}

// loadTrajectory resolves a URI (falling back to a literal path) and
// deserializes the file.
func loadTrajectory(resolver *uri.Resolver, ref string) (*trajectory.Trajectory, error) {
	path := resolver.Resolve(ref)
	if path == "" {
		path = ref
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	traj := trajectory.New()
	if err := traj.Deserialize(f); err != nil {
		return nil, fmt.Errorf("deserialize %s: %w", path, err)
	}
	return traj, nil
}

func runInfo(resolver *uri.Resolver, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("info needs exactly one trajectory uri")
	}
	traj, err := loadTrajectory(resolver, fs.Arg(0))
	if err != nil {
		return err
	}

	duration, err := traj.Duration()
	if err != nil {
		return err
	}
	fmt.Printf("waypoints: %d\n", traj.NumWaypoints())
	fmt.Printf("dof:       %d\n", traj.Spec().DOF())
	fmt.Printf("duration:  %gs\n", duration)
	if d := traj.Description(); d != "" {
		fmt.Printf("description: %s\n", d)
	}
	fmt.Println("groups:")
	for _, g := range traj.Spec().Groups {
		fmt.Printf("  %-40s offset=%-3d dof=%-3d interpolation=%s\n", g.Name, g.Offset, g.DOF, g.Interpolation)
	}
	if ids := traj.ReadableIDs(); len(ids) > 0 {
		fmt.Printf("readables: %v\n", ids)
	}
	return nil
}

func runSample(resolver *uri.Resolver, args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	at := fs.Float64("t", 0, "time to sample at")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("sample needs exactly one trajectory uri")
	}
	traj, err := loadTrajectory(resolver, fs.Arg(0))
	if err != nil {
		return err
	}
	row, err := traj.Sample(*at)
	if err != nil {
		return err
	}
	for i, v := range row {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Printf("%g", v)
	}
	fmt.Println()
	return nil
}

func runResample(resolver *uri.Resolver, cfg *config.ToolConfig, args []string) error {
	fs := flag.NewFlagSet("resample", flag.ExitOnError)
	delta := fs.Float64("delta", cfg.GetSampleDeltaTime(), "sampling step in seconds")
	out := fs.String("o", "", "output path (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *out == "" {
		return fmt.Errorf("resample needs -o and exactly one trajectory uri")
	}
	traj, err := loadTrajectory(resolver, fs.Arg(0))
	if err != nil {
		return err
	}

	rows, err := traj.SamplePointsSameDeltaTime(*delta, cfg.GetEnsureLastPoint())
	if err != nil {
		return err
	}
	dof := traj.Spec().DOF()
	resampled := trajectory.New()
	if err := resampled.Init(*traj.Spec()); err != nil {
		return err
	}
	if err := resampled.Insert(0, rows, false); err != nil {
		return err
	}
	resampled.SetDescription(traj.Description())

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := resampled.Serialize(f, trajectory.SerializeOptions{}); err != nil {
		return err
	}
	log.Printf("✓ wrote %d waypoints to %s", len(rows)/dof, *out)
	return nil
}

func runConvert(resolver *uri.Resolver, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	textual := fs.Bool("textual", false, "write the textual markup form")
	out := fs.String("o", "", "output path (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *out == "" {
		return fmt.Errorf("convert needs -o and exactly one trajectory uri")
	}
	traj, err := loadTrajectory(resolver, fs.Arg(0))
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := traj.Serialize(f, trajectory.SerializeOptions{Textual: *textual}); err != nil {
		return err
	}
	log.Printf("✓ wrote %s", *out)
	return nil
}
