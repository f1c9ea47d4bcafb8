// Command gen-traj generates sample trajectory files for testing the
// inspection and plotting tools.
package main

import (
	"flag"
	"log"
	"math"
	"os"

	"github.com/banshee-data/trajectory"
	"github.com/google/uuid"
)

func main() {
	log.SetFlags(0)

	output := flag.String("o", "sample.bin", "output path")
	kind := flag.String("kind", "linear", "fixture kind: linear, quadratic or rotation")
	segments := flag.Int("n", 20, "number of segments")
	textual := flag.Bool("textual", false, "write the textual markup form")
	flag.Parse()

	traj, err := generate(*kind, *segments)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	traj.SetReadable("session_id", &trajectory.StringReadable{Data: uuid.NewString()})

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := traj.Serialize(f, trajectory.SerializeOptions{Textual: *textual}); err != nil {
		log.Fatalf("serialize: %v", err)
	}
	log.Printf("✓ Created: %s (%d waypoints)", *output, traj.NumWaypoints())
}

func generate(kind string, segments int) (*trajectory.Trajectory, error) {
	traj := trajectory.New()
	switch kind {
	case "linear":
		spec := trajectory.ConfigurationSpec{Groups: []trajectory.Group{
			{Name: "joint_values arm", Offset: 0, DOF: 1, Interpolation: "linear"},
			{Name: "joint_velocities arm", Offset: 1, DOF: 1, Interpolation: "linear"},
			{Name: "deltatime", Offset: 2, DOF: 1},
		}}
		if err := traj.Init(spec); err != nil {
			return nil, err
		}
		traj.SetDescription("piecewise-linear sine sweep")
		const step = 0.1
		prevX := 0.0
		for i := 0; i <= segments; i++ {
			x := math.Sin(float64(i) * 0.3)
			v, dt := 0.0, 0.0
			if i > 0 {
				// velocity channel consistent with the segment slope
				v = (x - prevX) / step
				dt = step
			}
			if err := traj.Insert(i, []float64{x, v, dt}, false); err != nil {
				return nil, err
			}
			prevX = x
		}
	case "quadratic":
		spec := trajectory.ConfigurationSpec{Groups: []trajectory.Group{
			{Name: "joint_values arm", Offset: 0, DOF: 1, Interpolation: "quadratic"},
			{Name: "joint_velocities arm", Offset: 1, DOF: 1, Interpolation: "linear"},
			{Name: "deltatime", Offset: 2, DOF: 1},
		}}
		if err := traj.Init(spec); err != nil {
			return nil, err
		}
		traj.SetDescription("constant-acceleration ramp")
		const step, accel = 0.1, 2.0
		for i := 0; i <= segments; i++ {
			t := float64(i) * step
			dt := step
			if i == 0 {
				dt = 0
			}
			row := []float64{0.5 * accel * t * t, accel * t, dt}
			if err := traj.Insert(i, row, false); err != nil {
				return nil, err
			}
		}
	case "rotation":
		spec := trajectory.ConfigurationSpec{Groups: []trajectory.Group{
			{Name: "ikparam_values 4", Offset: 0, DOF: 4, Interpolation: "linear"},
			{Name: "deltatime", Offset: 4, DOF: 1},
		}}
		if err := traj.Init(spec); err != nil {
			return nil, err
		}
		traj.SetDescription("constant-rate rotation about z")
		const step = 0.1
		for i := 0; i <= segments; i++ {
			half := 0.5 * float64(i) * 0.2
			dt := step
			if i == 0 {
				dt = 0
			}
			row := []float64{math.Cos(half), 0, 0, math.Sin(half), dt}
			if err := traj.Insert(i, row, false); err != nil {
				return nil, err
			}
		}
	default:
		log.Fatalf("unknown fixture kind %q", kind)
	}
	return traj, nil
}
