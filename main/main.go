package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/google/uuid"
	plt "github.com/phil-mansfield/pyplot"
	log "github.com/sirupsen/logrus"

	"github.com/phil-mansfield/gravtree"
	"github.com/phil-mansfield/gravtree/diag"
	"github.com/phil-mansfield/gravtree/ics"
	"github.com/phil-mansfield/gravtree/io"
	"github.com/phil-mansfield/gravtree/sim"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		log.SetOutput(os.Stderr)
		err := fg.log.Close()
		if err != nil { log.Fatal(err.Error()) }
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil { log.Fatal(err.Error()) }
	}
}

func main() {
	// The main function manages input sanitization and calls the secondary
	// main functions for each mode.

	var (
		simulate, generate, convert string
		exampleConfig               string
	)
	vars := map[string]*string{
		"Simulate":      &simulate,
		"Generate":      &generate,
		"Convert":       &convert,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&simulate, "Simulate", "",
		"Configuration file for [Simulate] mode.",
	)
	flag.StringVar(
		&generate, "Generate", "",
		"Configuration file for [Generate] mode.",
	)
	flag.StringVar(
		&convert, "Convert", "",
		"Configuration file for [Convert] mode.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. Accepted arguments are 'Simulate', "+
			"'Generate', and 'Convert'.",
	)

	flag.Parse()

	// Figure out the mode and fail with a descriptive error is the user gave
	// incorrect flags.
	modeName, err := getModeName(vars)
	if err != nil { log.Fatal(err.Error()) }

	switch modeName {
	case "Simulate":
		wrap := io.DefaultSimulateWrapper()
		if err := io.ReadConfig(wrap, simulate); err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Simulate
		if err := con.Check(); err != nil { log.Fatal(err.Error()) }
		simulateMain(con)

	case "Generate":
		wrap := io.DefaultGenerateWrapper()
		if err := io.ReadConfig(wrap, generate); err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Generate
		if err := con.Check(); err != nil { log.Fatal(err.Error()) }
		generateMain(con)

	case "Convert":
		wrap := io.DefaultConvertWrapper()
		if err := io.ReadConfig(wrap, convert); err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Convert
		if err := con.Check(); err != nil { log.Fatal(err.Error()) }
		convertMain(con)

	case "ExampleConfig":
		switch exampleConfig {
		case "Simulate":
			fmt.Println(io.ExampleSimulateFile)
		case "Generate":
			fmt.Println(io.ExampleGenerateFile)
		case "Convert":
			fmt.Println(io.ExampleConvertFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Simulate', 'Generate', and 'Convert'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" { setNames = append(setNames, name) }
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gravtree "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// simulateMain runs a simulation and writes its final state.
func simulateMain(con *io.SimulateConfig) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()

	sc := con.SimConfig()
	runLog := log.WithField("run", uuid.New().String())
	runLog.WithFields(log.Fields{
		"input": con.Input, "output": con.Output,
		"particles": con.Particles, "steps": sc.Steps, "dt": sc.DeltaT,
		"theta": sc.Theta, "softening": sc.Softening, "G": sc.G,
		"threads": sc.Workers, "maxDepth": sc.MaxDepth,
	}).Info("Read configuration.")

	ps, err := io.ReadParticles(con.Input, con.Particles)
	if err != nil { runLog.Fatal(err.Error()) }

	s, err := sim.New(ps, sc)
	if err != nil { runLog.Fatal(err.Error()) }

	if con.Accuracy {
		mean, max, err := diag.Accuracy(ps, sc.Theta, sc.Softening, sc.Workers)
		if err != nil { runLog.Fatal(err.Error()) }
		runLog.WithFields(log.Fields{
			"meanError": mean, "maxError": max,
		}).Info("Measured tree force accuracy.")
	}

	// Energies are O(N^2), so they are only measured every LogInterval
	// steps.
	hist := &diag.History{}
	interval := con.LogInterval
	if interval == 0 && con.ValidEnergyChart() { interval = 1 }
	if interval > 0 {
		hist.Add(diag.Measure(
			diag.InitialStep, ps, sc.G, sc.Softening, sc.Workers,
		))
		s.Observe(sim.Every(
			interval, hist.Observer(sc.G, sc.Softening, sc.Workers),
		))
	}
	if con.ValidLogInterval() {
		s.Observe(sim.Every(interval, func(step int, _ []gravtree.Particle) {
			r := hist.Records[hist.Len()-1]
			runLog.WithFields(log.Fields{
				"step": step, "kinetic": r.Kinetic, "potential": r.Potential,
				"total": r.Total(),
			}).Info("Progress.")
		}))
	}

	if err := s.Run(); err != nil { runLog.Fatal(err.Error()) }

	final := s.Particles()
	if err := gravtree.ValidateAll(final); err != nil {
		runLog.WithError(err).Warn("Final particles can't be simulated further.")
	}

	if err := io.WriteParticles(con.Output, final); err != nil {
		runLog.Fatal(err.Error())
	}
	runLog.WithField("output", con.Output).Info("Wrote particles.")

	if hist.Len() > 1 {
		runLog.WithField(
			"drift", hist.RelativeEnergyDrift(),
		).Info("Relative energy drift.")
	}

	if con.ValidEnergyChart() {
		writeEnergyChart(con.EnergyChart, hist)
		runLog.WithField("chart", con.EnergyChart).Info("Wrote energy chart.")
	}

	if con.ValidScatterPlot() {
		diag.PlotScatter(final, con.ScatterPlot, fmt.Sprintf(
			"%d particles after %d steps", len(final), sc.Steps,
		))
		plt.Execute()
	}
}

func writeEnergyChart(fname string, hist *diag.History) {
	f, err := os.Create(fname)
	if err != nil { log.Fatal(err.Error()) }
	defer f.Close()
	if err := diag.WriteEnergyChart(f, hist); err != nil {
		log.Fatal(err.Error())
	}
}

// generateMain writes a set of initial conditions.
func generateMain(con *io.GenerateConfig) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()

	runLog := log.WithField("run", uuid.New().String())

	var (
		ps  []gravtree.Particle
		err error
	)
	seed, mass := uint64(con.Seed), con.ParticleMass()
	switch con.Distribution {
	case io.DistributionUniform:
		ps, err = ics.Uniform(con.Particles, seed, mass)
	case io.DistributionDisk:
		ps, err = ics.Disk(con.Particles, seed, mass, con.Spin)
	default:
		panic("Impossible")
	}
	if err != nil { runLog.Fatal(err.Error()) }

	for i := range ps {
		ps[i].Brightness = con.Brightness
	}

	if err := io.WriteParticles(con.Output, ps); err != nil {
		runLog.Fatal(err.Error())
	}
	runLog.WithFields(log.Fields{
		"distribution": con.Distribution, "particles": len(ps),
		"seed": con.Seed, "output": con.Output,
	}).Info("Generated particles.")
}

// convertMain converts between .gal files and text tables.
func convertMain(con *io.ConvertConfig) {
	fg := setupFiles(&con.SharedConfig)
	defer fg.Close()

	var (
		ps  []gravtree.Particle
		err error
	)
	switch con.Direction {
	case io.DirectionTableToGal:
		if ps, err = io.ReadTable(con.Input); err != nil {
			log.Fatal(err.Error())
		}
		err = io.WriteParticles(con.Output, ps)
	case io.DirectionGalToTable:
		if ps, err = io.ReadParticles(con.Input, 0); err != nil {
			log.Fatal(err.Error())
		}
		err = io.WriteTableFile(con.Output, ps)
	default:
		panic("Impossible")
	}
	if err != nil { log.Fatal(err.Error()) }

	log.WithFields(log.Fields{
		"input": con.Input, "output": con.Output, "particles": len(ps),
	}).Info("Converted particles.")
}

// setupFiles opens the log and profile files requested by con.
func setupFiles(con *io.SharedConfig) *FileGroup {
	fg := &FileGroup{}
	var err error

	// Set up log file.
	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil { log.Fatal(err.Error()) }
		log.SetOutput(fg.log)
	}

	// Set up profile file.
	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil { log.Fatal(err.Error()) }
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil { log.Fatal(err.Error()) }
	}

	return fg
}
