package io

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gravtree"
	"github.com/phil-mansfield/gravtree/force"
	"github.com/phil-mansfield/gravtree/sim"
	"github.com/phil-mansfield/gravtree/tree"
)

const (
	ExampleSimulateFile = `[Simulate]

#######################
# Required Parameters #
#######################

# .gal file containing the initial conditions.
Input = path/to/input.gal
# .gal file the final particles will be written to. It is overwritten if it
# already exists.
Output = path/to/output.gal

# Number of particles in Input. The size of the file must match exactly.
Particles = 1000
# Number of steps to run.
Steps = 200
# Length of each step.
DeltaT = 1e-5
# Opening angle. A node is treated as a single body when its width divided by
# its distance is at most Theta. Theta = 0 gives direct summation.
Theta = 0.5

#######################
# Optional Parameters #
#######################

# Added to every distance in the force law. Default is 1e-3.
# Softening = 1e-3

# Gravitational constant. The default is 100 / Particles.
# GravConst = 0.1

# Number of worker goroutines. Default is 10.
# Threads = 10

# Deepest level the quadtree may split to before two particles are
# considered to be on top of each other. Default is 256.
# MaxDepth = 256

# Log the energy of the system every LogInterval steps.
# LogInterval = 50

# Write a PNG chart of kinetic, potential and total energy against step.
# EnergyChart = energy.png

# Write a scatter plot of the final particle positions. This requires a
# working python/matplotlib installation.
# ScatterPlot = final.png

# Compare the tree forces on the initial particles against direct summation
# and log the error.
# Accuracy = true

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

	ExampleGenerateFile = `[Generate]

#######################
# Required Parameters #
#######################

# .gal file the particles will be written to.
Output = path/to/output.gal
# Number of particles to generate.
Particles = 1000

#######################
# Optional Parameters #
#######################

# Must be one of [ Uniform | Disk ]. Default is Uniform.
# Distribution = Uniform

# Random seed. The same seed always gives the same particles.
# Seed = 1

# Mass of every particle. The default is 1 / Particles.
# Mass = 0.001

# Brightness of every particle. Default is 1.
# Brightness = 1

# Angular velocity of a Disk. Ignored for Uniform.
# Spin = 0

# LogFile = log.out`

	ExampleConvertFile = `[Convert]

#######################
# Required Parameters #
#######################

Input = path/to/input
Output = path/to/output

# Must be one of [ TableToGal | GalToTable ]. Tables are whitespace-separated
# text files with the columns X Y Mass VX VY Brightness.
Direction = TableToGal

#######################
# Optional Parameters #
#######################

# LogFile = log.out`
)

const (
	DistributionUniform = "Uniform"
	DistributionDisk    = "Disk"

	DirectionTableToGal = "TableToGal"
	DirectionGalToTable = "GalToTable"
)

type SharedConfig struct {
	// Required
	Input, Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

type SimulateConfig struct {
	SharedConfig

	// Required
	Particles, Steps int
	DeltaT, Theta    float64

	// Optional
	Softening, GravConst float64
	Threads, MaxDepth    int
	LogInterval          int
	EnergyChart          string
	ScatterPlot          string
	Accuracy             bool
}

type SimulateWrapper struct {
	Simulate SimulateConfig
}

// DefaultSimulateWrapper returns a wrapper whose required values are all
// invalid, so that unset values can be detected.
func DefaultSimulateWrapper() *SimulateWrapper {
	con := SimulateConfig{}
	con.Steps = -1
	con.DeltaT = -1
	con.Theta = -1
	con.Softening = force.DefaultSoftening
	con.Threads = sim.DefaultWorkers
	con.MaxDepth = tree.DefaultMaxDepth
	return &SimulateWrapper{con}
}

func (con *SimulateConfig) ValidParticles() bool {
	return con.Particles > 0
}
func (con *SimulateConfig) ValidSteps() bool {
	return con.Steps >= 0
}
func (con *SimulateConfig) ValidDeltaT() bool {
	return con.DeltaT >= 0
}
func (con *SimulateConfig) ValidTheta() bool {
	return con.Theta >= 0
}
func (con *SimulateConfig) ValidSoftening() bool {
	return con.Softening >= 0
}
func (con *SimulateConfig) ValidGravConst() bool {
	return con.GravConst >= 0
}
func (con *SimulateConfig) ValidThreads() bool {
	return con.Threads > 0
}
func (con *SimulateConfig) ValidMaxDepth() bool {
	return con.MaxDepth > 0
}
func (con *SimulateConfig) ValidLogInterval() bool {
	return con.LogInterval > 0
}
func (con *SimulateConfig) ValidEnergyChart() bool {
	return con.EnergyChart != ""
}
func (con *SimulateConfig) ValidScatterPlot() bool {
	return con.ScatterPlot != ""
}

// Check returns a descriptive InvalidInput error for the first missing or
// invalid value in con.
func (con *SimulateConfig) Check() error {
	switch {
	case !con.ValidInput():
		return configError("Invalid/non-existent 'Input' value.")
	case !con.ValidOutput():
		return configError("Invalid/non-existent 'Output' value.")
	case !con.ValidParticles():
		return configError("Invalid/non-existent 'Particles' value.")
	case !con.ValidSteps():
		return configError("Invalid/non-existent 'Steps' value.")
	case !con.ValidDeltaT():
		return configError("Invalid/non-existent 'DeltaT' value.")
	case !con.ValidTheta():
		return configError("Invalid/non-existent 'Theta' value.")
	case !con.ValidSoftening():
		return configError("Invalid 'Softening' value.")
	case !con.ValidGravConst():
		return configError("Invalid 'GravConst' value.")
	case !con.ValidThreads():
		return configError("Invalid 'Threads' value.")
	case !con.ValidMaxDepth():
		return configError("Invalid 'MaxDepth' value.")
	case con.LogInterval < 0:
		return configError("Invalid 'LogInterval' value.")
	}
	return nil
}

// SimConfig converts con into the parameters of a sim.Simulation.
func (con *SimulateConfig) SimConfig() sim.Config {
	sc := sim.DefaultConfig(con.Particles)
	sc.Steps = con.Steps
	sc.DeltaT = con.DeltaT
	sc.Theta = con.Theta
	sc.Softening = con.Softening
	sc.Workers = con.Threads
	sc.MaxDepth = con.MaxDepth
	if con.GravConst > 0 {
		sc.G = con.GravConst
	}
	return sc
}

type GenerateConfig struct {
	SharedConfig

	// Required
	Particles int

	// Optional
	Distribution           string
	Seed                   int64
	Mass, Brightness, Spin float64
}

type GenerateWrapper struct {
	Generate GenerateConfig
}

func DefaultGenerateWrapper() *GenerateWrapper {
	con := GenerateConfig{}
	con.Distribution = DistributionUniform
	con.Seed = 1
	con.Brightness = 1
	return &GenerateWrapper{con}
}

func (con *GenerateConfig) ValidParticles() bool {
	return con.Particles > 0
}
func (con *GenerateConfig) ValidDistribution() bool {
	return distributionName(con.Distribution) != ""
}
func (con *GenerateConfig) ValidMass() bool {
	return con.Mass >= 0
}

// ParticleMass returns the mass given to every generated particle.
func (con *GenerateConfig) ParticleMass() float64 {
	if con.Mass > 0 {
		return con.Mass
	}
	return 1 / float64(con.Particles)
}

func (con *GenerateConfig) Check() error {
	switch {
	case !con.ValidOutput():
		return configError("Invalid/non-existent 'Output' value.")
	case !con.ValidParticles():
		return configError("Invalid/non-existent 'Particles' value.")
	case !con.ValidDistribution():
		return configError("'Distribution' must be one of [%s | %s], "+
			"but is '%s'.", DistributionUniform, DistributionDisk,
			con.Distribution)
	case !con.ValidMass():
		return configError("Invalid 'Mass' value.")
	}
	con.Distribution = distributionName(con.Distribution)
	return nil
}

type ConvertConfig struct {
	SharedConfig

	// Required
	Direction string
}

type ConvertWrapper struct {
	Convert ConvertConfig
}

func DefaultConvertWrapper() *ConvertWrapper {
	return &ConvertWrapper{}
}

func (con *ConvertConfig) ValidDirection() bool {
	return con.Direction == DirectionTableToGal ||
		con.Direction == DirectionGalToTable
}

func (con *ConvertConfig) Check() error {
	switch {
	case !con.ValidInput():
		return configError("Invalid/non-existent 'Input' value.")
	case !con.ValidOutput():
		return configError("Invalid/non-existent 'Output' value.")
	case !con.ValidDirection():
		return configError("'Direction' must be one of [%s | %s], "+
			"but is '%s'.", DirectionTableToGal, DirectionGalToTable,
			con.Direction)
	}
	return nil
}

// ReadConfig reads the config file fname into wrap, which should be one of
// the *Wrapper types. Missing files are an IOError and malformed ones are
// InvalidInput.
func ReadConfig(wrap interface{}, fname string) error {
	if _, err := os.Stat(fname); err != nil {
		return gravtree.Wrap(gravtree.IOError, "io.ReadConfig", err)
	}
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return gravtree.Wrap(gravtree.IOError, "io.ReadConfig", err)
		}
		return gravtree.Wrap(gravtree.InvalidInput, "io.ReadConfig", err)
	}
	return nil
}

func distributionName(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform":
		return DistributionUniform
	case "disk":
		return DistributionDisk
	}
	return ""
}

func configError(format string, args ...interface{}) error {
	return ioError(gravtree.InvalidInput, "io.Config", format, args...)
}
