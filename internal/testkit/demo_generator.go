package testkit

import (
	"math/rand"
	"strconv"

	"gocompare/domain/dataset"
)

// DemoDatasetName labels the synthetic dataset shown when nothing is uploaded.
const DemoDatasetName = "synthetic demo data"

// DemoGeneratorConfig configures the demo data generator
type DemoGeneratorConfig struct {
	Rows int   `json:"rows"`
	Seed int64 `json:"seed"`
}

// DefaultDemoConfig returns the 100-row, seed 42 demo configuration
func DefaultDemoConfig() DemoGeneratorConfig {
	return DemoGeneratorConfig{
		Rows: 100,
		Seed: 42,
	}
}

// DemoDataGenerator generates the six-column demo dataset
type DemoDataGenerator struct {
	config DemoGeneratorConfig
	rng    *rand.Rand
}

// NewDemoDataGenerator creates a new demo data generator
func NewDemoDataGenerator(config DemoGeneratorConfig) *DemoDataGenerator {
	if config.Rows <= 0 {
		config.Rows = DefaultDemoConfig().Rows
	}
	return &DemoDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate draws every column in turn: Age, Weight, Height, Gender, Education, GPA.
func (g *DemoDataGenerator) Generate() *dataset.Dataset {
	n := g.config.Rows
	columns := []*dataset.Column{
		dataset.NewColumn("Age", g.integers(n, 18, 65)),
		dataset.NewColumn("Weight", g.normals(n, 60, 10)),
		dataset.NewColumn("Height", g.normals(n, 170, 10)),
		dataset.NewColumn("Gender", g.choice(n, 0, 1)),
		dataset.NewColumn("Education", g.choice(n, 1, 2, 3)),
		dataset.NewColumn("GPA", g.choice(n, 1, 2)),
	}
	return dataset.New(DemoDatasetName, columns)
}

// integers draws uniformly from [low, high).
func (g *DemoDataGenerator) integers(n, low, high int) []string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = strconv.Itoa(low + g.rng.Intn(high-low))
	}
	return cells
}

func (g *DemoDataGenerator) normals(n int, mean, sd float64) []string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = strconv.FormatFloat(mean+sd*g.rng.NormFloat64(), 'f', -1, 64)
	}
	return cells
}

func (g *DemoDataGenerator) choice(n int, options ...int) []string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = strconv.Itoa(options[g.rng.Intn(len(options))])
	}
	return cells
}

// GenerateDemoDataset is a shortcut for NewDemoDataGenerator(config).Generate().
func GenerateDemoDataset(seed int64, rows int) *dataset.Dataset {
	return NewDemoDataGenerator(DemoGeneratorConfig{Rows: rows, Seed: seed}).Generate()
}
