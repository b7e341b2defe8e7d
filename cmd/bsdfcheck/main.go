// Command bsdfcheck runs white-furnace style reflectance checks over a set
// of scattering lobes and reports per-channel albedo. A physically valid
// lobe must keep estimated reflectance within [0,1] per channel; anything
// above 1 creates energy and fails the run.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/arvhem/go-bsdf/pkg/bxdf"
	"github.com/arvhem/go-bsdf/pkg/core"
)

// Config is the TOML validation description
type Config struct {
	Samples   int        `toml:"samples"`
	Seed      int64      `toml:"seed"`
	Tolerance float64    `toml:"tolerance"`
	Materials []Material `toml:"material"`
}

// Material describes one lobe to validate
type Material struct {
	Name        string     `toml:"name"`
	Kind        string     `toml:"kind"`
	Reflectance [3]float64 `toml:"reflectance"`
	Sigma       float64    `toml:"sigma"`
	Roughness   float64    `toml:"roughness"`
	EtaA        float64    `toml:"eta_a"`
	EtaB        float64    `toml:"eta_b"`
	TableNodes  int        `toml:"table_nodes"`
}

func defaultConfig() Config {
	return Config{
		Samples:   8192,
		Seed:      42,
		Tolerance: 0.05,
		Materials: []Material{
			{Name: "matte", Kind: "lambertian", Reflectance: [3]float64{0.9, 0.6, 0.3}},
			{Name: "clay", Kind: "orennayar", Reflectance: [3]float64{0.8, 0.8, 0.8}, Sigma: 0.35},
			{Name: "brushed", Kind: "ashikhmin", Reflectance: [3]float64{0.95, 0.93, 0.88}, Roughness: 0.1},
			{Name: "mirror", Kind: "mirror", Reflectance: [3]float64{1, 1, 1}},
			{Name: "glass", Kind: "glass", Reflectance: [3]float64{1, 1, 1}, EtaA: 1.0, EtaB: 1.5},
			{Name: "tabulated", Kind: "fourier", Reflectance: [3]float64{0.7, 0.7, 0.7}, TableNodes: 64},
		},
	}
}

func buildLobe(m Material) (bxdf.BxDF, error) {
	reflectance := core.NewColor(m.Reflectance[0], m.Reflectance[1], m.Reflectance[2])
	switch m.Kind {
	case "lambertian":
		return bxdf.NewLambertian(reflectance), nil
	case "orennayar":
		return bxdf.NewOrenNayar(reflectance, m.Sigma), nil
	case "ashikhmin":
		return bxdf.NewAshikhminShirley(reflectance, m.Roughness), nil
	case "mirror":
		return bxdf.NewSpecularReflection(reflectance), nil
	case "glass":
		etaA, etaB := m.EtaA, m.EtaB
		if etaA == 0 {
			etaA = 1.0
		}
		if etaB == 0 {
			etaB = 1.5
		}
		return bxdf.NewSpecularTransmission(reflectance, etaA, etaB), nil
	case "fourier":
		nodes := m.TableNodes
		if nodes == 0 {
			nodes = 64
		}
		table, err := bxdf.NewLambertianFourierTable(nodes, m.Reflectance[0])
		if err != nil {
			return nil, err
		}
		return bxdf.NewFourier(table), nil
	}
	return nil, fmt.Errorf("unknown material kind %q", m.Kind)
}

func main() {
	configPath := flag.String("config", "", "TOML material list (omit for the built-in set)")
	flag.Parse()

	config := defaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %v", err)
		}
		config = Config{}
		if err := toml.Unmarshal(data, &config); err != nil {
			log.Fatalf("parsing config: %v", err)
		}
	}
	if config.Samples <= 0 {
		config.Samples = 8192
	}
	if config.Tolerance <= 0 {
		config.Tolerance = 0.05
	}

	random := rand.New(rand.NewSource(config.Seed))
	sampler := core.NewRandomSampler(random)
	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0.4, 0.2, 0.8).Normalize()

	failed := false
	fmt.Printf("bsdfcheck: %d materials, %d samples each\n\n", len(config.Materials), config.Samples)
	for _, m := range config.Materials {
		lobe, err := buildLobe(m)
		if err != nil {
			log.Fatalf("material %q: %v", m.Name, err)
		}

		samples1 := make([]core.Vec2, config.Samples)
		samples2 := make([]core.Vec2, config.Samples)
		for i := range samples1 {
			samples1[i] = sampler.Get2D()
			samples2[i] = sampler.Get2D()
		}

		rhoHD := bxdf.RhoHD(lobe, outgoing, normal, samples2, sampler)
		rhoHH := bxdf.RhoHH(lobe, normal, samples1, samples2, sampler)

		status := "ok"
		limit := 1 + config.Tolerance
		if !rhoHD.IsFinite() || !rhoHH.IsFinite() {
			status = "FAIL (non-finite estimate)"
			failed = true
		} else if rhoHD.MaxComponent() > limit || rhoHH.MaxComponent() > limit {
			status = fmt.Sprintf("FAIL (energy > 1, max %.4f)",
				math.Max(rhoHD.MaxComponent(), rhoHH.MaxComponent()))
			failed = true
		}

		fmt.Printf("%-12s %-12s [%s]\n", m.Name, m.Kind, lobe.Type())
		fmt.Printf("  rho(wo)    = (%.4f, %.4f, %.4f)\n", rhoHD.R, rhoHD.G, rhoHD.B)
		fmt.Printf("  rho(hemi)  = (%.4f, %.4f, %.4f)\n", rhoHH.R, rhoHH.G, rhoHH.B)
		fmt.Printf("  %s\n\n", status)
	}

	if failed {
		os.Exit(1)
	}
}
