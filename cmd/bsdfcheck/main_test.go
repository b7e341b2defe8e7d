package main

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestBuildLobe(t *testing.T) {
	tests := []struct {
		name        string
		material    Material
		expectError bool
	}{
		{"lambertian", Material{Kind: "lambertian", Reflectance: [3]float64{0.5, 0.5, 0.5}}, false},
		{"orennayar", Material{Kind: "orennayar", Reflectance: [3]float64{0.8, 0.8, 0.8}, Sigma: 0.3}, false},
		{"ashikhmin", Material{Kind: "ashikhmin", Reflectance: [3]float64{0.9, 0.9, 0.9}, Roughness: 0.1}, false},
		{"mirror", Material{Kind: "mirror", Reflectance: [3]float64{1, 1, 1}}, false},
		{"glass with defaults", Material{Kind: "glass", Reflectance: [3]float64{1, 1, 1}}, false},
		{"glass with indices", Material{Kind: "glass", Reflectance: [3]float64{1, 1, 1}, EtaA: 1.0, EtaB: 1.5}, false},
		{"fourier with defaults", Material{Kind: "fourier", Reflectance: [3]float64{0.7, 0.7, 0.7}}, false},
		{"unknown kind", Material{Kind: "plastic"}, true},
		{"empty kind", Material{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lobe, err := buildLobe(tt.material)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for kind '%s', but got none", tt.material.Kind)
				}
				if lobe != nil {
					t.Errorf("Expected nil lobe for kind '%s', got %T", tt.material.Kind, lobe)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error for kind '%s': %v", tt.material.Kind, err)
				}
				if lobe == nil {
					t.Errorf("Expected lobe for kind '%s', got nil", tt.material.Kind)
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := defaultConfig()

	if config.Samples <= 0 {
		t.Errorf("Default sample count should be positive, got %d", config.Samples)
	}
	if config.Tolerance <= 0 {
		t.Errorf("Default tolerance should be positive, got %f", config.Tolerance)
	}
	if len(config.Materials) == 0 {
		t.Fatal("Default config should include materials")
	}
	for _, m := range config.Materials {
		if _, err := buildLobe(m); err != nil {
			t.Errorf("Default material %q should build: %v", m.Name, err)
		}
	}
}

func TestConfigDecoding(t *testing.T) {
	data := []byte(`
samples = 1024
seed = 7
tolerance = 0.02

[[material]]
name = "matte"
kind = "lambertian"
reflectance = [0.9, 0.6, 0.3]

[[material]]
name = "frosted"
kind = "orennayar"
reflectance = [0.8, 0.8, 0.8]
sigma = 0.35
`)

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}
	if config.Samples != 1024 {
		t.Errorf("Samples: got %d, expected 1024", config.Samples)
	}
	if config.Seed != 7 {
		t.Errorf("Seed: got %d, expected 7", config.Seed)
	}
	if len(config.Materials) != 2 {
		t.Fatalf("Materials: got %d, expected 2", len(config.Materials))
	}
	if config.Materials[1].Sigma != 0.35 {
		t.Errorf("Sigma: got %f, expected 0.35", config.Materials[1].Sigma)
	}
	for _, m := range config.Materials {
		if _, err := buildLobe(m); err != nil {
			t.Errorf("Decoded material %q should build: %v", m.Name, err)
		}
	}
}
