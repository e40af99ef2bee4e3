// Package config holds the project defaults and loads overrides from the
// environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/chazu/floorplan/pkg/plan"
)

// EnvPrefix prefixes every variable Load reads.
const EnvPrefix = "FLOORPLAN_"

// Kernel backends accepted in Config.Kernel.
const (
	KernelPrism = "prism"
	KernelSdfx  = "sdfx"
)

// Config is the full set of tunables.
type Config struct {
	Plan      plan.Defaults `json:"plan"`
	Kernel    string        `json:"kernel"`
	MeshCells int           `json:"meshCells"`
	Simplify  float64       `json:"simplify"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Plan:      plan.DefaultDefaults(),
		Kernel:    KernelPrism,
		MeshCells: 200,
	}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment and returns Default overlaid with FLOORPLAN_*
// variables. Missing .env files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv returns Default overlaid with the variables lookup finds.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	floats := []struct {
		name string
		dst  *float64
	}{
		{"WALL_HEIGHT", &c.Plan.WallHeight},
		{"WALL_THICKNESS", &c.Plan.WallThickness},
		{"DOOR_WIDTH", &c.Plan.DoorWidth},
		{"DOOR_HEIGHT", &c.Plan.DoorHeight},
		{"WINDOW_WIDTH", &c.Plan.WindowWidth},
		{"WINDOW_HEIGHT", &c.Plan.WindowHeight},
		{"WINDOW_SILL", &c.Plan.WindowSill},
		{"CEILING_HEIGHT", &c.Plan.CeilingHeight},
		{"MIN_ROOM_AREA", &c.Plan.MinRoomArea},
		{"SIMPLIFY", &c.Simplify},
	}
	for _, f := range floats {
		v, ok := lookup(EnvPrefix + f.name)
		if !ok {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s%s: %w", EnvPrefix, f.name, err)
		}
		*f.dst = x
	}
	if v, ok := lookup(EnvPrefix + "KERNEL"); ok {
		c.Kernel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvPrefix + "MESH_CELLS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("config: %sMESH_CELLS: %w", EnvPrefix, err)
		}
		c.MeshCells = n
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	positive := []struct {
		name string
		v    float64
	}{
		{"wall height", c.Plan.WallHeight},
		{"wall thickness", c.Plan.WallThickness},
		{"door width", c.Plan.DoorWidth},
		{"door height", c.Plan.DoorHeight},
		{"window width", c.Plan.WindowWidth},
		{"window height", c.Plan.WindowHeight},
		{"ceiling height", c.Plan.CeilingHeight},
	}
	for _, p := range positive {
		if p.v <= 0 {
			errs = append(errs, fmt.Errorf("config: %s must be positive, got %g", p.name, p.v))
		}
	}
	if c.Plan.WindowSill < 0 {
		errs = append(errs, fmt.Errorf("config: window sill must not be negative, got %g", c.Plan.WindowSill))
	}
	if c.Plan.MinRoomArea < 0 {
		errs = append(errs, fmt.Errorf("config: min room area must not be negative, got %g", c.Plan.MinRoomArea))
	}
	if c.Simplify < 0 {
		errs = append(errs, fmt.Errorf("config: simplify tolerance must not be negative, got %g", c.Simplify))
	}
	switch c.Kernel {
	case KernelPrism, KernelSdfx:
	default:
		errs = append(errs, fmt.Errorf("config: unknown kernel %q", c.Kernel))
	}
	return errors.Join(errs...)
}
