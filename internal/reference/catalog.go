// Package reference holds the read-only gazetteer of regions/areas and the
// species rule catalogue consumed by the planner.
package reference

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/i474232898/fishing-planner/internal/marine"
)

//go:embed data/regions.yaml data/species.yaml
var dataFS embed.FS

// ErrNotFound is returned for unknown region, area or species ids.
var ErrNotFound = errors.New("reference entry not found")

// Area is a fishable stretch of coast.
type Area struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Lat         float64 `yaml:"lat" json:"lat"`
	Lon         float64 `yaml:"lon" json:"lon"`
	CoastFacing string  `yaml:"coastFacing" json:"coast_facing"`
	Notes       string  `yaml:"notes" json:"notes"`
	Legal       string  `yaml:"legal" json:"legal"`
}

// Region groups areas.
type Region struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Areas []Area `yaml:"areas" json:"areas"`
}

// Range is an inclusive numeric range.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// SpeciesProfile is one species' rule profile and metadata.
type SpeciesProfile struct {
	ID             string             `yaml:"id" json:"id"`
	WindBearing    Range              `yaml:"windBearing" json:"windBearing"`
	SeaTemp        Range              `yaml:"seaTemp" json:"seaTemp"`
	SwellMax       float64            `yaml:"swellMax" json:"swellMax"`
	Tides          []marine.TidePhase `yaml:"tides" json:"tides"`
	TimePreference []string           `yaml:"timePreference" json:"timePreference"`
	Baits          []string           `yaml:"baits" json:"baits"`
	Notes          string             `yaml:"notes" json:"notes"`
	Legal          string             `yaml:"legal" json:"legal"`
}

// Catalog is the loaded reference data. It is immutable after Load.
type Catalog struct {
	regions   []Region
	species   []SpeciesProfile
	bySpecies map[string]*SpeciesProfile
}

// Load decodes and validates the embedded reference data.
func Load() (*Catalog, error) {
	var regions struct {
		Regions []Region `yaml:"regions"`
	}
	if err := decode("data/regions.yaml", &regions); err != nil {
		return nil, err
	}
	var species struct {
		Species []SpeciesProfile `yaml:"species"`
	}
	if err := decode("data/species.yaml", &species); err != nil {
		return nil, err
	}
	return NewCatalog(regions.Regions, species.Species)
}

// NewCatalog builds a catalog from in-memory data, rejecting malformed profiles.
func NewCatalog(regions []Region, species []SpeciesProfile) (*Catalog, error) {
	c := &Catalog{
		regions:   regions,
		species:   species,
		bySpecies: make(map[string]*SpeciesProfile, len(species)),
	}
	for i := range c.species {
		sp := &c.species[i]
		if sp.ID == "" {
			return nil, fmt.Errorf("species profile %d has no id", i)
		}
		if sp.WindBearing.Min > sp.WindBearing.Max || sp.SeaTemp.Min > sp.SeaTemp.Max {
			return nil, fmt.Errorf("species %q: inverted rule range", sp.ID)
		}
		if _, dup := c.bySpecies[sp.ID]; dup {
			return nil, fmt.Errorf("species %q defined twice", sp.ID)
		}
		c.bySpecies[sp.ID] = sp
	}
	return c, nil
}

func decode(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Regions returns every region with its areas.
func (c *Catalog) Regions() []Region {
	return c.regions
}

// Resolve looks up a region and one of its areas.
func (c *Catalog) Resolve(regionID, areaID string) (Region, Area, error) {
	for _, r := range c.regions {
		if r.ID != regionID {
			continue
		}
		for _, a := range r.Areas {
			if a.ID == areaID {
				return r, a, nil
			}
		}
		return Region{}, Area{}, fmt.Errorf("area %q in region %q: %w", areaID, regionID, ErrNotFound)
	}
	return Region{}, Area{}, fmt.Errorf("region %q: %w", regionID, ErrNotFound)
}

// ParseAreaRef splits "region/area".
func ParseAreaRef(ref string) (regionID, areaID string, ok bool) {
	regionID, areaID, ok = strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || regionID == "" || areaID == "" {
		return "", "", false
	}
	return regionID, areaID, true
}
