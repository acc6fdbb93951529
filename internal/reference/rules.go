package reference

import (
	"fmt"
	"slices"

	"github.com/i474232898/fishing-planner/internal/marine"
)

// Label is the categorical rule-match outcome for a species.
type Label string

const (
	LabelIdeal Label = "Ideal"
	LabelGood  Label = "Good"
	LabelPoor  Label = "Poor"
)

// Conditions are the window features the rule matcher looks at.
type Conditions struct {
	WindBearing  float64
	SeaTempC     float64
	SwellHeightM float64
	TidePhase    marine.TidePhase
}

// Species returns the catalogue's species ids in file order.
func (c *Catalog) Species() []string {
	ids := make([]string, 0, len(c.species))
	for _, sp := range c.species {
		ids = append(ids, sp.ID)
	}
	return ids
}

// Profile returns the rule profile for id.
func (c *Catalog) Profile(id string) (SpeciesProfile, error) {
	sp, ok := c.bySpecies[id]
	if !ok {
		return SpeciesProfile{}, fmt.Errorf("species %q: %w", id, ErrNotFound)
	}
	return *sp, nil
}

// Label matches conditions against the species rules. All four rules passing
// is Ideal; temperature and swell passing is Good; anything else is Poor.
func (c *Catalog) Label(id string, cond Conditions) (Label, error) {
	sp, ok := c.bySpecies[id]
	if !ok {
		return "", fmt.Errorf("species %q: %w", id, ErrNotFound)
	}

	windOK := sp.WindBearing.Contains(cond.WindBearing)
	tempOK := sp.SeaTemp.Contains(cond.SeaTempC)
	swellOK := cond.SwellHeightM <= sp.SwellMax
	tideOK := slices.Contains(sp.Tides, cond.TidePhase)

	switch {
	case windOK && tempOK && swellOK && tideOK:
		return LabelIdeal, nil
	case tempOK && swellOK:
		return LabelGood, nil
	default:
		return LabelPoor, nil
	}
}

// TimePreference returns the window ids the species prefers. Unknown ids have none.
func (c *Catalog) TimePreference(id string) []string {
	if sp, ok := c.bySpecies[id]; ok {
		return sp.TimePreference
	}
	return nil
}

// LegalNote returns the species' legal reminder, or "" if unknown.
func (c *Catalog) LegalNote(id string) string {
	if sp, ok := c.bySpecies[id]; ok {
		return sp.Legal
	}
	return ""
}
