package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/fishing-planner/internal/marine"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Regions(), 3)
	assert.Len(t, c.Species(), 13)
	assert.Equal(t, "galjoen", c.Species()[0])

	region, area, err := c.Resolve("western_cape", "false_bay")
	require.NoError(t, err)
	assert.Equal(t, "Western Cape", region.Name)
	assert.Equal(t, "SE", area.CoastFacing)
	assert.InDelta(t, -34.16, area.Lat, 1e-9)

	for _, r := range c.Regions() {
		for _, a := range r.Areas {
			assert.NotEmpty(t, a.CoastFacing, "%s/%s", r.ID, a.ID)
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	_, _, err = c.Resolve("atlantis", "false_bay")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = c.Resolve("western_cape", "durban")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewCatalogRejectsMalformedProfiles(t *testing.T) {
	_, err := NewCatalog(nil, []SpeciesProfile{{ID: ""}})
	assert.Error(t, err)

	_, err = NewCatalog(nil, []SpeciesProfile{{ID: "kob", SeaTemp: Range{Min: 20, Max: 10}}})
	assert.Error(t, err)

	_, err = NewCatalog(nil, []SpeciesProfile{{ID: "kob"}, {ID: "kob"}})
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	c, err := NewCatalog(nil, []SpeciesProfile{{
		ID:          "kob",
		WindBearing: Range{Min: 45, Max: 180},
		SeaTemp:     Range{Min: 15, Max: 23},
		SwellMax:    2.0,
		Tides:       []marine.TidePhase{marine.TideRising, marine.TideHigh, marine.TideFalling},
		Legal:       "check limits",
	}})
	require.NoError(t, err)

	tests := []struct {
		name string
		cond Conditions
		want Label
	}{
		{
			name: "all rules pass",
			cond: Conditions{WindBearing: 90, SeaTempC: 18, SwellHeightM: 1.5, TidePhase: marine.TideRising},
			want: LabelIdeal,
		},
		{
			name: "range bounds are inclusive",
			cond: Conditions{WindBearing: 180, SeaTempC: 15, SwellHeightM: 2.0, TidePhase: marine.TideHigh},
			want: LabelIdeal,
		},
		{
			name: "wind outside range",
			cond: Conditions{WindBearing: 300, SeaTempC: 18, SwellHeightM: 1.5, TidePhase: marine.TideRising},
			want: LabelGood,
		},
		{
			name: "unknown tide",
			cond: Conditions{WindBearing: 90, SeaTempC: 18, SwellHeightM: 1.5, TidePhase: marine.TideUnknown},
			want: LabelGood,
		},
		{
			name: "swell too big",
			cond: Conditions{WindBearing: 90, SeaTempC: 18, SwellHeightM: 2.1, TidePhase: marine.TideRising},
			want: LabelPoor,
		},
		{
			name: "empty window conditions",
			cond: Conditions{TidePhase: marine.TideUnknown},
			want: LabelPoor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Label("kob", tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = c.Label("marlin", Conditions{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "check limits", c.LegalNote("kob"))
	assert.Empty(t, c.LegalNote("marlin"))
	assert.Nil(t, c.TimePreference("marlin"))
}

func TestParseAreaRef(t *testing.T) {
	region, area, ok := ParseAreaRef(" western_cape/false_bay ")
	require.True(t, ok)
	assert.Equal(t, "western_cape", region)
	assert.Equal(t, "false_bay", area)

	for _, bad := range []string{"", "western_cape", "/false_bay", "western_cape/"} {
		_, _, ok := ParseAreaRef(bad)
		assert.False(t, ok, bad)
	}
}
