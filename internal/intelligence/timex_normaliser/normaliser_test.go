package timex_normaliser

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// goldenFile is the layout of testdata/*.yaml.
type goldenFile struct {
	Domain    string       `yaml:"domain"`
	Reference string       `yaml:"reference"`
	Cases     []goldenCase `yaml:"cases"`
}

type goldenCase struct {
	Expression string `yaml:"expression"`
	Type       string `yaml:"type"`
	Value      string `yaml:"value"`
	Rule       string `yaml:"rule"`
	Modifier   string `yaml:"modifier"`
}

func loadGolden(t *testing.T, name string) goldenFile {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	var g goldenFile
	require.NoError(t, yaml.Unmarshal(raw, &g))
	require.NotEmpty(t, g.Cases)
	return g
}

func newTestNormaliser(t *testing.T, domain timex.Domain) *Normaliser {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Domain = string(domain)
	n, err := NewNormaliser(cfg, logging.NewNopLogger(), nil)
	require.NoError(t, err)
	return n
}

func runGolden(t *testing.T, file string) {
	g := loadGolden(t, file)
	domain, ok := timex.ParseDomain(g.Domain)
	require.True(t, ok)
	n := newTestNormaliser(t, domain)

	for _, tc := range g.Cases {
		tc := tc
		t.Run(tc.Expression, func(t *testing.T) {
			got, err := n.Normalise(tc.Expression, g.Reference)
			require.NoError(t, err)
			assert.Equal(t, timex.Type(tc.Type), got.Type, "type")
			assert.Equal(t, tc.Value, got.Value, "value")
			assert.Equal(t, tc.Rule, got.Rule, "rule")
			assert.Equal(t, timex.Modifier(tc.Modifier), got.Modifier, "modifier")
		})
	}
}

func TestNormalise_GeneralGolden(t *testing.T) {
	runGolden(t, "general.yaml")
}

func TestNormalise_ClinicalGolden(t *testing.T) {
	runGolden(t, "clinical.yaml")
}

func TestNewNormaliser_UnsupportedDomain(t *testing.T) {
	_, err := NewNormaliser(Config{Domain: "legal"}, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedDomain))
}

func TestNewNormaliser_DomainAliases(t *testing.T) {
	n, err := NewNormaliser(Config{Domain: "i2b2"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, timex.DomainClinical, n.Domain())
	assert.Equal(t, "clinical", n.Config().Domain)

	n, err = NewNormaliser(Config{Domain: ""}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, timex.DomainGeneral, n.Domain())
}

func TestNormalise_InvalidReference(t *testing.T) {
	metrics := common.NewInMemoryNormaliserMetrics()
	n, err := NewNormaliser(DefaultConfig(), logging.NewNopLogger(), metrics)
	require.NoError(t, err)

	for _, ref := range []string{"", "2012-06-08", "20121308", "2012060", "abcdefgh", "20120608T256000"} {
		got, err := n.Normalise("yesterday", ref)
		assert.Nil(t, got, ref)
		require.Error(t, err, ref)
		assert.True(t, IsInvalidReferenceDate(err), ref)
	}
	assert.Equal(t, int64(6), metrics.GetCurrentStats().RejectedReferences)
	assert.Empty(t, metrics.Normalisations())
}

func TestNormalise_Default(t *testing.T) {
	n := newTestNormaliser(t, timex.DomainGeneral)

	for _, expr := range []string{"xyz not a date", "", "   ", "the", "banana bread"} {
		got, err := n.Normalise(expr, "20120608")
		require.NoError(t, err)
		assert.True(t, got.IsDefault(), "%q", expr)
		assert.Equal(t, timex.TypeDate, got.Type)
		assert.Equal(t, timex.ValueUnknown, got.Value)
		assert.Equal(t, timex.RuleDefault, got.Rule)
	}
}

func TestNormalise_Deterministic(t *testing.T) {
	n := newTestNormaliser(t, timex.DomainGeneral)
	exprs := []string{"three weeks ago", "next Friday", "several days", "Q4 2011", "xyz"}
	first := make([]timex.Result, len(exprs))
	for i, e := range exprs {
		r, err := n.Normalise(e, "20120608")
		require.NoError(t, err)
		first[i] = *r
	}
	for round := 0; round < 5; round++ {
		for i, e := range exprs {
			r, err := n.Normalise(e, "20120608")
			require.NoError(t, err)
			assert.Equal(t, first[i], *r)
		}
	}
}

func TestNormalise_SurfaceTextCleaned(t *testing.T) {
	n := newTestNormaliser(t, timex.DomainGeneral)

	got, err := n.Normalise("  last   Friday, ", "20120608")
	require.NoError(t, err)
	assert.Equal(t, "last Friday", got.SurfaceText)
	assert.Equal(t, "2012-06-01", got.Value)

	got, err = n.Normalise("Jan.&amp;Feb.", "20120608")
	require.NoError(t, err)
	assert.Equal(t, "Jan.&Feb.", got.SurfaceText)
}

func TestNormalise_ClockOffsetsUseReferenceTime(t *testing.T) {
	n := newTestNormaliser(t, timex.DomainGeneral)

	got, err := n.Normalise("two hours ago", "20120608T103000")
	require.NoError(t, err)
	assert.Equal(t, timex.TypeTime, got.Type)
	assert.Equal(t, "2012-06-08T08:30", got.Value)

	got, err = n.Normalise("two hours ago", "20120608")
	require.NoError(t, err)
	assert.Equal(t, timex.TypeTime, got.Type)
	assert.Equal(t, timex.ValuePastRef, got.Value)

	got, err = n.Normalise("in three hours", "20120608T230000")
	require.NoError(t, err)
	assert.Equal(t, "2012-06-09T02:00", got.Value)
}

func TestNormalise_YearBoundaries(t *testing.T) {
	n := newTestNormaliser(t, timex.DomainGeneral)

	cases := []struct {
		expr, ref, want string
	}{
		{"tomorrow", "20121231", "2013-01-01"},
		{"yesterday", "20120301", "2012-02-29"},
		{"next month", "20121215", "2013-01"},
		{"last month", "20120115", "2011-12"},
		{"next quarter", "20121115", "2013-Q1"},
		{"last quarter", "20120215", "2011-Q4"},
		{"last week", "20120103", "2011-W53"},
		{"next Monday", "20121231", "2013-01-07"},
	}
	for _, tc := range cases {
		got, err := n.Normalise(tc.expr, tc.ref)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Value, "%s @ %s", tc.expr, tc.ref)
	}
}

func TestNormalise_OffsetsOutsideYearRangeFallThrough(t *testing.T) {
	general := newTestNormaliser(t, timex.DomainGeneral)
	for _, expr := range []string{"999999999999 days ago", "9000 years from now"} {
		got, err := general.Normalise(expr, "20120608")
		require.NoError(t, err)
		assert.True(t, got.IsDefault(), "%s resolved to %s", expr, got.Value)
	}

	clinical := newTestNormaliser(t, timex.DomainClinical)
	got, err := clinical.Normalise("9223372036854775807 decades ago", "20120608")
	require.NoError(t, err)
	assert.True(t, got.IsDefault(), got.Value)

	got, err = general.Normalise("2000 years ago", "20120608")
	require.NoError(t, err)
	assert.Equal(t, "0012", got.Value)
}

func TestNormalise_HourTwentyFourOnlyOnTheHour(t *testing.T) {
	n := newTestNormaliser(t, timex.DomainGeneral)

	got, err := n.Normalise("24:00", "20120608")
	require.NoError(t, err)
	assert.Equal(t, "2012-06-08T24:00", got.Value)

	for _, expr := range []string{"24:30", "2012-06-08 24:30", "24:00:15"} {
		got, err := n.Normalise(expr, "20120608")
		require.NoError(t, err)
		assert.NotContains(t, got.Value, "T24:", expr)
	}
}

func TestNormalise_RecordsMetrics(t *testing.T) {
	metrics := common.NewInMemoryNormaliserMetrics()
	n, err := NewNormaliser(DefaultConfig(), logging.NewNopLogger(), metrics)
	require.NoError(t, err)

	_, err = n.Normalise("yesterday", "20120608")
	require.NoError(t, err)
	_, err = n.Normalise("xyz", "20120608")
	require.NoError(t, err)

	recorded := metrics.Normalisations()
	require.Len(t, recorded, 2)
	assert.Equal(t, "yesterday", recorded[0].Rule)
	assert.Equal(t, "general", recorded[0].Domain)
	assert.Equal(t, "DATE", recorded[0].Type)
	assert.Equal(t, timex.RuleDefault, recorded[1].Rule)

	stats := metrics.GetCurrentStats()
	assert.Equal(t, int64(2), stats.TotalNormalisations)
	assert.Equal(t, int64(1), stats.DefaultNormalisations)
}

func TestNormaliser_ConcurrentUse(t *testing.T) {
	n := newTestNormaliser(t, timex.DomainClinical)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := n.Normalise("q.i.d.", "20120608")
				if assert.NoError(t, err) {
					assert.Equal(t, "RPT6H", got.Value)
				}
			}
		}()
	}
	wg.Wait()
}

func TestIsAnaphoric(t *testing.T) {
	for _, expr := range []string{"that day", "That afternoon", "the same day", "the time", "at the time", "on that date"} {
		assert.True(t, IsAnaphoric(expr), expr)
	}
	for _, expr := range []string{"today", "the day", "that", "last Friday", "the time of admission"} {
		assert.False(t, IsAnaphoric(expr), expr)
	}
}

//Personal.AI order the ending
