package usage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSiteFromSymbol(t *testing.T) {
	tests := []struct {
		symbol string
		want   Site
	}{
		{
			symbol: "github.com/logicalclocks/hsfs/core.(*FeatureGroup).Insert-fm",
			want:   Site{Module: "github.com/logicalclocks/hsfs/core", Name: "FeatureGroup.Insert"},
		},
		{
			symbol: "github.com/logicalclocks/hsfs/core.Query.Read",
			want:   Site{Module: "github.com/logicalclocks/hsfs/core", Name: "Query.Read"},
		},
		{
			symbol: "github.com/logicalclocks/hsml.Deploy[...]",
			want:   Site{Module: "github.com/logicalclocks/hsml", Name: "Deploy"},
		},
		{
			symbol: "github.com/logicalclocks/hsml.TestDeploy.func1",
			want:   Site{Module: "github.com/logicalclocks/hsml", Name: "TestDeploy.func1"},
		},
		{
			symbol: "main.main",
			want:   Site{Module: "main", Name: "main"},
		},
		{
			symbol: "gopkg.in/yaml%2ev3.Marshal",
			want:   Site{Module: "gopkg.in/yaml.v3", Name: "Marshal"},
		},
		{
			symbol: "nodots",
			want:   Site{Module: "unknown", Name: "nodots"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, siteFromSymbol(tt.symbol))
		})
	}
}

func TestSiteOf(t *testing.T) {
	assert.Equal(t, Site{Module: "strings", Name: "ToUpper"}, SiteOf(strings.ToUpper))

	var b strings.Builder
	assert.Equal(t, Site{Module: "strings", Name: "Builder.String"}, SiteOf(b.String))

	assert.Equal(t, "unknown", SiteOf(nil).Module)
	assert.Equal(t, "unknown", SiteOf(42).Module)

	var nilFn func()
	assert.Equal(t, "unknown", SiteOf(nilFn).Module)
}

func TestSitesOfDistinctFunctionsDiffer(t *testing.T) {
	assert.NotEqual(t, SiteOf(strings.ToUpper), SiteOf(strings.ToLower))
}

func TestOriginOf(t *testing.T) {
	site := SiteOf(strings.ToUpper)
	origin := originOf(strings.ToUpper, site)

	assert.True(t, strings.HasPrefix(origin, "strings.go::"), origin)
	assert.True(t, strings.HasSuffix(origin, " ToUpper"), origin)
	assert.Empty(t, originOf(nil, site))
}
