package generator_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/goliatone/go-postcast/internal/domain"
	"github.com/goliatone/go-postcast/internal/generator"
)

func TestBuildPromptGolden(t *testing.T) {
	cases := []struct {
		name   string
		topic  domain.Topic
		format domain.Format
		style  generator.Style
	}{
		{
			name:   "prompt_how_to_guide",
			topic:  "SQL Query Optimization",
			format: domain.Format{Label: "How-to Guide", Marker: "📚"},
		},
		{
			name:  "prompt_no_format_with_notes",
			topic: "ETL Best Practices",
			style: generator.Style{
				Audience: "analytics engineers",
				MaxWords: 120,
				Notes:    "  Mention dbt when it fits.\n",
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prompt := generator.BuildPrompt(tc.topic, tc.format, tc.style)
			g.Assert(t, tc.name, []byte(prompt))
		})
	}
}
