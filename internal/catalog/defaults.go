package catalog

import "github.com/goliatone/go-postcast/internal/domain"

var defaultTopics = []domain.Topic{
	"SQL Query Optimization",
	"Python Data Analysis Libraries",
	"Data Visualization Techniques",
	"Statistical Analysis Methods",
	"Business Intelligence Tools",
	"Data Cleaning Best Practices",
	"Excel Advanced Analytics",
	"Machine Learning Applications",
	"Data Privacy and Ethics",
	"Data Storytelling Techniques",
	"ETL Best Practices",
	"Data Quality Frameworks",
	"Dashboard Design Principles",
	"Performance Optimization",
	"Real-world Case Studies",
}

var defaultFormats = []domain.Format{
	{Label: "How-to Guide", Marker: "📚"},
	{Label: "Quick Tip", Marker: "💡"},
	{Label: "Case Study", Marker: "🔍"},
	{Label: "Tool Review", Marker: "🛠️"},
	{Label: "Best Practice", Marker: "✨"},
	{Label: "Common Mistakes", Marker: "⚠️"},
	{Label: "Industry Trend", Marker: "📈"},
}

// Default returns the built-in data analysis catalog.
func Default() Catalog {
	cat, err := New(defaultTopics, defaultFormats)
	if err != nil {
		panic(err)
	}
	return cat
}
