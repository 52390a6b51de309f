package generator

import (
	"strings"

	"github.com/goliatone/go-postcast/internal/domain"
)

// DefaultBrandHashtag is the fixed hashtag placed before the topic hashtag in
// fallback bodies.
const DefaultBrandHashtag = "DataAnalysis"

// FallbackBody renders the deterministic body used when the backend fails.
// It always contains the topic name and the topic hashtag.
func FallbackBody(topic domain.Topic, format domain.Format, brand string) string {
	var b strings.Builder
	if marker := strings.TrimSpace(format.Marker); marker != "" {
		b.WriteString(marker)
		b.WriteByte(' ')
	}
	b.WriteString("Daily ")
	b.WriteString(topic.String())
	b.WriteString(" Tip\n\nStay tuned for more insights!\n\n")
	if brand = strings.TrimPrefix(strings.TrimSpace(brand), "#"); brand != "" {
		b.WriteString("#" + brand + " ")
	}
	b.WriteString(topic.Hashtag())
	return b.String()
}
