package generator

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-postcast/internal/domain"
)

// DefaultSystemPrompt is the system instruction sent with every request.
const DefaultSystemPrompt = "You are a senior data analyst sharing professional insights on LinkedIn."

const (
	defaultAudience = "data analysts"
	defaultMaxWords = 200
)

// Style is the fixed style contract embedded in every prompt.
type Style struct {
	Audience string
	MaxWords int
	// Notes is appended verbatim as extra guidance when set.
	Notes string
}

func (s Style) withDefaults() Style {
	if strings.TrimSpace(s.Audience) == "" {
		s.Audience = defaultAudience
	}
	if s.MaxWords <= 0 {
		s.MaxWords = defaultMaxWords
	}
	s.Notes = strings.TrimSpace(s.Notes)
	return s
}

// BuildPrompt renders the user instruction for topic and format.
func BuildPrompt(topic domain.Topic, format domain.Format, style Style) string {
	style = style.withDefaults()

	var b strings.Builder
	b.WriteString("Create a professional LinkedIn post about ")
	b.WriteString(topic.String())
	b.WriteString(" for ")
	b.WriteString(style.Audience)
	b.WriteString(".\n")
	if !format.IsZero() {
		b.WriteString("Post type: ")
		b.WriteString(format.Label)
		b.WriteString("\n")
	}

	b.WriteString("\nRequirements:\n")
	if marker := strings.TrimSpace(format.Marker); !format.IsZero() && marker != "" {
		b.WriteString("- Start with " + marker + " and an attention-grabbing headline\n")
	} else {
		b.WriteString("- Start with an attention-grabbing headline\n")
	}
	b.WriteString("- Include practical, actionable insights\n")
	b.WriteString("- Keep it concise (max " + strconv.Itoa(style.MaxWords) + " words)\n")
	b.WriteString("- Add 2-3 relevant hashtags\n")
	b.WriteString("- End with an engaging question or call to action\n")
	b.WriteString("- Format with appropriate line breaks for LinkedIn\n")
	b.WriteString("- Focus on real-world applications\n")
	b.WriteString("- Include specific examples when possible\n")
	b.WriteString("\nMake it sound natural and conversational, not overly promotional.\n")

	if style.Notes != "" {
		b.WriteString("\nAdditional guidance:\n")
		b.WriteString(style.Notes)
		b.WriteString("\n")
	}
	return b.String()
}
