// Package images produces poster illustrations for seeds and stores them.
package images

import (
	"fmt"
	"regexp"
	"strings"
)

const maxSummarySnippet = 500

var (
	trailingPlace = regexp.MustCompile(`(?i)\s+(?:near|at|on|beside|along)\s+.+$`)
	trailingFrom  = regexp.MustCompile(`(?i)\s+from\s+.+$`)
)

// PromptInput is the seed content the prompt draws from
type PromptInput struct {
	Name            string
	Summary         string
	LocationAddress *string
	WaterHave       []string
}

// ShortenTitle trims a project name to a short poster title: trailing
// location phrases are dropped and long names keep their last three words.
func ShortenTitle(name string) string {
	short := trailingPlace.ReplaceAllString(name, "")
	short = trailingFrom.ReplaceAllString(short, "")
	words := strings.Fields(short)
	if len(words) <= 4 {
		return strings.Join(words, " ")
	}
	return strings.Join(words[len(words)-3:], " ")
}

// BuildImagePrompt renders the poster prompt for a seed
func BuildImagePrompt(in PromptInput) string {
	summary := []rune(in.Summary)
	if len(summary) > maxSummarySnippet {
		summary = summary[:maxSummarySnippet]
	}

	var details []string
	if in.LocationAddress != nil && *in.LocationAddress != "" {
		details = append(details, fmt.Sprintf("Location: %s.", *in.LocationAddress))
	}
	if len(in.WaterHave) > 0 {
		details = append(details, fmt.Sprintf("Resources available: %s.", strings.Join(in.WaterHave, ", ")))
	}

	var b strings.Builder
	b.WriteString("Illustrate a community project as a vintage WPA-style national park poster set in Chattanooga, Tennessee, a National Park City ringed by ridges, rivers and hardwood forest.\n\n")
	b.WriteString("Layout: vertical poster with one bold foreground subject standing for the project, in a natural or urban setting as the subject suggests.\n\n")
	fmt.Fprintf(&b, "Title: %s\nSubtitle: National Park City\n\n", ShortenTitle(in.Name))
	b.WriteString("Lettering: hand-drawn bold sans-serif in the manner of classic park posters, slightly rough and worn. Only the title and subtitle appear; no other text.\n\n")
	fmt.Fprintf(&b, "Subject: %q.", string(summary))
	if len(details) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(details, " "))
	}
	b.WriteString("\n\n")
	b.WriteString("Style: screenprinted travel poster with simplified shapes, a warm earthy palette, strong silhouettes, layered depth and subtle paper grain.\n\n")
	b.WriteString("Setting: sandstone bluffs above the Tennessee River, deciduous forest of oak and tulip poplar (no pines), waterfalls and swimming holes, and a compact downtown of brick warehouses and pedestrian bridges. Include local activities and wildlife where they fit the project.")
	return b.String()
}
