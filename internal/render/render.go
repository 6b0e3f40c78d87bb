// Package render draws suggestions as terminal recipe cards.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1).
			MarginRight(1)
	rawStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorWarn).
			Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	headingStyle = lipgloss.NewStyle().Bold(true)
	NoticeStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)

const (
	IconTime      = "⏱"
	TagSeparator  = " · "
	UnknownTime   = "?"
	bulletPrefix  = "• "
	defaultWidth  = 40
	defaultPerRow = 2
)

// Options controls card layout.
type Options struct {
	// Width is the outer width of one card.
	Width int
	// PerRow is the number of cards placed side by side.
	PerRow int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.PerRow <= 0 {
		o.PerRow = defaultPerRow
	}
	return o
}

// Cards renders s. A raw placeholder gets a single box with its text; a batch
// gets one card per recipe, laid out in rows.
func Cards(s *types.Suggestion, opts Options) string {
	opts = opts.withDefaults()
	if s == nil {
		return ""
	}

	if s.IsPlaceholder() {
		text := ""
		if len(s.Raw) > 0 {
			text = s.Raw[0].Recipe
		}
		return rawStyle.Width(opts.Width*opts.PerRow).Render(text)
	}

	cards := make([]string, len(s.Recipes))
	for i, r := range s.Recipes {
		cards[i] = Card(r, i+1, opts.Width)
	}

	var rows []string
	for start := 0; start < len(cards); start += opts.PerRow {
		end := start + opts.PerRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Card renders one recipe. position is 1-based and names untitled recipes.
func Card(r types.Recipe, position, width int) string {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = fmt.Sprintf("Recipe %d", position)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	if r.Summary != "" {
		b.WriteString("\n" + r.Summary)
	}
	b.WriteString("\n" + mutedStyle.Render(IconTime+" "+Minutes(r.TotalTimeMinutes)))
	if len(r.Tags) > 0 {
		b.WriteString("\n" + mutedStyle.Render(strings.Join(r.Tags, TagSeparator)))
	}

	if len(r.Ingredients) > 0 {
		b.WriteString("\n\n" + headingStyle.Render("Ingredients"))
		for _, ing := range r.Ingredients {
			b.WriteString("\n" + bulletPrefix + ing)
		}
	}
	if len(r.Steps) > 0 {
		b.WriteString("\n\n" + headingStyle.Render("Steps"))
		for i, step := range r.Steps {
			fmt.Fprintf(&b, "\n%d. %s", i+1, step)
		}
	}

	// Width excludes the border, which adds one column per side.
	return cardStyle.Width(width - 2).Render(b.String())
}

// Minutes formats a total time, "?" when it is unknown.
func Minutes(m int) string {
	if m <= 0 {
		return UnknownTime
	}
	return fmt.Sprintf("%d min", m)
}

// Notice renders a suggestion's warning line, or "" when there is none.
func Notice(s *types.Suggestion) string {
	if s == nil || s.Notice == "" {
		return ""
	}
	return NoticeStyle.Render("⚠ " + s.Notice)
}
