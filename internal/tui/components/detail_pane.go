package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/streamverse/streamverse/internal/domain"
	"github.com/streamverse/streamverse/internal/tui/styles"
)

// DetailPane renders one title's detail sections: metadata, cast,
// trailer, similar titles.
type DetailPane struct {
	details     *domain.MovieDetails
	onWatchlist bool
	progress    *domain.Continuation

	width  int
	height int

	loading      bool
	spinnerFrame int
}

// NewDetailPane creates an empty detail pane
func NewDetailPane() *DetailPane {
	return &DetailPane{}
}

// SetDetails fills the pane
func (d *DetailPane) SetDetails(details *domain.MovieDetails, onWatchlist bool) {
	d.details = details
	d.onWatchlist = onWatchlist
	d.loading = false
}

// SetContinuation attaches the viewer's progress row, if any
func (d *DetailPane) SetContinuation(c *domain.Continuation) {
	d.progress = c
}

// SetLoading toggles the loading spinner
func (d *DetailPane) SetLoading(loading bool) {
	d.loading = loading
	if loading {
		d.details = nil
		d.progress = nil
	}
}

// SetSpinnerFrame advances the loading animation
func (d *DetailPane) SetSpinnerFrame(frame int) {
	d.spinnerFrame = frame
}

// SetSize sets the component dimensions
func (d *DetailPane) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Details returns the loaded details, nil while loading
func (d *DetailPane) Details() *domain.MovieDetails {
	return d.details
}

// OnWatchlist reports the watchlist badge state
func (d *DetailPane) OnWatchlist() bool {
	return d.onWatchlist
}

// ToggleWatchlistBadge flips the badge after a toggle round-trips
func (d *DetailPane) ToggleWatchlistBadge(added bool) {
	d.onWatchlist = added
}

// View renders the pane
func (d *DetailPane) View() string {
	contentWidth := d.width - 6
	if contentWidth < 10 {
		contentWidth = 10
	}

	var b strings.Builder

	if d.loading || d.details == nil {
		frame := styles.SpinnerFrames[d.spinnerFrame%len(styles.SpinnerFrames)]
		b.WriteString(styles.SpinnerStyle.Render(frame) + " " + styles.DimStyle.Render("loading..."))
		return d.frame(b.String())
	}

	m := d.details

	title := m.Title
	if y := m.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", title, y)
	}
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(title, contentWidth)))
	b.WriteString("\n")

	var meta []string
	if rt := m.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	if m.Rating > 0 {
		meta = append(meta, styles.RatingStyle.Render(fmt.Sprintf("★ %.1f", m.Rating)))
	}
	for _, g := range m.Genres {
		meta = append(meta, g.Name)
	}
	if len(meta) > 0 {
		b.WriteString(styles.SubtitleStyle.Render(strings.Join(meta, " · ")))
		b.WriteString("\n")
	}

	if d.onWatchlist {
		b.WriteString(styles.BadgeStyle.Render("ON WATCHLIST"))
		b.WriteString("\n")
	}
	if d.progress != nil && d.progress.Progress > 0 {
		b.WriteString(styles.RenderProgressBar(d.progress.Progress, contentWidth/2))
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %.0f%% watched", d.progress.Progress)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.Tagline != "" {
		b.WriteString(styles.AccentStyle.Italic(true).Render(styles.Truncate(m.Tagline, contentWidth)))
		b.WriteString("\n\n")
	}

	if m.Overview != "" {
		b.WriteString(wrapText(m.Overview, contentWidth, 6))
		b.WriteString("\n\n")
	}

	if len(m.Cast) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("Cast"))
		b.WriteString("\n")
		limit := 5
		if limit > len(m.Cast) {
			limit = len(m.Cast)
		}
		for _, c := range m.Cast[:limit] {
			line := c.Name
			if c.Character != "" {
				line += styles.DimStyle.Render(" as " + c.Character)
			}
			b.WriteString("  " + styles.Truncate(line, contentWidth-2))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if t := m.Trailer(); t != nil {
		b.WriteString(styles.SubtitleStyle.Render("Trailer") + "  " +
			styles.DimStyle.Render("youtube.com/watch?v="+t.Key))
		b.WriteString("\n\n")
	}

	if len(m.Similar) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("More like this"))
		b.WriteString("\n")
		var names []string
		limit := 4
		if limit > len(m.Similar) {
			limit = len(m.Similar)
		}
		for _, s := range m.Similar[:limit] {
			names = append(names, s.Title)
		}
		b.WriteString("  " + styles.DimStyle.Render(styles.Truncate(strings.Join(names, ", "), contentWidth-2)))
		b.WriteString("\n")
	}

	return d.frame(b.String())
}

func (d *DetailPane) frame(content string) string {
	inner := lipgloss.NewStyle().
		Width(d.width - 4).
		Height(d.height - 2).
		Padding(0, 1).
		Render(content)
	return styles.InactiveBorder.Render(inner)
}

// wrapText word-wraps text to width, keeping at most maxLines lines
func wrapText(text string, width, maxLines int) string {
	words := strings.Fields(text)
	var lines []string
	var line string
	truncated := false

	for _, w := range words {
		if line == "" {
			line = w
			continue
		}
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			if len(lines) >= maxLines {
				line = ""
				truncated = true
				break
			}
			line = w
			continue
		}
		line += " " + w
	}
	if line != "" && len(lines) < maxLines {
		lines = append(lines, line)
	}
	if truncated && len(lines) > 0 {
		last := lines[len(lines)-1]
		if len(last) > 3 {
			lines[len(lines)-1] = last[:len(last)-3] + "..."
		}
	}

	return strings.Join(lines, "\n")
}
