package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/streamverse/streamverse/internal/service"
	"github.com/streamverse/streamverse/internal/tui/styles"
)

// View renders the current screen
func (m Model) View() string {
	if !m.Ready {
		return "loading..."
	}

	var body string
	switch m.State {
	case StateProfiles:
		body = m.viewProfiles()
	case StateBrowsing:
		body = m.viewBrowse()
	case StateSearching:
		body = m.viewSearch()
	case StateDetail:
		body = m.Detail.View()
	case StateWatchlist:
		body = m.WatchList.View()
	case StatePlayer:
		body = m.viewPlayer()
	case StateHelp:
		body = m.viewHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewFooter())
}

func (m Model) viewProfiles() string {
	base := m.Picker.View()
	if m.InputModal.IsVisible() {
		modal := m.InputModal.View()
		return overlayCenter(base, modal, m.Width, m.Height-1)
	}
	return base
}

// viewBrowse renders the featured banner above the rail board
func (m Model) viewBrowse() string {
	banner := styles.DimStyle.Render(" StreamVerse")
	if m.featured != nil {
		label := m.featured.Title
		if y := m.featured.Year(); y > 0 {
			label = fmt.Sprintf("%s (%d)", label, y)
		}
		if m.featured.Rating > 0 {
			label += fmt.Sprintf("  ★ %.1f", m.featured.Rating)
		}
		banner = " " + styles.BadgeStyle.Render("FEATURED") + " " +
			styles.AccentStyle.Render(styles.Truncate(label, m.Width-12))
	}
	return lipgloss.JoinVertical(lipgloss.Left, banner, m.Board.View())
}

func (m Model) viewSearch() string {
	input := lipgloss.NewStyle().Padding(0, 1).Render(m.SearchInput.View())
	return lipgloss.JoinVertical(lipgloss.Left, input, m.SearchList.View())
}

// viewPlayer renders the playback screen: the embed runs externally, so
// this is the control surface, with chrome that hides itself after a few
// seconds of stillness.
func (m Model) viewPlayer() string {
	if m.Session == nil {
		return styles.DimStyle.Render("no active session")
	}

	state := m.Session.State()

	var b strings.Builder

	switch state {
	case service.SessionInitializing, service.SessionLoading:
		frame := styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
		b.WriteString(styles.SpinnerStyle.Render(frame) + " " + styles.DimStyle.Render("starting playback..."))

	case service.SessionError:
		msg := "playback failed"
		if err := m.Session.Err(); err != nil {
			msg = err.Error()
		}
		b.WriteString(styles.ErrorStyle.Render("✗ " + msg))
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("esc to go back"))

	case service.SessionPlaying:
		movie := m.Session.Movie()
		title := "Now Playing"
		if movie != nil {
			title = movie.Title
			if y := movie.Year(); y > 0 {
				title = fmt.Sprintf("%s (%d)", title, y)
			}
		}
		b.WriteString(styles.TitleStyle.Render(title))
		if m.Session.InFullscreen() {
			b.WriteString("  " + styles.DimBadgeStyle.Render("FULLSCREEN"))
		}
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("Playing in your external player window."))
		b.WriteString("\n\n")

		// Chrome: progress bar and controls, hidden while idle
		if m.Session.ChromeVisible() {
			barWidth := m.Width - 20
			if barWidth < 10 {
				barWidth = 10
			}
			progress := m.Session.Progress()
			b.WriteString(styles.RenderProgressBar(progress, barWidth))
			b.WriteString(fmt.Sprintf(" %3.0f%%", progress))
			b.WriteString("\n\n")
			b.WriteString(renderHelpRow([][2]string{
				{"m", "mark finished"},
				{"f", "fullscreen"},
				{"esc", "stop"},
			}))
		}

	case service.SessionClosed:
		b.WriteString(styles.DimStyle.Render("session closed"))
	}

	box := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	return lipgloss.Place(m.Width, m.Height-1, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) viewHelp() string {
	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"Navigate", [][2]string{
			{"j/k or ↑/↓", "move between rails and rows"},
			{"h/l or ←/→", "move within a rail"},
			{"enter", "open details"},
			{"esc", "go back"},
		}},
		{"Actions", [][2]string{
			{"p", "play"},
			{"s or /", "search"},
			{"w", "watchlist (toggle on details)"},
			{"x", "remove (continue watching, watchlist, profile)"},
			{"r", "refresh catalog"},
			{"u", "switch profile"},
		}},
		{"Player", [][2]string{
			{"m", "mark finished"},
			{"f", "fullscreen"},
			{"esc", "stop playback"},
		}},
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Help"))
	b.WriteString("\n\n")
	for _, s := range sections {
		b.WriteString(styles.SubtitleStyle.Render(s.title))
		b.WriteString("\n")
		for _, row := range s.rows {
			b.WriteString("  " + styles.HelpKeyStyle.Render(styles.Pad(row[0], 14)) + styles.HelpDescStyle.Render(row[1]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.DimStyle.Render("any key to close"))

	box := styles.ActiveBorder.Padding(1, 3).Render(b.String())
	return lipgloss.Place(m.Width, m.Height-1, lipgloss.Center, lipgloss.Center, box)
}

// viewFooter renders the single footer line: status or key hints
func (m Model) viewFooter() string {
	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return style.Render(" " + styles.Truncate(m.StatusMsg, m.Width-2))
	}

	who := "guest"
	if m.ActiveProfile.Tracked() {
		who = m.ActiveProfile.Profile.Name
	}

	var hints string
	switch m.State {
	case StateProfiles:
		hints = renderHelpRow([][2]string{{"enter", "select"}, {"n", "new"}, {"r", "rename"}, {"q", "quit"}})
	case StatePlayer:
		hints = renderHelpRow([][2]string{{"esc", "stop"}, {"?", "help"}})
	default:
		hints = renderHelpRow([][2]string{{"enter", "details"}, {"p", "play"}, {"s", "search"}, {"?", "help"}, {"q", "quit"}})
	}

	left := " " + styles.AccentStyle.Render(who)
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(hints) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + hints
}

func renderHelpRow(rows [][2]string) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = styles.HelpKeyStyle.Render(r[0]) + " " + styles.HelpDescStyle.Render(r[1])
	}
	return strings.Join(parts, "  ")
}

// overlayCenter draws a modal over a base view by vertical placement.
// Terminal cells have no true z-order, so the modal simply replaces the
// center region.
func overlayCenter(base, modal string, width, height int) string {
	_ = base
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
