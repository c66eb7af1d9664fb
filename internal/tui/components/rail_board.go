package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/streamverse/streamverse/internal/domain"
	"github.com/streamverse/streamverse/internal/tui/styles"
)

const (
	cardWidth  = 22
	cardHeight = 4
	railHeader = 1
)

// railRow is one rail plus its horizontal cursor and scroll offset
type railRow struct {
	rail   domain.Rail
	cursor int
	offset int
	loaded bool
}

// RailBoard is the browse home screen: a vertical stack of horizontal
// rails. Rails appear in a fixed order and fill in as they load.
type RailBoard struct {
	rows      []railRow
	order     map[string]int // rail key -> row index
	rowCursor int
	rowOffset int

	width   int
	height  int
	focused bool

	spinnerFrame int
}

func boardKey(kind domain.RailKind, genreID int) string {
	if kind == domain.RailGenre {
		return fmt.Sprintf("%s:%d", kind, genreID)
	}
	return string(kind)
}

// NewRailBoard creates a board with placeholder rows in the given order
func NewRailBoard(rails []domain.Rail) *RailBoard {
	b := &RailBoard{
		order: make(map[string]int, len(rails)),
	}
	for i, r := range rails {
		b.rows = append(b.rows, railRow{rail: r})
		b.order[boardKey(r.Kind, r.GenreID)] = i
	}
	return b
}

// AddRail appends a placeholder row for a rail the board does not hold
// yet. Known rails are left alone.
func (b *RailBoard) AddRail(rail domain.Rail) bool {
	key := boardKey(rail.Kind, rail.GenreID)
	if _, ok := b.order[key]; ok {
		return false
	}
	b.rows = append(b.rows, railRow{rail: rail})
	b.order[key] = len(b.rows) - 1
	return true
}

// SetRail fills in one rail's titles when its load completes
func (b *RailBoard) SetRail(rail domain.Rail) {
	i, ok := b.order[boardKey(rail.Kind, rail.GenreID)]
	if !ok {
		return
	}
	b.rows[i].rail = rail
	b.rows[i].loaded = true
	if b.rows[i].cursor >= len(rail.Movies) {
		b.rows[i].cursor = 0
		b.rows[i].offset = 0
	}
}

// SetSize sets the component dimensions
func (b *RailBoard) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Focus sets keyboard focus
func (b *RailBoard) Focus(focused bool) {
	b.focused = focused
}

// SetSpinnerFrame advances the loading animation
func (b *RailBoard) SetSpinnerFrame(frame int) {
	b.spinnerFrame = frame
}

// Selected returns the title under the cursor, or nil
func (b *RailBoard) Selected() *domain.Movie {
	if b.rowCursor < 0 || b.rowCursor >= len(b.rows) {
		return nil
	}
	row := &b.rows[b.rowCursor]
	if row.cursor < 0 || row.cursor >= len(row.rail.Movies) {
		return nil
	}
	return &row.rail.Movies[row.cursor]
}

// SelectedRail returns the rail under the cursor
func (b *RailBoard) SelectedRail() *domain.Rail {
	if b.rowCursor < 0 || b.rowCursor >= len(b.rows) {
		return nil
	}
	return &b.rows[b.rowCursor].rail
}

// Update handles navigation keys
func (b *RailBoard) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(b.rows) == 0 {
		return nil
	}

	switch keyMsg.String() {
	case "k", "up":
		if b.rowCursor > 0 {
			b.rowCursor--
			b.ensureRowVisible()
		}
	case "j", "down":
		if b.rowCursor < len(b.rows)-1 {
			b.rowCursor++
			b.ensureRowVisible()
		}
	case "h", "left":
		b.moveInRail(-1)
	case "l", "right":
		b.moveInRail(1)
	case "g", "home":
		b.rowCursor = 0
		b.rowOffset = 0
	case "G", "end":
		b.rowCursor = len(b.rows) - 1
		b.ensureRowVisible()
	}
	return nil
}

func (b *RailBoard) moveInRail(delta int) {
	row := &b.rows[b.rowCursor]
	count := len(row.rail.Movies)
	if count == 0 {
		return
	}
	row.cursor += delta
	if row.cursor < 0 {
		row.cursor = 0
	}
	if row.cursor >= count {
		row.cursor = count - 1
	}

	perScreen := b.cardsPerScreen()
	if row.cursor < row.offset {
		row.offset = row.cursor
	}
	if row.cursor >= row.offset+perScreen {
		row.offset = row.cursor - perScreen + 1
	}
}

func (b *RailBoard) cardsPerScreen() int {
	n := b.width / (cardWidth + 1)
	if n < 1 {
		n = 1
	}
	return n
}

func (b *RailBoard) railsPerScreen() int {
	n := b.height / (cardHeight + railHeader + 1)
	if n < 1 {
		n = 1
	}
	return n
}

func (b *RailBoard) ensureRowVisible() {
	perScreen := b.railsPerScreen()
	if b.rowCursor < b.rowOffset {
		b.rowOffset = b.rowCursor
	}
	if b.rowCursor >= b.rowOffset+perScreen {
		b.rowOffset = b.rowCursor - perScreen + 1
	}
}

// View renders the visible rails
func (b *RailBoard) View() string {
	var sections []string

	end := b.rowOffset + b.railsPerScreen()
	if end > len(b.rows) {
		end = len(b.rows)
	}

	for i := b.rowOffset; i < end; i++ {
		sections = append(sections, b.renderRail(i))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (b *RailBoard) renderRail(idx int) string {
	row := b.rows[idx]
	active := b.focused && idx == b.rowCursor

	header := styles.SubtitleStyle.Render(row.rail.Title)
	if active {
		header = styles.AccentStyle.Bold(true).Render(row.rail.Title)
	}

	if !row.loaded {
		frame := styles.SpinnerFrames[b.spinnerFrame%len(styles.SpinnerFrames)]
		return header + "\n" + styles.SpinnerStyle.Render(frame) + " " + styles.DimStyle.Render("loading...") + "\n"
	}
	if len(row.rail.Movies) == 0 {
		return header + "\n" + styles.DimStyle.Render("nothing here") + "\n"
	}

	var cards []string
	end := row.offset + b.cardsPerScreen()
	if end > len(row.rail.Movies) {
		end = len(row.rail.Movies)
	}
	for i := row.offset; i < end; i++ {
		cards = append(cards, b.renderCard(row.rail.Movies[i], active && i == row.cursor))
	}

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
}

func (b *RailBoard) renderCard(m domain.Movie, selected bool) string {
	inner := cardWidth - 4

	title := styles.Truncate(m.Title, inner)
	var sub string
	if y := m.Year(); y > 0 {
		sub = fmt.Sprintf("%d", y)
	}
	if m.Rating > 0 {
		if sub != "" {
			sub += "  "
		}
		sub += fmt.Sprintf("★ %.1f", m.Rating)
	}

	var lines []string
	if selected {
		lines = append(lines, styles.TitleStyle.Render(title))
	} else {
		lines = append(lines, styles.SubtitleStyle.Render(title))
	}
	lines = append(lines, styles.DimStyle.Render(styles.Truncate(sub, inner)))

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.DimGray).
		Padding(0, 1).
		Width(cardWidth - 2)
	if selected {
		style = style.BorderForeground(styles.Purple)
	}

	return style.Render(strings.Join(lines, "\n"))
}
