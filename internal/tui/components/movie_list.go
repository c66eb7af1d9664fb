package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/streamverse/streamverse/internal/domain"
	"github.com/streamverse/streamverse/internal/tui/styles"
)

// ListEntry is one row of a MovieList. Progress and Completed are only
// meaningful for continue-watching rows.
type ListEntry struct {
	Movie     domain.Movie
	Progress  float64
	Completed bool
	Tracked   bool // Render the watch status indicator
}

// MovieList is a scrollable, filterable vertical list of titles. It backs
// the search results, watchlist and continue-watching screens.
type MovieList struct {
	title   string
	entries []ListEntry

	cursor     int
	offset     int
	maxVisible int

	width   int
	height  int
	focused bool

	loading      bool
	spinnerFrame int

	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int // indices into entries
}

// NewMovieList creates a list with the given header title
func NewMovieList(title string) *MovieList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &MovieList{
		title:       title,
		filterInput: ti,
	}
}

// SetEntries replaces the list contents and resets selection
func (c *MovieList) SetEntries(entries []ListEntry) {
	c.entries = entries
	c.cursor = 0
	c.offset = 0
	c.loading = false
	c.clearFilter()
}

// SetTitle updates the header title
func (c *MovieList) SetTitle(title string) {
	c.title = title
}

// SetLoading toggles the loading spinner
func (c *MovieList) SetLoading(loading bool) {
	c.loading = loading
}

// SetSpinnerFrame advances the loading animation
func (c *MovieList) SetSpinnerFrame(frame int) {
	c.spinnerFrame = frame
}

// SetSize sets the component dimensions
func (c *MovieList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
}

// Focus sets keyboard focus
func (c *MovieList) Focus(focused bool) {
	c.focused = focused
}

// Selected returns the entry under the cursor, or nil when empty
func (c *MovieList) Selected() *ListEntry {
	visible := c.visibleIndices()
	if c.cursor < 0 || c.cursor >= len(visible) {
		return nil
	}
	return &c.entries[visible[c.cursor]]
}

// Count returns the number of visible entries
func (c *MovieList) Count() int {
	return len(c.visibleIndices())
}

// FilterActive reports whether the filter input has focus
func (c *MovieList) FilterActive() bool {
	return c.filterActive
}

// StartFilter opens the filter input
func (c *MovieList) StartFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// Update handles key events. Filter input consumes keys while active.
func (c *MovieList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if c.filterActive {
		switch keyMsg.String() {
		case "esc":
			c.clearFilter()
			return nil
		case "enter":
			// Keep the narrowed list, drop input focus
			c.filterActive = false
			c.filterInput.Blur()
			c.recalcMaxVisible()
			return nil
		case "up", "down":
			// Let navigation fall through while filtering
		default:
			var cmd tea.Cmd
			c.filterInput, cmd = c.filterInput.Update(msg)
			c.applyFilter()
			return cmd
		}
	}

	switch keyMsg.String() {
	case "k", "up":
		c.moveCursor(-1)
	case "j", "down":
		c.moveCursor(1)
	case "ctrl+u":
		c.moveCursor(-c.maxVisible / 2)
	case "ctrl+d":
		c.moveCursor(c.maxVisible / 2)
	case "g", "home":
		c.cursor = 0
		c.ensureVisible()
	case "G", "end":
		c.cursor = c.Count() - 1
		if c.cursor < 0 {
			c.cursor = 0
		}
		c.ensureVisible()
	}
	return nil
}

func (c *MovieList) moveCursor(delta int) {
	count := c.Count()
	if count == 0 {
		return
	}
	c.cursor += delta
	if c.cursor < 0 {
		c.cursor = 0
	}
	if c.cursor >= count {
		c.cursor = count - 1
	}
	c.ensureVisible()
}

func (c *MovieList) recalcMaxVisible() {
	// Border (2) + header (1)
	c.maxVisible = c.height - 3
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *MovieList) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *MovieList) clearFilter() {
	c.filterActive = false
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *MovieList) applyFilter() {
	query := c.filterInput.Value()
	if query == "" {
		c.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(c.entries))
	for i, e := range c.entries {
		lowerTitles[i] = strings.ToLower(e.Movie.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}

	c.cursor = 0
	c.offset = 0
}

func (c *MovieList) visibleIndices() []int {
	if c.filteredIdx != nil {
		return c.filteredIdx
	}
	idx := make([]int, len(c.entries))
	for i := range c.entries {
		idx[i] = i
	}
	return idx
}

// View renders the list
func (c *MovieList) View() string {
	contentWidth := c.width - 2
	if contentWidth < 4 {
		contentWidth = 4
	}

	var b strings.Builder

	header := styles.TitleStyle.Render(styles.Truncate(c.title, contentWidth))
	b.WriteString(header)
	b.WriteString("\n")

	if c.loading {
		frame := styles.SpinnerFrames[c.spinnerFrame%len(styles.SpinnerFrames)]
		b.WriteString(styles.SpinnerStyle.Render(frame) + " " + styles.DimStyle.Render("loading..."))
	} else {
		visible := c.visibleIndices()
		if len(visible) == 0 {
			b.WriteString(styles.DimStyle.Render("nothing here"))
		}

		end := c.offset + c.maxVisible
		if end > len(visible) {
			end = len(visible)
		}
		for i := c.offset; i < end; i++ {
			b.WriteString(c.renderRow(c.entries[visible[i]], i == c.cursor, contentWidth))
			if i < end-1 {
				b.WriteString("\n")
			}
		}
	}

	if c.filterActive {
		b.WriteString("\n")
		b.WriteString(c.filterInput.View())
	}

	content := lipgloss.NewStyle().
		Width(contentWidth).
		Height(c.height - 2).
		Render(b.String())

	border := styles.InactiveBorder
	if c.focused {
		border = styles.ActiveBorder
	}
	return border.Width(contentWidth).Render(content)
}

func (c *MovieList) renderRow(e ListEntry, selected bool, width int) string {
	var parts []string

	if e.Tracked {
		parts = append(parts, styles.RenderWatchStatus(e.Completed, e.Progress))
	}

	title := e.Movie.Title
	if y := e.Movie.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", title, y)
	}

	style := styles.NormalItemStyle
	if selected {
		if c.focused {
			style = styles.SelectedItemStyle
		} else {
			style = styles.FocusedItemStyle
		}
	}

	reserved := 0
	for _, p := range parts {
		reserved += lipgloss.Width(p) + 1
	}
	parts = append(parts, style.Render(styles.Truncate(title, width-reserved-2)))

	return strings.Join(parts, " ")
}
