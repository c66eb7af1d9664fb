package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/streamverse/streamverse/internal/domain"
	"github.com/streamverse/streamverse/internal/tui/styles"
)

// guestLabel is the synthetic entry for watching without a profile.
// Playback works, but nothing is tracked or saved.
const guestLabel = "Watch as guest"

// ProfilePicker is the who-is-watching screen
type ProfilePicker struct {
	profiles []domain.Profile
	cursor   int
	width    int
	height   int
	loading  bool

	spinnerFrame int
}

// NewProfilePicker creates an empty picker
func NewProfilePicker() *ProfilePicker {
	return &ProfilePicker{loading: true}
}

// SetProfiles fills the picker
func (p *ProfilePicker) SetProfiles(profiles []domain.Profile) {
	p.profiles = profiles
	p.loading = false
	if p.cursor > len(profiles) {
		p.cursor = 0
	}
}

// SetSize sets the component dimensions
func (p *ProfilePicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSpinnerFrame advances the loading animation
func (p *ProfilePicker) SetSpinnerFrame(frame int) {
	p.spinnerFrame = frame
}

// Selected returns the profile under the cursor. The guest entry sits
// after the real profiles and returns nil.
func (p *ProfilePicker) Selected() *domain.Profile {
	if p.cursor < 0 || p.cursor >= len(p.profiles) {
		return nil
	}
	return &p.profiles[p.cursor]
}

// IsGuestSelected reports whether the cursor is on the guest entry
func (p *ProfilePicker) IsGuestSelected() bool {
	return p.cursor == len(p.profiles)
}

// Update handles navigation keys
func (p *ProfilePicker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Entries = profiles + guest
	count := len(p.profiles) + 1

	switch keyMsg.String() {
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "j", "down":
		if p.cursor < count-1 {
			p.cursor++
		}
	}
	return nil
}

// View renders the picker centered on screen
func (p *ProfilePicker) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Who's watching?"))
	b.WriteString("\n\n")

	if p.loading {
		frame := styles.SpinnerFrames[p.spinnerFrame%len(styles.SpinnerFrames)]
		b.WriteString(styles.SpinnerStyle.Render(frame) + " " + styles.DimStyle.Render("loading profiles..."))
	} else {
		for i, prof := range p.profiles {
			style := styles.NormalItemStyle
			if i == p.cursor {
				style = styles.SelectedItemStyle
			}
			b.WriteString(style.Render(prof.Name))
			b.WriteString("\n")
		}

		guestStyle := styles.DimStyle.Padding(0, 1)
		if p.cursor == len(p.profiles) {
			guestStyle = styles.SelectedItemStyle
		}
		b.WriteString(guestStyle.Render(guestLabel))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpDescStyle.Render("enter select · n new · x delete"))
	}

	box := styles.ActiveBorder.Padding(1, 3).Render(b.String())
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, box)
}
