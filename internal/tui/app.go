package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/streamverse/streamverse/internal/adapter"
	"github.com/streamverse/streamverse/internal/domain"
	"github.com/streamverse/streamverse/internal/service"
	"github.com/streamverse/streamverse/internal/tui/components"
	"github.com/streamverse/streamverse/internal/tui/styles"
)

// ApplicationState represents the current screen
type ApplicationState int

const (
	StateProfiles ApplicationState = iota
	StateBrowsing
	StateSearching
	StateDetail
	StateWatchlist
	StatePlayer
	StateHelp
)

// SessionFactory builds a playback session scoped to a viewing identity.
// A fresh session is created per playback; the identity never comes from
// anywhere but this explicit argument.
type SessionFactory func(profile service.ProfileContext) *service.Session

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State     ApplicationState
	prevState ApplicationState
	Ready     bool

	// Services
	BrowseSvc       *service.BrowseService
	SearchSvc       *service.SearchService
	ProfileSvc      *service.ProfileService
	WatchlistSvc    *service.WatchlistService
	ContinuationSvc *service.ContinuationService
	NewSession      SessionFactory

	AccountID string

	// Viewing identity. Zero profile = guest, nothing is tracked.
	ActiveProfile service.ProfileContext

	// UI components
	Picker      *components.ProfilePicker
	Board       *components.RailBoard
	SearchList  *components.MovieList
	WatchList   *components.MovieList
	Detail      *components.DetailPane
	InputModal  components.InputModal
	SearchInput textinput.Model

	// Playback
	Session *service.Session

	// Data
	continuations []domain.Continuation
	featured      *domain.Movie
	renameTarget  *domain.Profile

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
	searchTyping bool
}

// NewModel creates the application model
func NewModel(
	browseSvc *service.BrowseService,
	searchSvc *service.SearchService,
	profileSvc *service.ProfileService,
	watchlistSvc *service.WatchlistService,
	continuationSvc *service.ContinuationService,
	newSession SessionFactory,
	accountID string,
) Model {
	si := textinput.New()
	si.Placeholder = "search titles..."
	si.Prompt = "⌕ "
	si.PromptStyle = styles.FilterPromptStyle
	si.TextStyle = styles.FilterStyle
	si.CharLimit = 80

	return Model{
		State:           StateProfiles,
		BrowseSvc:       browseSvc,
		SearchSvc:       searchSvc,
		ProfileSvc:      profileSvc,
		WatchlistSvc:    watchlistSvc,
		ContinuationSvc: continuationSvc,
		NewSession:      newSession,
		AccountID:       accountID,
		Picker:          components.NewProfilePicker(),
		Board:           components.NewRailBoard(defaultRails(browseSvc)),
		SearchList:      components.NewMovieList("Results"),
		WatchList:       components.NewMovieList("My Watchlist"),
		Detail:          components.NewDetailPane(),
		InputModal:      components.NewInputModal(),
		SearchInput:     si,
	}
}

// defaultRails lays out the browse home in its fixed order. The continue
// watching rail leads and fills in from the record store; the rest come
// from the catalog.
func defaultRails(browseSvc *service.BrowseService) []domain.Rail {
	rails := []domain.Rail{
		{Kind: domain.RailContinueWatching, Title: "Continue Watching"},
		{Kind: domain.RailTrending, Title: "Trending Now"},
		{Kind: domain.RailPopular, Title: "Popular"},
		{Kind: domain.RailTopRated, Title: "Top Rated"},
		{Kind: domain.RailNowPlaying, Title: "In Theaters"},
		{Kind: domain.RailUpcoming, Title: "Coming Soon"},
		{Kind: domain.RailThisYear, Title: "New This Year"},
	}
	for _, g := range browseSvc.RailGenres() {
		rails = append(rails, domain.Rail{Kind: domain.RailGenre, Title: g.Name, GenreID: g.ID})
	}
	return rails
}

// Init starts the profile load and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadProfilesCmd(m.ProfileSvc, m.AccountID),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		if m.State == StatePlayer && m.Session != nil {
			m.Session.Activity()
		}
		return m, nil

	case TickMsg:
		m.SpinnerFrame++
		m.Picker.SetSpinnerFrame(m.SpinnerFrame)
		m.Board.SetSpinnerFrame(m.SpinnerFrame)
		m.SearchList.SetSpinnerFrame(m.SpinnerFrame)
		m.WatchList.SetSpinnerFrame(m.SpinnerFrame)
		m.Detail.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(100 * time.Millisecond)

	case ProfilesLoadedMsg:
		m.Picker.SetProfiles(msg.Profiles)
		return m, nil

	case ProfileCreatedMsg:
		return m, tea.Batch(
			LoadProfilesCmd(m.ProfileSvc, m.AccountID),
			m.status("Profile \""+msg.Profile.Name+"\" created", false),
		)

	case ProfileDeletedMsg:
		return m, tea.Batch(
			LoadProfilesCmd(m.ProfileSvc, m.AccountID),
			m.status("Profile deleted", false),
		)

	case ProfileRenamedMsg:
		return m, tea.Batch(
			LoadProfilesCmd(m.ProfileSvc, m.AccountID),
			m.status("Profile renamed to \""+msg.Profile.Name+"\"", false),
		)

	case RailLoadedMsg:
		m.Board.SetRail(msg.Rail)
		return m, nil

	case FeaturedLoadedMsg:
		movie := msg.Movie
		m.featured = &movie
		return m, nil

	case GenresLoadedMsg:
		// Catalog genres extend the built-in genre rails; known ids are
		// skipped by the board
		var cmds []tea.Cmd
		added := 0
		for _, g := range msg.Genres {
			if added >= 8 {
				break
			}
			r := domain.Rail{Kind: domain.RailGenre, Title: g.Name, GenreID: g.ID}
			if m.Board.AddRail(r) {
				added++
				cmds = append(cmds, LoadRailCmd(m.BrowseSvc, r.Kind, r.Title, r.GenreID))
			}
		}
		return m, tea.Batch(cmds...)

	case ContinuationsLoadedMsg:
		m.continuations = msg.Continuations
		m.Board.SetRail(continueWatchingRail(msg.Continuations))
		return m, nil

	case SearchResultsMsg:
		entries := make([]components.ListEntry, len(msg.Results))
		for i, mv := range msg.Results {
			entries[i] = components.ListEntry{Movie: mv}
		}
		m.SearchList.SetEntries(entries)
		m.SearchList.SetTitle("Results for \"" + msg.Query + "\"")
		return m, nil

	case DetailsLoadedMsg:
		m.Detail.SetDetails(msg.Details, msg.OnWatchlist)
		m.Detail.SetContinuation(m.continuationFor(msg.Details.ID))
		return m, nil

	case WatchlistLoadedMsg:
		entries := make([]components.ListEntry, len(msg.Entries))
		for i, e := range msg.Entries {
			entries[i] = components.ListEntry{Movie: snapshotMovie(e.Snapshot)}
		}
		m.WatchList.SetEntries(entries)
		return m, nil

	case WatchlistToggledMsg:
		m.Detail.ToggleWatchlistBadge(msg.Added)
		if msg.Added {
			return m, m.status("Added to watchlist", false)
		}
		return m, m.status("Removed from watchlist", false)

	case ContinuationRemovedMsg:
		return m, tea.Batch(
			m.reloadContinuations(),
			m.status("Removed from continue watching", false),
		)

	case SessionOpenedMsg:
		if msg.Err != nil {
			// Title lookup and launch failures are the one class of
			// error the viewer sees
			m.State = m.prevState
			m.Session = nil
			return m, m.status("Could not start playback: "+msg.Err.Error(), true)
		}
		return m, nil

	case SessionClosedMsg:
		m.Session = nil
		m.State = StateBrowsing
		return m, m.reloadContinuations()

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(4 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		return m, m.status(msg.Error(), true)
	}

	return m, nil
}

// handleKeyMsg routes keys by screen
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The input modal swallows keys while open
	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			name := m.InputModal.Value()
			m.InputModal.Hide()
			target := m.renameTarget
			m.renameTarget = nil
			if name == "" {
				return m, nil
			}
			if target != nil {
				p := *target
				p.Name = name
				return m, RenameProfileCmd(m.ProfileSvc, p)
			}
			return m, CreateProfileCmd(m.ProfileSvc, m.AccountID, name)
		}
		if !m.InputModal.IsVisible() {
			// Dismissed without submitting
			m.renameTarget = nil
		}
		return m, cmd
	}

	switch m.State {
	case StateProfiles:
		return m.handleProfilesKeys(msg)
	case StateBrowsing:
		return m.handleBrowsingKeys(msg)
	case StateSearching:
		return m.handleSearchingKeys(msg)
	case StateDetail:
		return m.handleDetailKeys(msg)
	case StateWatchlist:
		return m.handleWatchlistKeys(msg)
	case StatePlayer:
		return m.handlePlayerKeys(msg)
	case StateHelp:
		m.State = m.prevState
		return m, nil
	}
	return m, nil
}

func (m Model) handleProfilesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.Picker.IsGuestSelected() {
			m.ActiveProfile = service.ProfileContext{}
			return m.enterBrowse()
		}
		if p := m.Picker.Selected(); p != nil {
			m.ActiveProfile = service.ProfileContext{Profile: *p}
			if err := adapter.SaveActiveProfile(p.ID); err == nil {
				return m.enterBrowse()
			}
			// Persisting the selection is a convenience, not a gate
			return m.enterBrowse()
		}
	case "n":
		m.InputModal.Show("New profile name")
	case "r":
		if p := m.Picker.Selected(); p != nil {
			m.renameTarget = p
			m.InputModal.Show("Rename \"" + p.Name + "\"")
		}
	case "x":
		if p := m.Picker.Selected(); p != nil {
			return m, DeleteProfileCmd(m.ProfileSvc, p.ID)
		}
	default:
		m.Picker.Update(msg)
	}
	return m, nil
}

// enterBrowse switches to the home screen and kicks off every rail load
func (m Model) enterBrowse() (tea.Model, tea.Cmd) {
	m.State = StateBrowsing
	m.Board.Focus(true)
	m.updateLayout()

	var cmds []tea.Cmd
	cmds = append(cmds,
		LoadFeaturedCmd(m.BrowseSvc),
		LoadGenresCmd(m.BrowseSvc),
	)
	for _, r := range defaultRails(m.BrowseSvc) {
		if r.Kind == domain.RailContinueWatching {
			if cmd := m.reloadContinuations(); cmd != nil {
				cmds = append(cmds, cmd)
			} else {
				m.Board.SetRail(domain.Rail{Kind: domain.RailContinueWatching, Title: r.Title})
			}
			continue
		}
		cmds = append(cmds, LoadRailCmd(m.BrowseSvc, r.Kind, r.Title, r.GenreID))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleBrowsingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.prevState = m.State
		m.State = StateHelp
	case "s", "/":
		m.prevState = m.State
		m.State = StateSearching
		m.searchTyping = true
		m.SearchInput.Focus()
		m.SearchList.Focus(false)
	case "w":
		if m.ActiveProfile.Tracked() {
			m.prevState = m.State
			m.State = StateWatchlist
			m.WatchList.Focus(true)
			m.WatchList.SetLoading(true)
			return m, LoadWatchlistCmd(m.WatchlistSvc, m.ActiveProfile.Profile.ID)
		}
		return m, m.status("Pick a profile to use the watchlist", true)
	case "u":
		m.State = StateProfiles
		return m, LoadProfilesCmd(m.ProfileSvc, m.AccountID)
	case "r":
		m.BrowseSvc.Refresh()
		return m.enterBrowse()
	case "x":
		rail := m.Board.SelectedRail()
		mv := m.Board.Selected()
		if rail != nil && mv != nil && rail.Kind == domain.RailContinueWatching && m.ActiveProfile.Tracked() {
			return m, RemoveContinuationCmd(m.ContinuationSvc, m.ActiveProfile.Profile.ID, mv.ID)
		}
	case "enter":
		if mv := m.Board.Selected(); mv != nil {
			return m.openDetail(mv.ID)
		}
	case "p":
		if mv := m.Board.Selected(); mv != nil {
			return m.startPlayback(mv.ID)
		}
	default:
		m.Board.Update(msg)
	}
	return m, nil
}

func (m Model) handleSearchingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchTyping {
		switch msg.String() {
		case "esc":
			m.searchTyping = false
			m.SearchInput.Blur()
			m.State = m.prevState
			return m, nil
		case "enter":
			query := m.SearchInput.Value()
			if query == "" {
				return m, nil
			}
			m.searchTyping = false
			m.SearchInput.Blur()
			m.SearchList.Focus(true)
			m.SearchList.SetLoading(true)
			return m, SearchCmd(m.SearchSvc, query)
		default:
			var cmd tea.Cmd
			m.SearchInput, cmd = m.SearchInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.State = StateBrowsing
		m.Board.Focus(true)
		return m, nil
	case "s":
		m.searchTyping = true
		m.SearchInput.Focus()
		m.SearchList.Focus(false)
		return m, nil
	case "enter":
		if m.SearchList.FilterActive() {
			break
		}
		if e := m.SearchList.Selected(); e != nil {
			return m.openDetail(e.Movie.ID)
		}
	case "p":
		if !m.SearchList.FilterActive() {
			if e := m.SearchList.Selected(); e != nil {
				return m.startPlayback(e.Movie.ID)
			}
		}
	case "/":
		if !m.SearchList.FilterActive() {
			m.SearchList.StartFilter()
			return m, nil
		}
	}

	return m, m.SearchList.Update(msg)
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.State = m.prevState
		if m.State == StateBrowsing {
			m.Board.Focus(true)
		}
	case "enter", "p":
		if d := m.Detail.Details(); d != nil {
			return m.startPlayback(d.ID)
		}
	case "w":
		d := m.Detail.Details()
		if d == nil {
			break
		}
		if !m.ActiveProfile.Tracked() {
			return m, m.status("Pick a profile to use the watchlist", true)
		}
		return m, ToggleWatchlistCmd(m.WatchlistSvc, m.ActiveProfile.Profile.ID, d.Movie, m.Detail.OnWatchlist())
	case "?":
		m.prevState = m.State
		m.State = StateHelp
	}
	return m, nil
}

func (m Model) handleWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		if m.WatchList.FilterActive() {
			break
		}
		m.State = StateBrowsing
		m.Board.Focus(true)
		return m, nil
	case "enter":
		if m.WatchList.FilterActive() {
			break
		}
		if e := m.WatchList.Selected(); e != nil {
			return m.openDetail(e.Movie.ID)
		}
	case "p":
		if !m.WatchList.FilterActive() {
			if e := m.WatchList.Selected(); e != nil {
				return m.startPlayback(e.Movie.ID)
			}
		}
	case "x":
		if m.WatchList.FilterActive() {
			break
		}
		if e := m.WatchList.Selected(); e != nil && m.ActiveProfile.Tracked() {
			profileID := m.ActiveProfile.Profile.ID
			return m, tea.Sequence(
				ToggleWatchlistCmd(m.WatchlistSvc, profileID, e.Movie, true),
				LoadWatchlistCmd(m.WatchlistSvc, profileID),
			)
		}
	case "/":
		if !m.WatchList.FilterActive() {
			m.WatchList.StartFilter()
			return m, nil
		}
	}
	return m, m.WatchList.Update(msg)
}

func (m Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Session == nil {
		m.State = StateBrowsing
		return m, nil
	}

	// Any key counts as viewer activity: chrome comes back
	m.Session.Activity()

	switch msg.String() {
	case "q", "esc":
		return m, CloseSessionCmd(m.Session)
	case "ctrl+c":
		m.Session.Close()
		return m, tea.Quit
	case "m":
		m.Session.MarkFinished()
		return m, m.status("Marked as finished", false)
	case "f":
		m.Session.ToggleFullscreen()
	}
	return m, nil
}

// openDetail loads a title's details and switches screens
func (m Model) openDetail(movieID string) (tea.Model, tea.Cmd) {
	m.prevState = m.State
	m.State = StateDetail
	m.Detail.SetLoading(true)

	profileID := ""
	if m.ActiveProfile.Tracked() {
		profileID = m.ActiveProfile.Profile.ID
	}
	return m, LoadDetailsCmd(m.BrowseSvc, m.WatchlistSvc, profileID, movieID)
}

// startPlayback builds a session for the active identity and opens it
func (m Model) startPlayback(movieID string) (tea.Model, tea.Cmd) {
	if m.State != StatePlayer {
		m.prevState = m.State
	}
	m.State = StatePlayer
	m.Session = m.NewSession(m.ActiveProfile)
	return m, OpenSessionCmd(m.Session, movieID)
}

// reloadContinuations refreshes the continue watching rail. Guests have
// no rail to load.
func (m Model) reloadContinuations() tea.Cmd {
	if !m.ActiveProfile.Tracked() {
		m.Board.SetRail(domain.Rail{Kind: domain.RailContinueWatching, Title: "Continue Watching"})
		return nil
	}
	return LoadContinuationsCmd(m.ContinuationSvc, m.ActiveProfile.Profile.ID)
}

// continuationFor finds the loaded row for a title, nil when absent
func (m Model) continuationFor(movieID string) *domain.Continuation {
	for i := range m.continuations {
		if m.continuations[i].MovieID == movieID {
			return &m.continuations[i]
		}
	}
	return nil
}

func (m *Model) status(message string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: message, IsError: isErr}
	}
}

func (m *Model) updateLayout() {
	// One footer line
	bodyHeight := m.Height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	m.Picker.SetSize(m.Width, bodyHeight)
	m.Board.SetSize(m.Width, bodyHeight-1) // One line for the featured banner
	m.SearchList.SetSize(m.Width, bodyHeight-2)
	m.WatchList.SetSize(m.Width, bodyHeight)
	m.Detail.SetSize(m.Width, bodyHeight)
}

// continueWatchingRail projects stored rows into a browse rail, most
// recent first (the store already orders them)
func continueWatchingRail(conts []domain.Continuation) domain.Rail {
	movies := make([]domain.Movie, 0, len(conts))
	for _, c := range conts {
		if c.Completed {
			continue
		}
		movies = append(movies, snapshotMovie(c.Snapshot))
	}
	return domain.Rail{
		Kind:   domain.RailContinueWatching,
		Title:  "Continue Watching",
		Movies: movies,
	}
}

// snapshotMovie rebuilds a displayable title from a stored snapshot
func snapshotMovie(s domain.MovieSnapshot) domain.Movie {
	return domain.Movie{
		ID:           s.ID,
		Title:        s.Title,
		PosterPath:   s.PosterPath,
		BackdropPath: s.BackdropPath,
		ReleaseDate:  s.ReleaseDate,
		Rating:       s.Rating,
	}
}
