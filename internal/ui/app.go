package ui

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/notify"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/userapi"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewProfile
	ViewEdit
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Notifier  *notify.Notifier
	ThemeName string
	UserID    int64 // profile shown first; zero opens the list
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Dependencies
	ctx       context.Context
	store     *state.Store
	notifier  *notify.Notifier
	prefsPath string
	logger    *slog.Logger

	storeCh  <-chan struct{}
	toastCh  <-chan struct{}
	unsubscr []func()

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// Data state
	snapshot state.Snapshot
	toast    notify.State

	// List state
	selectedRow int

	// Profile state
	profileID       int64
	profileFetched  map[int64]bool // FetchUser finished at least once
	profileViewport viewport.Model

	// Edit state
	form   editForm
	saving bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.New(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:            ctx,
		store:          opts.Store,
		notifier:       notifier,
		prefsPath:      prefsPath,
		logger:         logger.With("component", "ui"),
		keys:           DefaultKeyMap(),
		theme:          GetTheme(opts.ThemeName),
		currentView:    ViewList,
		spinner:        sp,
		profileFetched: make(map[int64]bool),
	}

	storeCh, unsubStore := m.store.Subscribe()
	toastCh, unsubToast := notifier.Subscribe()
	m.storeCh, m.toastCh = storeCh, toastCh
	m.unsubscr = []func(){unsubStore, unsubToast}
	m.snapshot = m.store.Snapshot()
	m.toast = notifier.Snapshot()

	if opts.UserID > 0 {
		m.currentView = ViewProfile
		m.profileID = opts.UserID
	}
	return m
}

// Close drops the store and notifier subscriptions.
func (m Model) Close() {
	for _, fn := range m.unsubscr {
		fn()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		waitForSignal(m.storeCh, storeChangedMsg{}),
		waitForSignal(m.toastCh, toastChangedMsg{}),
		fetchAllCmd(m.ctx, m.store),
	}
	if m.currentView == ViewProfile {
		if _, ok := m.store.UserByID(m.profileID); !ok {
			cmds = append(cmds, fetchUserCmd(m.ctx, m.store, m.profileID))
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.profileViewport = viewport.New(msg.Width, contentHeight(msg.Height))
		}
		m.ready = true
		m.profileViewport.Width = msg.Width
		m.profileViewport.Height = contentHeight(msg.Height)
		m.updateProfileViewport()
		return m, nil

	case storeChangedMsg:
		m.snapshot = m.store.Snapshot()
		m.clampSelection()
		m.updateProfileViewport()
		return m, waitForSignal(m.storeCh, storeChangedMsg{})

	case toastChangedMsg:
		m.toast = m.notifier.Snapshot()
		return m, waitForSignal(m.toastCh, toastChangedMsg{})

	case userFetchedMsg:
		m.profileFetched[msg.id] = true
		m.updateProfileViewport()
		return m, nil

	case userSavedMsg:
		return m.handleSaved(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.currentView == ViewEdit {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.currentView == ViewEdit {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateProfileViewport()
		return m, nil
	case key.Matches(msg, m.keys.RefreshAll):
		return m, fetchAllCmd(m.ctx, m.store)
	}

	switch m.currentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

// handleListKey processes keyboard input for the user list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Users)
	if count == 0 {
		return m, nil
	}
	page := contentHeight(m.height) - 1

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selectedRow = min(count-1, m.selectedRow+page)
	case key.Matches(msg, m.keys.PageUp):
		m.selectedRow = max(0, m.selectedRow-page)
	case key.Matches(msg, m.keys.Open):
		return m.openProfile(m.snapshot.Users[m.selectedRow].ID)
	}
	return m, nil
}

// handleProfileKey processes keyboard input for the profile page.
func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewList
		m.selectRow(m.profileID)
		return m, nil
	case key.Matches(msg, m.keys.Refetch):
		return m, fetchUserCmd(m.ctx, m.store, m.profileID)
	case key.Matches(msg, m.keys.Edit):
		user, ok := m.store.UserByID(m.profileID)
		if !ok {
			return m, nil
		}
		m.form = newEditForm(user)
		m.saving = false
		m.currentView = ViewEdit
		return m, nil
	}

	var cmd tea.Cmd
	m.profileViewport, cmd = m.profileViewport.Update(msg)
	return m, cmd
}

// handleEditKey processes keyboard input for the edit form. Only ctrl+c
// quits here since every printable key goes to the focused input.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.currentView = ViewProfile
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.next()
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.prev()
	case key.Matches(msg, m.keys.Save):
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// submitForm validates the form and starts the update. Invalid input keeps
// the form open.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if !m.form.dirty() {
		m.currentView = ViewProfile
		return m, nil
	}
	if err := m.form.validate(); err != nil {
		m.notifier.ShowError(validationMessage(err))
		return m, nil
	}
	m.saving = true
	return m, saveUserCmd(m.ctx, m.store, m.form.userID(), m.form.patch())
}

func (m Model) handleSaved(msg userSavedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		// The form stays open so the edit is not lost.
		m.notifier.ShowError(state.MsgUpdateFailed)
		return m, nil
	}
	m.notifier.Show("Profile updated")
	if m.currentView == ViewEdit {
		m.currentView = ViewProfile
	}
	m.profileID = msg.user.ID
	m.updateProfileViewport()
	return m, nil
}

// openProfile switches to the profile page for id, fetching it when the
// cache does not have it.
func (m Model) openProfile(id int64) (tea.Model, tea.Cmd) {
	m.currentView = ViewProfile
	m.profileID = id
	m.profileViewport.GotoTop()
	m.updateProfileViewport()
	m.savePrefs()
	if _, ok := m.store.UserByID(id); ok {
		return m, nil
	}
	return m, fetchUserCmd(m.ctx, m.store, id)
}

func (m *Model) selectRow(id int64) {
	for i, u := range m.snapshot.Users {
		if u.ID == id {
			m.selectedRow = i
			return
		}
	}
}

func (m *Model) clampSelection() {
	if n := len(m.snapshot.Users); m.selectedRow >= n {
		m.selectedRow = max(0, n-1)
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastUserID: m.profileID}
	if p.LastUserID <= 0 {
		p.LastUserID = 1
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", logging.Err(err))
	}
}

// Messages

type storeChangedMsg struct{}

type toastChangedMsg struct{}

type userFetchedMsg struct {
	id int64
	ok bool
}

type userSavedMsg struct {
	user userapi.User
	err  error
}

// Commands

func waitForSignal(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return msg
	}
}

func fetchAllCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		store.FetchAllUsers(ctx)
		return nil
	}
}

func fetchUserCmd(ctx context.Context, store *state.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		_, ok := store.FetchUser(ctx, id)
		return userFetchedMsg{id: id, ok: ok}
	}
}

func saveUserCmd(ctx context.Context, store *state.Store, id int64, patch userapi.Patch) tea.Cmd {
	return func() tea.Msg {
		user, err := store.UpdateUser(ctx, id, patch)
		return userSavedMsg{user: user, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(m, programOpts...).Run()
	return err
}
