// Package gridtui is the terminal front end of taskdeck: a bubbletea model
// that renders the active dataset as a grid and routes keys to the cursor,
// the cell editor and the commit pipeline.
package gridtui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tOgg1/taskdeck/internal/grid"
	"github.com/tOgg1/taskdeck/internal/gridtui/styles"
	"github.com/tOgg1/taskdeck/internal/logging"
	"github.com/tOgg1/taskdeck/internal/models"
)

const (
	statusTTL    = 5 * time.Second
	tickInterval = time.Second
)

// Config wires the model to its collaborators.
type Config struct {
	// Store executes fetches and mutations.
	Store grid.Store
	// Cache is shared with the background refresh loops.
	Cache *grid.Cache
	// Updates delivers background snapshots. Optional.
	Updates grid.UpdateSource
	// Theme is the starting palette name.
	Theme string
	// Context bounds every store call made by the UI.
	Context context.Context
}

type focusArea int

const (
	focusGrid focusArea = iota
	focusHeader
)

type mode int

const (
	modeNormal mode = iota
	modeEditing
)

type headerControl int

const (
	controlSearch headerControl = iota
	controlToggle
	headerControlCount
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusError
)

type status struct {
	kind    statusKind
	text    string
	expires time.Time
}

// Model is the bubbletea model of the task grid.
type Model struct {
	ctx     context.Context
	store   grid.Store
	cache   *grid.Cache
	updates grid.UpdateSource
	logger  zerolog.Logger
	now     func() time.Time

	active   models.Kind
	datasets map[models.Kind]grid.Snapshot
	cursor   grid.Cursor
	focus    focusArea
	mode     mode
	control  headerControl
	session  *editSession

	inflight int
	status   status

	palette styles.Palette
	styles  styles.Styles
	keys    keyMap
	help    help.Model

	width     int
	height    int
	rowOffset int
	colOffset int
}

// NewModel creates the grid model. Datasets start from whatever the cache holds.
func NewModel(cfg Config) (*Model, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Cache == nil {
		return nil, errors.New("cache is required")
	}
	theme := cfg.Theme
	if theme == "" {
		theme = styles.DefaultPalette
	}
	if !styles.ValidPalette(theme) {
		return nil, fmt.Errorf("invalid theme %q", cfg.Theme)
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	palette := styles.ResolvePalette(theme)
	m := &Model{
		ctx:      ctx,
		store:    cfg.Store,
		cache:    cfg.Cache,
		updates:  cfg.Updates,
		logger:   logging.Component("gridtui"),
		now:      time.Now,
		active:   models.KindPrimary,
		datasets: make(map[models.Kind]grid.Snapshot, len(models.Kinds)),
		cursor:   grid.NewCursor(),
		palette:  palette,
		styles:   styles.NewStyles(palette),
		keys:     defaultKeyMap(),
		help:     help.New(),
	}

	filter := cfg.Cache.Filter()
	for _, kind := range models.Kinds {
		snap, ok := cfg.Cache.Snapshot(kind)
		if !ok || snap.Filter != filter {
			snap = grid.Snapshot{Kind: kind, Filter: filter}
		}
		m.datasets[kind] = snap
	}
	m.cursor.Clamp(m.rows().Len(), m.schema().ColumnCount())
	return m, nil
}

// Run starts the full-screen program and blocks until the user quits or ctx ends.
func Run(cfg Config) error {
	model, err := NewModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && model.ctx.Err() != nil {
		return nil
	}
	return err
}

// Init arms the background snapshot receivers and the status clock.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.updates != nil {
		for _, kind := range models.Kinds {
			cmds = append(cmds, waitForSnapshot(m.updates, kind))
		}
	}
	return tea.Batch(cmds...)
}

type snapshotMsg struct {
	snap grid.Snapshot
}

type tickMsg time.Time

// waitForSnapshot receives exactly one background snapshot of kind. The
// handler re-arms it, so at most one snapshot per channel is in flight.
func waitForSnapshot(source grid.UpdateSource, kind models.Kind) tea.Cmd {
	if source == nil {
		return nil
	}
	ch := source.Updates(kind)
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update is the focus/mode state machine.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil
	case tickMsg:
		if !m.status.expires.IsZero() && m.now().After(m.status.expires) {
			m.status = status{}
		}
		return m, tickCmd()
	case snapshotMsg:
		m.applyBackground(msg.snap)
		return m, waitForSnapshot(m.updates, msg.snap.Kind)
	case fetchResultMsg:
		m.applyFetch(msg)
		return m, nil
	case mutationResultMsg:
		return m, m.applyMutation(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) schema() *models.Schema {
	return models.SchemaFor(m.active)
}

func (m *Model) rows() grid.Snapshot {
	return m.datasets[m.active]
}

func (m *Model) selectedRecord() (models.Record, bool) {
	snap := m.rows()
	if !m.cursor.Selected() || m.cursor.Row >= snap.Len() {
		return nil, false
	}
	return snap.Rows[m.cursor.Row], true
}

// replace swaps in a new snapshot and re-establishes the cursor invariants.
func (m *Model) replace(snap grid.Snapshot) {
	m.datasets[snap.Kind] = snap
	if snap.Kind == m.active {
		m.cursor.Clamp(snap.Len(), m.schema().ColumnCount())
		m.ensureVisible()
	}
}

func (m *Model) applyBackground(snap grid.Snapshot) {
	if snap.Filter != m.cache.Filter() {
		return
	}
	if current := m.datasets[snap.Kind]; snap.FetchedAt.Before(current.FetchedAt) {
		return
	}
	m.replace(snap)
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.status = status{kind: kind, text: text, expires: m.now().Add(statusTTL)}
}
