// Package inspector is a terminal front end for an Engine: it lists the scene's atoms with their resolved
// colours and styles and drives selection, labels, rotation and animation from the keyboard.
package inspector

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine"
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/scene"

	tea "github.com/charmbracelet/bubbletea"
)

// RefreshInterval is how often the view re-reads the scene while idle, so animation frames and
// rotation show up without input.
const RefreshInterval = 250 * time.Millisecond

// Model is the root BubbleTea model of the inspector.
type Model struct {
	eng   engine.Engine
	title string

	// Data
	snap     scene.Snapshot
	atoms    map[int]molecule.Atom
	selected map[int]bool

	// UI state
	cursor int
	width  int
	height int

	// Status
	statusMsg string
	err       error
}

// NewModel creates an inspector for eng.
//
// Parameters:
//   - eng: the engine whose scene is inspected
//   - title: shown in the header, usually the scene file path
//
// Returns:
//   - Model: the model
func NewModel(eng engine.Engine, title string) Model {
	m := Model{eng: eng, title: title}
	return m.sync()
}

// SelectionChangedMsg reports a selection change made outside the inspector, e.g. by a websocket client.
type SelectionChangedMsg []int

// ErrMsg reports a failed pass.
type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.sync(), tick()

	case SelectionChangedMsg:
		m = m.sync()
		m.statusMsg = fmt.Sprintf("%d selected", len(msg))
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		return m, nil
	}
	return m, nil
}

// handleKey maps keys onto cursor movement, atom clicks and the engine's shortcuts.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.snap.Atoms)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "g", "home":
		m.cursor = 0
		return m, nil

	case "G", "end":
		m.cursor = max(len(m.snap.Atoms)-1, 0)
		return m, nil

	case "enter", " ":
		if m.cursor >= len(m.snap.Atoms) {
			return m, nil
		}
		serial := m.snap.Atoms[m.cursor].Serial
		if err := m.eng.Session().Click(serial); err != nil {
			m.err = err
			m.statusMsg = fmt.Sprintf("Error: %v", err)
		} else {
			m.err = nil
			m.statusMsg = fmt.Sprintf("clicked atom %d", serial)
		}
		return m.sync(), nil
	}

	if code, ok := shortcuts[key]; ok {
		m.eng.HandleKey(code)
		m.err = nil
		m.statusMsg = ""
		return m.sync(), nil
	}
	return m, nil
}

// shortcuts maps terminal keys onto the preview's key codes.
var shortcuts = map[string]uint32{
	"r": common.KeyR,
	"l": common.KeyL,
	"a": common.KeyA,
	"c": common.KeyC,
	"f": common.KeyF,
	"1": common.Key1,
	"2": common.Key2,
	"3": common.Key3,
}

// sync re-reads the scene, the model and the selection.
func (m Model) sync() Model {
	m.snap = m.eng.Scene().Snapshot()

	props := m.eng.Props()
	m.atoms = make(map[int]molecule.Atom)
	if props.ModelData != nil {
		for _, a := range props.ModelData.Atoms {
			m.atoms[a.Serial] = a
		}
	}

	ids := m.eng.Session().Selected()
	m.selected = make(map[int]bool, len(ids))
	for _, id := range ids {
		m.selected[id] = true
	}

	if m.cursor >= len(m.snap.Atoms) {
		m.cursor = max(len(m.snap.Atoms)-1, 0)
	}
	return m
}
