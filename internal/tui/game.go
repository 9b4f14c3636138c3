package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/thermoscan/internal/game"
	"github.com/san-kum/thermoscan/internal/storage"
	"github.com/san-kum/thermoscan/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var sizeInfo = map[int]string{
	3:  "quick",
	5:  "medium",
	8:  "large",
	10: "slow to build",
}

type state int

const (
	stateMenu state = iota
	stateBuilding
	statePlay
	stateDone
)

// Options configures the game UI. Size 0 starts at the size menu.
type Options struct {
	Size       int
	EngineOpts []game.Option
	Store      *storage.Store
	Gain       float64
}

type model struct {
	state state
	opts  Options

	sizes  []int
	cursor int

	session *game.Session
	row     int
	col     int
	hint    int
	message string
	msgErr  bool
	savedID string

	copy func(string) error

	width  int
	height int
}

type engineMsg struct {
	session *game.Session
	err     error
}

type copiedMsg struct{ err error }

type savedMsg struct {
	id  string
	err error
}

func NewGame(opts Options) *model {
	sizes := make([]int, 0, game.MaxSize-game.MinSize+1)
	for s := game.MinSize; s <= game.MaxSize; s++ {
		sizes = append(sizes, s)
	}
	m := &model{
		state:  stateMenu,
		opts:   opts,
		sizes:  sizes,
		copy:   clipboard.WriteAll,
		width:  80,
		height: 24,
	}
	if opts.Size != 0 {
		m.state = stateBuilding
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.state == stateBuilding {
		return buildEngine(m.opts.Size, m.opts.EngineOpts)
	}
	return nil
}

func buildEngine(size int, opts []game.Option) tea.Cmd {
	return func() tea.Msg {
		s, err := game.New(size, opts...)
		return engineMsg{session: s, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case engineMsg:
		if msg.err != nil {
			m.state = stateMenu
			m.setError(msg.err.Error())
			return m, nil
		}
		m.session = msg.session
		m.state = statePlay
		m.row, m.col, m.hint = 0, 0, 0
		m.message = fmt.Sprintf("%d islands to scan", len(m.session.UnscannedIslands()))
		m.msgErr = false
	case copiedMsg:
		if msg.err != nil {
			m.setError("clipboard: " + msg.err.Error())
		} else {
			m.message = "scan order copied"
			m.msgErr = false
		}
	case savedMsg:
		if msg.err != nil {
			m.setError("save: " + msg.err.Error())
		} else {
			m.savedID = msg.id
		}
	}
	return m, nil
}

func (m *model) setError(s string) {
	m.message = s
	m.msgErr = true
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case statePlay:
		return m.playKey(msg)
	case stateDone:
		return m.doneKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sizes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.state = stateBuilding
		m.message = ""
		return m, buildEngine(m.sizes[m.cursor], m.opts.EngineOpts)
	}
	return m, nil
}

func (m model) playKey(msg tea.KeyMsg) (model, tea.Cmd) {
	size := m.session.Engine().Size()
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		m.session = nil
		return m, tea.ClearScreen
	case "up", "k":
		m.row = max(m.row-1, 0)
	case "down", "j":
		m.row = min(m.row+1, size-1)
	case "left", "h":
		m.col = max(m.col-1, 0)
	case "right", "l":
		m.col = min(m.col+1, size-1)
	case "t":
		viz.NextTheme()
	case "s":
		island, err := m.session.Suggest()
		if err != nil {
			m.setError(err.Error())
			break
		}
		m.hint = island
		m.message = fmt.Sprintf("expert would scan %d", island)
		m.msgErr = false
	case "c":
		return m, m.copyOrder()
	case "enter", " ":
		return m.scan(m.row*size + m.col + 1)
	}
	return m, nil
}

func (m model) doneKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "c":
		return m, m.copyOrder()
	case "n", "enter":
		m.state = stateMenu
		m.session = nil
		m.savedID = ""
		m.message = ""
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m model) scan(island int) (model, tea.Cmd) {
	res, err := m.session.MakeMove(island)
	if err != nil {
		m.setError(res.Message)
		return m, nil
	}
	m.hint = 0
	m.msgErr = false
	m.message = fmt.Sprintf("scanned %d, expert scanned %d", res.PlayerIsland, res.ExpertIsland)
	if !m.session.IsComplete() {
		return m, nil
	}
	m.state = stateDone
	return m, m.save()
}

func (m model) copyOrder() tea.Cmd {
	order := scanOrder(m.session.GameState().PlayerMoves)
	write := m.copy
	return func() tea.Msg {
		return copiedMsg{err: write(order)}
	}
}

func (m model) save() tea.Cmd {
	store := m.opts.Store
	if store == nil {
		return nil
	}
	snap := m.session.GameState()
	meta := storage.RunMetadata{
		Size:      snap.GameSize,
		Influence: m.session.Engine().Model().Influence(),
		Gain:      m.opts.Gain,
		Policy:    "tui",
	}
	if acc, err := m.session.FinalAccuracy(); err == nil {
		meta.Accuracy = acc
		meta.Scored = true
	}
	return func() tea.Msg {
		id, err := store.Save(meta, storage.MovesFromSnapshot(snap))
		return savedMsg{id: id, err: err}
	}
}

func scanOrder(moves []int) string {
	parts := make([]string, len(moves))
	for i, v := range moves {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func RunGame(opts Options) error {
	p := tea.NewProgram(NewGame(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
