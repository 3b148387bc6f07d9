package tui

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/shlex"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/usecase"
)

type screen int

const (
	screenHome screen = iota
	screenCardSets
	screenPlayers
	screenLedger
)

// outputLimit bounds the console scrollback kept in memory.
const outputLimit = 500

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type cardSetItem struct {
	ref domain.CardSetRef
	rel string
}

func (c cardSetItem) Title() string       { return c.ref.Name }
func (c cardSetItem) Description() string { return c.rel }
func (c cardSetItem) FilterValue() string { return c.ref.Name }

const (
	menuContinue = "Continue session"
	menuNew      = "New session"
	menuInit     = "Init workspace here"
	menuQuit     = "Quit"
)

type model struct {
	theme Theme
	deps  Deps
	log   *slog.Logger

	scr      screen
	menu     list.Model
	cardSets list.Model
	input    textinput.Model

	width  int
	height int

	workspaceFound bool
	workspaceRoot  string

	chosen domain.CardSetRef
	ws     *workspace
	sess   *usecase.Session

	output  []string
	history []string
	histPos int

	running bool
	toast   string

	// One save runs at a time; later changes wait in pending, newest wins.
	saving  bool
	pending *pendingSave
}

type pendingSave struct {
	ws   *workspace
	snap domain.SessionSnapshot
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, m.log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	items := []list.Item{
		menuItem{menuContinue, "Reopen the most recently saved session"},
		menuItem{menuNew, "Pick a card set and seat the players"},
		menuItem{menuInit, "Create monoledger.yaml, cardsets/ and sessions/ in this directory"},
		menuItem{menuQuit, "Exit monoledger"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "monoledger"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	cs := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	cs.Title = "Card sets"
	cs.SetShowStatusBar(false)
	cs.SetShowHelp(false)

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 256

	m := model{
		theme:    t,
		deps:     deps,
		log:      log,
		scr:      screenHome,
		menu:     l,
		cardSets: cs,
		input:    in,
	}

	wd, err := os.Getwd()
	if err == nil && deps.WorkspaceLocator != nil {
		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr == nil {
			m.workspaceFound = true
			m.workspaceRoot = root
		}
	}

	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		m.cardSets.SetSize(msg.Width-4, msg.Height-10)
		m.input.Width = max(10, msg.Width-10)
		return m, nil

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		m.running = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace ready at " + msg.root
		return m, cmdRefreshWorkspace(m.deps)

	case cardSetsLoadedMsg:
		m.running = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		if len(msg.refs) == 0 {
			m.toast = "No card sets in this workspace"
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			rel, err := filepath.Rel(msg.root, r.Path)
			if err != nil {
				rel = r.Path
			}
			items = append(items, cardSetItem{ref: r, rel: rel})
		}
		m.cardSets.SetItems(items)
		m.scr = screenCardSets
		m.toast = ""
		return m, nil

	case sessionOpenedMsg:
		m.running = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		return m.enterLedger(msg.ws, msg.sess), textinput.Blink

	case sessionSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.toast = "Save failed: " + userMessage(msg.err)
		} else {
			m.toast = ""
		}
		if next := m.pending; next != nil {
			m.pending = nil
			return m.save(next.ws, next.snap)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.scr {
		case screenHome:
			return m.updateHome(msg)
		case screenCardSets:
			return m.updateCardSets(msg)
		case screenPlayers:
			return m.updatePlayers(msg)
		case screenLedger:
			return m.updateLedger(msg)
		}
	}

	return m.forward(msg)
}

// forward hands msg to the widget that owns the current screen.
func (m model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenCardSets:
		m.cardSets, cmd = m.cardSets.Update(msg)
	case screenPlayers, screenLedger:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
	default:
		return m.forward(msg)
	}

	it, ok := m.menu.SelectedItem().(menuItem)
	if !ok || m.running {
		return m, nil
	}

	switch it.title {
	case menuQuit:
		return m, tea.Quit

	case menuInit:
		wd, err := os.Getwd()
		if err != nil {
			m.toast = userMessage(err)
			return m, nil
		}
		m.running = true
		return m, cmdInitWorkspaceHere(m.deps, wd)
	}

	if !m.workspaceFound {
		m.toast = "No workspace found (choose " + menuInit + ")"
		return m, nil
	}

	m.running = true
	if it.title == menuContinue {
		return m, cmdOpenLatestSession(m.workspaceRoot, m.log)
	}
	return m, cmdLoadCardSets(m.workspaceRoot, m.log)
}

func (m model) updateCardSets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.cardSets.FilterState() == list.Filtering {
			return m.forward(msg)
		}
		m.scr = screenHome
		return m, nil

	case "enter":
		if m.cardSets.FilterState() == list.Filtering {
			return m.forward(msg)
		}
		it, ok := m.cardSets.SelectedItem().(cardSetItem)
		if !ok {
			return m, nil
		}
		m.chosen = it.ref
		m.scr = screenPlayers
		m.input.Reset()
		m.input.Placeholder = "Ann Bob 'Mary Ann'"
		m.input.Focus()
		return m, textinput.Blink
	}
	return m.forward(msg)
}

func (m model) updatePlayers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.scr = screenCardSets
		return m, nil

	case "enter":
		if m.running {
			return m, nil
		}
		names, err := shlex.Split(m.input.Value())
		if err != nil {
			m.toast = "Unbalanced quotes in player names"
			return m, nil
		}
		m.running = true
		m.toast = ""
		return m, cmdStartSession(m.workspaceRoot, m.chosen, names, m.log)
	}
	return m.forward(msg)
}

func (m model) updateLedger(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.scr = screenHome
		return m, nil

	case "up":
		if m.histPos > 0 {
			m.histPos--
			m.input.SetValue(m.history[m.histPos])
			m.input.CursorEnd()
		}
		return m, nil

	case "down":
		if m.histPos < len(m.history)-1 {
			m.histPos++
			m.input.SetValue(m.history[m.histPos])
			m.input.CursorEnd()
		} else {
			m.histPos = len(m.history)
			m.input.Reset()
		}
		return m, nil

	case "enter":
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		if line == "quit" || line == "exit" {
			m.input.Blur()
			m.scr = screenHome
			return m, nil
		}
		if line == "clear" {
			m.output = nil
			return m, nil
		}
		return m.execute(line)
	}
	return m.forward(msg)
}

// execute runs one console line and saves the session when it changed.
func (m model) execute(line string) (tea.Model, tea.Cmd) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
	m.histPos = len(m.history)

	var buf bytes.Buffer
	res, err := m.sess.Console.Execute(line, &buf)

	m.appendOutput(m.theme.Prompt.Render("> ") + line)
	for _, l := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if l == "" {
			continue
		}
		if strings.HasPrefix(l, "warning:") {
			l = m.theme.Warning.Render(l)
		}
		m.appendOutput(l)
	}
	if err != nil {
		m.appendOutput(m.theme.Negative.Render("error: " + userMessage(err)))
		return m, nil
	}

	if res.Mutated {
		return m.save(m.ws, m.sess.Snapshot())
	}
	return m, nil
}

// save starts a snapshot save, or queues it behind the one in flight.
func (m model) save(ws *workspace, snap domain.SessionSnapshot) (model, tea.Cmd) {
	if m.saving {
		m.pending = &pendingSave{ws: ws, snap: snap}
		return m, nil
	}
	m.saving = true
	return m, cmdSaveSession(ws, snap)
}

func (m *model) appendOutput(line string) {
	m.output = append(m.output, line)
	if over := len(m.output) - outputLimit; over > 0 {
		m.output = append(m.output[:0:0], m.output[over:]...)
	}
}

func (m model) enterLedger(ws *workspace, sess *usecase.Session) model {
	m.ws = ws
	m.sess = sess
	m.scr = screenLedger
	m.toast = ""
	m.output = []string{m.theme.Help.Render(fmt.Sprintf("session %s (%s)", sess.ID, sess.CardSet))}
	m.history = nil
	m.histPos = 0
	m.input.Reset()
	m.input.Placeholder = "buy Ann Boardwalk (help lists commands)"
	m.input.Focus()
	return m
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("monoledger") + "\n" +
		m.theme.Subtitle.Render("bookkeeping for a Monopoly table: money, deeds, houses and rent") + "\n"

	var workspaceBanner string
	if m.workspaceFound {
		workspaceBanner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		workspaceBanner = m.theme.Card.Render(
			"⚠ No workspace found.\n\nCreate one with " + menuInit + ".",
		)
	}

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Warning.Render(m.toast)
	}
	if m.running {
		toast = "\n" + m.theme.Help.Render("working…")
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • q quit")
		return wrap.Render(header + "\n" + workspaceBanner + "\n\n" + m.theme.Card.Render(m.menu.View()) + toast + "\n" + help)

	case screenCardSets:
		help := m.theme.Help.Render("↑/↓ navigate • enter choose • / search • esc back")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.cardSets.View()) + toast + "\n" + help)

	case screenPlayers:
		card := m.theme.Card.Render(
			m.theme.Title.Render("Players for "+m.chosen.Name) + "\n\n" +
				"Names separated by spaces; quote names with spaces.\n\n" +
				m.input.View(),
		)
		help := m.theme.Help.Render("enter start • esc back")
		return wrap.Render(header + "\n" + card + toast + "\n" + help)

	case screenLedger:
		return wrap.Render(m.ledgerView() + toast)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}

func (m model) ledgerView() string {
	l := m.sess.Ledger

	title := m.theme.Title.Render("monoledger") + " " +
		m.theme.Subtitle.Render(fmt.Sprintf("%s • session %s", m.sess.CardSet, clampString(m.sess.ID, 8)))

	propLines := max(6, m.height/2-6)
	players := m.theme.Panel.Render(m.theme.Title.Render("Players") + "\n" + renderPlayers(m.theme, l))
	props := m.theme.Panel.Render(m.theme.Title.Render("Deeds") + "\n" + renderProperties(m.theme, l, propLines))
	panels := lipgloss.JoinHorizontal(lipgloss.Top, players, " ", props)

	outLines := max(5, m.height-lipgloss.Height(panels)-8)
	output := strings.Join(tail(m.output, outLines), "\n")

	help := m.theme.Help.Render("enter run • ↑/↓ history • esc menu • ctrl+c quit")
	return title + "\n\n" + panels + "\n\n" + output + "\n\n" + m.input.View() + "\n" + help
}
