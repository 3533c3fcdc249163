package tui

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptlens/promptlens/internal/apiclient"
	"github.com/promptlens/promptlens/internal/session"
	"github.com/promptlens/promptlens/models"
)

// debounceDelay is the quiescent period after the last prompt edit
// before a refine call is dispatched.
const debounceDelay = 500 * time.Millisecond

type screen int

const (
	screenSetup screen = iota
	screenRefine
)

// debounceElapsedMsg fires when a scheduled debounce timer elapses. The
// generation it carries identifies the edit that scheduled it; a stale
// generation means the timer was superseded by a newer edit.
type debounceElapsedMsg struct {
	generation int
}

// refineResultMsg carries the outcome of one dispatched refine call,
// tagged with the generation current at dispatch time. Results for
// superseded generations are discarded, never applied.
type refineResultMsg struct {
	generation  int
	suggestions []models.Suggestion
	err         error
}

// Model is the terminal client: a two-screen state machine gated by the
// session store (setup when unconfigured, refine when ready), plus the
// debounced request pipeline for the refine screen.
type Model struct {
	session   *session.Store
	api       *apiclient.Client
	modelList []models.ModelInfo
	modelIdx  int

	screen screen

	// setup screen
	keyInput string
	setupErr string

	// refine screen
	promptInput string
	generation  int
	loading     bool
	suggestions []models.Suggestion
	errMsg      string
	selected    int
	flash       string

	width int
}

// New builds the initial model. A session that already holds a
// credential starts directly on the refine screen.
func New(sess *session.Store, api *apiclient.Client, modelList []models.ModelInfo) Model {
	m := Model{
		session:   sess,
		api:       api,
		modelList: modelList,
	}
	if sess.Ready() {
		m.screen = screenRefine
	}
	for i, info := range modelList {
		if info.ID == sess.Model() {
			m.modelIdx = i
			break
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.screen == screenSetup {
			return m.updateSetup(msg)
		}
		return m.updateRefine(msg)
	case debounceElapsedMsg:
		return m.onDebounceElapsed(msg)
	case refineResultMsg:
		return m.onRefineResult(msg)
	}
	return m, nil
}

func (m Model) updateSetup(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if err := m.session.SetCredential(m.keyInput); err != nil {
			// invalid input keeps the setup screen, with the
			// specific problem shown inline
			m.setupErr = err.Error()
			return m, nil
		}
		m.setupErr = ""
		m.keyInput = ""
		m.screen = screenRefine
		return m, nil
	case tea.KeyBackspace:
		m.keyInput = trimLastRune(m.keyInput)
		return m, nil
	case tea.KeySpace:
		m.keyInput += " "
		return m, nil
	case tea.KeyRunes:
		m.keyInput += string(k.Runes)
		return m, nil
	}
	return m, nil
}

func (m Model) updateRefine(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlR:
		// forget the credential and fall back to setup
		if err := m.session.Reset(); err != nil {
			log.Printf("session reset: %v", err)
		}
		m.promptInput = ""
		m.generation++
		m.suggestions = nil
		m.errMsg = ""
		m.loading = false
		m.flash = ""
		m.screen = screenSetup
		return m, nil
	case tea.KeyCtrlY:
		return m.copySelected()
	case tea.KeyTab:
		return m.cycleModel()
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case tea.KeyDown:
		if m.selected < len(m.suggestions)-1 {
			m.selected++
		}
		return m, nil
	case tea.KeyBackspace:
		m.promptInput = trimLastRune(m.promptInput)
		return m.onPromptChanged()
	case tea.KeySpace:
		m.promptInput += " "
		return m.onPromptChanged()
	case tea.KeyRunes:
		m.promptInput += string(k.Runes)
		return m.onPromptChanged()
	}
	return m, nil
}

// onPromptChanged implements the trailing-edge debounce: every edit
// advances the generation, which both invalidates any pending timer and
// marks in-flight responses as stale.
func (m Model) onPromptChanged() (tea.Model, tea.Cmd) {
	m.generation++
	m.flash = ""

	if strings.TrimSpace(m.promptInput) == "" {
		// no call for blank input; clear results immediately
		m.suggestions = nil
		m.errMsg = ""
		m.loading = false
		m.selected = 0
		return m, nil
	}

	gen := m.generation
	return m, tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceElapsedMsg{generation: gen}
	})
}

func (m Model) onDebounceElapsed(msg debounceElapsedMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation {
		// a newer edit superseded this timer
		return m, nil
	}
	prompt := m.promptInput
	if strings.TrimSpace(prompt) == "" {
		return m, nil
	}

	m.loading = true
	gen := m.generation
	apiKey := m.session.Credential()
	modelID := m.currentModelID()
	api := m.api
	return m, func() tea.Msg {
		suggestions, err := api.Refine(context.Background(), prompt, apiKey, modelID)
		return refineResultMsg{generation: gen, suggestions: suggestions, err: err}
	}
}

func (m Model) onRefineResult(msg refineResultMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation {
		// response for a superseded prompt; never applied
		return m, nil
	}

	m.loading = false
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		m.suggestions = nil
	} else {
		m.errMsg = ""
		m.suggestions = msg.suggestions
	}
	m.selected = 0
	return m, nil
}

// copySelected writes the selected refined text to the clipboard. It
// touches no other state; clipboard failures are logged and swallowed.
func (m Model) copySelected() (tea.Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.suggestions) {
		return m, nil
	}
	text := m.suggestions[m.selected].Refined
	m.flash = "Copied to clipboard"
	return m, func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			log.Printf("clipboard: %v", err)
		}
		return nil
	}
}

func (m Model) cycleModel() (tea.Model, tea.Cmd) {
	if len(m.modelList) == 0 {
		return m, nil
	}
	m.modelIdx = (m.modelIdx + 1) % len(m.modelList)
	if err := m.session.SetModel(m.modelList[m.modelIdx].ID); err != nil {
		log.Printf("session model: %v", err)
	}
	return m, nil
}

// currentModelID returns the selected model or empty, in which case the
// server applies its configured default.
func (m Model) currentModelID() string {
	if len(m.modelList) == 0 {
		return m.session.Model()
	}
	return m.modelList[m.modelIdx].ID
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}
