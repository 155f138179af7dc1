package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	"github.com/KaramelBytes/classmate-cli/internal/parser"
	"github.com/KaramelBytes/classmate-cli/internal/pubsub"
	"github.com/KaramelBytes/classmate-cli/internal/utils"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

type focus int

const (
	focusClasses focus = iota
	focusDocuments
	focusChat
	focusCount
)

type mode int

const (
	modeNormal mode = iota
	modeAddClass
	modeUpload
)

// chatDoneMsg reports a finished round-trip.
type chatDoneMsg struct {
	ex  workspace.Exchange
	err error
}

// Options tune the terminal UI.
type Options struct {
	ChatTimeout time.Duration
	Logger      *zap.SugaredLogger
}

// Model is the three-panel terminal UI: classes, documents of the active
// class, and the chat transcript with its input.
type Model struct {
	ws      *workspace.Workspace
	runtime ai.Runtime
	opts    Options
	log     *zap.SugaredLogger

	events <-chan pubsub.Event[workspace.Change]
	cancel context.CancelFunc

	focus       focus
	mode        mode
	classCursor int
	docCursor   int

	classes  []string
	active   string
	docs     []workspace.Document
	messages []workspace.ChatMessage

	input       textarea.Model
	classPrompt textinput.Model
	upload      uploadDialog
	chat        viewport.Model
	spinner     spinner.Model
	renderer    *messageRenderer

	pending int
	status  string
	width   int
	height  int
}

// New builds the model and subscribes it to workspace events.
func New(ws *workspace.Workspace, rt ai.Runtime, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(context.Background())

	ta := textarea.New()
	ta.Placeholder = "Ask about this class..."
	ta.Prompt = "> "
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		ws:          ws,
		runtime:     rt,
		opts:        opts,
		log:         log,
		events:      ws.Subscribe(ctx),
		cancel:      cancel,
		input:       ta,
		classPrompt: newClassPrompt(),
		upload:      newUploadDialog(),
		chat:        viewport.New(40, 10),
		spinner:     sp,
		renderer:    newMessageRenderer(),
		status:      "Ready",
	}
	m.refresh()
	for i, c := range m.classes {
		if c == m.active {
			m.classCursor = i
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForEvent())
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ev
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case pubsub.Event[workspace.Change]:
		m.refresh()
		return m, m.waitForEvent()

	case chatDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		switch {
		case msg.err != nil:
			m.status = "✗ " + msg.err.Error()
		case msg.ex.Err != nil:
			m.status = "✗ " + msg.ex.Err.Error()
			if hint := ai.Hint(msg.ex.Err); hint != "" {
				m.status += " (" + hint + ")"
			}
		default:
			m.status = fmt.Sprintf("✓ Reply in %s (%d tokens)", msg.ex.Elapsed.Round(time.Millisecond), msg.ex.Usage.TotalTokens)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancel()
			return m, tea.Quit
		}
		switch m.mode {
		case modeAddClass:
			return m.updateAddClass(msg)
		case modeUpload:
			return m.updateUpload(msg)
		}
		return m.updateNormal(msg)
	}

	var cmd tea.Cmd
	switch {
	case m.mode == modeAddClass:
		m.classPrompt, cmd = m.classPrompt.Update(msg)
	case m.mode == modeUpload:
		cmd = m.upload.update(msg)
	case m.focus == focusChat:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus == focusChat {
		switch msg.Type {
		case tea.KeyEnter:
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.input.Reset()
			return m.startSend(text)
		case tea.KeyPgUp:
			m.chat.ScrollUp(max(m.chat.Height/2, 1))
			return m, nil
		case tea.KeyPgDown:
			m.chat.ScrollDown(max(m.chat.Height/2, 1))
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter":
		if m.focus == focusClasses && m.classCursor < len(m.classes) {
			name := m.classes[m.classCursor]
			if err := m.ws.SelectClass(name); err != nil {
				m.status = "✗ " + err.Error()
			} else {
				m.docCursor = 0
				m.status = "✓ Active class: " + name
			}
			m.refresh()
		}
	case "a":
		m.mode = modeAddClass
		m.classPrompt.Reset()
		return m, m.classPrompt.Focus()
	case "u":
		if m.active == "" {
			m.status = "⚠ Add a class before uploading documents"
			return m, nil
		}
		m.mode = modeUpload
		m.upload.reset()
		return m, textinput.Blink
	case "d", "x":
		if m.focus == focusDocuments && m.docCursor < len(m.docs) {
			doc := m.docs[m.docCursor]
			if m.ws.RemoveDocument(doc.ID) {
				m.status = "✓ Removed " + doc.Name
			}
			m.refresh()
		}
	}
	return m, nil
}

func (m Model) updateAddClass(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.classPrompt.Reset()
		m.classPrompt.Blur()
		return m, nil
	case tea.KeyEnter:
		name := m.classPrompt.Value()
		added, err := m.ws.AddClass(name)
		switch {
		case err != nil:
			m.status = "✗ " + err.Error()
		case !added:
			m.status = fmt.Sprintf("⚠ Class %q already exists", strings.TrimSpace(name))
		default:
			m.status = "✓ Added class " + strings.TrimSpace(name)
		}
		m.mode = modeNormal
		m.classPrompt.Reset()
		m.classPrompt.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.classPrompt, cmd = m.classPrompt.Update(msg)
	return m, cmd
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.upload.reset()
		m.mode = modeNormal
		return m, nil
	case "tab", "shift+tab", "up", "down":
		return m, m.upload.focusField(1 - m.upload.field)
	case "enter":
		if m.upload.field == 0 {
			return m, m.upload.focusField(1)
		}
		return m.submitUpload()
	}
	return m, m.upload.update(msg)
}

func (m Model) submitUpload() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.upload.path.Value())
	if raw == "" {
		m.upload.err = "choose a file to upload"
		return m, nil
	}
	path, err := utils.ExpandHome(raw)
	if err != nil {
		m.upload.err = err.Error()
		return m, nil
	}
	content, err := parser.ParseFile(path)
	if err != nil {
		m.upload.err = err.Error()
		return m, nil
	}
	doc, err := m.ws.UploadDocument(m.upload.name.Value(), path, content)
	if err != nil {
		m.upload.err = err.Error()
		return m, nil
	}
	m.log.Infow("document uploaded", "class", m.active, "id", doc.ID, "name", doc.Name, "tokens", doc.Tokens)
	m.upload.reset()
	m.mode = modeNormal
	m.status = fmt.Sprintf("✓ Uploaded %s (~%d tokens)", doc.Name, doc.Tokens)
	m.refresh()
	return m, nil
}

func (m Model) startSend(text string) (tea.Model, tea.Cmd) {
	m.pending++
	m.status = "Thinking..."
	ws, rt, timeout := m.ws, m.runtime, m.opts.ChatTimeout
	send := func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ex, err := ws.Send(ctx, rt, text)
		return chatDoneMsg{ex: ex, err: err}
	}
	if m.pending == 1 {
		return m, tea.Batch(send, m.spinner.Tick)
	}
	return m, send
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	if f == focusChat {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) moveCursor(delta int) {
	switch m.focus {
	case focusClasses:
		m.classCursor = clamp(m.classCursor+delta, len(m.classes))
	case focusDocuments:
		m.docCursor = clamp(m.docCursor+delta, len(m.docs))
	}
}

// refresh reloads the panels from the workspace.
func (m *Model) refresh() {
	m.classes = m.ws.Classes()
	m.active = m.ws.ActiveClass()
	m.docs = m.ws.ActiveDocuments()
	m.messages = m.ws.Messages()
	m.classCursor = clamp(m.classCursor, len(m.classes))
	m.docCursor = clamp(m.docCursor, len(m.docs))
	m.renderer.setWidth(m.chat.Width)
	m.chat.SetContent(m.renderer.render(m.messages))
	m.chat.GotoBottom()
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
