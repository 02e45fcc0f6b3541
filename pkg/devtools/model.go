package devtools

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pollInterval is how often the inspector re-polls Source for fresh
// session/tree data — grounded on the teacher's 500ms-1s tea.Tick
// dashboards (cmd/examples/04-composables/monitoring-dashboard).
const pollInterval = time.Second

type sessionsMsg []SessionRow
type treeMsg struct {
	chatID int64
	nodes  []PageNode
}

// Model is the root Bubble Tea model for the inspector.
type Model struct {
	source Source

	sessions []SessionRow
	selected int
	tree     []PageNode

	width, height int
	sessionsView  viewport.Model
	treeView      viewport.Model
	ready         bool

	quitting bool
}

// New builds an inspector Model polling source.
func New(source Source) Model {
	return Model{source: source}
}

// Run starts the inspector full-screen and blocks until the user quits.
func Run(source Source) error {
	p := tea.NewProgram(New(source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchSessions(m.source), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type tickMsg time.Time

func fetchSessions(source Source) tea.Cmd {
	return func() tea.Msg { return sessionsMsg(source.Sessions()) }
}

func fetchTree(source Source, chatID int64) tea.Cmd {
	return func() tea.Msg { return treeMsg{chatID: chatID, nodes: source.Tree(chatID)} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLayout()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				return m, fetchTree(m.source, m.currentChatID())
			}
		case "down", "j":
			if m.selected < len(m.sessions)-1 {
				m.selected++
				return m, fetchTree(m.source, m.currentChatID())
			}
		}

	case tickMsg:
		cmds := []tea.Cmd{fetchSessions(m.source), tickCmd()}
		if len(m.sessions) > 0 {
			cmds = append(cmds, fetchTree(m.source, m.currentChatID()))
		}
		return m, tea.Batch(cmds...)

	case sessionsMsg:
		m.sessions = []SessionRow(msg)
		if m.selected >= len(m.sessions) {
			m.selected = len(m.sessions) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.renderSessions()
		var cmd tea.Cmd
		if len(m.sessions) > 0 {
			cmd = fetchTree(m.source, m.currentChatID())
		}
		return m, cmd

	case treeMsg:
		if len(m.sessions) > 0 && msg.chatID == m.currentChatID() {
			m.tree = msg.nodes
			m.renderTree()
		}
	}

	return m, nil
}

func (m Model) currentChatID() int64 {
	if m.selected < 0 || m.selected >= len(m.sessions) {
		return 0
	}
	return m.sessions[m.selected].ChatID
}

func (m *Model) updateLayout() {
	leftWidth := m.width/3 - panelHorizontalOverhead
	rightWidth := m.width - m.width/3 - panelHorizontalOverhead
	contentHeight := m.height - 6 - panelVerticalOverhead
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.sessionsView = viewport.New(leftWidth, contentHeight)
	m.treeView = viewport.New(rightWidth, contentHeight)
	m.renderSessions()
	m.renderTree()
}

func (m *Model) renderSessions() {
	if !m.ready {
		return
	}
	var b strings.Builder
	if len(m.sessions) == 0 {
		b.WriteString(mutedStyle.Render("no cached sessions"))
	}
	for i, s := range m.sessions {
		line := fmt.Sprintf("chat %d  idle %s  pages %d", s.ChatID, s.IdleFor.Round(time.Second), len(s.ActivePages))
		if i == m.selected {
			b.WriteString(selectedRowStyle.Render("> " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	m.sessionsView.SetContent(b.String())
}

func (m *Model) renderTree() {
	if !m.ready {
		return
	}
	if len(m.tree) == 0 {
		m.treeView.SetContent(mutedStyle.Render("no open pages"))
		return
	}
	var b strings.Builder
	for _, n := range m.tree {
		writeNode(&b, n, 0)
	}
	m.treeView.SetContent(b.String())
}

func writeNode(b *strings.Builder, n PageNode, depth int) {
	indent := strings.Repeat("  ", depth)
	title := n.Title
	if title == "" {
		title = n.PageID
	}
	fmt.Fprintf(b, "%s%s %s\n", indent, n.PageID, mutedStyle.Render("("+title+") "+n.ID))
	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
}

func (m Model) View() string {
	if m.quitting {
		return "bye\n"
	}
	if !m.ready {
		return "loading...\n"
	}

	header := titleStyle.Render("botui devtools") + "  " +
		headerStyle.Render(fmt.Sprintf("%d sessions", len(m.sessions)))

	left := panelStyle.Width(m.sessionsView.Width).Height(m.sessionsView.Height).
		Render(panelTitleStyle.Render("Sessions") + "\n" + m.sessionsView.View())
	right := panelStyle.Width(m.treeView.Width).Height(m.treeView.Height).
		Render(panelTitleStyle.Render("Page tree") + "\n" + m.treeView.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	footer := footerStyle.Render(
		footerKeyStyle.Render("↑/↓")+": select session  "+
			footerKeyStyle.Render("q")+": quit",
	)

	return header + "\n\n" + body + "\n" + footer
}
