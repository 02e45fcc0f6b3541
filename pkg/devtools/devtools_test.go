package devtools

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	sessions []SessionRow
	trees    map[int64][]PageNode
}

func (f *fakeSource) Sessions() []SessionRow { return f.sessions }
func (f *fakeSource) Tree(chatID int64) []PageNode { return f.trees[chatID] }

func TestModel_CurrentChatID_EmptySessions(t *testing.T) {
	m := New(&fakeSource{})
	assert.Equal(t, int64(0), m.currentChatID())
}

func TestModel_CurrentChatID_ReflectsSelection(t *testing.T) {
	m := New(&fakeSource{sessions: []SessionRow{{ChatID: 1001}, {ChatID: 1002}}})
	m.selected = 1
	assert.Equal(t, int64(1002), m.currentChatID())
}

func TestModel_Update_SessionsMsgClampsSelection(t *testing.T) {
	m := New(&fakeSource{})
	m.selected = 5

	updated, _ := m.Update(sessionsMsg{{ChatID: 1001}})
	mm := updated.(Model)

	assert.Equal(t, 0, mm.selected)
	require.Len(t, mm.sessions, 1)
	assert.Equal(t, int64(1001), mm.sessions[0].ChatID)
}

func TestModel_Update_ArrowKeysMoveSelectionWithinBounds(t *testing.T) {
	m := New(&fakeSource{sessions: []SessionRow{{ChatID: 1}, {ChatID: 2}, {ChatID: 3}}})
	m.sessions = []SessionRow{{ChatID: 1}, {ChatID: 2}, {ChatID: 3}}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	mm := updated.(Model)
	assert.Equal(t, 1, mm.selected)
	assert.NotNil(t, cmd)

	updated, _ = mm.Update(tea.KeyMsg{Type: tea.KeyUp})
	mm = updated.(Model)
	assert.Equal(t, 0, mm.selected)

	updated, cmd = mm.Update(tea.KeyMsg{Type: tea.KeyUp})
	mm = updated.(Model)
	assert.Equal(t, 0, mm.selected, "selection must not go negative")
	assert.Nil(t, cmd)
}

func TestModel_Update_QuitKeyReturnsQuitCmd(t *testing.T) {
	m := New(&fakeSource{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.IsType(t, tea.QuitMsg{}, msg)
}

func TestModel_Update_TreeMsgIgnoredForStaleChatID(t *testing.T) {
	m := New(&fakeSource{sessions: []SessionRow{{ChatID: 1001}}})
	m.sessions = []SessionRow{{ChatID: 1001}}
	m.ready = true
	m.updateLayout()

	updated, _ := m.Update(treeMsg{chatID: 999, nodes: []PageNode{{ID: "stale"}}})
	mm := updated.(Model)
	assert.Empty(t, mm.tree)

	updated, _ = mm.Update(treeMsg{chatID: 1001, nodes: []PageNode{{ID: "home", PageID: "home"}}})
	mm = updated.(Model)
	require.Len(t, mm.tree, 1)
	assert.Equal(t, "home", mm.tree[0].ID)
}

func TestWriteNode_IndentsChildrenByDepth(t *testing.T) {
	var b strings.Builder
	writeNode(&b, PageNode{
		ID:     "root",
		PageID: "home",
		Title:  "Home",
		Children: []PageNode{
			{ID: "child", PageID: "settings", Title: "Settings"},
		},
	}, 0)

	out := b.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "home "))
	assert.True(t, strings.HasPrefix(lines[1], "  settings "))
}

func TestWriteNode_FallsBackToPageIDWhenTitleEmpty(t *testing.T) {
	var b strings.Builder
	writeNode(&b, PageNode{ID: "n1", PageID: "p1"}, 0)
	assert.Contains(t, b.String(), "(p1)")
}
