// Package devtools implements a terminal inspector over a running bot
// process's live state: cached chat sessions and each chat's open page
// navigation tree. Grounded on the teacher's own bubbletea TUI
// (athyr-tech-athyr-agent's internal/tui package, read during survey) for
// the viewport-panel-plus-polling-ticker shape, applied here to
// pkg/session/pkg/runtime state instead of an agent's chat/tool/log feed.
package devtools

import "time"

// SessionRow is one chat session's read-only snapshot, shown in the left
// panel's session list.
type SessionRow struct {
	ChatID      int64
	IdleFor     time.Duration
	ActivePages []string
}

// PageNode is one node of a chat's open page navigation tree, shown in
// the right panel once a session is selected.
type PageNode struct {
	ID       string
	PageID   string
	Title    string
	Children []PageNode
}

// Source is the read-only view onto live bot state the inspector polls.
// An application implements it over its own *session.SessionCache and
// whatever it uses to track each chat's root *runtime.PageHandle(s) —
// devtools itself never imports pkg/session or pkg/runtime, keeping the
// inspector usable against any process that can answer these two
// questions, not just this module's own dispatcher.
type Source interface {
	// Sessions lists every currently cached chat session.
	Sessions() []SessionRow
	// Tree returns chatID's open root pages, each with its sub-page
	// children nested inline, most-recently-opened page last.
	Tree(chatID int64) []PageNode
}
