package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/citegraph/citegraph/pkg/errors"
	"github.com/citegraph/citegraph/pkg/explorer"
	"github.com/citegraph/citegraph/pkg/graph"
)

// Tree styles
var (
	treeSelectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	treeDuplicateStyle = lipgloss.NewStyle().Foreground(colorDim)
	treeYearStyle      = lipgloss.NewStyle().Foreground(colorGray)
	treeErrorStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

const treeTitleLen = 70

// treeRow is one visible line of the exploration tree.
type treeRow struct {
	key   graph.NodeKey
	depth int
}

// clickDoneMsg reports completion of an expand/collapse triggered by enter.
type clickDoneMsg struct {
	err error
}

// ExploreModel is the bubbletea model for interactive citation exploration.
// Enter on a node toggles expand/collapse through the session; the tree is
// rebuilt from the graph model after every mutation.
type ExploreModel struct {
	session *explorer.Session
	ctx     context.Context

	rows    []treeRow
	cursor  int
	offset  int
	height  int
	busy    bool
	status  string
	keyBusy graph.NodeKey
}

// NewExploreModel creates the explorer TUI around an already-seeded session.
func NewExploreModel(ctx context.Context, session *explorer.Session) ExploreModel {
	m := ExploreModel{
		session: session,
		ctx:     ctx,
		height:  20,
	}
	m.rebuildRows()
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", " ":
			if m.busy || len(m.rows) == 0 {
				return m, nil
			}
			key := m.rows[m.cursor].key
			m.busy = true
			m.keyBusy = key
			m.status = "fetching references…"
			return m, m.clickCmd(key)
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}

	case clickDoneMsg:
		m.busy = false
		m.keyBusy = graph.NodeKey{}
		if msg.err != nil {
			m.status = errors.UserMessage(msg.err)
		} else {
			m.status = ""
		}
		m.rebuildRows()
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
	}
	return m, nil
}

// clickCmd runs the node click off the UI goroutine. The session guards
// against re-entrant clicks and stale results itself.
func (m ExploreModel) clickCmd(key graph.NodeKey) tea.Cmd {
	return func() tea.Msg {
		err := m.session.NodeClick(m.ctx, key)
		return clickDoneMsg{err: err}
	}
}

// rebuildRows flattens the graph model into visible tree rows, depth-first
// in child insertion order (citation sort order).
func (m *ExploreModel) rebuildRows() {
	m.rows = m.rows[:0]
	model := m.session.Model()
	root, ok := model.Root()
	if !ok {
		return
	}

	var walk func(key graph.NodeKey, depth int)
	walk = func(key graph.NodeKey, depth int) {
		m.rows = append(m.rows, treeRow{key: key, depth: depth})
		for _, child := range model.ChildrenOf(key) {
			walk(child, depth+1)
		}
	}
	walk(root.Key, 0)
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Citation Explorer"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ expand/collapse  q quit"))
	b.WriteString("\n\n")

	model := m.session.Model()
	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(model, m.rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderInfoLine(model))
	if m.status != "" {
		b.WriteString("\n")
		if m.busy {
			b.WriteString(StyleDim.Render(m.status))
		} else {
			b.WriteString(treeErrorStyle.Render(iconError + " " + m.status))
		}
	}
	return b.String()
}

func (m ExploreModel) renderRow(model *graph.Model, row treeRow, selected bool) string {
	node, ok := model.Node(row.key)
	if !ok {
		return ""
	}

	marker := "▸"
	if node.Expanded {
		marker = "▾"
	}
	if m.busy && row.key == m.keyBusy {
		marker = "…"
	}

	title := node.Paper.Title
	if runes := []rune(title); len(runes) > treeTitleLen {
		title = string(runes[:treeTitleLen-1]) + "…"
	}

	line := strings.Repeat("  ", row.depth) + marker + " " + title
	if node.Paper.Year > 0 {
		line += " " + treeYearStyle.Render(fmt.Sprintf("(%d)", node.Paper.Year))
	}
	if node.Duplicate {
		line += " " + treeDuplicateStyle.Render("[dup]")
	}

	cursor := "  "
	style := treeNormalStyle
	if node.Duplicate {
		style = treeDuplicateStyle
	}
	if selected {
		cursor = "▸ "
		style = treeSelectedStyle
	}
	return cursor + style.Render(line)
}

// renderInfoLine shows details of the node under the cursor.
func (m ExploreModel) renderInfoLine(model *graph.Model) string {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return ""
	}
	node, ok := model.Node(m.rows[m.cursor].key)
	if !ok {
		return ""
	}

	p := node.Paper
	parts := []string{p.Title}
	if authors := p.AuthorNames(); authors != "" {
		parts = append(parts, authors)
	}
	if p.Venue != "" {
		parts = append(parts, p.Venue)
	}
	parts = append(parts, fmt.Sprintf("cited by %d", p.CitationCount))
	if p.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", p.Year))
	}
	return StyleDim.Render(strings.Join(parts, " · "))
}
