package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/uridolan77/reportaing-admin/internal/editor"
	"github.com/uridolan77/reportaing-admin/internal/jsonval"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

// target names the field being edited and who is editing it.
type target struct {
	EntityType string
	EntityID   string
	Field      string
	Actor      string
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	leafStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	textBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// leafRef is one editable leaf surfaced by the preview, addressable by its
// edit path.
type leafRef struct {
	path  string
	label string
}

type model struct {
	ctx context.Context
	svc *metadata.Service
	tgt target

	ed     *editor.Editor
	spec   metadata.FieldSpec
	leaves []leafRef
	cursor int

	area   textarea.Model
	input  textinput.Model
	status string
	saved  bool
	err    error
}

func newModel(ctx context.Context, svc *metadata.Service, tgt target, value string, spec metadata.FieldSpec) model {
	area := textarea.New()
	area.Placeholder = spec.Placeholder
	area.SetWidth(76)
	area.SetHeight(12)

	input := textinput.New()
	input.CharLimit = 0
	input.Width = 60

	m := model{
		ctx:   ctx,
		svc:   svc,
		tgt:   tgt,
		spec:  spec,
		area:  area,
		input: input,
	}
	m.ed = editor.New(value, spec.EditorOptions(), nil, nil)
	m.refreshLeaves()
	return m
}

// refreshLeaves re-walks the preview and collects the editable leaf paths in
// display order.
func (m *model) refreshLeaves() {
	m.leaves = m.leaves[:0]
	collectLeaves(m.ed.Preview(), &m.leaves)
	if m.cursor >= len(m.leaves) {
		m.cursor = len(m.leaves) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func collectLeaves(n jsonval.PreviewNode, out *[]leafRef) {
	if n.Kind == jsonval.PreviewLeaf && n.Editable {
		label := n.Key
		if label == "" {
			label = n.Path
		}
		*out = append(*out, leafRef{path: n.Path, label: label})
	}
	for _, c := range n.Children {
		collectLeaves(c, out)
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if isKey && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.ed.Mode() {
	case editor.ModeFull:
		return m.updateFull(msg)
	case editor.ModeInline:
		return m.updateInline(msg)
	default:
		return m.updateRead(msg)
	}
}

func (m model) updateRead(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.leaves)-1 {
			m.cursor++
		}
	case "e":
		m.ed.BeginFullEdit()
		if m.ed.Mode() == editor.ModeFull {
			m.area.SetValue(m.ed.Draft())
			m.area.Focus()
			m.status = ""
		}
	case "enter":
		if len(m.leaves) == 0 {
			break
		}
		m.ed.BeginInlineEdit(m.leaves[m.cursor].path)
		if sess := m.ed.Session(); sess != nil {
			m.input.SetValue(sess.Draft)
			m.input.Focus()
			m.status = ""
		}
	}
	return m, nil
}

func (m model) updateFull(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.ed.Cancel()
			m.area.Blur()
			return m, nil
		case "ctrl+f":
			m.ed.SetDraft(m.area.Value())
			m.ed.Format()
			m.area.SetValue(m.ed.Draft())
			m.status = m.ed.Message()
			return m, nil
		case "ctrl+s":
			m.ed.SetDraft(m.area.Value())
			if err := m.ed.Save(); err != nil {
				m.status = m.ed.Message()
				return m, nil
			}
			return m.persist(m.ed.Value(), false, "")
		}
	}
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m model) updateInline(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.ed.Cancel()
			m.input.Blur()
			return m, nil
		case "enter":
			sess := m.ed.Session()
			if sess == nil {
				m.ed.Cancel()
				return m, nil
			}
			path := sess.Path
			m.ed.SetInlineDraft(m.input.Value())
			draft := m.input.Value()
			if err := m.ed.ConfirmInline(); err != nil {
				m.status = "Edit dropped: " + err.Error()
				m.input.Blur()
				return m, nil
			}
			return m.persist(draft, true, path)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// persist writes a locally committed edit through the service and reloads
// the editor from the stored value.
func (m model) persist(value string, inline bool, path string) (tea.Model, tea.Cmd) {
	committed, err := m.svc.EditField(m.ctx, metadata.EditFieldRequest{
		EntityType: m.tgt.EntityType,
		EntityID:   m.tgt.EntityID,
		Field:      m.tgt.Field,
		Value:      value,
		Inline:     inline,
		Path:       path,
		Actor:      m.tgt.Actor,
	})
	if err != nil {
		m.err = err
		m.status = err.Error()
		m.ed.Cancel()
		return m, nil
	}
	m.ed.SetValue(committed)
	m.refreshLeaves()
	m.area.Blur()
	m.input.Blur()
	m.saved = true
	m.status = "saved"
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n",
		titleStyle.Render(fmt.Sprintf("%s/%s", m.tgt.EntityType, m.tgt.EntityID)),
		dimStyle.Render(m.tgt.Field))

	switch m.ed.Mode() {
	case editor.ModeFull:
		b.WriteString(textBoxStyle.Render(m.area.View()))
		b.WriteString("\n")
		if m.status != "" {
			b.WriteString(errStyle.Render(m.status) + "\n")
		}
		b.WriteString(helpStyle.Render("ctrl+s save · ctrl+f format · esc cancel"))
	case editor.ModeInline:
		if sess := m.ed.Session(); sess != nil {
			fmt.Fprintf(&b, "%s %s\n", keyStyle.Render(sess.Path), m.input.View())
		}
		if m.status != "" {
			b.WriteString(errStyle.Render(m.status) + "\n")
		}
		b.WriteString(helpStyle.Render("enter confirm · esc cancel"))
	default:
		b.WriteString(m.renderPreview(m.ed.Preview(), 0))
		if m.status == "saved" {
			b.WriteString("\n" + okStyle.Render("saved"))
		} else if m.status != "" {
			b.WriteString("\n" + errStyle.Render(m.status))
		}
		help := "e full edit · q quit"
		if len(m.leaves) > 0 {
			help = "↑/↓ select · enter inline edit · " + help
		}
		b.WriteString("\n" + helpStyle.Render(help))
	}
	return b.String()
}

func (m model) renderPreview(n jsonval.PreviewNode, indent int) string {
	pad := strings.Repeat("  ", indent)
	var b strings.Builder

	label := ""
	if n.Key != "" {
		label = keyStyle.Render(n.Key) + ": "
	}

	switch n.Kind {
	case jsonval.PreviewEmpty:
		b.WriteString(pad + dimStyle.Render("No data entered - press e to add") + "\n")
	case jsonval.PreviewLeaf:
		marker := "  "
		if n.Editable && len(m.leaves) > 0 && m.leaves[m.cursor].path == n.Path {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(pad + marker + label + leafStyle.Render(n.Text) + "\n")
	case jsonval.PreviewText:
		b.WriteString(pad + "  " + label + dimStyle.Render(n.Text) + "\n")
	case jsonval.PreviewArray, jsonval.PreviewObject:
		open, closing := "[", "]"
		if n.Kind == jsonval.PreviewObject {
			open, closing = "{", "}"
		}
		b.WriteString(pad + "  " + label + dimStyle.Render(open) + "\n")
		for _, c := range n.Children {
			b.WriteString(m.renderPreview(c, indent+1))
		}
		if n.Hidden > 0 {
			b.WriteString(pad + "    " + dimStyle.Render(jsonval.HiddenLabel(n)) + "\n")
		}
		b.WriteString(pad + "  " + dimStyle.Render(closing) + "\n")
	}
	return b.String()
}
