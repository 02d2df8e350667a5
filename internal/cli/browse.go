package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneimport/pkg/draft"
	"github.com/matzehuels/sceneimport/pkg/projection"
	"github.com/matzehuels/sceneimport/pkg/scene"
	"github.com/matzehuels/sceneimport/pkg/selection"
	"github.com/matzehuels/sceneimport/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

const (
	orbitStep       = math.Pi / 12
	zoomStep        = 1.25
	refreshInterval = time.Second
)

// =============================================================================
// Preview pane
// =============================================================================

// previewPane is the viewport the browser frames; it records the latest
// framing for display.
type previewPane struct {
	Target selection.Target
	Bounds scene.Bounds
	Camera selection.Camera
	Framed bool
}

var _ selection.Viewport = (*previewPane)(nil)

// Frame implements selection.Viewport.
func (p *previewPane) Frame(t selection.Target, b scene.Bounds, cam selection.Camera) {
	p.Target, p.Bounds, p.Camera, p.Framed = t, b, cam, true
}

// =============================================================================
// BrowseModel - Interactive tree browser
// =============================================================================

type browseRow struct {
	item  projection.Item
	depth int
}

type refreshMsg time.Time

// BrowseModel is the bubbletea model for browsing the tree views of a
// session and driving its preview selection.
type BrowseModel struct {
	Session *session.Session
	Preview *previewPane

	Tree   projection.View
	Rows   []browseRow
	Cursor int
	Height int
	Offset int

	// Changed is set once the user selected an entry.
	Changed bool
	status  string
}

// NewBrowseModel creates a browser on the scene view.
func NewBrowseModel(sess *session.Session, preview *previewPane) BrowseModel {
	m := BrowseModel{Session: sess, Preview: preview, Height: 15}
	m.setView(projection.ViewScene)
	return m
}

// setView switches views and places the cursor on the current selection
// when the view shows it.
func (m *BrowseModel) setView(v projection.View) {
	m.Tree = v
	m.Rows = nil
	m.Session.Projections().Tree(v).Walk(func(it projection.Item, depth int) bool {
		m.Rows = append(m.Rows, browseRow{item: it, depth: depth})
		return true
	})
	m.Cursor, m.Offset = 0, 0
	if t, ok := m.Session.Selection().Current(); ok {
		if hs := m.Session.Projections().RefsIn(v, t.Kind, t.ID); len(hs) > 0 {
			for i, r := range m.Rows {
				if r.item.Handle == hs[0] {
					m.Cursor = i
					break
				}
			}
		}
	}
	m.scroll()
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m BrowseModel) Init() tea.Cmd {
	return tick()
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.scroll()
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				m.scroll()
			}
		case "tab":
			m.setView(nextView(m.Tree, 1))
		case "shift+tab":
			m.setView(nextView(m.Tree, -1))
		case "enter", " ":
			m.selectCurrent()
		case "a", "left":
			m.Session.Selection().Orbit(0, -orbitStep)
		case "d", "right":
			m.Session.Selection().Orbit(0, orbitStep)
		case "w":
			m.Session.Selection().Orbit(orbitStep, 0)
		case "s":
			m.Session.Selection().Orbit(-orbitStep, 0)
		case "+", "=":
			m.Session.Selection().Zoom(zoomStep)
		case "-":
			m.Session.Selection().Zoom(1 / zoomStep)
		case "r":
			m.reload()
		}
	case refreshMsg:
		m.Session.Refresh()
		return m, tick()
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m *BrowseModel) selectCurrent() {
	if len(m.Rows) == 0 {
		return
	}
	it := m.Rows[m.Cursor].item
	if !it.Selectable {
		m.status = "preview only, not selectable"
		return
	}
	if err := m.Session.Select(it.Kind, it.ID); err != nil {
		m.status = err.Error()
		return
	}
	m.Changed = true
	m.status = ""
}

// reload reads the asset again and rebuilds the rows of the current view.
func (m *BrowseModel) reload() {
	if err := m.Session.Reload(context.Background()); err != nil {
		m.status = err.Error()
		return
	}
	m.setView(m.Tree)
	m.status = fmt.Sprintf("reloaded, %d issues", len(m.Session.Issues()))
}

func nextView(v projection.View, step int) projection.View {
	for i, w := range projection.Views {
		if w == v {
			n := len(projection.Views)
			return projection.Views[((i+step)%n+n)%n]
		}
	}
	return projection.ViewScene
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Scene Import · " + m.Session.Asset))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  tab view  a/d w/s orbit  +/- zoom  r reload  q quit"))
	b.WriteString("\n\n")

	tabs := make([]string, len(projection.Views))
	for i, v := range projection.Views {
		if v == m.Tree {
			tabs[i] = listSelectedStyle.Render("[" + string(v) + "]")
		} else {
			tabs[i] = listDimStyle.Render(" " + string(v) + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	current, hasCurrent := m.Session.Selection().Current()
	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		it := m.Rows[i].item
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if hasCurrent && it.Selectable && it.Kind == current.Kind && it.ID == current.ID {
			mark = StyleSuccess.Render("●")
		}
		line := fmt.Sprintf("%s%s %s%s", cursor, mark, strings.Repeat("  ", m.Rows[i].depth), it.Label)

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case !it.Selectable:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty view)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(previewStyle.Render(m.previewText()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Rows)), len(m.Rows))))
	if m.status != "" {
		b.WriteString("  " + StyleWarning.Render(m.status))
	}
	return b.String()
}

func (m BrowseModel) previewText() string {
	p := m.Preview
	if p == nil || !p.Framed {
		return StyleDim.Render("nothing selected")
	}
	lines := []string{
		StyleHighlight.Render(string(p.Target.Kind)) + " " + p.Target.ID,
		"bounds  " + formatBounds(p.Bounds),
		fmt.Sprintf("camera  pitch %.0f°  yaw %.0f°  zoom %.2f",
			p.Camera.RotX*180/math.Pi, p.Camera.RotY*180/math.Pi, p.Camera.Zoom),
	}
	if e, ok := m.Session.Store().Entry(p.Target.Kind, p.Target.ID); ok && e.HasOverrides() {
		lines = append(lines, StyleNumber.Render(fmt.Sprintf("%d overrides", len(e.Overrides()))))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// browse command
// =============================================================================

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <asset>",
		Short: "Browse the tree views of an asset interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			preview := &previewPane{}
			ws, err := c.openSession(ctx, args[0], preview)
			if err != nil {
				return err
			}
			defer ws.Close()

			p := tea.NewProgram(NewBrowseModel(ws.Session, preview), tea.WithContext(ctx), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}

			m := final.(BrowseModel)
			if (m.Changed || ws.Dirty()) && ws.drafts.Name() != draft.BackendNone {
				return ws.saveDraft(ctx)
			}
			return nil
		},
	}
}
