package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/strut/pkg/cassowary"
	"github.com/matzehuels/strut/pkg/layout"
	"github.com/matzehuels/strut/pkg/rational"
)

// newDemoCmd creates the demo command, an interactive playground that
// re-solves the layout live as the terminal is resized.
func newDemoCmd() *cobra.Command {
	var (
		spacing  int
		flexName string
	)

	cmd := &cobra.Command{
		Use:   "demo [rule]...",
		Short: "Interactive layout playground",
		Long: `Run an interactive playground that solves the given rules against the
live terminal width and redraws on every resize.

Under the stretch policy, panes can be resized interactively: tab selects
a pane and the arrow keys suggest new sizes to the solver, which
renegotiates the rest of the row around the suggestion.

Keys: tab select pane, left/right resize, f cycle flex, +/- spacing, q quit.`,
		Example: `  strut demo "length(20)" "fill(1)min(10)" "percent(25)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"length(20)", "fill(1)min(10)", "percent(25)"}
			}
			rules, err := parseRules(args)
			if err != nil {
				return err
			}
			flex, err := layout.ParseFlex(flexName)
			if err != nil {
				return err
			}

			model := newDemoModel(rules, spacing, flex)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&spacing, "spacing", "s", 1, "cells between consecutive items")
	cmd.Flags().StringVarP(&flexName, "flex", "f", "stretch", "initial flex policy")

	return cmd
}

// flexCycle is the order the demo steps through flex policies.
var flexCycle = []layout.Flex{
	layout.FlexStretch,
	layout.FlexStart,
	layout.FlexEnd,
	layout.FlexCenter,
	layout.FlexSpaceBetween,
	layout.FlexSpaceAround,
}

// blockColors are cycled across the rendered items.
var blockColors = []lipgloss.Color{
	lipgloss.Color("36"),  // teal
	lipgloss.Color("63"),  // violet
	lipgloss.Color("35"),  // green
	lipgloss.Color("167"), // soft red
	lipgloss.Color("220"), // amber
	lipgloss.Color("75"),  // light blue
}

// demoModel is the bubbletea model for the layout playground.
type demoModel struct {
	rules   []layout.Rule
	spacing int
	flex    layout.Flex
	width   int
	height  int
	sel     int
	editor  *paneEditor
}

// newDemoModel creates the playground model.
func newDemoModel(rules []layout.Rule, spacing int, flex layout.Flex) demoModel {
	return demoModel{rules: rules, spacing: spacing, flex: flex}
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "f":
			for i, f := range flexCycle {
				if f == m.flex {
					m.flex = flexCycle[(i+1)%len(flexCycle)]
					break
				}
			}
			m.rebuildEditor()
		case "+", "=":
			m.spacing++
			m.rebuildEditor()
		case "-":
			if m.spacing > 0 {
				m.spacing--
				m.rebuildEditor()
			}
		case "tab":
			m.sel = (m.sel + 1) % len(m.rules)
			if m.editor != nil {
				m.editor.selectPane(m.sel)
			}
		case "left", "h":
			if m.editor != nil {
				m.editor.nudge(-1)
			}
		case "right", "l":
			if m.editor != nil {
				m.editor.nudge(1)
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildEditor()
	}
	return m, nil
}

// rebuildEditor resets the interactive solver session. Resizing suggestions
// only make sense under stretch, where item sizes fully determine offsets.
func (m *demoModel) rebuildEditor() {
	m.editor = nil
	if m.flex == layout.FlexStretch && m.width > 0 {
		m.editor = newPaneEditor(m.rules, m.width, m.spacing, m.sel)
	}
}

func (m demoModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Strut Playground"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab select  ←/→ resize  f flex  +/- spacing  q quit"))
	b.WriteString("\n\n")

	if m.width == 0 {
		b.WriteString(StyleDim.Render("measuring terminal..."))
		return b.String()
	}

	var rects []layout.Rect
	if m.editor != nil {
		rects = m.editor.rects()
	} else {
		area := layout.Rect{Width: m.width, Height: 1}
		out, err := layout.Split(area, layout.Horizontal, m.rules, m.spacing, m.flex)
		if err != nil {
			b.WriteString(StyleWarning.Render(err.Error()))
			return b.String()
		}
		rects = out
	}

	b.WriteString(m.renderBar(rects))
	b.WriteString("\n\n")

	for i, r := range m.rules {
		marker := "  "
		if i == m.sel {
			marker = StyleNumber.Render("▸ ")
		}
		label := fmt.Sprintf("%-24s", r.String())
		b.WriteString(marker)
		b.WriteString(StyleDim.Render(label))
		b.WriteString(StyleNumber.Render(fmt.Sprintf("%4d", rects[i].Width)))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  @ x=%d", rects[i].X)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("width %d · spacing %d · flex %s", m.width, m.spacing, m.flex)
	if m.editor == nil && m.flex != layout.FlexStretch {
		status += " · resize needs stretch"
	}
	b.WriteString(StyleDim.Render(status))
	return b.String()
}

// renderBar draws the solved items as one row of colored blocks at their
// exact offsets, leaving flex gaps blank.
func (m demoModel) renderBar(rects []layout.Rect) string {
	var b strings.Builder
	pos := 0
	for i, r := range rects {
		if r.Width == 0 {
			continue
		}
		if r.X > pos {
			b.WriteString(strings.Repeat(" ", r.X-pos))
		}
		style := lipgloss.NewStyle().
			Background(blockColors[i%len(blockColors)]).
			Foreground(lipgloss.Color("255")).
			Width(r.Width).
			MaxWidth(r.Width).
			Align(lipgloss.Center)
		b.WriteString(style.Render(fmt.Sprintf("%d", r.Width)))
		pos = r.X + r.Width
	}
	return b.String()
}

// paneEditor holds a live solver session for interactive resizing. The
// selected pane's size becomes an edit variable; each nudge suggests a new
// value and lets the solver renegotiate the remaining panes around it.
type paneEditor struct {
	solver  *cassowary.Solver
	items   []*cassowary.Variable
	spacing int
	sel     int
	editing bool
}

// newPaneEditor compiles the rules under stretch and loads them into a
// persistent solver. Returns nil when the system cannot be assembled.
func newPaneEditor(rules []layout.Rule, width, spacing, sel int) *paneEditor {
	sys := layout.BuildSystem(rules, width, spacing, layout.FlexStretch)

	s := cassowary.NewSolver()
	for _, c := range sys.Hard {
		if err := s.AddConstraint(c); err != nil && !errors.Is(err, cassowary.ErrUnsatisfiableConstraint) {
			return nil
		}
	}
	for _, c := range sys.Soft {
		if err := s.AddConstraint(c); err != nil {
			return nil
		}
	}
	s.UpdateVariables()

	if sel >= len(sys.Items) {
		sel = 0
	}
	return &paneEditor{solver: s, items: sys.Items, spacing: spacing, sel: sel}
}

// selectPane moves the edit variable to another pane, releasing the old
// suggestion so the layout can relax back toward its preferences.
func (e *paneEditor) selectPane(i int) {
	if i == e.sel || i >= len(e.items) {
		return
	}
	if e.editing {
		_ = e.solver.RemoveEditVariable(e.items[e.sel])
		e.editing = false
		e.solver.UpdateVariables()
	}
	e.sel = i
}

// nudge suggests the selected pane's current size plus delta.
func (e *paneEditor) nudge(delta int) {
	if !e.editing {
		if e.solver.AddEditVariable(e.items[e.sel], cassowary.Strong) != nil {
			return
		}
		e.editing = true
	}
	want := max(e.size(e.sel)+delta, 0)
	if e.solver.SuggestValue(e.items[e.sel], rational.FromInt(int64(want))) != nil {
		return
	}
	e.solver.UpdateVariables()
}

// size reads one pane's current solved size, clamped at zero.
func (e *paneEditor) size(i int) int {
	return max(int(e.solver.ValueOf(e.items[i]).Floor()), 0)
}

// rects lays the current sizes out left to right. Under stretch there are
// no spacer variables, so offsets are just the running sum plus spacing.
func (e *paneEditor) rects() []layout.Rect {
	out := make([]layout.Rect, len(e.items))
	x := 0
	for i := range e.items {
		w := e.size(i)
		out[i] = layout.Rect{X: x, Width: w, Height: 1}
		x += w + e.spacing
	}
	return out
}
