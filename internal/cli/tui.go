package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitscape/pkg/dag"
	"github.com/matzehuels/gitscape/pkg/dag/lanes"
	"github.com/matzehuels/gitscape/pkg/dag/mutate"
	"github.com/matzehuels/gitscape/pkg/errors"
	"github.com/matzehuels/gitscape/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

func newTUICmd() *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore a graph session in the terminal",
		Long: `Opens an interactive terminal session on a fresh graph. Commits, branches,
re-parenting, and merges are applied with single keystrokes; the resulting
graph can be written to a file on exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := NewGraphModel()
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			m, ok := final.(GraphModel)
			if !ok {
				return fmt.Errorf("unexpected model type %T", final)
			}
			if save != "" {
				if err := graph.WriteGraphFile(graph.FromStore(m.Store), save); err != nil {
					return err
				}
				printSuccess("wrote %s", save)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&save, "save", "s", "", "write the final graph to this file on exit")

	return cmd
}

// tuiMode selects what the cursor currently picks.
type tuiMode int

const (
	modeBrowse tuiMode = iota
	modePickParent
	modePickMergeSource
)

// GraphModel is the bubbletea model for the interactive graph session.
type GraphModel struct {
	Store  *dag.Store
	Cursor int
	Branch int // index into sorted branch names, the "active" branch
	Mode   tuiMode
	Moving string // commit being re-parented while in modePickParent
	Status string
	Height int
	Offset int
}

// NewGraphModel creates a model seeded with a fresh single-commit graph.
func NewGraphModel() GraphModel {
	return GraphModel{
		Store:  lanes.Assign(dag.New()),
		Height: 20,
	}
}

func (m GraphModel) Init() tea.Cmd {
	return nil
}

func (m GraphModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Mode != modeBrowse {
				m.Mode = modeBrowse
				m.Moving = ""
				m.Status = ""
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Store.Commits)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			names := m.Store.BranchNames()
			if len(names) > 0 {
				m.Branch = (m.Branch + 1) % len(names)
			}
		case "a":
			m.apply(func() (*dag.Store, error) {
				return mutate.AddCommit(m.Store, m.activeBranch())
			}, "added commit to %s", m.activeBranch())
		case "b":
			c := m.cursorCommit()
			m.apply(func() (*dag.Store, error) {
				return mutate.CreateBranch(m.Store, c.ID, "")
			}, "branched off %s", c.ID)
		case "c":
			c := m.cursorCommit()
			m.apply(func() (*dag.Store, error) {
				return mutate.AddCustomCommits(m.Store, c.ID, 0)
			}, "custom commits after %s", c.ID)
		case "p":
			if m.Mode == modeBrowse {
				m.Mode = modePickParent
				m.Moving = m.cursorCommit().ID
				m.Status = fmt.Sprintf("pick a new parent for %s, enter to confirm", m.Moving)
			}
		case "m":
			if m.Mode == modeBrowse {
				m.Mode = modePickMergeSource
				m.Status = fmt.Sprintf("tab to a source branch, enter merges it into %s", m.activeBranch())
			}
		case "enter":
			switch m.Mode {
			case modePickParent:
				moving, parent := m.Moving, m.cursorCommit().ID
				m.Mode = modeBrowse
				m.Moving = ""
				m.apply(func() (*dag.Store, error) {
					return mutate.MoveCommit(m.Store, moving, parent)
				}, "moved %s under %s", moving, parent)
			case modePickMergeSource:
				target := dag.DefaultBranch
				source := m.activeBranch()
				m.Mode = modeBrowse
				m.apply(func() (*dag.Store, error) {
					return mutate.MergeBranch(m.Store, target, source)
				}, "merged %s into %s", source, target)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// apply runs a mutation, keeping the old snapshot and reporting the error
// when it fails. Informational outcomes are surfaced as status, not errors.
func (m *GraphModel) apply(fn func() (*dag.Store, error), okFormat string, args ...any) {
	next, err := fn()
	if err != nil {
		if errors.Informational(err) {
			m.Status = errors.UserMessage(err)
			return
		}
		m.Status = "error: " + errors.UserMessage(err)
		return
	}
	m.Store = next
	m.Status = fmt.Sprintf(okFormat, args...)
	if m.Cursor >= len(m.Store.Commits) {
		m.Cursor = len(m.Store.Commits) - 1
	}
}

func (m GraphModel) activeBranch() string {
	names := m.Store.BranchNames()
	if len(names) == 0 {
		return dag.DefaultBranch
	}
	return names[m.Branch%len(names)]
}

func (m GraphModel) cursorCommit() dag.Commit {
	commits := m.Store.SortedCommits()
	if m.Cursor >= len(commits) {
		return commits[len(commits)-1]
	}
	return commits[m.Cursor]
}

func (m GraphModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("gitscape"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  tab branch  a commit  b branch  c custom  p re-parent  m merge  q quit"))
	b.WriteString("\n\n")

	names := m.Store.BranchNames()
	parts := make([]string, len(names))
	for i, n := range names {
		if i == m.Branch%len(names) {
			parts[i] = listSelectedStyle.Render("[" + n + "]")
		} else {
			parts[i] = listDimStyle.Render(n)
		}
	}
	b.WriteString("branches: " + strings.Join(parts, "  "))
	b.WriteString("\n\n")

	heads := map[string][]string{}
	for _, n := range names {
		br, _ := m.Store.Branch(n)
		heads[br.Head] = append(heads[br.Head], n)
	}

	commits := m.Store.SortedCommits()
	end := m.Offset + m.Height
	if end > len(commits) {
		end = len(commits)
	}
	for i := m.Offset; i < end; i++ {
		c := commits[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "●"
		if c.IsMerge() {
			marker = "◆"
		} else if c.Custom {
			marker = "○"
		}

		line := fmt.Sprintf("%s%s%s %-6s %s", cursor, strings.Repeat("  ", c.Lane), marker, c.ID, c.Label)
		if hs, ok := heads[c.ID]; ok {
			line += "  " + StyleHighlight.Render("("+strings.Join(hs, ", ")+")")
		}
		if m.Mode == modePickParent && c.ID == m.Moving {
			line += "  " + StyleWarning.Render("moving")
		}

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case c.Custom:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Status != "" {
		b.WriteString(listDimStyle.Render(m.Status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(commits))))

	return b.String()
}
