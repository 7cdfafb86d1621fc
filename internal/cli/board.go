package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trestle/internal/cli/formatter"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/hierarchy"
	"github.com/alexanderramin/trestle/internal/remote"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse a project interactively and tick off tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive() {
				return fmt.Errorf("board needs an interactive terminal; use 'trestle status' instead")
			}
			ctx := cmd.Context()
			project, err := app.Client.GetProject(ctx, projectID)
			if err != nil {
				if errors.Is(err, remote.ErrNotFound) {
					return fmt.Errorf("project #%d not found", projectID)
				}
				return err
			}
			store, err := newStore(app, projectID)
			if err != nil {
				return err
			}
			defer store.Close()

			p := tea.NewProgram(newBoardModel(ctx, store, project),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}

	addProjectFlag(cmd, &projectID)

	return cmd
}

type boardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Delete key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle done")),
		Delete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delete, k.Reload, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Delete, k.Reload},
		{k.Help, k.Quit},
	}
}

// boardChangedMsg is sent whenever the store publishes a change.
type boardChangedMsg struct{}

type boardLoadedMsg struct{ err error }

// boardMutatedMsg carries the rendered outcome of a finished mutation.
type boardMutatedMsg struct{ line string }

// rowRef identifies a selectable row. Stage and task ids come from
// different tables, so the level is part of the identity.
type rowRef struct {
	level int
	id    int64
}

// boardModel renders a project's tree from the store's snapshots. Every
// store call runs as a Cmd; the view re-reads the snapshot on each render,
// so optimistic changes show up as soon as the store applies them.
type boardModel struct {
	ctx     context.Context
	store   *hierarchy.Store
	project domain.Project

	keys    boardKeyMap
	help    help.Model
	spinner spinner.Model

	cursor int
	busy   int
	armed  *rowRef
	status string
}

func newBoardModel(ctx context.Context, store *hierarchy.Store, project domain.Project) *boardModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = formatter.StyleHeader
	return &boardModel{
		ctx:     ctx,
		store:   store,
		project: project,
		keys:    defaultBoardKeys(),
		help:    help.New(),
		spinner: sp,
	}
}

func (m *boardModel) Init() tea.Cmd {
	m.busy++
	return tea.Batch(m.spinner.Tick, m.reload(), m.watch())
}

func (m *boardModel) watch() tea.Cmd {
	ch := m.store.Changes()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return boardChangedMsg{}
	}
}

func (m *boardModel) reload() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return boardLoadedMsg{err: store.LoadStages(ctx)}
	}
}

func (m *boardModel) mutate(what string, call func(context.Context) (hierarchy.Outcome, error)) tea.Cmd {
	m.busy++
	ctx := m.ctx
	return func() tea.Msg {
		outcome, err := call(ctx)
		return boardMutatedMsg{line: formatter.FormatOutcome(what, outcome, err)}
	}
}

func (m *boardModel) rows() []formatter.TreeItem {
	return formatter.TreeItems(m.store.Snapshot())
}

// selected returns the row under the cursor, if it names a stage or task.
func (m *boardModel) selected() (formatter.TreeItem, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) || rows[m.cursor].ID == 0 {
		return formatter.TreeItem{}, false
	}
	return rows[m.cursor], true
}

func (m *boardModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case boardChangedMsg:
		m.clampCursor()
		return m, m.watch()

	case boardLoadedMsg:
		m.busy--
		m.clampCursor()
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.status = formatter.StyleRed.Render("✖ ") + "load failed: " + msg.err.Error()
		}
		return m, nil

	case boardMutatedMsg:
		m.busy--
		m.status = msg.line
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	armed := m.armed
	m.armed = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Reload):
		m.busy++
		m.status = ""
		return m.reload()

	case key.Matches(msg, m.keys.Toggle):
		row, ok := m.selected()
		if !ok || row.Level != 1 {
			return nil
		}
		what := fmt.Sprintf("task #%d completed", row.ID)
		if row.Status == domain.TaskCompleted {
			what = fmt.Sprintf("task #%d reopened", row.ID)
		}
		id := row.ID
		return m.mutate(what, func(ctx context.Context) (hierarchy.Outcome, error) {
			return m.store.ToggleTaskCompletion(ctx, id)
		})

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selected()
		if !ok {
			return nil
		}
		ref := rowRef{level: row.Level, id: row.ID}
		if armed == nil || *armed != ref {
			m.armed = &ref
			m.status = formatter.StyleYellow.Render(fmt.Sprintf("press x again to delete #%d", row.ID))
			return nil
		}
		id := row.ID
		if row.Level == 0 {
			return m.mutate(fmt.Sprintf("stage #%d deleted", id), func(ctx context.Context) (hierarchy.Outcome, error) {
				return m.store.DeleteStage(ctx, id)
			})
		}
		return m.mutate(fmt.Sprintf("task #%d deleted", id), func(ctx context.Context) (hierarchy.Outcome, error) {
			return m.store.DeleteTask(ctx, id)
		})
	}
	return nil
}

func (m *boardModel) View() string {
	tree := m.store.Snapshot()

	var b strings.Builder
	b.WriteString("\n  " + formatter.StyleHeader.Render(m.project.Name))
	if tree.State == domain.LoadLoaded {
		b.WriteString("  " + formatter.RenderProgress(tree.Progress, 20))
	}
	b.WriteString("\n\n")

	switch tree.State {
	case domain.LoadNotLoaded, domain.LoadLoading:
		b.WriteString("  " + m.spinner.View() + " " + formatter.Dim("Loading stages…") + "\n")
	case domain.LoadFailed:
		b.WriteString("  " + formatter.StyleRed.Render("Could not load stages: "+tree.LastError) + "\n")
		b.WriteString("  " + formatter.Dim("press r to retry") + "\n")
	case domain.LoadEmpty:
		b.WriteString("  " + formatter.Dim("No stages yet.") + "\n")
	default:
		lines := strings.Split(strings.TrimRight(formatter.RenderTree(formatter.TreeItems(tree)), "\n"), "\n")
		for i, line := range lines {
			marker := "  "
			if i == m.cursor {
				marker = formatter.StyleHeader.Render("› ")
			}
			b.WriteString(marker + line + "\n")
		}
	}

	b.WriteString("\n")
	if row, ok := m.selected(); ok && row.Level == 1 && tree.State == domain.LoadLoaded {
		b.WriteString("  " + formatter.StatusBadge(row.Status) + "\n")
	}
	if m.busy > 0 {
		b.WriteString("  " + m.spinner.View() + " ")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(m.status + "\n")
	if tree.LastError != "" && tree.State == domain.LoadLoaded {
		b.WriteString("  " + formatter.StyleRed.Render("! "+tree.LastError) + "\n")
	}
	b.WriteString("\n  " + m.help.View(m.keys) + "\n")
	return b.String()
}
