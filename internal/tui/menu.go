package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitmuse/internal/commit"
)

const listHeight = 14

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
	fallbackNoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).MarginLeft(2)
)

// Action is the user's decision about a generated message.
type Action int

const (
	ActionCommit Action = iota
	ActionCopy
	ActionRegenerate
	ActionCancel
)

type item struct {
	title  string
	action Action
}

func (i item) FilterValue() string { return i.title }

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(i.title))
}

type menuModel struct {
	list         list.Model
	message      commit.Message
	fallbackNote string
	choice       Action
	quitting     bool
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.choice = ActionCancel
			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(item); ok {
				m.choice = i.action
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m menuModel) View() string {
	if m.quitting {
		return quitTextStyle.Render("Exiting...")
	}

	view := m.message.String()
	if m.fallbackNote != "" {
		view += "\n\n" + fallbackNoteStyle.Render("⚠ "+m.fallbackNote)
	}
	return fmt.Sprintf("%s\n\n%s", view, m.list.View())
}

// Confirm presents the generated message and asks what to do with it.
// fallbackNote, when non-empty, is shown as a warning above the menu.
func Confirm(msg commit.Message, fallbackNote string) (Action, error) {
	items := []list.Item{
		item{title: "✅ Commit this", action: ActionCommit},
		item{title: "📋 Copy to clipboard and exit", action: ActionCopy},
		item{title: "🔄 Regenerate", action: ActionRegenerate},
		item{title: "❌ Cancel", action: ActionCancel},
	}

	const defaultWidth = 30

	l := list.New(items, itemDelegate{}, defaultWidth, listHeight)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	m := menuModel{list: l, message: msg, fallbackNote: fallbackNote, choice: ActionCancel}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return ActionCancel, fmt.Errorf("running menu: %w", err)
	}

	if final, ok := finalModel.(menuModel); ok {
		return final.choice, nil
	}
	return ActionCancel, nil
}

// CopyToClipboard puts the full message on the system clipboard.
func CopyToClipboard(msg commit.Message) error {
	if err := clipboard.WriteAll(msg.String()); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
