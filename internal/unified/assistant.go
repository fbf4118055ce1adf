package unified

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/opacctl/internal/assistant"
	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/tui"
)

// maxTranscriptShown is how many recent messages fit on screen.
const maxTranscriptShown = 8

// assistantModel is the chat page. The conversation outlives the page so
// the patron can open a suggested book and come back.
type assistantModel struct {
	bot   *assistant.Assistant
	input textinput.Model
	width int
}

func newAssistant(_ Deps, bot *assistant.Assistant) assistantModel {
	in := textinput.New()
	in.Placeholder = "例如：有沒有村上春樹的書？"
	in.Prompt = "› "
	in.CharLimit = 200
	in.Width = 56
	in.Focus()
	return assistantModel{bot: bot, input: in, width: 80}
}

func (m assistantModel) Init() tea.Cmd { return textinput.Blink }

// picks are the books offered in the latest reply.
func (m assistantModel) picks() []catalog.Book {
	t := m.bot.Transcript()
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Role == assistant.RoleAssistant {
			return t[i].Books
		}
	}
	return nil
}

func (m assistantModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, _ := contentSize(msg.Width, msg.Height)
		m.width = w
		m.input.Width = max(w-4, 20)
		return m, nil

	case tea.KeyMsg:
		switch k := msg.String(); k {
		case "esc":
			return m, back
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.bot.Ask(q)
			m.input.Reset()
			return m, nil
		default:
			// digits pick a suggested book while the input is empty
			if m.input.Value() == "" && len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
				if picks := m.picks(); int(k[0]-'1') < len(picks) {
					return m, navigate(route.OpenBook{Book: picks[k[0]-'1']})
				}
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m assistantModel) View() string {
	wrap := lipgloss.NewStyle().Width(max(m.width-6, 20))
	t := m.bot.Transcript()
	if len(t) > maxTranscriptShown {
		t = t[len(t)-maxTranscriptShown:]
	}

	var lines []string
	if len(t) == 0 {
		lines = append(lines, tui.StyleHelp.Render("用一句話告訴我你想找的書，例如「現在可借的科幻小說」。"))
	}
	for _, msg := range t {
		if msg.Role == assistant.RolePatron {
			lines = append(lines, tui.StyleHighlight.Render("你：")+wrap.Render(msg.Text))
			continue
		}
		lines = append(lines, tui.StyleOK.Render("小幫手：")+wrap.Render(msg.Text))
	}
	if picks := m.picks(); len(picks) > 0 {
		lines = append(lines, "")
		for i, b := range picks {
			lines = append(lines, fmt.Sprintf("  %s %s %s", tui.StyleTag.Render(fmt.Sprintf("[%d]", i+1)), b.Title, tui.AvailabilityBadge(b)))
		}
	}
	body := strings.Join(lines, "\n") + "\n\n" + m.input.View()
	return page("館藏小幫手", body, []tui.ShortcutEntry{
		{Label: "enter 發問"}, {Label: "1-9 開啟建議書目"}, {Label: "esc 返回"},
	}, "")
}
