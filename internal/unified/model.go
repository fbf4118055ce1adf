// Package unified is the interactive terminal front end. One Model owns the
// current route and swaps page views as route.Transition dictates.
package unified

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/blackwell-systems/opacctl/internal/api"
	"github.com/blackwell-systems/opacctl/internal/assistant"
	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/logging"
	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/search"
	"github.com/blackwell-systems/opacctl/internal/session"
)

// maxHistory bounds the back stack.
const maxHistory = 32

// Deps is what the pages need from the application.
type Deps struct {
	Books   []catalog.Book
	Session *session.Session
	Client  *api.Client // nil when offline
	Layout  search.Layout
	Locale  language.Tag
	Now     func() time.Time
}

// view is one page.
type view interface {
	Init() tea.Cmd
	Update(tea.Msg) (view, tea.Cmd)
	View() string
}

// Model is the TUI orchestrator.
type Model struct {
	deps    Deps
	bot     *assistant.Assistant
	route   route.Route
	history []route.Route
	current view
	width   int
	height  int
}

// New creates the orchestrator at the home page.
func New(deps Deps) Model {
	if deps.Session == nil {
		deps.Session = session.New(session.NewMemoryStore())
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Layout == "" {
		deps.Layout = search.LayoutGrid
	}
	if deps.Locale == language.Und {
		deps.Locale = search.DefaultLocale
	}
	m := Model{
		deps:  deps,
		bot:   assistant.New(deps.Books),
		route: route.Home{},
	}
	m.current = m.viewFor(m.route)
	return m
}

// Route returns the current page.
func (m Model) Route() route.Route { return m.route }

func (m Model) Init() tea.Cmd {
	return m.current.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.updateCurrentView(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateCurrentView(msg)

	case NavigateMsg:
		return m.handleNavigation(msg.Event)

	case BackMsg:
		return m.handleBack()

	case QuitAppMsg:
		return m, tea.Quit

	default:
		return m.updateCurrentView(msg)
	}
}

func (m Model) View() string {
	return m.current.View()
}

func (m Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.current, cmd = m.current.Update(msg)
	return m, cmd
}

// ignored reports events that route.Transition leaves without effect.
func ignored(cur route.Route, ev route.Event) bool {
	switch ev.(type) {
	case route.StartReserve:
		_, ok := cur.(route.Detail)
		return !ok
	case route.ReserveDone:
		_, ok := cur.(route.Reserve)
		return !ok
	}
	return false
}

func (m Model) handleNavigation(ev route.Event) (tea.Model, tea.Cmd) {
	if ignored(m.route, ev) {
		return m, nil
	}
	next := route.Transition(m.route, ev)

	switch next.(type) {
	case route.Home:
		m.history = nil
	default:
		// a finished or abandoned reservation is not revisited with back
		if _, wasReserve := m.route.(route.Reserve); !wasReserve {
			m.history = append(m.history, m.route)
			if len(m.history) > maxHistory {
				m.history = m.history[len(m.history)-maxHistory:]
			}
		}
	}
	return m.enter(next)
}

func (m Model) handleBack() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		if _, home := m.route.(route.Home); home {
			return m, nil
		}
		return m.enter(route.Home{})
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.enter(prev)
}

func (m Model) enter(r route.Route) (tea.Model, tea.Cmd) {
	m.route = r
	if d, ok := r.(route.Detail); ok {
		if _, err := m.deps.Session.RecordView(d.Book.ID); err != nil {
			log := logging.With("tui")
			log.Warn().Err(err).Str("book", d.Book.ID).Msg("recording view")
		}
	}
	m.current = m.viewFor(r)
	return m, tea.Batch(m.current.Init(), resize(m.width, m.height))
}

func (m Model) viewFor(r route.Route) view {
	switch r := r.(type) {
	case route.Home:
		return newHome(m.deps)
	case route.Advanced:
		return newAdvanced(m.deps)
	case route.Results:
		return newResults(m.deps, r.Query, r.Filters)
	case route.Detail:
		return newDetail(m.deps, r.Book)
	case route.Reserve:
		return newReserve(m.deps, r.Book)
	case route.Recommend:
		return newRecommend(m.deps)
	case route.Account:
		return newAccount(m.deps)
	case route.Assistant:
		return newAssistant(m.deps, m.bot)
	default:
		panic(fmt.Sprintf("unified: no view for route %T", r))
	}
}

// Run starts the TUI on the alternate screen.
func Run(deps Deps) error {
	p := tea.NewProgram(New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive mode: %w", err)
	}
	return nil
}
