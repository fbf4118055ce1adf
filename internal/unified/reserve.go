package unified

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/opacctl/internal/api"
	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/reserve"
	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/tui"
)

const submitTimeout = 20 * time.Second

// loanPlacedMsg carries the result of POST /loans.
type loanPlacedMsg struct {
	loan *api.Loan
	err  error
}

// placed replays an already finished submission into Flow.Confirm, so the
// flow itself is only touched from Update.
type placed loanPlacedMsg

func (p placed) CreateLoan(context.Context, api.LoanRequest) (*api.Loan, error) {
	return p.loan, p.err
}

// reserveModel walks the patron through reserve.Flow.
type reserveModel struct {
	deps Deps
	flow *reserve.Flow
	libs list.Model
	date textinput.Model
	busy bool
	err  error
}

func newReserve(d Deps, b catalog.Book) reserveModel {
	in := textinput.New()
	in.Placeholder = reserve.DateLayout
	in.Prompt = "│ "
	in.CharLimit = 10
	in.Width = 12
	in.SetValue(d.Now().AddDate(0, 0, 1).Format(reserve.DateLayout))

	libs := tui.NewLibraryList(tui.LibraryOptions(b))
	libs.SetShowHelp(false)
	libs.SetSize(60, len(libs.Items())+4)

	return reserveModel{deps: d, flow: reserve.New(b), libs: libs, date: in}
}

func (m reserveModel) Init() tea.Cmd { return nil }

func (m reserveModel) submit() (reserveModel, tea.Cmd) {
	req, err := m.flow.Request()
	if err != nil {
		m.err = err
		return m, nil
	}
	if m.deps.Client == nil {
		m.err = errOffline
		return m, nil
	}
	u, ok := m.deps.Session.User()
	if !ok {
		m.err = api.ErrNotSignedIn
		return m, nil
	}
	client := m.deps.Client.WithToken(u.Token)
	m.busy, m.err = true, nil
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		loan, err := client.CreateLoan(ctx, req)
		return loanPlacedMsg{loan: loan, err: err}
	}
}

func (m reserveModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case loanPlacedMsg:
		m.busy = false
		_, m.err = m.flow.Confirm(context.Background(), placed(msg))
		return m, nil

	case tea.WindowSizeMsg:
		w, _ := contentSize(msg.Width, msg.Height)
		m.libs.SetSize(w, len(m.libs.Items())+4)
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.updateStep(msg)
	}

	if m.flow.Step() == reserve.StepDate {
		var cmd tea.Cmd
		m.date, cmd = m.date.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m reserveModel) updateStep(msg tea.KeyMsg) (view, tea.Cmd) {
	k := msg.String()
	switch m.flow.Step() {
	case reserve.StepLibrary:
		switch k {
		case "esc":
			return m, back
		case "enter":
			if opt, ok := m.libs.SelectedItem().(tui.LibraryOption); ok {
				if m.err = m.flow.SelectLibrary(opt.Name); m.err != nil {
					return m, nil
				}
			}
			if m.err = m.flow.Next(); m.err != nil {
				return m, nil
			}
			return m, m.date.Focus()
		}
		var cmd tea.Cmd
		m.libs, cmd = m.libs.Update(msg)
		return m, cmd

	case reserve.StepDate:
		switch k {
		case "esc":
			m.err = nil
			m.flow.Back()
			m.date.Blur()
			return m, nil
		case "enter":
			if v := strings.TrimSpace(m.date.Value()); v != "" {
				if m.err = m.flow.SetDate(v); m.err != nil {
					return m, nil
				}
			}
			m.err = m.flow.Next()
			m.date.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.date, cmd = m.date.Update(msg)
		return m, cmd

	case reserve.StepConfirm:
		switch k {
		case "esc", "n":
			m.err = nil
			m.flow.Back()
			return m, m.date.Focus()
		case "enter", "y":
			return m.submit()
		case "L":
			return m, navigate(route.OpenAccount{})
		}

	case reserve.StepDone:
		if k == "enter" || k == "esc" {
			return m, navigate(route.ReserveDone{})
		}
	}
	return m, nil
}

func (m reserveModel) steps() string {
	labels := make([]string, len(reserve.Steps))
	for i, s := range reserve.Steps {
		label := fmt.Sprintf("%d %s", i+1, s)
		switch {
		case s == m.flow.Step():
			labels[i] = tui.StyleHighlight.Render("● " + label)
		case s < m.flow.Step():
			labels[i] = tui.StyleOK.Render("✓ " + label)
		default:
			labels[i] = tui.StyleHelp.Render("○ " + label)
		}
	}
	return strings.Join(labels, tui.StyleHelp.Render("  ─  "))
}

func (m reserveModel) body() string {
	switch m.flow.Step() {
	case reserve.StepLibrary:
		return m.libs.View()
	case reserve.StepDate:
		return fmt.Sprintf("取書館：%s\n\n取書日期 (%s)\n%s", m.flow.Library(), reserve.DateLayout, m.date.View())
	case reserve.StepConfirm:
		date := tui.StyleError.Render("未選擇")
		if d, ok := m.flow.Date(); ok {
			date = d.Format(reserve.DateLayout)
		}
		status := "按 enter 或 y 送出預約，esc 返回修改。"
		if m.busy {
			status = "預約送出中…"
		}
		return strings.Join([]string{
			"書名：" + m.flow.Book().Title,
			"取書館：" + m.flow.Library(),
			"取書日期：" + date,
			"",
			tui.StyleHelp.Render(status),
		}, "\n")
	default:
		r, _ := m.flow.Receipt()
		return strings.Join([]string{
			tui.StyleOK.Render("✓ 預約成功"),
			"",
			"取書代碼：" + tui.StyleHighlight.Render(r.ShortCode()),
			"取書館：" + r.Library,
			"取書日期：" + r.PickupDate.Format(reserve.DateLayout),
			fmt.Sprintf("請於 %s 前取書（保留 %d 天）。", r.Deadline.Format(reserve.DateLayout), reserve.PickupDays),
		}, "\n")
	}
}

func (m reserveModel) View() string {
	parts := []string{
		tui.StyleHeader.Render(m.flow.Book().Title),
		m.steps(),
		"",
		m.body(),
	}
	if e := errorLine(m.err); e != "" {
		parts = append(parts, "", e)
	}
	var shortcuts []tui.ShortcutEntry
	switch m.flow.Step() {
	case reserve.StepDone:
		shortcuts = []tui.ShortcutEntry{{Label: "enter 前往我的帳戶"}}
	case reserve.StepConfirm:
		shortcuts = []tui.ShortcutEntry{{Label: "enter 確認"}, {Label: "esc 上一步"}, {Label: "L 登入"}}
	default:
		shortcuts = []tui.ShortcutEntry{{Label: "enter 下一步"}, {Label: "esc 上一步"}}
	}
	return page("預約取書", strings.Join(parts, "\n"), shortcuts, "")
}
