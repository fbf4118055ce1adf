package unified

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/opacctl/internal/api"
	"github.com/blackwell-systems/opacctl/internal/logging"
	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/session"
	"github.com/blackwell-systems/opacctl/internal/tui"
)

const requestTimeout = 15 * time.Second

type accountMode int

const (
	accountLogin accountMode = iota
	accountRegister
	accountSignedIn
)

type loginDoneMsg struct {
	user session.User
	err  error
}

type registerDoneMsg struct {
	username string
	message  string
	err      error
}

type loansLoadedMsg struct {
	loans []api.Loan
	err   error
}

// accountModel signs the patron in or up and lists their loans.
type accountModel struct {
	deps    Deps
	mode    accountMode
	form    tui.Form
	user    session.User
	loans   []api.Loan
	loading bool
	notice  string
	err     error
}

func loginForm(username string) tui.Form {
	return tui.NewForm([]tui.FormField{
		{Label: "帳號", Placeholder: "email 或帳號", Value: username},
		{Label: "密碼", Secret: true},
	})
}

func registerForm() tui.Form {
	return tui.NewForm([]tui.FormField{
		{Label: "帳號", Placeholder: "3-64 字元"},
		{Label: "Email", Placeholder: "reader@example.com"},
		{Label: "密碼", Placeholder: "至少 6 字元", Secret: true},
	})
}

func newAccount(d Deps) accountModel {
	if u, ok := d.Session.User(); ok {
		return accountModel{deps: d, mode: accountSignedIn, user: u, loading: d.Client != nil}
	}
	return accountModel{deps: d, mode: accountLogin, form: loginForm("")}
}

func (m accountModel) Init() tea.Cmd {
	if m.mode == accountSignedIn {
		return m.loadLoans()
	}
	return nil
}

func (m accountModel) loadLoans() tea.Cmd {
	if m.deps.Client == nil {
		return nil
	}
	client := m.deps.Client.WithToken(m.user.Token)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		loans, err := client.MyLoans(ctx)
		return loansLoadedMsg{loans: loans, err: err}
	}
}

func (m accountModel) login() (accountModel, tea.Cmd) {
	if m.deps.Client == nil {
		m.err = errOffline
		return m, nil
	}
	req := api.LoginRequest{Username: m.form.Value(0), Password: m.form.Value(1)}
	client := m.deps.Client
	m.loading, m.err, m.notice = true, nil, ""
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Login(ctx, req)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{user: session.NewMember(req.Username, resp.AccessToken)}
	}
}

func (m accountModel) register() (accountModel, tea.Cmd) {
	if m.deps.Client == nil {
		m.err = errOffline
		return m, nil
	}
	req := api.RegisterRequest{Username: m.form.Value(0), Email: m.form.Value(1), Password: m.form.Value(2)}
	client := m.deps.Client
	m.loading, m.err, m.notice = true, nil, ""
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msg, err := client.Register(ctx, req)
		return registerDoneMsg{username: req.Username, message: msg, err: err}
	}
}

func (m accountModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if err := m.deps.Session.SetUser(msg.user); err != nil {
			m.err = fmt.Errorf("saving sign-in: %w", err)
			return m, nil
		}
		return m, navigate(route.LoggedIn{})

	case registerDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = accountLogin
		m.form = loginForm(msg.username)
		m.form.FocusField(1)
		m.notice = "註冊成功，請登入。"
		if msg.message != "" {
			m.notice = msg.message
		}
		return m, nil

	case loansLoadedMsg:
		m.loading = false
		m.loans, m.err = msg.loans, msg.err
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		return m.updateKeys(msg)
	}

	if m.mode != accountSignedIn {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m accountModel) updateKeys(msg tea.KeyMsg) (view, tea.Cmd) {
	switch m.mode {
	case accountSignedIn:
		switch msg.String() {
		case "o":
			if err := m.deps.Session.Logout(); err != nil {
				log := logging.With("tui")
				log.Warn().Err(err).Msg("signing out")
			}
			return m, navigate(route.LoggedOut{})
		case "r":
			m.loading = m.deps.Client != nil
			return m, m.loadLoans()
		case "esc", "backspace":
			return m, back
		}
		return m, nil

	case accountLogin:
		switch msg.String() {
		case "enter":
			if m.form.Focused() == 0 {
				return m, m.form.FocusField(1)
			}
			return m.login()
		case "ctrl+n":
			m.mode, m.form, m.err, m.notice = accountRegister, registerForm(), nil, ""
			return m, nil
		case "esc":
			return m, back
		}

	case accountRegister:
		switch msg.String() {
		case "enter":
			if m.form.Focused() < m.form.Len()-1 {
				return m, m.form.FocusField(m.form.Focused() + 1)
			}
			return m.register()
		case "esc":
			m.mode, m.form, m.err = accountLogin, loginForm(""), nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m accountModel) loansTable() string {
	switch {
	case m.deps.Client == nil:
		return tui.StyleHelp.Render(errOffline.Error())
	case m.loading:
		return tui.StyleHelp.Render("讀取借閱紀錄…")
	case len(m.loans) == 0:
		return tui.StyleHelp.Render("目前沒有借閱或預約。")
	}
	rows := []string{tui.StyleHeader.Render(tui.Fit("書名", 28) + " " + tui.Fit("取書館", 12) + " " + tui.Fit("取書日", 10) + " 借閱日")}
	for _, l := range m.loans {
		rows = append(rows, tui.Fit(l.BookTitle, 28)+" "+tui.Fit(l.PickupLibrary, 12)+" "+tui.Fit(l.PickupDate, 10)+" "+tui.StyleHelp.Render(l.LoanDate))
	}
	return strings.Join(rows, "\n")
}

func (m accountModel) View() string {
	var parts []string
	var shortcuts []tui.ShortcutEntry
	switch m.mode {
	case accountSignedIn:
		who := "已登入：" + tui.StyleHighlight.Render(m.user.Email)
		if exp, ok := m.user.ExpiresAt(); ok {
			who += tui.StyleHelp.Render("（有效至 " + exp.Local().Format("2006-01-02 15:04") + "）")
		}
		parts = append(parts, who, "", tui.StyleHeader.Render("我的借閱與預約"), m.loansTable())
		shortcuts = []tui.ShortcutEntry{{Label: "r 重新整理"}, {Label: "o 登出"}, {Label: "esc 返回"}}
	case accountRegister:
		parts = append(parts, tui.StyleHeader.Render("註冊新帳號"), "", m.form.View())
		shortcuts = []tui.ShortcutEntry{{Label: "enter 下一欄/送出"}, {Label: "esc 返回登入"}}
	default:
		parts = append(parts, tui.StyleHeader.Render("會員登入"), "", m.form.View())
		shortcuts = []tui.ShortcutEntry{{Label: "enter 登入"}, {Label: "tab 切換欄位"}, {Label: "ctrl+n 註冊"}, {Label: "esc 返回"}}
	}
	if m.loading && m.mode != accountSignedIn {
		parts = append(parts, "", tui.StyleHelp.Render("處理中…"))
	}
	if m.notice != "" {
		parts = append(parts, "", tui.StyleOK.Render(m.notice))
	}
	if e := errorLine(m.err); e != "" {
		parts = append(parts, "", e)
	}
	return page("我的帳戶", strings.Join(parts, "\n"), shortcuts, "")
}
