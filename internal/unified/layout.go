package unified

import (
	"errors"
	"strings"

	"github.com/blackwell-systems/opacctl/internal/api"
	"github.com/blackwell-systems/opacctl/internal/tui"
	"github.com/blackwell-systems/opacctl/internal/validation"
)

// errOffline is shown when an account action needs the library API.
var errOffline = errors.New("離線模式：無法連線到圖書館服務")

// contentSize is the area inside tui.Frame.
func contentSize(width, height int) (int, int) {
	h, v := tui.FrameSize()
	return max(width-h, 40), max(height-v, 8)
}

// page renders a framed page with a banner, body and footer.
func page(title, body string, shortcuts []tui.ShortcutEntry, activeCmd string) string {
	parts := []string{tui.StyleTitle.Render(title), body}
	if len(shortcuts) > 0 {
		parts = append(parts, "", tui.RenderFooterBar(shortcuts, activeCmd))
	}
	return tui.Frame(strings.Join(parts, "\n"))
}

// errorText turns service errors into one line for the patron.
func errorText(err error) string {
	var verr *validation.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "欄位有誤：" + verr.Error()
	case errors.Is(err, api.ErrUnauthorized):
		return "帳號或密碼錯誤，或登入已逾時"
	case errors.Is(err, api.ErrConflict):
		return "此帳號或 Email 已註冊"
	case errors.Is(err, api.ErrUnavailable):
		return "圖書館服務暫時無法使用，請稍後再試"
	case errors.Is(err, api.ErrNotSignedIn):
		return "請先登入"
	default:
		return err.Error()
	}
}

func errorLine(err error) string {
	if err == nil {
		return ""
	}
	return tui.StyleError.Render("✗ " + errorText(err))
}
