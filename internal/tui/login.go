package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel is the public sign-in surface.
type loginModel struct {
	username   textinput.Model
	password   textinput.Model
	focusIdx   int
	submitting bool
	err        error
}

func newLoginModel() loginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = 32

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 64
	pass.Width = 32
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return loginModel{username: user, password: pass}
}

func (l *loginModel) focus() {
	l.focusIdx = 0
	l.username.Focus()
	l.password.Blur()
}

func (l loginModel) Update(msg tea.Msg, deps Deps) (loginModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !l.submitting {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			l.focusIdx = 1 - l.focusIdx
			if l.focusIdx == 0 {
				l.username.Focus()
				l.password.Blur()
			} else {
				l.username.Blur()
				l.password.Focus()
			}
			return l, nil

		case "enter":
			username := strings.TrimSpace(l.username.Value())
			password := l.password.Value()
			if username == "" || password == "" {
				return l, nil
			}
			l.submitting = true
			l.err = nil
			return l, loginCmd(deps, username, password)
		}
	}

	var cmds [2]tea.Cmd
	l.username, cmds[0] = l.username.Update(msg)
	l.password, cmds[1] = l.password.Update(msg)
	return l, tea.Batch(cmds[0], cmds[1])
}

func (l loginModel) View(notice string) string {
	var sb strings.Builder
	sb.WriteString("\n" + titleStyle.Render("invpos · sign in") + "\n\n")
	if notice != "" {
		sb.WriteString("  " + infoStyle.Render(notice) + "\n\n")
	}
	sb.WriteString("  " + l.username.View() + "\n")
	sb.WriteString("  " + l.password.View() + "\n")
	if l.submitting {
		sb.WriteString("\n  signing in...\n")
	}
	if l.err != nil {
		sb.WriteString("\n  " + errorStyle.Render(l.err.Error()) + "\n")
	}
	sb.WriteString(helpStyle.Render("\n  tab switch field · enter submit · ctrl+c quit"))
	return boxStyle.Render(sb.String())
}
