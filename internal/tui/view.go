package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	if m.screen == screenSetup {
		return m.viewSetup()
	}
	return m.viewRefine()
}

func (m Model) viewSetup() string {
	th := defaultTheme()
	var b strings.Builder

	b.WriteString(th.Header.Render("PromptLens") + "\n\n")
	b.WriteString("Enter your API key to get started.\n\n")
	b.WriteString("API key: " + th.Input.Render(maskKey(m.keyInput)) + "█\n")
	if m.setupErr != "" {
		b.WriteString(th.Danger.Render(m.setupErr) + "\n")
	}
	b.WriteString("\n" + th.Muted.Render("enter save · esc quit") + "\n")

	return b.String()
}

func (m Model) viewRefine() string {
	th := defaultTheme()
	var b strings.Builder

	b.WriteString(th.Header.Render("PromptLens") + "  " + th.Muted.Render("model: "+m.currentModelLabel()) + "\n\n")
	b.WriteString("Prompt: " + th.Input.Render(m.promptInput) + "█\n\n")

	switch {
	case m.loading:
		b.WriteString(th.Muted.Render("Refining…") + "\n")
	case m.errMsg != "":
		b.WriteString(th.Danger.Render(m.errMsg) + "\n")
	case len(m.suggestions) > 0:
		for i, s := range m.suggestions {
			line := fmt.Sprintf("%s  clarity %d/10\n%s", s.Refined, s.Clarity, th.Muted.Render(s.Explanation))
			if i == m.selected {
				b.WriteString(th.Panel.BorderForeground(th.Selected.GetForeground()).Render(line) + "\n")
			} else {
				b.WriteString(th.Panel.Render(line) + "\n")
			}
		}
	case strings.TrimSpace(m.promptInput) != "":
		b.WriteString(th.Muted.Render("Waiting for you to stop typing…") + "\n")
	}

	if m.flash != "" {
		b.WriteString("\n" + th.Success.Render(m.flash) + "\n")
	}
	b.WriteString("\n" + th.Muted.Render("↑/↓ select · ctrl+y copy · tab model · ctrl+r reset key · esc quit") + "\n")

	return b.String()
}

func (m Model) currentModelLabel() string {
	if len(m.modelList) == 0 {
		if m.session.Model() != "" {
			return m.session.Model()
		}
		return "server default"
	}
	return m.modelList[m.modelIdx].Name
}

// maskKey hides all but a short prefix so the credential never sits on
// screen in full.
func maskKey(key string) string {
	const visible = 6
	if len(key) <= visible {
		return key
	}
	return key[:visible] + strings.Repeat("*", len(key)-visible)
}
