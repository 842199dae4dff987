package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain composes header, active view and toast line.
func (m Model) renderMain() string {
	height := contentHeight(m.height)

	var body string
	switch m.currentView {
	case ViewList:
		body = m.renderList(height)
	case ViewProfile:
		body = m.profileViewport.View()
	case ViewEdit:
		body = m.form.view(m.theme.Styles(), m.width, m.saving)
	}

	body = lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		MaxHeight(height).
		Render(body)

	return strings.Join([]string{m.renderHeader(), body, m.renderToast()}, "\n")
}
