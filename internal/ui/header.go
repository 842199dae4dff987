package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status line and the command bar.
func (m Model) renderHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderStatusLine(), m.renderCommandBar())
}

// renderStatusLine shows the logo, user count, loading state and the last
// store error.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("roster", styles.Logo)}

	parts = append(parts,
		bg.Render("Users:", styles.MutedText)+bg.Spaces(1)+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Users)), styles.Text),
	)

	if m.snapshot.Loading {
		parts = append(parts, bg.Render(m.spinner.View()+" Loading", styles.WarningText))
	} else if ts := formatUpdated(m.snapshot.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.Error != "" {
		errText := m.snapshot.Error
		if !compact && m.snapshot.LastError != nil {
			errText = fmt.Sprintf("%s: %v", errText, m.snapshot.LastError)
		}
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Spaces(1)+
				bg.Render(truncate(errText, maxErr), styles.DangerText),
		)
	}

	if !compact {
		parts = append(parts, bg.Render(m.theme.Name, styles.FaintText))
	}

	return bg.FillLine(styles.Header.Render(bg.Join(parts, "  ")), m.width)
}

// renderCommandBar lists the keys that work in the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var cmds []helpItem
	switch m.currentView {
	case ViewList:
		cmds = []helpItem{{"enter", "Open"}, {"j/k", "Move"}, {"R", "Reload"}}
	case ViewProfile:
		cmds = []helpItem{{"e", "Edit"}, {"r", "Reload"}, {"esc", "Back"}}
	case ViewEdit:
		cmds = []helpItem{{"tab", "Next"}, {"enter", "Save"}, {"esc", "Cancel"}}
	}
	if m.currentView != ViewEdit {
		cmds = append(cmds, helpItem{"T", "Theme"}, helpItem{"?", "Help"}, helpItem{"q", "Quit"})
	}

	parts := make([]string, 0, len(cmds))
	for _, c := range cmds {
		parts = append(parts,
			bg.Render(c.key, styles.AccentText)+bg.Spaces(1)+bg.Render(c.desc, styles.MutedText))
	}
	return bg.FillLine(bg.Spaces(1)+bg.Join(parts, "   "), m.width)
}

// formatUpdated renders the last successful list fetch relative to now.
func formatUpdated(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	age := now.Sub(t)
	switch {
	case age < 5*time.Second:
		return "updated just now"
	case age < time.Minute:
		return fmt.Sprintf("updated %ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("updated %dm ago", int(age.Minutes()))
	default:
		return "updated " + t.Format("15:04")
	}
}
