package ui

import (
	"fmt"
	"strings"

	"github.com/five82/roster/internal/userapi"
)

// listColumn is one column of the user table.
type listColumn struct {
	title string
	width int // 0 takes the remaining width
	value func(userapi.User) string
}

// listColumns picks the columns that fit the terminal width.
func listColumns(width int) []listColumn {
	cols := []listColumn{
		{title: "ID", width: 5, value: func(u userapi.User) string { return fmt.Sprintf("%d", u.ID) }},
		{title: "Name", width: 24, value: func(u userapi.User) string { return u.DisplayName() }},
		{title: "Username", width: 16, value: func(u userapi.User) string { return u.Username }},
	}
	if width >= LayoutCompactWidth {
		cols = append(cols, listColumn{title: "Email", width: 28, value: func(u userapi.User) string { return u.Email }})
	}
	if width >= LayoutWideWidth {
		cols = append(cols,
			listColumn{title: "City", width: 16, value: func(u userapi.User) string { return u.Address.City }},
			listColumn{title: "Company", width: 22, value: func(u userapi.User) string { return u.Company.Name }},
		)
	}
	cols = append(cols, listColumn{title: "Website", value: func(u userapi.User) string { return u.Website }})
	return cols
}

// renderList renders the user table with the selected row highlighted.
func (m Model) renderList(height int) string {
	styles := m.theme.Styles()
	users := m.snapshot.Users

	if len(users) == 0 {
		msg := "No users yet. Press R to load."
		switch {
		case m.snapshot.Loading:
			msg = m.spinner.View() + " Loading users..."
		case m.snapshot.Error != "":
			msg = m.snapshot.Error + ". Press R to retry."
		}
		return styles.MutedText.Render(" " + msg)
	}

	cols := listColumns(m.width)
	fixed := 0
	for _, c := range cols {
		fixed += c.width + 1
	}
	rest := max(m.width-fixed-1, 8)

	cell := func(c listColumn, text string) string {
		w := c.width
		if w == 0 {
			w = rest
		}
		return padRight(truncate(text, w), w)
	}

	var head []string
	for _, c := range cols {
		head = append(head, cell(c, c.title))
	}

	lines := []string{styles.FaintText.Render(" " + strings.Join(head, " "))}

	rows := max(height-1, 1)
	start := scrollStart(m.selectedRow, len(users), rows)
	end := min(start+rows, len(users))
	for i := start; i < end; i++ {
		u := users[i]
		parts := make([]string, len(cols))
		for j, c := range cols {
			parts[j] = cell(c, orDash(c.value(u)))
		}
		line := padRight(" "+strings.Join(parts, " "), m.width)
		if i == m.selectedRow {
			lines = append(lines, styles.Selected.Render(line))
		} else {
			lines = append(lines, styles.Text.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

// scrollStart returns the first visible row that keeps selected on screen,
// centering it when possible.
func scrollStart(selected, total, visible int) int {
	if total <= visible || visible <= 0 {
		return 0
	}
	start := selected - visible/2
	if start < 0 {
		start = 0
	}
	if start > total-visible {
		start = total - visible
	}
	return start
}
