package ui

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/five82/roster/internal/userapi"
)

// updateProfileViewport re-renders the profile into the viewport. The
// scroll offset is kept.
func (m *Model) updateProfileViewport() {
	if !m.ready || m.profileID == 0 {
		return
	}
	user, ok := m.store.UserByID(m.profileID)
	if !ok {
		m.profileViewport.SetContent(m.renderProfileMissing())
		return
	}
	m.profileViewport.SetContent(m.renderProfileContent(user))
}

// renderProfileMissing covers a profile that is not cached. It is loading
// until the first fetch for it has finished.
func (m Model) renderProfileMissing() string {
	styles := m.theme.Styles()
	if !m.profileFetched[m.profileID] {
		return " " + styles.MutedText.Render(fmt.Sprintf("%s Loading user #%d...", m.spinner.View(), m.profileID))
	}
	return " " + styles.DangerText.Render(fmt.Sprintf("User #%d not found", m.profileID)) + "\n\n " +
		styles.FaintText.Render("r retry · esc back to list")
}

// renderProfileContent renders one user as labeled sections.
func (m Model) renderProfileContent(u userapi.User) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(" ")
	b.WriteString(styles.Text.Bold(true).Render(u.DisplayName()))
	if u.Username != "" {
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render("@" + u.Username))
	}
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("#%d", u.ID)))
	b.WriteString("\n")

	section := func(title string, rows [][2]string) {
		b.WriteString("\n ")
		b.WriteString(styles.Section.Render(title))
		b.WriteString("\n")
		for _, r := range rows {
			b.WriteString(" ")
			b.WriteString(styles.Label.Render(r[0]))
			b.WriteString(styles.Text.Render(truncate(orDash(r[1]), max(m.width-labelWidth-3, 10))))
			b.WriteString("\n")
		}
	}

	section("Contact", [][2]string{
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Website", u.Website},
	})

	addr := u.Address
	geo := ""
	if addr.Geo.Lat != "" || addr.Geo.Lng != "" {
		geo = addr.Geo.Lat + ", " + addr.Geo.Lng
	}
	section("Address", [][2]string{
		{"Street", addr.Street},
		{"Suite", addr.Suite},
		{"City", addr.City},
		{"Zipcode", addr.Zipcode},
		{"Geo", geo},
	})

	section("Company", [][2]string{
		{"Name", u.Company.Name},
		{"Catch Phrase", u.Company.CatchPhrase},
		{"BS", u.Company.BS},
	})

	if rows := extraRows(u.Extra); len(rows) > 0 {
		section("Other", rows)
	}
	return b.String()
}

// extraRows renders fields the client does not model, sorted by name.
// Strings are shown unquoted; anything else as compact JSON.
func extraRows(extra map[string]json.RawMessage) [][2]string {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([][2]string, 0, len(keys))
	for _, k := range keys {
		raw := extra[k]
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			rows = append(rows, [2]string{fieldLabel(k), s})
			continue
		}
		rows = append(rows, [2]string{fieldLabel(k), strings.TrimSpace(string(raw))})
	}
	return rows
}
