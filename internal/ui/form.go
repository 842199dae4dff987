package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/userapi"
)

type formField struct {
	key   string
	label string
	limit int
}

var formFields = []formField{
	{"name", "Name", 120},
	{"username", "Username", 60},
	{"email", "Email", 254},
	{"phone", "Phone", 40},
	{"website", "Website", 200},
}

// editForm edits the top-level text fields of one user.
type editForm struct {
	base   userapi.User
	inputs []textinput.Model
	focus  int
}

func newEditForm(u userapi.User) editForm {
	values := map[string]string{
		"name":     u.Name,
		"username": u.Username,
		"email":    u.Email,
		"phone":    u.Phone,
		"website":  u.Website,
	}
	inputs := make([]textinput.Model, len(formFields))
	for i, field := range formFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = strings.ToLower(field.label)
		ti.CharLimit = field.limit
		ti.SetValue(values[field.key])
		inputs[i] = ti
	}
	inputs[0].Focus()
	return editForm{base: u, inputs: inputs}
}

// userID is the id the form saves to.
func (f editForm) userID() int64 {
	return f.base.ID
}

func (f *editForm) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	i = ((i % n) + n) % n
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *editForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *editForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// value returns the trimmed input for a field key.
func (f editForm) value(key string) string {
	for i, field := range formFields {
		if field.key == key {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

// patch returns the full record with the form's values applied. The
// address and company are sent unchanged. The update replaces the record
// and the store caches the echo, so every field goes out.
func (f editForm) patch() userapi.Patch {
	p := userapi.PatchFrom(f.base)
	name := f.value("name")
	username := f.value("username")
	email := f.value("email")
	phone := f.value("phone")
	website := f.value("website")
	p.Name = &name
	p.Username = &username
	p.Email = &email
	p.Phone = &phone
	p.Website = &website
	return p
}

// changes returns a patch holding only the fields the user edited. Fields
// already on the record are never re-validated, so a record the API
// returned without an email can still be saved.
func (f editForm) changes() userapi.Patch {
	var p userapi.Patch
	set := func(key, current string, dst **string) {
		if v := f.value(key); v != current {
			*dst = &v
		}
	}
	set("name", f.base.Name, &p.Name)
	set("username", f.base.Username, &p.Username)
	set("email", f.base.Email, &p.Email)
	set("phone", f.base.Phone, &p.Phone)
	set("website", f.base.Website, &p.Website)
	return p
}

// validate checks the edited fields.
func (f editForm) validate() error {
	return f.changes().Validate()
}

// dirty reports whether any input differs from the record.
func (f editForm) dirty() bool {
	return !f.changes().IsEmpty()
}

func (f editForm) update(msg tea.Msg) (editForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f editForm) view(styles Styles, width int, saving bool) string {
	var b strings.Builder
	title := "Edit " + f.base.DisplayName()
	b.WriteString(styles.Section.Render(truncate(title, width-4)))
	b.WriteString("\n\n")

	inputWidth := width - labelWidth - 8
	if inputWidth < 10 {
		inputWidth = 10
	}
	for i, field := range formFields {
		in := f.inputs[i]
		in.Width = inputWidth
		label := styles.Label.Render(field.label)
		panel := styles.Panel
		if i == f.focus {
			label = styles.Label.Foreground(styles.AccentText.GetForeground()).Render(field.label)
			panel = styles.FocusedPanel
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, label, panel.Width(inputWidth+2).Render(in.View())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case saving:
		b.WriteString(styles.WarningText.Render("Saving..."))
	case f.dirty():
		b.WriteString(styles.MutedText.Render("enter save · esc discard changes"))
	default:
		b.WriteString(styles.FaintText.Render("No changes"))
	}
	return b.String()
}
