package ui

import (
	"errors"
	"strings"

	"github.com/five82/roster/internal/notify"
	"github.com/five82/roster/internal/userapi"
)

// renderToast renders the notification line. It is blank when no toast is
// visible so the layout does not jump.
func (m Model) renderToast() string {
	bg := NewBgStyle(m.theme.Background)
	if !m.toast.Visible || m.toast.Message == "" {
		return bg.FillLine("", m.width)
	}
	styles := m.theme.Styles()
	style := styles.Toast
	if m.toast.Level == notify.LevelError {
		style = styles.ToastError
	}
	return bg.FillLine(bg.Spaces(1)+style.Render(truncate(m.toast.Message, m.width-4)), m.width)
}

// validationMessage turns a Patch.Validate error into toast text.
func validationMessage(err error) string {
	if !errors.Is(err, userapi.ErrInvalidPatch) {
		return err.Error()
	}
	_, fields, ok := strings.Cut(err.Error(), "check ")
	if !ok {
		return "Invalid input"
	}
	labels := strings.Split(fields, ", ")
	for i, f := range labels {
		labels[i] = fieldLabel(f)
	}
	return "Invalid " + strings.Join(labels, ", ")
}
