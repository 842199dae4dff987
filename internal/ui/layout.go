package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the list drops the
	// email column and the header drops the theme name.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show city and company columns.
	LayoutWideWidth = 140
)

// Fixed heights of the chrome around the content area.
const (
	headerLines = 2 // status line + command bar
	toastLines  = 1
)

// labelWidth is the label column width on the profile and edit form.
const labelWidth = 14

// contentHeight returns the rows available to the active view.
func contentHeight(height int) int {
	h := height - headerLines - toastLines
	if h < 1 {
		return 1
	}
	return h
}
