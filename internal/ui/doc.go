// Package ui provides the Bubble Tea terminal interface for roster.
//
// The model has three views:
//
//   - List: every cached user, one row each, with responsive columns
//   - Profile: the selected user in labeled sections (scrollable)
//   - Edit: a form over the user's top-level text fields
//
// The UI never mutates user data directly. It calls state.Store actions
// from tea.Cmds and re-reads Store.Snapshot whenever the store signals a
// change. Toasts come from a notify.Notifier the same way, so messages
// shown by the background refresher appear too.
//
// Theme and the last opened profile are saved to the prefs file.
package ui
