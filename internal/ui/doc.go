// Package ui implements an interactive catalog browser using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [PhoneListView] : Browse phones, cycling the sort order with s
//  2. [PhoneDetailView] : Every field of the selected phone, reloaded by slug
//  3. [HistoryView] : Recent import runs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// All catalog reads run as [tea.Cmd]s so the interface never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, h, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
