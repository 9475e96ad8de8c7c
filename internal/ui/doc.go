// Package ui contains the Bubble Tea program for the chat composer and its
// prefix menu.
//
// Message flow:
//   - Model.Update routes every message through a typed handler registry.
//     Key presses go to the editor, the open menu or the composer, in that
//     order of precedence; mouse presses drive the anchor and the panel.
//   - Loads and saves run as tea.Cmd values. Loads of the selection map are
//     tagged with a generation number that changes on every channel switch,
//     so a result that arrives for a channel no longer shown is dropped.
//   - Background jobs (saving a selection, sending a message, writing the
//     clipboard) are wrapped by the internal/ui/command bus for tracing.
//
// Menu placement:
//   - The panel is positioned by internal/ui/overlay. Opening the menu or
//     changing its query puts the engine into its measuring phase; at the
//     end of the same Update the panel is rendered off-screen, measured and
//     committed above the anchor. View only splices a committed panel.
//
// State ownership:
//   - Menu options, the search query and the cursor live in
//     internal/ui/state.List. The selection map and entry list are owned by
//     internal/selection and internal/prefix; the model only keeps copies.
package ui
