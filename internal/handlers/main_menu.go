// Package handlers maps menu selections to application actions.
package handlers

// MainAction identifies what a main menu selection asks the model to do.
type MainAction int

const (
	ActionNone MainAction = iota
	ActionManage
	ActionMap
	ActionUnmap
	ActionCheck
	ActionReAdd
	ActionImport
	ActionExport
	ActionSettings
	ActionQuit
)

// MainMenuHandler handles main menu selections.
type MainMenuHandler struct{}

// NewMainMenuHandler creates a new main menu handler
func NewMainMenuHandler() *MainMenuHandler {
	return &MainMenuHandler{}
}

// HandleSelection translates a cursor position into an action.
// The order must match screens.MainMenuChoices.
func (h *MainMenuHandler) HandleSelection(cursor int) MainAction {
	switch cursor {
	case 0:
		return ActionManage
	case 1:
		return ActionMap
	case 2:
		return ActionUnmap
	case 3:
		return ActionCheck
	case 4:
		return ActionReAdd
	case 5:
		return ActionImport
	case 6:
		return ActionExport
	case 7:
		return ActionSettings
	case 8:
		return ActionQuit
	}
	return ActionNone
}
