package views

import (
	"vpgsync/internal/application/commands"
	"vpgsync/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// StatusMsg carries a fresh status snapshot, sent after every tick
type StatusMsg struct {
	Status *commands.StatusResult
}

// ResultMsg reports the outcome of a user action
type ResultMsg struct {
	Message string
	Err     error
}

// SwitchToDetailMsg opens the text view for an object
type SwitchToDetailMsg struct {
	Object string
}

// SwitchToMonitorMsg returns to the object list
type SwitchToMonitorMsg struct{}

// SwitchToHelpMsg opens the help view
type SwitchToHelpMsg struct{}

// SwitchToImportMsg opens the import prompt
type SwitchToImportMsg struct{}

// ImportedMsg reports a finished import and returns to the object list
type ImportedMsg struct {
	Message string
}

// EditRequestMsg asks the app to open an object's text in the editor
type EditRequestMsg struct {
	Object string
}

// statusByName finds an object in a status snapshot
func statusByName(st *commands.StatusResult, name string) (domain.ObjectStatus, bool) {
	if st == nil {
		return domain.ObjectStatus{}, false
	}
	for _, o := range st.Objects {
		if o.Object == name {
			return o, true
		}
	}
	return domain.ObjectStatus{}, false
}
