// Package ipc defines the newline-delimited JSON protocol exchanged
// over $XDG_RUNTIME_DIR/ktc.sock and a minimal server that broadcasts
// compositor state changes to connected clients.
package ipc

import "encoding/json"

// WorkspaceInfo describes one workspace in a "state"/"workspace" event.
type WorkspaceInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	WindowCount  int    `json:"window_count"`
	Urgent       bool   `json:"urgent"`
}

// Command is a decoded client -> server message.
type Command struct {
	Type      string `json:"type"`
	Workspace int    `json:"workspace,omitempty"`
}

const (
	CommandGetState        = "get_state"
	CommandSwitchWorkspace = "switch_workspace"
)

// Event is a server -> client message. Exactly one of the payload
// fields is meaningful, selected by Type, mirroring the tagged-union
// wire format of the original IpcEvent enum.
type Event struct {
	Type string `json:"type"`

	Workspaces      []WorkspaceInfo `json:"workspaces,omitempty"`
	ActiveWorkspace int             `json:"active_workspace,omitempty"`
	FocusedWindow   *string         `json:"focused_window,omitempty"`
	WindowTitle     *string         `json:"window_title,omitempty"`
}

const (
	EventState     = "state"
	EventWorkspace = "workspace"
	EventFocus     = "focus"
	EventTitle     = "title"
)

// NewStateEvent builds the full-state snapshot sent in response to
// get_state and on first connect.
func NewStateEvent(workspaces []WorkspaceInfo, active int, focusedTitle *string) Event {
	return Event{Type: EventState, Workspaces: workspaces, ActiveWorkspace: active, FocusedWindow: focusedTitle}
}

// NewWorkspaceEvent builds the event broadcast on workspace switch or
// window add/remove.
func NewWorkspaceEvent(workspaces []WorkspaceInfo, active int) Event {
	return Event{Type: EventWorkspace, Workspaces: workspaces, ActiveWorkspace: active}
}

// NewFocusEvent builds the event broadcast on keyboard focus change.
func NewFocusEvent(windowTitle *string) Event {
	return Event{Type: EventFocus, FocusedWindow: windowTitle}
}

// NewTitleEvent builds the event broadcast when the focused window's
// title changes.
func NewTitleEvent(title string) Event {
	return Event{Type: EventTitle, WindowTitle: &title}
}

// Encode serializes e as a single newline-terminated JSON line.
func (e Event) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Encode serializes c as a single newline-terminated JSON line.
func (c Command) Encode() ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
