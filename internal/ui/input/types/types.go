package types

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents an input mode
type Mode string

const (
	ModeNormal        Mode = "normal"
	ModeGotoPage      Mode = "goto"
	ModeComment       Mode = "comment"
	ModeHighlight     Mode = "highlight"
	ModeBookmark      Mode = "bookmark"
	ModeCTA           Mode = "cta"
	ModeDeleteConfirm Mode = "delete_confirm"
)

// Action is something the model should do in response to input
type Action interface {
	Type() string
}

// ModeHandler processes keys while its mode is active
type ModeHandler interface {
	Name() string
	Enter(ctx Context) []Action
	Exit(ctx Context) []Action
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)
}

// Context gives mode handlers a read-only view of the application
type Context interface {
	CurrentPage() int
	PageCount() int
	DocumentOpen() bool
	ScanActive() bool
	SidebarOpen() bool
	SelectedAnnotationID() string
}
