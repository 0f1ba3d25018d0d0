package types

import "pdfgrip/internal/domain"

// Navigation actions
type ScrollAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a ScrollAction) Type() string { return "scroll" }

// PageStepAction jumps whole pages relative to the current one
type PageStepAction struct {
	Delta int
}

func (a PageStepAction) Type() string { return "page_step" }

// GotoPageAction navigates to an absolute page (zero-based)
type GotoPageAction struct {
	Page int
}

func (a GotoPageAction) Type() string { return "goto_page" }

// Zoom actions
type SetZoomModeAction struct {
	Mode domain.ZoomMode
}

func (a SetZoomModeAction) Type() string { return "set_zoom_mode" }

type AdjustZoomAction struct {
	Delta float64 // multiplicative step, e.g. +0.1 / -0.1
}

func (a AdjustZoomAction) Type() string { return "adjust_zoom" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Annotation actions
type AddHighlightAction struct{}

func (a AddHighlightAction) Type() string { return "add_highlight" }

type DeleteAnnotationAction struct {
	ID string // empty means the selected one
}

func (a DeleteAnnotationAction) Type() string { return "delete_annotation" }

type CycleAnnotationAction struct {
	Delta int
}

func (a CycleAnnotationAction) Type() string { return "cycle_annotation" }

type OpenAnnotationAction struct{}

func (a OpenAnnotationAction) Type() string { return "open_annotation" }

// Scan actions
type StartScanAction struct{}

func (a StartScanAction) Type() string { return "start_scan" }

type ToggleScanPauseAction struct{}

func (a ToggleScanPauseAction) Type() string { return "toggle_scan_pause" }

type StopScanAction struct{}

func (a StopScanAction) Type() string { return "stop_scan" }

// Misc actions
type ToggleSidebarAction struct{}

func (a ToggleSidebarAction) Type() string { return "toggle_sidebar" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type RetryLoadAction struct{}

func (a RetryLoadAction) Type() string { return "retry_load" }

type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
