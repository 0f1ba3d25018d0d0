package ui

import (
	"time"

	"pdfgrip/internal/domain"
	"pdfgrip/internal/eventbus"
	"pdfgrip/internal/pdfdoc"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg drives scroll animation and render-window maintenance
type tickMsg time.Time

// docLoadedMsg contains the result of opening a document
type docLoadedMsg struct {
	doc *pdfdoc.Document
}

// docFailedMsg contains a document open failure
type docFailedMsg struct {
	err error
}

// pageMeasuredMsg reports an intrinsic page size back from the driver.
// gen is the engine generation that issued the load.
type pageMeasuredMsg struct {
	gen  int64
	page int
	size domain.PageSize
}

// pageErrorMsg reports a failed page load
type pageErrorMsg struct {
	gen  int64
	page int
	err  error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// quitMsg signals that the application should quit
type quitMsg struct {
	saveConfig bool
}
