package ui

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pdfgrip/internal/annotations"
	"pdfgrip/internal/config"
	"pdfgrip/internal/coords"
	"pdfgrip/internal/domain"
	"pdfgrip/internal/eventbus"
	"pdfgrip/internal/pdfdoc"
	"pdfgrip/internal/scan"
	"pdfgrip/internal/ui/input"
	"pdfgrip/internal/ui/input/types"
	"pdfgrip/internal/ui/state"
	"pdfgrip/internal/ui/views"
	"pdfgrip/internal/viewport"
)

// colPixels maps one terminal column to engine pixels; rows use the
// configurable PixelsPerRow so tall pages stay proportionate.
const colPixels = 10.0

// tickInterval paces scroll animation and window maintenance
const tickInterval = 50 * time.Millisecond

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState

	width  int
	height int

	docPath    string
	doc        *pdfdoc.Document
	engine     *viewport.Engine
	generation int64

	annotations *annotations.Service
	scanner     *scan.Scanner
	rasterizer  scan.Rasterizer

	renderer     *views.Renderer
	helpRenderer *views.HelpRenderer
	inputHandler *input.Handler

	// Program reference for terminal management
	program *tea.Program
	helpOps *HelpOps
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, docPath string, annSvc *annotations.Service, scanner *scan.Scanner) *Model {
	v := cfg.Viewer
	engine := viewport.NewEngine(viewport.Options{
		OverscanPx:        v.OverscanPx,
		SlotPoolSize:      v.SlotPoolSize,
		DefaultPageHeight: v.DefaultPageHeight,
		PageMarginPx:      v.PageMarginPx,
		FitPadding:        v.FitPadding,
		ZoomMode:          v.ZoomMode,
		CustomScale:       v.CustomScale,
	})

	return &Model{
		bus:          bus,
		config:       cfg,
		state:        state.NewAppState(),
		docPath:      docPath,
		engine:       engine,
		annotations:  annSvc,
		scanner:      scanner,
		renderer:     views.NewRenderer(),
		helpRenderer: views.NewHelpRenderer(),
		inputHandler: input.New(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	m.state.Loading = true
	return tea.Batch(m.loadDocument(), m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadDocument opens the PDF off the event loop
func (m *Model) loadDocument() tea.Cmd {
	path := m.docPath
	return func() tea.Msg {
		doc, err := pdfdoc.Open(path)
		if err != nil {
			return docFailedMsg{err: err}
		}
		return docLoadedMsg{doc: doc}
	}
}

// measurePage returns a command that discovers one page's intrinsic size
func (m *Model) measurePage(gen int64, pageIndex int) tea.Cmd {
	doc := m.doc
	return func() tea.Msg {
		size, err := doc.PageSize(pageIndex)
		if err != nil {
			return pageErrorMsg{gen: gen, page: pageIndex, err: err}
		}
		return pageMeasuredMsg{gen: gen, page: pageIndex, size: size}
	}
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager() tea.Cmd {
	ops := m.helpOps
	content := m.helpRenderer.RenderHelpContentPlain()
	return func() tea.Msg {
		return helpPagerMsg{err: ops.ShowHelpInPager(content)}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeEngine()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tickMsg:
		return m, tea.Batch(m.handleTick(), m.tick())

	case docLoadedMsg:
		m.doc = msg.doc
		meta := msg.doc.Meta()
		m.state.Loading = false
		m.state.LoadErr = nil
		m.state.Doc = &meta
		m.generation = m.engine.SetDocument(meta.PageCount)
		m.rasterizer = pdfdoc.NewPopplerRasterizer(m.docPath)
		m.scanner.SetRasterizer(m.rasterizer)
		m.bus.Publish(eventbus.DocumentLoadedEvent{Doc: meta})

	case docFailedMsg:
		m.state.Loading = false
		m.state.LoadErr = msg.err
		m.bus.Publish(eventbus.DocumentLoadFailedEvent{Path: m.docPath, Err: msg.err})

	case pageMeasuredMsg:
		m.engine.HandleMeasurement(msg.gen, msg.page, msg.size)
		if m.state.Doc != nil {
			m.bus.Publish(eventbus.PageMeasuredEvent{DocID: m.state.Doc.ID, PageIndex: msg.page, Size: msg.size})
		}

	case pageErrorMsg:
		m.engine.HandleRenderError(msg.gen, msg.page, msg.err)
		if m.state.Doc != nil {
			m.bus.Publish(eventbus.PageRenderFailedEvent{DocID: m.state.Doc.ID, PageIndex: msg.page, Err: msg.err})
		}
		m.state.StatusMessage = fmt.Sprintf("page %d failed to load", msg.page+1)

	case helpPagerMsg:
		if msg.err != nil {
			m.state.StatusMessage = fmt.Sprintf("help pager: %v", msg.err)
		}

	case EventMsg:
		m.handleEvent(msg.Event)

	case quitMsg:
		return m.quit(msg.saveConfig)

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
	}

	return m, nil
}

// handleKey routes keys through the popup interceptors and the mode
// handler stack
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.ShowHelp {
		switch msg.String() {
		case "esc", "q", "?":
			m.state.ShowHelp = false
			m.state.HelpScroll = 0
		case "up", "k":
			if m.state.HelpScroll > 0 {
				m.state.HelpScroll--
			}
		case "down", "j":
			m.state.HelpScroll++
		}
		return m, nil
	}

	actions, cmd := m.inputHandler.HandleKey(msg, m.ctx())

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// handleMouse records left clicks in document space so the next
// annotation command can anchor to them
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	if m.state.Doc == nil {
		return
	}

	// Row 0 is the header.
	containerY := float64(msg.Y-1) * m.config.Viewer.PixelsPerRow
	if containerY < 0 {
		return
	}

	page, ok := m.pageAt(containerY)
	if !ok {
		return
	}
	pt := coords.Point{X: float64(msg.X) * colPixels, Y: containerY}
	doc := m.engine.MapToDocument(page, pt)
	m.state.RecordClick(page, doc.X, doc.Y)
	m.state.StatusMessage = fmt.Sprintf("point set on page %d (%.0f, %.0f)", page+1, doc.X, doc.Y)
}

// pageAt finds the rendered page covering a container-space Y position
func (m *Model) pageAt(containerY float64) (int, bool) {
	w := m.engine.Window()
	if w.Render.IsEmpty() {
		return 0, false
	}
	for i := w.Render.Low; i <= w.Render.High; i++ {
		top := m.engine.PageOrigin(i).Y
		if containerY >= top && containerY < top+m.engine.PageHeight(i) {
			return i, true
		}
	}
	return 0, false
}

// handleTick runs one engine frame and turns its loads into commands
func (m *Model) handleTick() tea.Cmd {
	if m.doc == nil {
		return nil
	}

	res := m.engine.Tick()

	var cmds []tea.Cmd
	for _, load := range res.Loads {
		cmds = append(cmds, m.measurePage(load.Generation, load.PageIndex))
	}
	if res.CurrentChanged {
		m.bus.Publish(eventbus.CurrentPageChangedEvent{PageIndex: res.Current})
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// handleEvent processes domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.AnnotationsLoadedEvent:
		m.state.SetAnnotations(m.annotations.All())
		if e.Count > 0 {
			m.state.StatusMessage = fmt.Sprintf("%d annotations loaded", e.Count)
		}

	case eventbus.AnnotationAddedEvent, eventbus.AnnotationUpdatedEvent, eventbus.AnnotationRemovedEvent:
		m.state.SetAnnotations(m.annotations.All())

	case eventbus.ScanStartedEvent:
		m.state.ScanActive = true
		m.state.Scan = m.scanner.Session()

	case eventbus.ScanPageDoneEvent:
		m.state.Scan = m.scanner.Session()

	case eventbus.ScanHitEvent:
		m.state.StatusMessage = fmt.Sprintf("QR code on page %d: %s", e.PageIndex+1, truncate(e.Payload, 40))

	case eventbus.ScanCompletedEvent:
		m.state.ScanActive = false
		m.state.Scan = e.Session

	case eventbus.ErrorEvent:
		m.state.StatusMessage = e.Message
		log.Printf("error event: %s: %v", e.Message, e.Err)
	}
}

// processAction executes a single input action
func (m *Model) processAction(action types.Action) tea.Cmd {
	switch a := action.(type) {
	case types.ScrollAction:
		m.applyScroll(a.Direction)

	case types.PageStepAction:
		target := clampPage(m.engine.CurrentPage()+a.Delta, m.engine.PageCount())
		m.engine.ScrollToPage(target, viewport.BehaviorSmooth)

	case types.GotoPageAction:
		m.engine.ScrollToPage(clampPage(a.Page, m.engine.PageCount()), viewport.BehaviorSmooth)

	case types.SetZoomModeAction:
		m.engine.SetZoom(a.Mode, 0)
		m.state.StatusMessage = fmt.Sprintf("zoom: %s", a.Mode)

	case types.AdjustZoomAction:
		mode, cur := m.engine.ZoomMode()
		if mode != domain.ZoomCustom {
			cur = m.engine.EffectiveScale(maxInt(m.engine.CurrentPage(), 0))
		}
		next := clampScale(cur * (1 + a.Delta))
		m.engine.SetZoom(domain.ZoomCustom, next)
		m.state.StatusMessage = fmt.Sprintf("zoom: %d%%", int(math.Round(next*100)))

	case types.SubmitTextAction:
		m.applySubmit(a)

	case types.CancelTextAction:
		m.state.StatusMessage = ""

	case types.AddHighlightAction:
		m.addHighlight()

	case types.DeleteAnnotationAction:
		id := a.ID
		if id == "" {
			if sel, ok := m.state.Selected(); ok {
				id = sel.ID
			}
		}
		if id != "" && m.annotations.Remove(id) {
			m.state.StatusMessage = "annotation deleted"
		}

	case types.CycleAnnotationAction:
		m.state.CycleSelection(a.Delta)

	case types.OpenAnnotationAction:
		if sel, ok := m.state.Selected(); ok {
			m.engine.ScrollToPage(sel.PageNumber, viewport.BehaviorSmooth)
		}

	case types.StartScanAction:
		return m.startScan()

	case types.ToggleScanPauseAction:
		if m.scanner.Session().Phase == domain.ScanPaused {
			m.scanner.Resume()
			m.state.StatusMessage = "scan resumed"
		} else {
			m.scanner.Pause()
			m.state.StatusMessage = "scan paused"
		}

	case types.StopScanAction:
		m.scanner.Stop()

	case types.ToggleSidebarAction:
		m.state.ShowSidebar = !m.state.ShowSidebar
		m.resizeEngine()

	case types.ToggleHelpAction:
		if m.helpOps != nil {
			return m.fetchHelpPager()
		}
		m.state.ShowHelp = !m.state.ShowHelp
		m.state.HelpScroll = 0

	case types.RetryLoadAction:
		if m.state.LoadErr != nil {
			m.state.Loading = true
			m.state.LoadErr = nil
			return m.loadDocument()
		}

	case types.QuitAction:
		return func() tea.Msg {
			return quitMsg{saveConfig: !a.Force && m.config.Viewer.AutosaveOnExit}
		}
	}

	return nil
}

func (m *Model) applyScroll(direction string) {
	rowPx := m.config.Viewer.PixelsPerRow
	screen := m.engine.Viewport().ContainerHeight

	switch direction {
	case "up":
		m.engine.ScrollBy(-3 * rowPx)
	case "down":
		m.engine.ScrollBy(3 * rowPx)
	case "pageup":
		m.engine.ScrollBy(-screen * 0.9)
	case "pagedown":
		m.engine.ScrollBy(screen * 0.9)
	case "home":
		m.engine.ScrollToPage(0, viewport.BehaviorInstant)
	case "end":
		m.engine.ScrollToPage(m.engine.PageCount()-1, viewport.BehaviorInstant)
	}
}

// applySubmit consumes text-mode input
func (m *Model) applySubmit(a types.SubmitTextAction) {
	text := strings.TrimSpace(a.Text)

	switch a.Mode {
	case types.ModeGotoPage:
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 || n > m.engine.PageCount() {
			m.state.StatusMessage = fmt.Sprintf("no page %q", text)
			return
		}
		m.engine.ScrollToPage(n-1, viewport.BehaviorSmooth)

	case types.ModeComment:
		if text == "" {
			return
		}
		page, rect := m.annotationAnchor(200, 60)
		if _, ok := m.annotations.Add(domain.KindComment, page, rect, text, "", false); ok {
			m.state.StatusMessage = "comment added"
		}

	case types.ModeBookmark:
		page := maxInt(m.engine.CurrentPage(), 0)
		if text == "" {
			text = fmt.Sprintf("Page %d", page+1)
		}
		if _, ok := m.annotations.Add(domain.KindBookmark, page, domain.Rect{}, text, "", false); ok {
			m.state.StatusMessage = "bookmark added"
		}

	case types.ModeCTA:
		if text == "" {
			return
		}
		page, rect := m.annotationAnchor(140, 40)
		if _, ok := m.annotations.Add(domain.KindCTA, page, rect, "", text, false); ok {
			m.state.StatusMessage = "CTA added"
		}
	}
}

// addHighlight anchors a highlight at the last click and captures the
// text under it
func (m *Model) addHighlight() {
	page, rect := m.annotationAnchor(220, 20)
	text, err := m.doc.TextInRect(page, rect)
	if err != nil {
		log.Printf("highlight text capture failed on page %d: %v", page, err)
	}
	if _, ok := m.annotations.Add(domain.KindHighlight, page, rect, text, "", false); ok {
		m.state.StatusMessage = "highlight added"
	}
}

// annotationAnchor places a w x h document-space rect at the last click,
// falling back to the current page's top-left margin
func (m *Model) annotationAnchor(w, h float64) (int, domain.Rect) {
	if page, click, ok := m.state.TakeClick(); ok {
		return page, domain.Rect{X: click.X, Y: click.Y, Width: w, Height: h}
	}
	page := maxInt(m.engine.CurrentPage(), 0)
	return page, domain.Rect{X: 72, Y: 72, Width: w, Height: h}
}

func (m *Model) startScan() tea.Cmd {
	if m.state.Doc == nil {
		return nil
	}
	ras, ok := m.rasterizer.(*pdfdoc.PopplerRasterizer)
	if ok && !ras.Available() {
		m.state.StatusMessage = "scan unavailable: pdftoppm not found on PATH"
		return nil
	}
	m.bus.Publish(eventbus.ScanRequestedEvent{DocID: m.state.Doc.ID})
	return nil
}

func (m *Model) quit(saveConfig bool) (tea.Model, tea.Cmd) {
	if m.state.Doc != nil {
		m.bus.Publish(eventbus.DocumentClosedEvent{DocID: m.state.Doc.ID})
	}
	if saveConfig {
		mode, scale := m.engine.ZoomMode()
		m.config.Viewer.ZoomMode = mode
		m.config.Viewer.CustomScale = scale
		if err := config.NewConfigService().Save(m.config); err != nil {
			log.Printf("config save failed: %v", err)
		}
	}
	if m.doc != nil {
		_ = m.doc.Close()
	}
	return m, tea.Quit
}

// resizeEngine recomputes the engine container from the terminal size.
// The sidebar steals a third of the width when open.
func (m *Model) resizeEngine() {
	if m.width <= 0 || m.height <= 2 {
		return
	}
	stripCols := m.width
	if m.state.ShowSidebar {
		stripCols = m.width * 2 / 3
	}
	bodyRows := m.height - 2
	m.engine.Resize(coords.Size{
		Width:  float64(stripCols-4) * colPixels,
		Height: float64(bodyRows) * m.config.Viewer.PixelsPerRow,
	})
}

// ctx builds the read-only context handed to input modes
func (m *Model) ctx() types.Context {
	return &modelContext{m: m}
}

// View renders the UI
func (m *Model) View() string {
	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Doc:           m.state.Doc,
		LoadErr:       m.state.LoadErr,
		Loading:       m.state.Loading,
		Annotations:   m.state.Annotations,
		SelectedIndex: m.state.SelectedIndex,
		ShowSidebar:   m.state.ShowSidebar,
		Scan:          m.state.Scan,
		ScanActive:    m.state.ScanActive,
		StatusMessage: m.state.StatusMessage,
		ShowHelp:      m.state.ShowHelp,
		HelpScroll:    m.state.HelpScroll,
	}

	if m.state.Doc != nil {
		current := maxInt(m.engine.CurrentPage(), 0)
		mode, _ := m.engine.ZoomMode()
		vs.Current = current
		vs.PageCount = m.state.Doc.PageCount
		vs.ZoomMode = mode
		vs.ZoomPercent = int(math.Round(m.engine.EffectiveScale(current) * 100))
		vs.Pages = m.buildPageViews()
	}

	if m.inputHandler.Prompt() != "" {
		vs.InputPrompt = m.inputHandler.Prompt()
		if ti := m.inputHandler.TextInput(); ti != nil {
			vs.InputView = ti.View()
		}
	}

	return m.renderer.Render(vs)
}

// buildPageViews projects the render window into terminal rows
func (m *Model) buildPageViews() []views.PageView {
	w := m.engine.Window()
	if w.Render.IsEmpty() {
		return nil
	}

	rowPx := m.config.Viewer.PixelsPerRow
	var selectedID string
	if sel, ok := m.state.Selected(); ok {
		selectedID = sel.ID
	}

	pages := make([]views.PageView, 0, w.Render.Len())
	for i := w.Render.Low; i <= w.Render.High; i++ {
		pv := views.PageView{
			Index:      i,
			Status:     m.engine.Status(i),
			TopRow:     int(math.Round(m.engine.PageOrigin(i).Y / rowPx)),
			HeightRows: maxInt(int(math.Round(m.engine.PageHeight(i)/rowPx)), 3),
			Current:    i == w.Current,
		}
		pv.Overlays = m.buildOverlays(i, pv.HeightRows, selectedID)
		pages = append(pages, pv)
	}
	return pages
}

// buildOverlays positions a page's annotations inside its card
func (m *Model) buildOverlays(pageIndex, heightRows int, selectedID string) []views.Overlay {
	rowPx := m.config.Viewer.PixelsPerRow
	pageTop := m.engine.PageOrigin(pageIndex).Y

	var overlays []views.Overlay
	for _, a := range m.state.Annotations {
		if a.PageNumber != pageIndex {
			continue
		}
		vr := m.engine.MapToViewport(pageIndex, a.Coordinates)
		row := int((vr.Y - pageTop) / rowPx)
		row = clampInt(row, 0, maxInt(heightRows-3, 0))
		col := clampInt(int(a.Coordinates.X*m.engine.EffectiveScale(pageIndex)/colPixels), 0, 200)
		overlays = append(overlays, views.Overlay{
			Kind:     a.Kind,
			Row:      row,
			Col:      col,
			Label:    overlayLabel(a),
			Selected: a.ID == selectedID,
		})
	}
	return overlays
}

func overlayLabel(a domain.Annotation) string {
	if a.Kind == domain.KindCTA && a.URL != "" {
		return truncate(a.URL, 32)
	}
	return truncate(a.Text, 32)
}

// modelContext adapts the model to the input context interface
type modelContext struct {
	m *Model
}

func (c *modelContext) CurrentPage() int   { return c.m.engine.CurrentPage() }
func (c *modelContext) PageCount() int     { return c.m.engine.PageCount() }
func (c *modelContext) DocumentOpen() bool { return c.m.state.Doc != nil }
func (c *modelContext) ScanActive() bool   { return c.m.state.ScanActive }
func (c *modelContext) SidebarOpen() bool  { return c.m.state.ShowSidebar }

func (c *modelContext) SelectedAnnotationID() string {
	if sel, ok := c.m.state.Selected(); ok {
		return sel.ID
	}
	return ""
}

func clampPage(page, count int) int {
	if count <= 0 {
		return 0
	}
	return clampInt(page, 0, count-1)
}

func clampScale(s float64) float64 {
	if s < 0.25 {
		return 0.25
	}
	if s > 4.0 {
		return 4.0
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
