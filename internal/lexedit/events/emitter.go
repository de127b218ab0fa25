package events

import (
	"context"
	"sync"
)

// Event names pushed to editor clients.
const (
	HistoryChanged = "history:changed"
	SidebarReload  = "sidebar:reload"
	SceneRender    = "scene:render"
	Toast          = "toast"
	Alert          = "alert"
	ErrorReport    = "error:report"
	Loading        = "loading"
	FaceSwitched   = "face:switched"
)

// Emitter delivers editor events to whoever is listening for a session.
// Collaborators receive this instead of a transport so they can be tested
// with MockEmitter.
type Emitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Kind is the toast severity.
type Kind string

const (
	KindInfo    Kind = "info"
	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
)

// ToastPayload is a non-blocking notification.
type ToastPayload struct {
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
	Kind  Kind   `json:"kind"`
}

// ErrorPayload backs the blocking error dialog.
type ErrorPayload struct {
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

// LoadingPayload shows or hides the loading indicator.
type LoadingPayload struct {
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
}

// AlertPayload backs a blocking alert.
type AlertPayload struct {
	Text string `json:"text"`
}

// Msg emits a toast.
func Msg(ctx context.Context, e Emitter, text, title string, kind Kind) {
	if e == nil {
		return
	}
	e.Emit(ctx, Toast, ToastPayload{Text: text, Title: title, Kind: kind})
}

// ReportError emits the error dialog.
func ReportError(ctx context.Context, e Emitter, summary, detail string) {
	if e == nil {
		return
	}
	e.Emit(ctx, ErrorReport, ErrorPayload{Summary: summary, Detail: detail})
}

// ShowAlert emits a blocking alert.
func ShowAlert(ctx context.Context, e Emitter, text string) {
	if e == nil {
		return
	}
	e.Emit(ctx, Alert, AlertPayload{Text: text})
}

// SetLoading shows or hides the loading indicator.
func SetLoading(ctx context.Context, e Emitter, visible bool, message string) {
	if e == nil {
		return
	}
	e.Emit(ctx, Loading, LoadingPayload{Visible: visible, Message: message})
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(context.Context, string, any) {}

// Fanout forwards each event to every emitter in order.
type Fanout []Emitter

func (f Fanout) Emit(ctx context.Context, event string, data any) {
	for _, e := range f {
		e.Emit(ctx, event, data)
	}
}

// MockEmitter records every call for test assertions.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent is a single recorded emission.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// Last returns the most recent emission of event.
func (m *MockEmitter) Last(event string) (EmittedEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Events) - 1; i >= 0; i-- {
		if m.Events[i].Event == event {
			return m.Events[i], true
		}
	}
	return EmittedEvent{}, false
}

// Reset forgets recorded events.
func (m *MockEmitter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = nil
}
