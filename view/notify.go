package view

import (
	"sync"

	"github.com/google/uuid"
)

// Notifier is the ui surface controllers report to.
type Notifier interface {
	ShowModal(title, body string, onDismiss func())
	HideModal()
	AddNotification(msg string)
	Reload()
}

const (
	EventModal        = "modal"
	EventHideModal    = "hide_modal"
	EventNotification = "notification"
	EventReload       = "reload"
)

// UIEvent is one ui action recorded by Recorder.
type UIEvent struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// Recorder is a Notifier that keeps the produced events, it backs the json view endpoints.
type Recorder struct {
	lock      sync.Mutex
	events    []UIEvent
	onDismiss map[string]func()
}

func NewRecorder() *Recorder {
	return &Recorder{onDismiss: map[string]func(){}}
}

func (r *Recorder) record(event UIEvent) string {
	event.ID = uuid.New().String()
	r.events = append(r.events, event)
	return event.ID
}

func (r *Recorder) ShowModal(title, body string, onDismiss func()) {
	r.lock.Lock()
	defer r.lock.Unlock()
	id := r.record(UIEvent{Type: EventModal, Title: title, Body: body})
	if onDismiss != nil {
		r.onDismiss[id] = onDismiss
	}
}

func (r *Recorder) HideModal() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.record(UIEvent{Type: EventHideModal})
}

func (r *Recorder) AddNotification(msg string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.record(UIEvent{Type: EventNotification, Body: msg})
}

func (r *Recorder) Reload() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.record(UIEvent{Type: EventReload})
}

// Dismiss runs the dismiss callback of a modal, it reports false for unknown ids.
func (r *Recorder) Dismiss(id string) bool {
	r.lock.Lock()
	cb, ok := r.onDismiss[id]
	delete(r.onDismiss, id)
	r.lock.Unlock()
	if !ok {
		return false
	}
	cb()
	return true
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []UIEvent {
	r.lock.Lock()
	defer r.lock.Unlock()
	events := make([]UIEvent, len(r.events))
	copy(events, r.events)
	return events
}
