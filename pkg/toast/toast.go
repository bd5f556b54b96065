package toast

import (
	"context"
	"log/slog"
	"sync"
)

// EventName is the event name dispatched for toasts.
const EventName = "uploadbox:toast"

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Emitter dispatches a named event with a payload.
type Emitter interface {
	Emit(name string, data any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(name string, data any)

// Emit implements Emitter.
func (f EmitterFunc) Emit(name string, data any) { f(name, data) }

// Show displays a toast notification.
//
// The emitted payload is a map with:
//   - "level": "success|error|warning|info"
//   - "message": the text
func Show(e Emitter, level Type, message string) {
	if e == nil {
		return
	}
	e.Emit(EventName, map[string]any{
		"level":   string(level),
		"message": message,
	})
}

// Success shows a success toast.
func Success(e Emitter, message string) { Show(e, TypeSuccess, message) }

// Error shows an error toast.
//
//	toast.Error(e, "Failed to delete item")
func Error(e Emitter, message string) { Show(e, TypeError, message) }

// Warning shows a warning toast.
func Warning(e Emitter, message string) { Show(e, TypeWarning, message) }

// Info shows an info toast.
func Info(e Emitter, message string) { Show(e, TypeInfo, message) }

// WithTitle shows a toast with a title and message.
func WithTitle(e Emitter, level Type, title, message string) {
	if e == nil {
		return
	}
	e.Emit(EventName, map[string]any{
		"level":   string(level),
		"title":   title,
		"message": message,
	})
}

// Event is a recorded toast.
type Event struct {
	Name string
	Data map[string]any
}

// Level returns the toast level of the event.
func (e Event) Level() Type {
	s, _ := e.Data["level"].(string)
	return Type(s)
}

// Message returns the toast message of the event.
func (e Event) Message() string {
	s, _ := e.Data["message"].(string)
	return s
}

// Recorder is an Emitter that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Emitter.
func (r *Recorder) Emit(name string, data any) {
	m, _ := data.(map[string]any)
	r.mu.Lock()
	r.events = append(r.events, Event{Name: name, Data: m})
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Drain returns the recorded events and forgets them.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// LogEmitter writes toasts to a slog.Logger. Error toasts are logged at
// warn level, everything else at info.
type LogEmitter struct {
	Logger *slog.Logger
}

// Emit implements Emitter.
func (l LogEmitter) Emit(name string, data any) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m, _ := data.(map[string]any)
	level := slog.LevelInfo
	if m["level"] == string(TypeError) {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "toast", "event", name, "level", m["level"], "message", m["message"])
}

// Multi fans every event out to all emitters.
func Multi(emitters ...Emitter) Emitter {
	return EmitterFunc(func(name string, data any) {
		for _, e := range emitters {
			if e != nil {
				e.Emit(name, data)
			}
		}
	})
}
