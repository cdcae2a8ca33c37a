package types

import "log/slog"

// Event names emitted by the core packages.
const (
	EventFileLoaded      = "file.loaded"
	EventDialectDetected = "dialect.detected"
	EventRowsDropped     = "rows.dropped"
	EventConverted       = "records.converted"
	EventContactExcess   = "contacts.excess"
	EventSelectionLimit  = "selection.limit"
	EventExportAssembled = "export.assembled"
	EventExportWritten   = "export.written"
)

// Event is a structured notification from the core.
type Event struct {
	Level   slog.Level
	Name    string
	Message string
	Attrs   []slog.Attr
}

// Observer receives events. The core never writes to an output of its own;
// whoever builds the pipeline decides where events go.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

// NopObserver discards every event.
type NopObserver struct{}

// Observe implements Observer.
func (NopObserver) Observe(Event) {}

// Emit sends an event to o, treating a nil observer as NopObserver.
func Emit(o Observer, level slog.Level, name, msg string, attrs ...slog.Attr) {
	if o == nil {
		return
	}
	o.Observe(Event{Level: level, Name: name, Message: msg, Attrs: attrs})
}
