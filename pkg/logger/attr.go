package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors". All nil yields an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". A nil err yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Machine records a state machine name under "machine".
// Unnamed machines yield an empty Attr.
func Machine(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("machine", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// State records a state name under the key "state".
func State(name string) slog.Attr {
	return slog.String("state", name)
}

// Transition records both ends of a state change as a "transition" group.
func Transition(from, to string) slog.Attr {
	return Group("transition", slog.String("from", from), slog.String("to", to))
}

// Subscribers records a subscriber count under "subscribers".
func Subscribers(n int) slog.Attr {
	return slog.Int("subscribers", n)
}

// Depth records how deep a publish is nested inside other publishes.
func Depth(n int) slog.Attr {
	return slog.Int("depth", n)
}

// DispatchID records the id shared by a publish and all of its cascades.
// If id is nil, it returns an empty Attr.
func DispatchID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("dispatch_id", id)
}

// Duration records how long something took under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
