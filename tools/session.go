package tools

// EventKind says what changed on a tool.
type EventKind int

const (
	// EventText fires when the tool's label text changed.
	EventText EventKind = iota
	// EventMinimized fires when the marker was collapsed or expanded.
	EventMinimized
	// EventMoved fires when any of the tool's anchor positions changed.
	EventMoved
)

// Event is a change notification for a single tool.
type Event struct {
	Kind EventKind
	Tool Tool
}

// Session owns a tool and publishes change events for it. Consumers that
// fall behind lose events rather than blocking the publisher.
type Session struct {
	tool   Tool
	events chan Event
}

func NewSession(t Tool) *Session {
	return &Session{tool: t, events: make(chan Event, 16)}
}

func (s *Session) Tool() Tool { return s.tool }

// Events is the tool's change feed. It is never closed.
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) SetText(text string) {
	if s.tool.meta().Text == text {
		return
	}
	s.tool.meta().Text = text
	s.publish(Event{Kind: EventText, Tool: s.tool})
}

func (s *Session) SetMinimized(minimized bool) {
	if s.tool.meta().Minimized == minimized {
		return
	}
	s.tool.meta().Minimized = minimized
	s.publish(Event{Kind: EventMinimized, Tool: s.tool})
}

// NotifyMoved reports that the caller changed the tool's positions in place.
func (s *Session) NotifyMoved() {
	s.publish(Event{Kind: EventMoved, Tool: s.tool})
}

func (s *Session) publish(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
