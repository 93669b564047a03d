package trace

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Span is one visible period of a panel, or the session root.
type Span struct {
	TraceID    string
	SpanID     string
	ParentID   string
	Name       string
	StartTime  time.Time
	Duration   time.Duration // zero while the span is open
	Attributes map[string]string
	Children   []*Span
}

// End returns when the span finished.
func (s *Span) End() time.Time {
	return s.StartTime.Add(s.Duration)
}

func (s *Span) clone() *Span {
	c := *s
	c.Attributes = make(map[string]string, len(s.Attributes))
	for k, v := range s.Attributes {
		c.Attributes[k] = v
	}
	c.Children = make([]*Span, len(s.Children))
	for i, child := range s.Children {
		c.Children[i] = child.clone()
	}
	return &c
}

// Trace is one shell session: a root span with a child per panel showing.
type Trace struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	RootSpan  *Span
	Status    string // "running" or "completed"
}

// NewTraceID returns a random 16-byte id as 32 hex characters.
func NewTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// NewSpanID returns a random 8-byte id as 16 hex characters.
func NewSpanID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
