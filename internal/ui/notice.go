package ui

import (
	"context"
	"sync"
	"time"

	"membership-admin/pkg/logger"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is one transient operator notice.
type Message struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Slot holds at most one visible message. Put supersedes whatever is showing and
// schedules the new message to disappear after ttl.
type Slot interface {
	Put(ctx context.Context, msg Message, ttl time.Duration) error
	Get(ctx context.Context) (Message, bool, error)
}

// Notifier shows messages through a Slot. Slot failures are logged, never returned.
type Notifier struct {
	slot   Slot
	ttl    time.Duration
	log    logger.Logger
	onShow func(Kind)
}

func NewNotifier(slot Slot, ttl time.Duration, log logger.Logger) *Notifier {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Notifier{slot: slot, ttl: ttl, log: logger.Component(log, "notifier")}
}

// OnShow registers a hook called for every shown message.
func (n *Notifier) OnShow(fn func(Kind)) {
	n.onShow = fn
}

func (n *Notifier) Show(ctx context.Context, text string, kind Kind) {
	n.ShowFor(ctx, text, kind, n.ttl)
}

func (n *Notifier) ShowFor(ctx context.Context, text string, kind Kind, ttl time.Duration) {
	if ttl <= 0 {
		ttl = n.ttl
	}
	if err := n.slot.Put(ctx, Message{Text: text, Kind: kind}, ttl); err != nil {
		n.log.InternalError("notifier: put failed", err, "kind", kind)
		return
	}
	if n.onShow != nil {
		n.onShow(kind)
	}
}

// Current returns the visible message, if any.
func (n *Notifier) Current(ctx context.Context) (Message, bool) {
	msg, ok, err := n.slot.Get(ctx)
	if err != nil {
		n.log.InternalError("notifier: get failed", err)
		return Message{}, false
	}
	return msg, ok
}

type scheduleFunc func(d time.Duration, fn func()) (stop func() bool)

func afterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// MemorySlot keeps the message in process. Each Put bumps a generation and cancels
// the previous dismissal; a dismissal whose generation is stale does nothing.
type MemorySlot struct {
	mu         sync.Mutex
	current    Message
	visible    bool
	generation uint64
	stop       func() bool
	schedule   scheduleFunc
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{schedule: afterFunc}
}

func (s *MemorySlot) Put(_ context.Context, msg Message, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		s.stop()
	}
	s.generation++
	generation := s.generation
	s.current = msg
	s.visible = true
	s.stop = s.schedule(ttl, func() { s.dismiss(generation) })
	return nil
}

func (s *MemorySlot) Get(_ context.Context) (Message, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.visible, nil
}

func (s *MemorySlot) dismiss(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}
	s.current = Message{}
	s.visible = false
	s.stop = nil
}
