package notify

import (
	"context"
	"sync"

	"neoshop/internal/order"
)

type Kind string

const (
	KindSuccess         Kind = "success"
	KindInfo            Kind = "info"
	KindValidationError Kind = "validation_error"
	KindConfirm         Kind = "confirm"
	KindOrderSummary    Kind = "order_summary"
)

// Message is one recorded notification.
type Message struct {
	Kind  Kind         `json:"kind"`
	Title string       `json:"title"`
	Text  string       `json:"text,omitempty"`
	Order *order.Order `json:"order,omitempty"`
}

// Script answers confirmations from a fixed list and records everything it
// is told. Once the answers run out it keeps returning Default.
type Script struct {
	mu       sync.Mutex
	answers  []bool
	Default  bool
	messages []Message
}

func NewScript(answers ...bool) *Script {
	return &Script{answers: answers}
}

func (s *Script) Success(_ context.Context, title string) {
	s.record(Message{Kind: KindSuccess, Title: title})
}

func (s *Script) Info(_ context.Context, title, text string) {
	s.record(Message{Kind: KindInfo, Title: title, Text: text})
}

func (s *Script) ValidationError(_ context.Context, title, text string) {
	s.record(Message{Kind: KindValidationError, Title: title, Text: text})
}

func (s *Script) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.record(Message{Kind: KindConfirm, Title: c.Title, Text: c.Text})

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.answers) == 0 {
		return s.Default, nil
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *Script) OrderSummary(_ context.Context, o *order.Order) {
	s.record(Message{Kind: KindOrderSummary, Title: "Purchase confirmed", Order: o})
}

// Messages returns what has been recorded so far.
func (s *Script) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Script) Kinds() []Kind {
	msgs := s.Messages()
	out := make([]Kind, len(msgs))
	for i, m := range msgs {
		out[i] = m.Kind
	}
	return out
}

func (s *Script) record(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
}
