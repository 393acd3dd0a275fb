package notify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"neoshop/internal/order"
	"neoshop/internal/utils"
)

// Terminal talks to a shopper over a text stream. Input is read by a single
// goroutine started on the first Confirm; a line typed after a Confirm gave
// up waiting is handed to the next one.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	money *utils.MoneyFormatter

	in       *bufio.Reader
	readOnce sync.Once
	answers  chan answer
}

type answer struct {
	line string
	err  error
}

func NewTerminal(in io.Reader, out io.Writer, money *utils.MoneyFormatter) *Terminal {
	return &Terminal{
		out:     out,
		money:   money,
		in:      bufio.NewReader(in),
		answers: make(chan answer),
	}
}

func (t *Terminal) Success(_ context.Context, title string) {
	t.printf("✔ %s\n", title)
}

func (t *Terminal) Info(_ context.Context, title, text string) {
	t.printf("ℹ %s\n", join(title, text))
}

func (t *Terminal) ValidationError(_ context.Context, title, text string) {
	t.printf("✖ %s\n", join(title, text))
}

// Confirm accepts y/yes (any case); anything else, including EOF, is no.
func (t *Terminal) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	yes, no := c.ConfirmLabel, c.CancelLabel
	if yes == "" {
		yes = "yes"
	}
	if no == "" {
		no = "no"
	}
	t.printf("? %s [y = %s / N = %s] ", join(c.Title, c.Text), yes, no)

	t.readOnce.Do(func() { go t.readLines() })

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a, ok := <-t.answers:
		if !ok {
			return false, nil
		}
		if a.err != nil {
			return false, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes", "s", "si", "sí":
			return true, nil
		default:
			return false, nil
		}
	}
}

// readLines feeds answers until the input fails. The channel is closed
// after the last line so later Confirms see EOF as a no.
func (t *Terminal) readLines() {
	defer close(t.answers)
	for {
		line, err := t.in.ReadString('\n')
		switch {
		case err == nil:
			t.answers <- answer{line: line}
		case errors.Is(err, io.EOF):
			if line != "" {
				t.answers <- answer{line: line}
			}
			return
		default:
			t.answers <- answer{err: err}
			return
		}
	}
}

func (t *Terminal) OrderSummary(_ context.Context, o *order.Order) {
	t.printf("✔ Purchase confirmed\n%s", order.Summary(o, t.money))
}

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func join(title, text string) string {
	if text == "" {
		return title
	}
	return title + ": " + text
}
