package editor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dshills/termline/internal/editor/history"
)

// fakeTransport scripts input bytes and captures output bytes, serving
// reads one byte at a time the way a UART would.
type fakeTransport struct {
	in  []byte
	pos int
	out bytes.Buffer
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	if f.pos >= len(f.in) {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = f.in[f.pos]
	f.pos++
	return 1, nil
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	return f.out.Write(p)
}

func (f *fakeTransport) consumed() bool { return f.pos == len(f.in) }

func newEditor(input string, capacity, depth int) (*Editor, *fakeTransport) {
	t := &fakeTransport{in: []byte(input)}
	h := history.New(history.WithLineCapacity(capacity), history.WithDepth(depth))
	return New(t, h), t
}

func readLine(t *testing.T, e *Editor) string {
	t.Helper()
	got, err := e.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	return string(got)
}

func TestReadLineSimple(t *testing.T) {
	e, tr := newEditor("hello\nworld\n", 8, 2)

	if got := readLine(t, e); got != "hello" {
		t.Errorf("line 1 = %q, want %q", got, "hello")
	}
	// Each typed byte is echoed as-is; no corrective sequences.
	if got := tr.out.String(); got != "hello" {
		t.Errorf("output = %q, want %q", got, "hello")
	}

	if got := readLine(t, e); got != "world" {
		t.Errorf("line 2 = %q, want %q", got, "world")
	}
	if got := tr.out.String(); got != "helloworld" {
		t.Errorf("output = %q, want %q", got, "helloworld")
	}

	if !tr.consumed() {
		t.Error("input not fully consumed")
	}
}

func TestReadLineCRTerminator(t *testing.T) {
	e, _ := newEditor("hi\r", 8, 2)
	if got := readLine(t, e); got != "hi" {
		t.Errorf("line = %q, want %q", got, "hi")
	}
}

func TestHistoryRecallAndEdit(t *testing.T) {
	// Up arrow recalls the previous line; typed bytes append to it and
	// Enter commits the edited recall as a new entry.
	e, tr := newEditor("omg!\nwtf?\n\x1b[Abbq~\n", 8, 2)

	if got := readLine(t, e); got != "omg!" {
		t.Errorf("line 1 = %q", got)
	}
	if got := readLine(t, e); got != "wtf?" {
		t.Errorf("line 2 = %q", got)
	}
	if got := readLine(t, e); got != "wtf?bbq~" {
		t.Errorf("line 3 = %q, want %q", got, "wtf?bbq~")
	}
	if !tr.consumed() {
		t.Error("input not fully consumed")
	}
}

func TestHistoryUpDown(t *testing.T) {
	e, tr := newEditor("yes!\n", 8, 4)
	if got := readLine(t, e); got != "yes!" {
		t.Fatalf("line 1 = %q", got)
	}

	// Up recalls "yes!", down returns to the empty in-progress line.
	tr.in = []byte("\x1b[A\x1b[B\n")
	tr.pos = 0
	tr.out.Reset()

	if got := readLine(t, e); got != "" {
		t.Errorf("line 2 = %q, want empty", got)
	}
	want := "yes!\x08\x08\x08\x08    \x08\x08\x08\x08"
	if got := tr.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCtrlPN(t *testing.T) {
	// Ctrl-P / Ctrl-N mirror the up and down arrows.
	e, tr := newEditor("yes!\n", 8, 4)
	readLine(t, e)

	tr.in = []byte("\x10\x0e\n")
	tr.pos = 0
	tr.out.Reset()

	if got := readLine(t, e); got != "" {
		t.Errorf("line = %q, want empty", got)
	}
	want := "yes!\x08\x08\x08\x08    \x08\x08\x08\x08"
	if got := tr.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestDeleteWordAtEnd(t *testing.T) {
	e, tr := newEditor("a b\x17\n\x1b[A\x17\n", 32, 4)

	if got := readLine(t, e); got != "a " {
		t.Errorf("line 1 = %q, want %q", got, "a ")
	}
	if got := tr.out.String(); got != "a b\x08 \x08" {
		t.Errorf("output = %q", got)
	}

	tr.out.Reset()
	if got := readLine(t, e); got != "" {
		t.Errorf("line 2 = %q, want empty", got)
	}
	if got := tr.out.String(); got != "a \x08\x08  \x08\x08" {
		t.Errorf("output = %q", got)
	}
	if !tr.consumed() {
		t.Error("input not fully consumed")
	}
}

func TestDeleteWordMidLine(t *testing.T) {
	// "a b " then two lefts puts the cursor after "a "; Ctrl-W deletes
	// the leading word.
	e, tr := newEditor("a b \x1b[D\x1b[D\x17\n", 32, 4)

	if got := readLine(t, e); got != "b " {
		t.Errorf("line = %q, want %q", got, "b ")
	}
	want := "a b \x08\x08\x08\x08b   \x08\x08\x08\x08"
	if got := tr.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestBackspaceVariants(t *testing.T) {
	// BS and DEL both delete the byte before the cursor.
	for _, b := range []string{"\x08", "\x7f"} {
		e, _ := newEditor("ab"+b+"\n", 8, 2)
		if got := readLine(t, e); got != "a" {
			t.Errorf("with %q: line = %q, want %q", b, got, "a")
		}
	}
}

func TestCtrlAEK(t *testing.T) {
	// Ctrl-A to start, type, Ctrl-E to end, Ctrl-K deletes nothing there.
	e, _ := newEditor("bc\x01a\x05\x0b\n", 8, 2)
	if got := readLine(t, e); got != "abc" {
		t.Errorf("line = %q, want %q", got, "abc")
	}
}

func TestCtrlKKillsToEnd(t *testing.T) {
	e, _ := newEditor("hello\x1b[D\x1b[D\x0b\n", 8, 2)
	if got := readLine(t, e); got != "hel" {
		t.Errorf("line = %q, want %q", got, "hel")
	}
}

func TestArrowRightAfterLeft(t *testing.T) {
	e, _ := newEditor("ab\x1b[D\x1b[Cc\n", 8, 2)
	if got := readLine(t, e); got != "abc" {
		t.Errorf("line = %q, want %q", got, "abc")
	}
}

func TestInsertMidLine(t *testing.T) {
	e, _ := newEditor("ac\x1b[Db\n", 8, 2)
	if got := readLine(t, e); got != "abc" {
		t.Errorf("line = %q, want %q", got, "abc")
	}
}

func TestLiteralBracket(t *testing.T) {
	// A bare '[' is ordinary input, not a sequence introducer.
	e, _ := newEditor("a[b\n", 8, 2)
	if got := readLine(t, e); got != "a[b" {
		t.Errorf("line = %q, want %q", got, "a[b")
	}
}

func TestUnknownCtrlFinalIgnored(t *testing.T) {
	e, _ := newEditor("a\x1b[Zb\n", 8, 2)
	if got := readLine(t, e); got != "ab" {
		t.Errorf("line = %q, want %q", got, "ab")
	}
}

func TestEscapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"double escape", "\x1b\x1b", ErrUnexpectedEscape},
		{"escape inside ctrl", "\x1b[\x1b", ErrUnexpectedEscape},
		{"double bracket", "\x1b[[", ErrUnexpectedCtrl},
		{"eof before terminator", "abc", ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEditor(tt.input, 8, 2)
			_, err := e.ReadLine(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnexpectedChar(t *testing.T) {
	e, _ := newEditor("\x1bx", 8, 2)
	_, err := e.ReadLine(context.Background())

	var ucErr *UnexpectedCharError
	if !errors.As(err, &ucErr) {
		t.Fatalf("err = %v, want *UnexpectedCharError", err)
	}
	if ucErr.Byte != 'x' {
		t.Errorf("Byte = %#02x, want 'x'", ucErr.Byte)
	}
}

func TestEscapeThenTerminatorCommits(t *testing.T) {
	e, _ := newEditor("ab\x1b\n", 8, 2)
	if got := readLine(t, e); got != "ab" {
		t.Errorf("line = %q, want %q", got, "ab")
	}
}

func TestBufferFull(t *testing.T) {
	e, _ := newEditor("abcde", 4, 2)
	_, err := e.ReadLine(context.Background())
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("err = %v, want ErrBufferFull", err)
	}
	// The line keeps everything that fit.
	if got := e.History().Current().String(); got != "abcd" {
		t.Errorf("line = %q, want %q", got, "abcd")
	}
}

func TestTransportReadError(t *testing.T) {
	wantErr := errors.New("uart parity")
	e := New(&errTransport{err: wantErr}, history.New())

	_, err := e.ReadLine(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
	var trErr *TransportError
	if !errors.As(err, &trErr) || trErr.Op != "read" {
		t.Fatalf("err = %v, want *TransportError for read", err)
	}
}

type errTransport struct {
	err error
}

func (e *errTransport) Read(p []byte) (int, error)  { return 0, e.err }
func (e *errTransport) Write(p []byte) (int, error) { return len(p), nil }

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, _ := newEditor("hello\n", 8, 2)
	if _, err := e.ReadLine(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestResumeAfterCancel(t *testing.T) {
	// A session cut off mid-line leaves the partial line in place; the
	// next session on the same history resumes editing it.
	e, tr := newEditor("hel", 8, 2)
	if _, err := e.ReadLine(context.Background()); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatal("expected EOF mid-line")
	}

	tr.in = []byte("lo\n")
	tr.pos = 0
	if got := readLine(t, e); got != "hello" {
		t.Errorf("resumed line = %q, want %q", got, "hello")
	}
}

func TestBlockedTransportHonorsDeadline(t *testing.T) {
	// The editor itself never times out; a caller-side context is
	// checked between bytes.
	e, _ := newEditor("a", 8, 2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	if _, err := e.ReadLine(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    status
		want string
	}{
		{statusChar, "char"},
		{statusEscape, "escape"},
		{statusCtrl, "ctrl"},
		{status(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
