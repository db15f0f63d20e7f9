package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termline/internal/config"
	"github.com/dshills/termline/internal/editor"
	"github.com/dshills/termline/internal/editor/history"
)

// ErrClosed is returned when running a closed REPL.
var ErrClosed = errors.New("repl is closed")

// REPL reads lines through the editor and evaluates them as Lua in a
// persistent interpreter state.
//
// Run is single-threaded over both the editor session and the Lua state;
// only ApplyConfig and Close may be called from other goroutines.
type REPL struct {
	transport editor.Transport
	ed        *editor.Editor
	state     *lua.LState
	log       *Logger

	mu     sync.Mutex
	prompt string
	closed bool
}

// Options configures a REPL.
type Options struct {
	// Transport carries the editing session; typically the raw-mode TTY.
	Transport editor.Transport

	// Config supplies prompt, buffer sizing and log level.
	Config config.Config

	// Logger receives session logs. Nil disables them.
	Logger *Logger
}

// New creates a REPL with its editor buffers and Lua state allocated.
func New(opts Options) (*REPL, error) {
	if opts.Transport == nil {
		return nil, errors.New("repl: transport is required")
	}

	log := opts.Logger
	if log == nil {
		log = NewLogger(nil, LevelError)
	}
	log = log.WithField("session", uuid.NewString())
	log.SetLevel(ParseLevel(opts.Config.LogLevel))

	hist := history.New(
		history.WithLineCapacity(opts.Config.LineCapacity),
		history.WithDepth(opts.Config.HistoryDepth),
	)

	r := &REPL{
		transport: opts.Transport,
		ed:        editor.New(opts.Transport, hist),
		state:     lua.NewState(),
		log:       log,
		prompt:    opts.Config.Prompt,
	}

	// Route Lua's print through the transport; stdout may not be the
	// terminal being edited.
	r.state.SetGlobal("print", r.state.NewFunction(r.luaPrint))

	return r, nil
}

// ApplyConfig applies the live-reloadable parts of cfg: prompt and log
// level. Buffer sizing is fixed at construction and ignored here.
func (r *REPL) ApplyConfig(cfg config.Config) {
	r.mu.Lock()
	r.prompt = cfg.Prompt
	r.mu.Unlock()
	r.log.SetLevel(ParseLevel(cfg.LogLevel))
	r.log.Debug("config applied: prompt=%q log_level=%s", cfg.Prompt, cfg.LogLevel)
}

// Close releases the Lua state. The REPL must not be running.
func (r *REPL) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.state.Close()
}

// Run reads and evaluates lines until the transport closes, the context
// is cancelled or the session fails. A clean end of input returns nil.
func (r *REPL) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.mu.Unlock()

	r.log.Info("session started")

	for {
		if err := r.writeString(r.currentPrompt()); err != nil {
			return err
		}

		line, err := r.ed.ReadLine(ctx)
		switch {
		case err == nil:
		case errors.Is(err, editor.ErrUnexpectedEOF):
			r.log.Info("session ended: input closed")
			_ = r.writeString("\r\n")
			return nil
		case errors.Is(err, editor.ErrBufferFull):
			// Recoverable at this level: drop the line and keep going.
			r.log.Warn("line too long, discarded")
			if err := r.writeString("\r\nline too long\r\n"); err != nil {
				return err
			}
			r.ed.History().CursorToStart()
			r.ed.History().DeleteToEnd()
			continue
		default:
			r.log.Error("session failed: %v", err)
			return err
		}

		if err := r.writeString("\r\n"); err != nil {
			return err
		}
		r.evaluate(string(line))
	}
}

// evaluate runs one line of Lua, printing results and errors to the
// terminal.
func (r *REPL) evaluate(input string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return
	}

	r.log.Debug("evaluating %q", trimmed)

	// Expression results are worth echoing, so try the line as an
	// expression first and fall back to statement form.
	if fn, err := r.state.LoadString("return " + trimmed); err == nil {
		r.runChunk(fn, true)
		return
	}

	fn, err := r.state.LoadString(trimmed)
	if err != nil {
		r.reportLuaError(err)
		return
	}
	r.runChunk(fn, false)
}

// runChunk calls a compiled chunk, echoing returned values when asked.
func (r *REPL) runChunk(fn *lua.LFunction, echoResults bool) {
	top := r.state.GetTop()
	r.state.Push(fn)
	if err := r.state.PCall(0, lua.MultRet, nil); err != nil {
		r.reportLuaError(err)
		return
	}

	nret := r.state.GetTop() - top
	if echoResults {
		for i := nret; i > 0; i-- {
			val := r.state.Get(-i)
			_ = r.writeString(val.String() + "\r\n")
		}
	}
	r.state.Pop(nret)
}

func (r *REPL) reportLuaError(err error) {
	r.log.Debug("lua error: %v", err)
	_ = r.writeString(fmt.Sprintf("error: %v\r\n", err))
}

// luaPrint replaces Lua's print, writing tab-separated values followed
// by CRLF to the transport.
func (r *REPL) luaPrint(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	_ = r.writeString(strings.Join(parts, "\t") + "\r\n")
	return 0
}

func (r *REPL) currentPrompt() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prompt
}

func (r *REPL) writeString(s string) error {
	for len(s) > 0 {
		n, err := r.transport.Write([]byte(s))
		if err != nil {
			return fmt.Errorf("writing to terminal: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("writing to terminal: short write")
		}
		s = s[n:]
	}
	return nil
}
