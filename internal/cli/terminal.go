package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/bastiangx/wordassist/pkg/textseg"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when raw mode is requested without a TTY.
var ErrNotTerminal = errors.New("stdin is not a terminal")

const (
	keyCtrlC     = 3
	keyCtrlD     = 4
	keyBackspace = 8
	keyTab       = 9
	keyLF        = 10
	keyCtrlN     = 14
	keyCR        = 13
	keyDelete    = 127
)

// Terminal is a keystroke-level editor line: every key goes through the
// engine exactly as an editor host would send it.
//
//	Tab     apply the first word suggestion
//	Ctrl+N  apply the first sentence suggestion
//	Enter   commit the line to the sentence models
type Terminal struct {
	engine suggest.IEngine
	in     *os.File
	out    io.Writer

	line      []rune
	words     []string
	sentences []string
}

// NewTerminal creates a raw-mode editor on stdin/stdout.
func NewTerminal(engine suggest.IEngine) *Terminal {
	return &Terminal{engine: engine, in: os.Stdin, out: os.Stdout}
}

// Start puts the terminal in raw mode and edits until Ctrl+C or Ctrl+D.
func (t *Terminal) Start() error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	fmt.Fprint(t.out, "wordassist [raw] Tab: word, Ctrl+N: sentence, Enter: commit, Ctrl+C: exit\r\n")
	t.render()

	reader := bufio.NewReader(t.in)
	for {
		r, _, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if quit := t.handleKey(r); quit {
			fmt.Fprint(t.out, "\r\n")
			return nil
		}
		t.render()
	}
}

// handleKey applies one key to the line and refreshes suggestions.
// It reports whether the editor should exit.
func (t *Terminal) handleKey(r rune) bool {
	switch r {
	case keyCtrlC, keyCtrlD:
		return true
	case keyCR, keyLF:
		t.engine.CommitTextChange(string(t.line))
		fmt.Fprint(t.out, "\r\n")
		t.line = t.line[:0]
		t.words, t.sentences = nil, nil
	case keyBackspace, keyDelete:
		if len(t.line) > 0 {
			t.line = t.line[:len(t.line)-1]
		}
		t.refresh()
	case keyTab:
		if len(t.words) > 0 {
			t.apply(t.engine.ApplyWordSuggestion, t.words[0])
		}
	case keyCtrlN:
		if len(t.sentences) > 0 {
			t.apply(t.engine.ApplySentenceSuggestion, t.sentences[0])
		}
	default:
		if r < ' ' {
			return false
		}
		t.line = append(t.line, r)
		res := t.engine.KeyPress(r, string(t.line), len(t.line))
		if r == ' ' {
			// the finished word is committed; keep offering continuations
			t.words = nil
			t.sentences = t.engine.SentenceSuggestions(string(t.line), len(t.line))
			return false
		}
		t.words, t.sentences = res.Words, res.Sentences
	}
	return false
}

func (t *Terminal) apply(fn func(string, int, string) (string, textseg.Span, error), chosen string) {
	line, _, err := fn(string(t.line), len(t.line), chosen)
	if err != nil {
		return
	}
	t.line = []rune(line)
	t.words, t.sentences = nil, nil
}

func (t *Terminal) refresh() {
	if len(t.line) == 0 {
		t.words, t.sentences = nil, nil
		return
	}
	line := string(t.line)
	t.words = t.engine.WordSuggestions(line, len(t.line))
	t.sentences = t.engine.SentenceSuggestions(line, len(t.line))
}

// render redraws the edit line followed by both suggestion lists.
func (t *Terminal) render() {
	status := fmt.Sprintf("   [w: %s] [s: %s]", fmtList(t.words), fmtList(t.sentences))
	fmt.Fprintf(t.out, "\r\x1b[K> %s\x1b[2m%s\x1b[0m\x1b[%dD", string(t.line), status, len([]rune(status)))
}

// fmtList joins suggestions for the single-line display.
func fmtList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, " | ")
}
