// Package cli handles cmd line input and suggestions for DBG and testing the engine
package cli

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads whole lines and prints the suggestions the engine
// would show with the cursor at the end of each line.
//
// Lines starting with ':' are commands:
//
//	:commit <text>   feed text to the sentence models
//	:word <word>     count a finished word
//	:check <text>    list words missing from the dictionary
//	:stats           print model sizes
type InputHandler struct {
	engine       suggest.IEngine
	reader       io.Reader
	out          *log.Logger
	showTiming   bool
	requestCount int
}

// NewInputHandler creates a line-mode handler on stdin/stdout.
func NewInputHandler(engine suggest.IEngine, showTiming bool) *InputHandler {
	return NewInputHandlerWithIO(engine, showTiming, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO creates a line-mode handler on the given streams.
func NewInputHandlerWithIO(engine suggest.IEngine, showTiming bool, r io.Reader, w io.Writer) *InputHandler {
	out := logger.Plain(w, "")
	out.SetLevel(log.InfoLevel)
	return &InputHandler{
		engine:     engine,
		reader:     r,
		out:        out,
		showTiming: showTiming,
	}
}

// Start begins the interface loop. It returns nil when input ends.
func (h *InputHandler) Start() error {
	h.out.Print("wordassist CLI [BETA]")
	h.out.Print("type a line and press Enter to see suggestions (:commit <text>, :word <w>, :check <text>, :stats; Ctrl+C to exit)")

	reader := bufio.NewReader(h.reader)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// handleInput runs a command or prints suggestions for one line.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	if strings.HasPrefix(line, ":") {
		h.handleCommand(line)
		return
	}

	start := time.Now()
	col := utf8.RuneCountInString(line)
	words := h.engine.WordSuggestions(line, col)
	sentences := h.engine.SentenceSuggestions(line, col)
	elapsed := time.Since(start)

	if h.showTiming {
		h.out.Printf("took [ %v ] for request #%d", elapsed, h.requestCount)
	}
	if len(words) == 0 && len(sentences) == 0 {
		h.out.Printf("No suggestions for '%s'", line)
		return
	}
	printList(h.out, "words", words)
	printList(h.out, "sentences", sentences)
}

func (h *InputHandler) handleCommand(line string) {
	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "commit":
		h.engine.CommitTextChange(arg)
		h.out.Printf("committed %d characters", utf8.RuneCountInString(arg))
	case "word":
		h.engine.CommitWord(arg)
		h.out.Printf("counted '%s'", arg)
	case "check":
		spans := h.engine.Misspelled(arg)
		if len(spans) == 0 {
			h.out.Print("no misspellings")
			return
		}
		for _, sp := range spans {
			h.out.Printf("%3d-%-3d %s", sp.Start, sp.End, sp.Text)
		}
	case "stats":
		for _, key := range []string{"dictionaryWords", "synonymGroups", "frequencyWords", "bigramContexts", "trigramContexts", "sentences"} {
			h.out.Printf("%-16s %d", key, h.engine.Stats()[key])
		}
	default:
		h.out.Printf("unknown command: %s", cmd)
	}
}

func printList(out *log.Logger, title string, items []string) {
	if len(items) == 0 {
		return
	}
	out.Printf("%s:", title)
	for i, s := range items {
		out.Printf("%2d. \033[38;5;75m%s\033[0m", i+1, s)
	}
}
