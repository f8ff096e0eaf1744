package server

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/bastiangx/wordassist/pkg/config"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/oklog/ulid/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// limitSetter is implemented by engines whose limits can change at runtime.
type limitSetter interface {
	SetLimits(wordLimit, sentenceLimit int, matchCase bool)
}

// Server handles the IPC for one engine
type Server struct {
	engine     suggest.IEngine
	configPath string
	config     *config.Config
	configMu   sync.RWMutex

	dec     *msgpack.Decoder
	enc     *msgpack.Encoder
	entropy *ulid.MonotonicEntropy
	logger  *log.Logger
}

// NewServer creates a server using stdin/stdout for IPC
func NewServer(engine suggest.IEngine, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(engine, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over arbitrary streams.
func NewServerWithIO(engine suggest.IEngine, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		engine:     engine,
		configPath: configPath,
		config:     cfg,
		dec:        msgpack.NewDecoder(r),
		enc:        msgpack.NewEncoder(w),
		entropy:    ulid.Monotonic(rand.Reader, 0),
		logger:     logger.New("ipc"),
	}
}

// Start signals readiness and serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")

	if s.cfg().Server.WatchConfig && s.configPath != "" {
		stop, err := s.watchConfig()
		if err != nil {
			s.logger.Warnf("Config reload disabled: %v", err)
		} else {
			defer stop()
		}
	}

	if err := s.send(Response{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			// the stream cannot be resynchronised after a bad frame
			s.send(Response{Status: "error", Error: "invalid msgpack request", Code: 400})
			return fmt.Errorf("failed to decode request: %w", err)
		}
		if err := s.send(s.Handle(req)); err != nil {
			return err
		}
	}
}

// Handle processes one request and builds its response.
func (s *Server) Handle(req Request) Response {
	if req.ID == "" {
		req.ID = ulid.MustNew(ulid.Now(), s.entropy).String()
	}
	maxLine := s.cfg().Server.MaxLine
	if maxLine > 0 && utf8.RuneCountInString(req.Line) > maxLine {
		return errorResponse(req.ID, fmt.Sprintf("line exceeds maximum length of %d", maxLine), 400)
	}

	start := time.Now()
	resp := Response{ID: req.ID, Status: "ok"}

	switch req.Op {
	case OpWords:
		resp.Suggestions = ranked(s.engine.WordSuggestions(req.Line, req.Col))
		resp.Count = len(resp.Suggestions)
	case OpSentences:
		resp.Suggestions = ranked(s.engine.SentenceSuggestions(req.Line, req.Col))
		resp.Count = len(resp.Suggestions)
	case OpCommitWord:
		if req.Word == "" {
			return errorResponse(req.ID, "missing 'word' parameter", 400)
		}
		s.engine.CommitWord(req.Word)
	case OpCommitText:
		s.engine.CommitTextChange(req.Text)
	case OpApplyWord, OpApplySentence:
		apply := s.engine.ApplyWordSuggestion
		if req.Op == OpApplySentence {
			apply = s.engine.ApplySentenceSuggestion
		}
		line, span, err := apply(req.Line, req.Col, req.Chosen)
		if err != nil {
			return errorResponse(req.ID, err.Error(), 404)
		}
		resp.Line, resp.Start, resp.End = line, span.Start, span.End
	case OpKey:
		r, size := utf8.DecodeRuneInString(req.Key)
		if size == 0 || r == utf8.RuneError {
			return errorResponse(req.ID, "missing 'key' parameter", 400)
		}
		res := s.engine.KeyPress(r, req.Line, req.Col)
		resp.Suggestions = ranked(res.Words)
		resp.Sentences = ranked(res.Sentences)
		resp.Count = len(resp.Suggestions) + len(resp.Sentences)
		resp.Committed = res.Committed
	case OpCheck:
		for _, span := range s.engine.Misspelled(req.Text) {
			resp.Misspelled = append(resp.Misspelled, Misspelling{Text: span.Text, Start: span.Start, End: span.End})
		}
		resp.Count = len(resp.Misspelled)
	case OpHealth:
	case OpStats:
		resp.Stats = s.engine.Stats()
	default:
		return errorResponse(req.ID, fmt.Sprintf("unknown op: %s", req.Op), 400)
	}

	resp.State = s.engine.State().String()
	if s.cfg().Server.ReportTiming {
		resp.TimeTaken = time.Since(start).Microseconds()
	}
	s.logger.Debugf("%s %s took %v", req.ID, req.Op, time.Since(start))
	return resp
}

func (s *Server) send(resp Response) error {
	if err := s.enc.Encode(resp); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) cfg() *config.Config {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

// reloadConfig re-reads the config file and applies the engine limits.
func (s *Server) reloadConfig() {
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.logger.Warnf("Failed to reload config %s: %v", s.configPath, err)
		return
	}
	s.configMu.Lock()
	s.config = cfg
	s.configMu.Unlock()

	if setter, ok := s.engine.(limitSetter); ok {
		setter.SetLimits(cfg.Engine.WordLimit, cfg.Engine.SentenceLimit, cfg.Engine.MatchCase)
	}
	s.logger.Debugf("Reloaded config from %s", s.configPath)
}

// watchConfig reloads the config whenever its file is written or replaced.
// The directory is watched so editors that save by rename are seen too.
func (s *Server) watchConfig() (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(s.configPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(s.configPath)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					s.reloadConfig()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warnf("Config watcher error: %v", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

// ranked pairs suggestions with their display rank.
func ranked(texts []string) []Suggestion {
	ranks := utils.CreateRankList(len(texts))
	out := make([]Suggestion, len(texts))
	for i, t := range texts {
		out[i] = Suggestion{Text: t, Rank: ranks[i]}
	}
	return out
}

func errorResponse(id, message string, code int) Response {
	log.Debugf("%s failed: %s", id, message)
	return Response{ID: id, Status: "error", Error: message, Code: code}
}
