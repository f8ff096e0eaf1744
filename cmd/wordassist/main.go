// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordassist suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

wordassist proposes corrections and continuations while a person types. For
the word under the cursor it offers spelling corrections, the user's own
frequent words and synonyms. For the sentence under the cursor it offers
n-gram continuations and similar sentences typed before. Every committed
word and text change updates the models, which persist between sessions.

# Usage

Start the IPC server with default settings:

	wordassist

Enable debug logging and use a custom config:

	wordassist -d -config ./config.toml

Run the interactive editor to try suggestions key by key:

	wordassist -c

Or the line-based CLI, which also works when stdin is not a terminal:

	wordassist -c -raw=false

# Configuration

Runtime configuration is a TOML file created with defaults when missing:

	[engine]
	word_limit = 5
	sentence_limit = 3
	max_distance = 2
	corpus_capacity = 1000
	match_case = false

	[store]
	backend = "json"      # or "sqlite"
	dir = ""              # defaults to data/ beside the config file
	save_debounce_ms = 0  # 0 writes through on every commit

	[dict]
	word_list = ""        # empty uses the embedded word list
	synonyms = ""         # empty uses the embedded lexicon

The server reloads limits and case matching when the file changes.

# IPC Protocol

The server reads msgpack requests from stdin and writes one msgpack response
per request to stdout. Logs always go to stderr.

	{"id": "r1", "op": "words", "line": "I saw teh", "col": 9}
	{"id": "r1", "s": [{"w": "the", "r": 1}], "c": 1, "t": 145, "status": "ok"}

See package server for every op.

# Command Line Flags

	-config string
	    Path to config.toml (default: user config dir)
	-data string
	    Directory for persisted models (overrides config)
	-store string
	    Store backend, json or sqlite (overrides config)
	-dict string
	    Word list file (overrides config)
	-synonyms string
	    Synonym YAML file (overrides config)
	-d  Enable debug mode with detailed logging
	-c  Run CLI mode instead of the IPC server
	-raw
	    Use the raw keystroke editor in CLI mode (default from config)
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/wordassist/internal/cli"
	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/bastiangx/wordassist/pkg/config"
	"github.com/bastiangx/wordassist/pkg/server"
	"github.com/bastiangx/wordassist/pkg/store"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordassist"
	gh      = "https://github.com/bastiangx/wordassist"
)

// sigHandler flushes the engine and exits on SIGINT or SIGTERM.
func sigHandler(engine *suggest.Engine) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		if err := engine.Close(); err != nil {
			log.Errorf("Failed to flush models: %v", err)
		}
		os.Exit(0)
	}()
}

// main wires config, store and engine, then hands over to the server or CLI.
// It does not implement logic for them and only manages the flow.
func main() {
	log.SetOutput(os.Stderr)
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configFlag := flag.String("config", "", "Path to config.toml")
	dataDir := flag.String("data", "", "Directory for persisted models (overrides config)")
	backend := flag.String("store", "", "Store backend: json or sqlite (overrides config)")
	dictPath := flag.String("dict", "", "Word list file (overrides config)")
	synonymsPath := flag.String("synonyms", "", "Synonym YAML file (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	rawMode := flag.Bool("raw", defaultConfig.CLI.RawMode, "Raw keystroke editor in CLI mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if configPath == "" {
		// builtin defaults: still keep the models somewhere writable
		if configPath, err = pathResolver.GetConfigPath("config.toml"); err != nil {
			log.Fatalf("Failed to determine config path: (%v)", err)
		}
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	if *dataDir != "" {
		appConfig.Store.Dir = *dataDir
	}
	if *backend != "" {
		appConfig.Store.Backend = *backend
	}
	if *dictPath != "" {
		appConfig.Dict.WordList = *dictPath
	}
	if *synonymsPath != "" {
		appConfig.Dict.Synonyms = *synonymsPath
	}
	appConfig.Dict.WordList = pathResolver.ResolveFile(appConfig.Dict.WordList)
	appConfig.Dict.Synonyms = pathResolver.ResolveFile(appConfig.Dict.Synonyms)

	storeDir := appConfig.StoreDir(configPath)
	st, err := openStore(appConfig.Store.Backend, storeDir)
	if err != nil {
		log.Fatalf("Failed to open model store: %v", err)
	}

	opts := appConfig.EngineOptions()
	opts.Store = st
	engine, err := suggest.New(opts)
	if err != nil {
		log.Fatalf("Failed to init engine: %v", err)
	}
	defer engine.Close()
	sigHandler(engine)
	log.Debug("Engine init done")

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		if *rawMode {
			err := cli.NewTerminal(engine).Start()
			if err == nil {
				return
			}
			if err != cli.ErrNotTerminal {
				fatalAfterInit(engine, "CLI error: %v", err)
			}
			log.Warn("stdin is not a terminal, falling back to line mode")
		}
		if err := cli.NewInputHandler(engine, appConfig.CLI.ShowTiming).Start(); err != nil {
			fatalAfterInit(engine, "CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, appConfig, configPath)
	showStartupInfo(storeDir, appConfig.Store.Backend)

	if err := srv.Start(); err != nil {
		fatalAfterInit(engine, "Server error: %v", err)
	}
}

var (
	osExit = os.Exit
	// exit is swapped in tests.
	exit = osExit
)

// fatalAfterInit logs and exits once the engine exists. Unlike log.Fatalf it
// closes the engine first, so debounced saves are flushed.
func fatalAfterInit(engine io.Closer, format string, args ...any) {
	log.Errorf(format, args...)
	if err := engine.Close(); err != nil {
		log.Errorf("Failed to flush models: %v", err)
	}
	exit(1)
}

// openStore opens the configured backend inside dir.
func openStore(backend, dir string) (store.Store, error) {
	switch backend {
	case "", config.BackendJSON:
		return store.NewFileStore(dir)
	case config.BackendSQLite:
		if err := utils.EnsureDir(dir); err != nil {
			return nil, err
		}
		return store.OpenSQLite(context.Background(), filepath.Join(dir, "models.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ wordassist ] Suggests words and sentences as you type")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(storeDir, backend string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "============")
	fmt.Fprintln(os.Stderr, " wordassist ")
	fmt.Fprintln(os.Stderr, "============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("store: ( %s, %s )", backend, storeDir)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "============")

	log.SetLevel(currentLevel)
}
