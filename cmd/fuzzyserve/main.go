// Copyright 2025 The FuzzyServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the fuzzy search server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

FuzzyServe ranks the entries of a corpus by how closely one of their keys
matches a query, tolerating typos, transpositions, case, punctuation and
Unicode normalization differences. It can operate as a MessagePack IPC server
for integration with editors and launchers, or as a CLI application for
testing corpora and options.

# Usage

Start the server over a text corpus:

	fuzzyserve -data emoji.txt

Run in CLI mode with debug logs and match spans:

	fuzzyserve -data emoji.txt -c -d

Convert a text corpus to msgpack for faster startup:

	fuzzyserve -data emoji.txt -export emoji.msgpack

Relative corpus paths are looked up in the working directory, next to the
executable and in the data/ directory of the config dir.

# Configuration

Runtime configuration is managed through a TOML file, created with defaults
at [UserConfigDir]/fuzzyserve/config.toml when missing:

	[match]
	ignore_case = true
	ignore_symbols = true
	normalize_whitespace = true
	use_damerau = true
	use_sellers = true
	separated_unicode = false
	sort_by = "best_match"
	threshold = 0.6

	[server]
	default_limit = 10
	max_limit = 64
	max_query_len = 256
	cache_size = 512

	[dict]
	max_entries = 0
	dedupe = true

	[cli]
	default_limit = 10
	show_match_data = true

Flags override the file for a single run. See package server for the IPC
protocol.

# Command Line Flags

	-data string
	    Corpus file, .txt/.tsv or .msgpack (default "corpus.txt")
	-config string
	    Config file path (default [UserConfigDir]/fuzzyserve/config.toml)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of results to return (default from config)
	-threshold float
	    Minimum score between 0 and 10 (default from config)
	-entries int
	    Maximum entries to load, 0 for all (default from config)
	-export string
	    Write the loaded corpus as msgpack to this path and exit
	-reset-config
	    Rewrite the default config file and exit
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/fuzzyserve/internal/cli"
	"github.com/bastiangx/fuzzyserve/internal/logger"
	"github.com/bastiangx/fuzzyserve/internal/utils"
	"github.com/bastiangx/fuzzyserve/pkg/config"
	"github.com/bastiangx/fuzzyserve/pkg/dictionary"
	"github.com/bastiangx/fuzzyserve/pkg/fuzzy"
	"github.com/bastiangx/fuzzyserve/pkg/server"
	"github.com/bastiangx/fuzzyserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "fuzzyserve"
	gh      = "https://github.com/bastiangx/fuzzyserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, corpus and completer into the server or the CLI.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "corpus.txt", "Corpus file (.txt, .tsv or .msgpack)")
	configPath := flag.String("config", "", "Config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of results to return (0 uses the config)")
	threshold := flag.Float64("threshold", -1, "Minimum score between 0 and 10 (negative uses the config)")
	maxEntries := flag.Int("entries", -1, "Maximum entries to load, 0 for all (negative uses the config)")
	exportPath := flag.String("export", "", "Write the loaded corpus as msgpack to this path and exit")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Config rebuilt", "path", config.GetActiveConfigPath(""))
		return
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Warnf("Failed to load config: %v, using defaults", err)
		appConfig = defaults
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))
	applyOverrides(appConfig, *limit, *threshold, *maxEntries)

	pathResolver, err := utils.NewPathResolver(AppName)
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if *debugMode {
		for k, v := range pathResolver.RuntimeInfo() {
			log.Debug("runtime", k, v)
		}
	}

	corpusPath, err := pathResolver.FindCorpus(*dataPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Print("Pass a corpus with -data, or place it in", "dir", pathResolver.ConfigDir()+"/data")
		}
		log.Fatalf("Failed to resolve corpus: %v", err)
	}

	corpus, err := dictionary.LoadFile(corpusPath, dictionary.LoadOptions{
		MaxEntries: appConfig.Dict.MaxEntries,
		Dedupe:     appConfig.Dict.Dedupe,
	})
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	if *exportPath != "" {
		if err := dictionary.ExportFile(*exportPath, corpus.Entries); err != nil {
			log.Fatalf("Failed to export corpus: %v", err)
		}
		log.Print("Exported", "entries", utils.FormatWithCommas(len(corpus.Entries)), "path", *exportPath)
		return
	}

	if len(corpus.Entries) == 0 {
		log.Warnf("Corpus %s has no entries, every search will fail", corpusPath)
	}
	completer := suggest.NewCompleter(corpus, appConfig.Match.Options(), appConfig.Server.CacheSize)

	// CLI is mainly used for testing corpora and options before serving them.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"limit", appConfig.CLI.DefaultLimit,
			"threshold", completer.Threshold(),
			"showData", appConfig.CLI.ShowMatchData)

		inputHandler := cli.NewInputHandler(completer, appConfig.CLI.DefaultLimit,
			appConfig.Server.MaxQueryLen, appConfig.CLI.ShowMatchData)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig.Server)
	showStartupInfo(corpus)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// applyOverrides copies explicitly set flags over the loaded config.
func applyOverrides(cfg *config.Config, limit int, threshold float64, maxEntries int) {
	if limit > 0 {
		cfg.CLI.DefaultLimit = limit
		cfg.Server.DefaultLimit = limit
		cfg.Server.MaxLimit = max(cfg.Server.MaxLimit, limit)
	}
	if threshold >= 0 {
		if threshold > fuzzy.ExactMatchScore {
			log.Warnf("Threshold %v above %v, ignoring", threshold, fuzzy.ExactMatchScore)
		} else {
			cfg.Match.Threshold = threshold
		}
	}
	if maxEntries >= 0 {
		cfg.Dict.MaxEntries = maxEntries
	}
}

func printVersion() {
	out := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	out.SetStyles(styles)

	out.Print("")
	out.Print("[ FuzzyServe ] Serves typo tolerant matches, fast!")
	out.Print("", "version", Version)
	out.Print("")
	out.Print("use -h or --help to see available options")
	out.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the loaded corpus.
func showStartupInfo(corpus *dictionary.Corpus) {
	out := logger.Plain("")

	out.Print("============")
	out.Print(" FuzzyServe ")
	out.Print("============")
	out.Infof("Version: %s", Version)
	out.Infof("Process ID: [ %d ]", os.Getpid())
	out.Infof("corpus: ( %s ) [%s]", corpus.Source, corpus.Format)
	out.Infof("entries: %s", utils.FormatWithCommas(len(corpus.Entries)))
	out.Info("status: ready")
	out.Print("============")
	out.Print("Press Ctrl+C to exit")
}
