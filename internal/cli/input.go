// Package cli handles cmd line input and prints ranked matches, for debugging corpora and options in real time.
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/fuzzyserve/internal/logger"
	"github.com/bastiangx/fuzzyserve/internal/utils"
	"github.com/bastiangx/fuzzyserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Commands understood by the prompt besides plain queries.
const (
	cmdStats = ":stats"
	cmdQuit  = ":q"
)

// InputHandler reads queries line by line and prints the ranked matches.
type InputHandler struct {
	completer    suggest.ICompleter
	limit        int
	maxQueryLen  int
	showData     bool
	requestCount int
	in           io.Reader
	out          *log.Logger
	styles       styles
}

// NewInputHandler reads from stdin and prints to stdout.
func NewInputHandler(completer suggest.ICompleter, limit, maxQueryLen int, showData bool) *InputHandler {
	return NewInputHandlerWithIO(completer, limit, maxQueryLen, showData, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO is NewInputHandler over arbitrary streams.
func NewInputHandlerWithIO(completer suggest.ICompleter, limit, maxQueryLen int, showData bool, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		completer:   completer,
		limit:       limit,
		maxQueryLen: maxQueryLen,
		showData:    showData,
		in:          r,
		out:         logger.NewWithConfig(w, "", log.InfoLevel, false, false, log.TextFormatter),
		styles:      newStyles(w),
	}
}

// Start begins the prompt loop. It returns nil at end of input or on :q.
func (h *InputHandler) Start() error {
	h.out.Print("FuzzyServe CLI [BETA]")
	h.out.Print("type a query and press Enter to see the matches (:stats for index info, :q or Ctrl+C to exit):")
	reader := bufio.NewReader(h.in)

	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		query := strings.TrimSpace(line)
		switch {
		case query == cmdQuit:
			return nil
		case query == cmdStats:
			h.printStats()
		case query != "":
			h.handleInput(query)
		}
		if err != nil {
			return nil
		}
	}
}

// handleInput validates one query, runs it and prints the results.
func (h *InputHandler) handleInput(query string) {
	h.requestCount++
	if err := utils.ValidateQuery(query, h.maxQueryLen); err != nil {
		log.Errorf("Rejected query: %v", err)
		return
	}

	log.Debug("Processing request for", "query", query)
	start := time.Now()
	suggestions, err := h.completer.Complete(query, h.limit, h.showData)
	elapsed := time.Since(start)
	if err != nil {
		log.Errorf("Search failed for '%s': %v", query, err)
		return
	}
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(suggestions) == 0 {
		log.Warnf("No matches found for query: '%s'", query)
		return
	}

	h.out.Printf("Found %d matches for '%s':", len(suggestions), query)
	for _, s := range suggestions {
		h.out.Print(h.styles.formatSuggestion(s, h.showData))
	}
}

// Requests returns the number of queries handled so far.
func (h *InputHandler) Requests() int {
	return h.requestCount
}
