package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/fuzzyserve/internal/logger"
	"github.com/bastiangx/fuzzyserve/internal/utils"
	"github.com/bastiangx/fuzzyserve/pkg/config"
	"github.com/bastiangx/fuzzyserve/pkg/fuzzy"
	"github.com/bastiangx/fuzzyserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for fuzzy search
type Server struct {
	completer suggest.ICompleter
	config    config.ServerConfig
	decoder   *msgpack.Decoder
	writer    *bufio.Writer
	encoder   *msgpack.Encoder
	logger    *log.Logger
	requests  int
}

// NewServer creates a new search server using stdin/stdout for IPC
func NewServer(completer suggest.ICompleter, cfg config.ServerConfig) *Server {
	return NewServerWithIO(completer, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over arbitrary streams.
func NewServerWithIO(completer suggest.ICompleter, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		completer: completer,
		config:    cfg,
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		writer:    bw,
		encoder:   msgpack.NewEncoder(bw),
		logger:    logger.New("server"),
	}
}

// Start begins listening for IPC requests. It returns nil when the input
// ends cleanly and an error when the stream cannot be decoded.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			sendErr := s.sendError("", "invalid msgpack request", CodeBadRequest)
			return errors.Join(fmt.Errorf("decode request: %w", err), sendErr)
		}
		s.requests++
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action. Only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	switch req.Action {
	case "", ActionSearch:
		return s.handleSearch(req)
	case ActionInfo:
		return s.handleInfo(req)
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), CodeBadRequest)
	}
}

func (s *Server) handleSearch(req Request) error {
	if err := utils.ValidateQuery(req.Query, s.config.MaxQueryLen); err != nil {
		s.logger.Debug("Rejected query", "id", req.ID, "err", err)
		return s.sendError(req.ID, err.Error(), CodeBadRequest)
	}
	limit := s.config.Limit(req.Limit)

	start := time.Now()
	suggestions, err := s.completer.Complete(req.Query, limit, req.Data)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, fuzzy.ErrNoCandidates) {
			return s.sendError(req.ID, err.Error(), CodeNoCandidates)
		}
		s.logger.Errorf("Search failed for %q: %v", req.Query, err)
		return s.sendError(req.ID, "internal error", CodeInternalError)
	}

	results := make([]SearchResult, len(suggestions))
	for i, sg := range suggestions {
		results[i] = SearchResult{
			Key:      firstKey(sg.Keys),
			Rank:     sg.Rank,
			Score:    sg.Score,
			Original: sg.Original,
			Index:    sg.Index,
			Length:   sg.Length,
		}
	}
	s.logger.Debugf("Query %q -> %d results in %v", req.Query, len(results), elapsed)

	return s.send(SearchResponse{
		ID:        req.ID,
		Results:   results,
		Count:     len(results),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleInfo(req Request) error {
	stats := s.completer.Stats()
	return s.send(InfoResponse{
		ID:         req.ID,
		Status:     "ok",
		Candidates: stats["candidates"],
		Keys:       stats["keys"],
		Nodes:      stats["nodes"],
		Threshold:  s.completer.Threshold(),
	})
}

func firstKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// send encodes one response and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encode response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
