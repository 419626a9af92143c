package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/harborne/LagoonDB"
	"github.com/harborne/LagoonDB/core"
	"github.com/harborne/LagoonDB/db"
)

// Server is a TCP query server that exposes the LagoonDB engine. Each
// connection gets its own engine, so sessions (USE, LET, transactions)
// are isolated per client.
type Server struct {
	listener   net.Listener
	instance   *LagoonDB.Instance
	identity   core.Identity
	authConfig *AuthConfig
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a new query server with the given LagoonDB instance.
// identity is the fallback write identity for unauthenticated clients.
func NewServer(instance *LagoonDB.Instance, identity core.Identity, authConfig *AuthConfig) *Server {
	return &Server{
		instance:   instance,
		identity:   identity,
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("Query server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("Accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	state := &ConnectionState{}
	engine := s.instance.Engine(s.identity)
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one query per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		if strings.ToLower(query) == "quit" || strings.ToLower(query) == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		if strings.HasPrefix(strings.ToUpper(query), "AUTH ") {
			response = s.handleAuth(query, state)
			if state.IsAuthenticated() {
				// Re-key the session to the authenticated identity.
				engine = s.instance.Engine(*state.Identity())
			}
		} else if s.authConfig != nil && s.authConfig.Enabled && !state.IsAuthenticated() {
			response = Response{
				Success: false,
				Error:   "authentication required; send AUTH JWT <token>",
			}
		} else {
			response = executeQuery(engine, query)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		if _, err := conn.Write(data); err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

// executeQuery runs a query and serializes the full response, one entry
// per statement. The response is owned and fully drained here; typed
// extraction happens client-side.
func executeQuery(engine *db.Engine, query string) Response {
	response, err := engine.Execute(query)
	if err != nil {
		return Response{
			Success: false,
			Type:    "query",
			Error:   err.Error(),
		}
	}

	results := make([]StatementResult, 0, response.Len())
	for index := 0; index < response.Len(); index++ {
		stats, _ := response.Stats(index)
		entry := StatementResult{
			TimeMs: float64(stats.ExecutionTime.Microseconds()) / 1000.0,
		}

		value, err := response.Take(index)
		if err != nil {
			entry.Status = "ERR"
			entry.Detail = err.Error()
		} else {
			entry.Status = "OK"
			data, err := json.Marshal(value)
			if err != nil {
				entry.Status = "ERR"
				entry.Detail = fmt.Sprintf("failed to serialize result: %v", err)
			} else {
				entry.Result = data
			}
		}
		results = append(results, entry)
	}

	return Response{
		Success: true,
		Type:    "query",
		Results: results,
	}
}
