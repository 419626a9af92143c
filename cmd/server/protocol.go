// Package main provides a TCP query server for LagoonDB.
package main

import (
	"encoding/json"
)

// Response represents the server's reply to one query line. A query may
// hold several statements; each gets its own entry in Results.
type Response struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Type    string            `json:"type,omitempty"` // "query" or "auth"
	Results []StatementResult `json:"results,omitempty"`
	Result  json.RawMessage   `json:"result,omitempty"`
}

// StatementResult is the outcome of a single statement.
type StatementResult struct {
	Status string          `json:"status"` // "OK" or "ERR"
	TimeMs float64         `json:"time_ms"`
	Result json.RawMessage `json:"result,omitempty"`
	Detail string          `json:"detail,omitempty"`
}

// AuthResponse reports the outcome of an AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity,omitempty"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
