// Package events contains the event contracts pushed to websocket clients
// while heats are imported and removed.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeHeatImported  MessageType = "heat:imported"
	MessageTypeImportFailed  MessageType = "heat:import_failed"
	MessageTypeHeatDeleted   MessageType = "heat:deleted"
	MessageTypeBatchProgress MessageType = "batch:progress"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// HeatEvent describes one heat that was imported, failed or deleted.
type HeatEvent struct {
	Track     string `json:"track"`
	SessionID string `json:"session_id"`
	Drivers   int    `json:"drivers,omitempty"`
	Laps      int    `json:"laps,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchProgress is sent after each session of a batch import finishes.
type BatchProgress struct {
	Track     string `json:"track"`
	SessionID string `json:"session_id"`
	Done      int    `json:"done"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}

// ConnectEvent greets a newly connected client.
type ConnectEvent struct {
	ClientID string `json:"client_id"`
	Version  string `json:"version"`
}
