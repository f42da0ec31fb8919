package singleinstance

// This file defines the API for single-instance ownership and command delegation.

import (
	"context"
	"errors"

	"draw-on-screen/src/messages"
)

// ErrNoResident is returned by the client when no resident answers PING.
var ErrNoResident = errors.New("no running draw-on-screen instance found")

// Server owns the TCP endpoint and answers command requests.
type Server interface {
	// Start listens on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection and exposes request + response API.
type Conn interface {
	Request() Request
	// RespondSuccess sends success with an optional payload (the saved file).
	RespondSuccess(text string) error
	RespondError(msg string) error
	Close() error
}

// Request is a single command sent by a client.
type Request struct {
	Command messages.Command
}

// Client delegates commands to a resident server.
type Client interface {
	// Send scans the port range, performs the PING handshake and delivers cmd.
	// It returns ErrNoResident when nothing answers.
	Send(ctx context.Context, cmd messages.Command) (text string, err error)
}

// NewServer returns TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
