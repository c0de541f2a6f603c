package midiport

import "errors"

// Sentinel errors for port lookup, open, and send failures.
var (
	ErrPortNotFound = errors.New("midiport: port not found")
	ErrConnect      = errors.New("midiport: connect failed")
	ErrSend         = errors.New("midiport: send failed")
	ErrClosed       = errors.New("midiport: port closed")
)
