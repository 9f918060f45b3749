// Package message holds the messages passed around the browser.
package message

import (
	nt "extract/entity"
)

// NamesMsg contains saved configuration names, most recent first
type NamesMsg struct {
	Names []string
}

// ConfigMsg contains a full configuration
type ConfigMsg struct {
	Config nt.Configuration
}

// ErrorMsg contains an error
type ErrorMsg struct {
	Err error
}
