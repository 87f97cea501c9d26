// internal/app/system/timeouts/timeouts.go

// Package timeouts provides the timeout tiers used with
// context.WithTimeout around store and verifier calls.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads, credential verification
//   - Medium: list queries, moderate writes
//   - Long: multi-step writes and reaper cycles
package timeouts

import "time"

const (
	Ping   = 2 * time.Second
	Short  = 5 * time.Second
	Medium = 10 * time.Second
	Long   = 30 * time.Second
)
