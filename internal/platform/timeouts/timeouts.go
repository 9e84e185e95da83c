// Package timeouts defines shared timeout constants used across the dashboard.
// Centralizing these values prevents drift between handlers and the backend
// drivers and makes the durations discoverable.
package timeouts

import "time"

// BackendRequest caps the time allowed for a single backend table or auth
// call issued while serving a dashboard request.
const BackendRequest = 5 * time.Second

// BackendDial caps the wait time when opening the backend change feed.
const BackendDial = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// LiveWrite caps how long a single frame write to a browser may block.
const LiveWrite = 2 * time.Second
