// Package live relays backend change events to connected dashboards.
//
// The hub owns one subscription to the backend change feed and turns each
// event into a refresh frame naming the panels it affects. Browsers connect
// on a websocket and re-fetch the named panels.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/louisbranch/paydesk/internal/platform/timeouts"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"golang.org/x/net/websocket"
)

// FrameRefresh is the only frame type sent to browsers.
const FrameRefresh = "refresh"

// Watched tables.
const (
	TablePayments    = "payment_requests"
	TableWithdrawals = "withdrawal_requests"
)

// Panel names carried in refresh frames.
const (
	PanelStats       = "stats"
	PanelRecent      = "recent"
	PanelPending     = "pending"
	PanelApproved    = "approved"
	PanelWithdrawals = "withdrawals"
)

const (
	peerBuffer        = 8
	defaultMinBackoff = 500 * time.Millisecond
	defaultMaxBackoff = 30 * time.Second
)

// Frame is the JSON message pushed to browsers.
type Frame struct {
	Type   string   `json:"type"`
	Panels []string `json:"panels"`
}

// PanelsFor maps a changed table to the panels that display it.
func PanelsFor(table string) []string {
	switch table {
	case TablePayments:
		return []string{PanelStats, PanelRecent, PanelPending, PanelApproved}
	case TableWithdrawals:
		return []string{PanelWithdrawals, PanelStats}
	default:
		return nil
	}
}

// Options tunes reconnect behavior.
type Options struct {
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Hub fans one backend change feed out to every connected browser.
type Hub struct {
	changes    backend.Changes
	minBackoff time.Duration
	maxBackoff time.Duration

	mu      sync.Mutex
	peers   map[*peer]struct{}
	current *feedRun
	closed  bool
}

type feedRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

type peer struct {
	frames chan Frame
}

// NewHub builds a hub over changes. Nothing is subscribed until Start.
func NewHub(changes backend.Changes, opts Options) *Hub {
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = defaultMinBackoff
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = defaultMaxBackoff
		if opts.MaxBackoff < opts.MinBackoff {
			opts.MaxBackoff = opts.MinBackoff
		}
	}
	return &Hub{
		changes:    changes,
		minBackoff: opts.MinBackoff,
		maxBackoff: opts.MaxBackoff,
		peers:      make(map[*peer]struct{}),
	}
}

// Start subscribes to the change feed with accessToken, releasing any
// previous subscription first. The feed lives until ctx ends, Close is
// called, or the backend rejects the token.
func (h *Hub) Start(ctx context.Context, accessToken string) {
	if h == nil || h.changes == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	prev := h.current
	h.stopLocked()

	runCtx, cancel := context.WithCancel(backend.WithAccessToken(ctx, accessToken))
	run := &feedRun{cancel: cancel, done: make(chan struct{})}
	h.current = run
	go h.follow(runCtx, run, prev)
}

// Running reports whether a change feed is active or reconnecting.
func (h *Hub) Running() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current != nil
}

// Close releases the subscription and disconnects every browser.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.closed = true
	run := h.current
	h.stopLocked()
	for p := range h.peers {
		delete(h.peers, p)
		close(p.frames)
	}
	h.mu.Unlock()
	if run != nil {
		<-run.done
	}
}

func (h *Hub) stopLocked() {
	if h.current == nil {
		return
	}
	h.current.cancel()
	h.current = nil
}

// Broadcast queues frame for every browser. A peer whose buffer is full
// misses the frame.
func (h *Hub) Broadcast(frame Frame) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		select {
		case p.frames <- frame:
		default:
		}
	}
}

// Peers returns the number of connected browsers.
func (h *Hub) Peers() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// follow owns one feed run. It waits for prev to release its subscription
// before subscribing, so at most one backend subscription is open.
func (h *Hub) follow(ctx context.Context, run, prev *feedRun) {
	defer close(run.done)
	defer func() {
		h.mu.Lock()
		if h.current == run {
			h.current = nil
		}
		h.mu.Unlock()
	}()
	if prev != nil {
		<-prev.done
	}
	if ctx.Err() != nil {
		return
	}

	retry := h.newBackoff()
	for {
		sub, err := h.changes.Subscribe(ctx, TablePayments, TableWithdrawals)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var backendErr *backend.Error
			if errors.As(err, &backendErr) && backendErr.Unauthorized() {
				log.Printf("live: change feed rejected token, waiting for next sign-in: %v", err)
				return
			}
			log.Printf("live: subscribe change feed: %v", err)
			if !wait(ctx, retry.NextBackOff()) {
				return
			}
			continue
		}

		retry.Reset()
		h.relay(ctx, sub)
		_ = sub.Close()
		if ctx.Err() != nil {
			return
		}
		log.Printf("live: change feed dropped, reconnecting")
		if !wait(ctx, retry.NextBackOff()) {
			return
		}
	}
}

func (h *Hub) relay(ctx context.Context, sub backend.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			panels := PanelsFor(event.Table)
			if len(panels) == 0 {
				continue
			}
			h.Broadcast(Frame{Type: FrameRefresh, Panels: panels})
		}
	}
}

// newBackoff doubles the reconnect delay from minBackoff up to maxBackoff,
// with jitter so dashboards restarted together do not reconnect in step.
func (h *Hub) newBackoff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     h.minBackoff,
		RandomizationFactor: 0.2,
		Multiplier:          2,
		MaxInterval:         h.maxBackoff,
	}
	b.Reset()
	return b
}

func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Handler serves the browser websocket. Cross-origin upgrades are refused.
func (h *Hub) Handler() http.Handler {
	return websocket.Server{
		Handshake: checkSameOrigin,
		Handler:   h.serve,
	}
}

func checkSameOrigin(config *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(config, r)
	if err != nil {
		return err
	}
	if origin == nil || !sameHost(origin, r.Host) {
		return errors.New("cross-origin websocket")
	}
	config.Origin = origin
	return nil
}

func sameHost(origin *url.URL, host string) bool {
	return origin.Host != "" && origin.Host == host
}

func (h *Hub) serve(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	p := h.add()
	if p == nil {
		return
	}
	defer h.remove(p)

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		_, _ = io.Copy(io.Discard, conn)
	}()

	encoder := json.NewEncoder(conn)
	for {
		select {
		case <-gone:
			return
		case frame, ok := <-p.frames:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(timeouts.LiveWrite))
			if err := encoder.Encode(frame); err != nil {
				return
			}
		}
	}
}

func (h *Hub) add() *peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	p := &peer{frames: make(chan Frame, peerBuffer)}
	h.peers[p] = struct{}{}
	return p
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; ok {
		delete(h.peers, p)
		close(p.frames)
	}
}
