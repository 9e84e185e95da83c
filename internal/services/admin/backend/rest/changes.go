package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/louisbranch/paydesk/internal/platform/timeouts"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"golang.org/x/net/websocket"
)

const changeBuffer = 32

type subscribeFrame struct {
	Type   string   `json:"type"`
	Tables []string `json:"tables"`
}

type changeFrame struct {
	Type  string `json:"type"`
	Table string `json:"table"`
	Event string `json:"event"`
}

// Subscribe dials the change feed and asks for events on tables.
func (c *Client) Subscribe(ctx context.Context, tables ...string) (backend.Subscription, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("at least one table is required")
	}
	for _, table := range tables {
		if !backend.ValidIdentifier(table) {
			return nil, fmt.Errorf("invalid table %q", table)
		}
	}

	token := backend.AccessTokenFromContext(ctx)
	params := url.Values{"apikey": []string{c.apiKey}}
	wsURL := *c.baseURL
	wsURL.Scheme = strings.Replace(wsURL.Scheme, "http", "ws", 1)
	wsURL.Path = strings.TrimRight(wsURL.Path, "/") + "/realtime/v1/changes"
	wsURL.RawQuery = params.Encode()
	origin := (&url.URL{Scheme: c.baseURL.Scheme, Host: c.baseURL.Host}).String()

	config, err := websocket.NewConfig(wsURL.String(), origin)
	if err != nil {
		return nil, fmt.Errorf("change feed config: %w", err)
	}
	config.Dialer = &net.Dialer{Timeout: timeouts.BackendDial}
	if token != "" {
		config.Header = http.Header{"Authorization": []string{"Bearer " + token}}
	}
	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, c.dialError(ctx, token, err)
	}
	if err := json.NewEncoder(conn).Encode(subscribeFrame{Type: "subscribe", Tables: tables}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("subscribe change feed: %w", err)
	}

	sub := &feed{
		conn:   conn,
		events: make(chan backend.ChangeEvent, changeBuffer),
		done:   make(chan struct{}),
	}
	go sub.read()
	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()
	return sub, nil
}

// dialError explains a failed upgrade. The websocket handshake hides the
// response status, so a refused upgrade is checked against the auth endpoint
// and a rejected token comes back as its *backend.Error.
func (c *Client) dialError(ctx context.Context, token string, err error) error {
	var dialErr *websocket.DialError
	if token == "" || !errors.As(err, &dialErr) || dialErr.Err != websocket.ErrBadStatus {
		return fmt.Errorf("dial change feed: %w", err)
	}
	if _, userErr := c.User(ctx, token); userErr != nil {
		var backendErr *backend.Error
		if errors.As(userErr, &backendErr) && backendErr.Unauthorized() {
			return fmt.Errorf("dial change feed: %w", backendErr)
		}
	}
	return fmt.Errorf("dial change feed: %w", err)
}

type feed struct {
	conn      *websocket.Conn
	events    chan backend.ChangeEvent
	done      chan struct{}
	closeOnce sync.Once
}

func (f *feed) Events() <-chan backend.ChangeEvent {
	return f.events
}

func (f *feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		err = f.conn.Close()
	})
	return err
}

// read owns the events channel and closes it when the connection ends.
func (f *feed) read() {
	defer close(f.events)
	decoder := json.NewDecoder(f.conn)
	for {
		var frame changeFrame
		if err := decoder.Decode(&frame); err != nil {
			select {
			case <-f.done:
			default:
				if !errors.Is(err, io.EOF) {
					log.Printf("read change feed: %v", err)
				}
				_ = f.Close()
			}
			return
		}
		if frame.Type != "change" || frame.Table == "" {
			continue
		}
		select {
		case f.events <- backend.ChangeEvent{Table: frame.Table, Event: strings.ToUpper(frame.Event)}:
		case <-f.done:
			return
		default:
			// Consumers refetch whole panels, so a dropped event is covered by the next.
		}
	}
}
