// Package realtime consumes the backend's record-change stream and
// keeps cached auction prices in sync with bids placed by other
// clients.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/laplataremata/remata-engine/internal/config"
	"github.com/laplataremata/remata-engine/internal/logging"
	"github.com/laplataremata/remata-engine/internal/models"
)

// Subscription is a handle on one opened bid stream. Close is a no-op
// after the first call; transport errors during teardown are swallowed.
type Subscription interface {
	Close()
}

// BidFeed opens per-auction subscriptions to the bid event stream.
type BidFeed interface {
	SubscribeBids(ctx context.Context, auctionID string, handler func(models.BidEvent)) (Subscription, error)
}

// frame is the message envelope of the realtime socket.
type frame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// outFrame mirrors frame with an encodable payload.
type outFrame struct {
	Topic   string `json:"topic"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
	Ref     string `json:"ref"`
}

// changePayload is the body of a record-changed event. The stream
// delivers the full record; the originating write path has already
// validated it.
type changePayload struct {
	Data struct {
		Type   string     `json:"type"`
		Record models.Bid `json:"record"`
	} `json:"data"`
}

const (
	heartbeatInterval = 25 * time.Second
	writeWait         = 5 * time.Second
)

// Client is a websocket client for the backend's realtime endpoint.
// One socket carries one channel per tracked auction.
type Client struct {
	url string

	// Controls the rate of outgoing channel joins
	// Default: 1 every 100ms, burst capacity of 8
	joinLimiter *rate.Limiter

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string]func(models.BidEvent)
	cancel   context.CancelFunc
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		url:         cfg.RealtimeURL(),
		joinLimiter: rate.NewLimiter(rate.Every(time.Millisecond*100), 8),
		handlers:    make(map[string]func(models.BidEvent)),
	}
}

// Connect dials the realtime endpoint and starts the read and
// heartbeat loops. A failed dial is reported to the caller once; the
// caller decides whether to continue without realtime updates.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.conn = conn
	c.cancel = cancel
	c.mu.Unlock()

	go c.readLoop(loopCtx, conn)
	go c.heartbeatLoop(loopCtx, conn)

	return nil
}

// Close tears the socket down. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	cancel := c.cancel
	c.conn = nil
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		// Best effort, the peer may already be gone
		_ = conn.Close(websocket.StatusNormalClosure, "teardown")
	}
}

// SubscribeBids joins the bid channel of one auction. Events whose
// record belongs to that auction are delivered to handler on the read
// loop goroutine.
func (c *Client) SubscribeBids(ctx context.Context, auctionID string, handler func(models.BidEvent)) (Subscription, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil, errors.New("realtime: not connected")
	}

	if err := c.joinLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	topic := "realtime:bids:" + auctionID
	join := outFrame{
		Topic: topic,
		Event: "phx_join",
		Payload: map[string]any{
			"config": map[string]any{
				"postgres_changes": []map[string]any{{
					"event":  "INSERT",
					"schema": "public",
					"table":  "bids",
					"filter": "auction_id=eq." + auctionID,
				}},
			},
		},
		Ref: uuid.New().String(),
	}

	c.mu.Lock()
	c.handlers[topic] = handler
	c.mu.Unlock()

	if err := c.writeFrame(ctx, conn, join); err != nil {
		c.mu.Lock()
		delete(c.handlers, topic)
		c.mu.Unlock()
		return nil, err
	}

	return &channelSub{client: c, topic: topic}, nil
}

// channelSub is the per-auction subscription handle.
type channelSub struct {
	client *Client
	topic  string
	once   sync.Once
}

// Close leaves the channel exactly once. Errors are logged, never
// surfaced: a transient realtime outage must not block teardown.
func (s *channelSub) Close() {
	s.once.Do(func() {
		s.client.mu.Lock()
		delete(s.client.handlers, s.topic)
		conn := s.client.conn
		s.client.mu.Unlock()

		if conn == nil {
			return
		}
		leave := outFrame{Topic: s.topic, Event: "phx_leave", Payload: map[string]any{}, Ref: uuid.New().String()}
		if err := s.client.writeFrame(context.Background(), conn, leave); err != nil {
			logging.Warn("failed to leave bid channel", map[string]any{"topic": s.topic, "error": err.Error()})
		}
	})
}

// writeFrame writes msg with a timeout to prevent a stalled socket from
// blocking callers indefinitely.
func (c *Client) writeFrame(ctx context.Context, conn *websocket.Conn, msg outFrame) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, b)
}

// readLoop decodes incoming frames and dispatches record-changed
// events to the subscribed handler. Any read error ends the loop; there
// is no gap detection and no automatic resubscribe.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logging.Info("realtime connection closed", map[string]any{"status": int(status)})
				return
			}
			logging.Warn("realtime read failed", map[string]any{"error": err.Error()})
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			logging.Warn("realtime frame not decodable", map[string]any{"error": err.Error()})
			continue
		}

		if f.Event != "postgres_changes" {
			// phx_reply, system and heartbeat acks need no handling
			continue
		}

		var change changePayload
		if err := json.Unmarshal(f.Payload, &change); err != nil {
			logging.Warn("bid event not decodable", map[string]any{"topic": f.Topic, "error": err.Error()})
			continue
		}

		c.mu.Lock()
		handler := c.handlers[f.Topic]
		c.mu.Unlock()
		if handler == nil {
			continue
		}

		rec := change.Data.Record
		handler(models.BidEvent{
			BidID:     rec.ID,
			AuctionID: rec.AuctionID,
			UserID:    rec.UserID,
			Amount:    rec.Amount,
			CreatedAt: rec.CreatedAt,
		})
	}
}

// heartbeatLoop keeps the socket alive; the endpoint drops silent
// clients after about a minute.
func (c *Client) heartbeatLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			beat := outFrame{Topic: "phoenix", Event: "heartbeat", Payload: map[string]any{}, Ref: uuid.New().String()}
			if err := c.writeFrame(ctx, conn, beat); err != nil {
				logging.Warn("realtime heartbeat failed", map[string]any{"error": err.Error()})
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
