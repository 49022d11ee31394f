package gameserver

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/netsync"
)

// RelayClient connects one simulation to the websocket relay. Outbound events
// are written from whatever goroutine emits them (serialized by a mutex);
// inbound frames are decoded on a dedicated reader goroutine and handed to
// the sink, which must not block.
type RelayClient struct {
	localID string
	room    string
	conn    *websocket.Conn
	logger  *zap.Logger

	writeMu sync.Mutex
	closed  chan struct{}
	once    sync.Once
}

// DialRelay connects to the relay at addr and joins room.
//
// Precondition: addr is a host:port; room and localID are non-empty.
func DialRelay(ctx context.Context, addr, room, localID string, logger *zap.Logger) (*RelayClient, error) {
	u := url.URL{
		Scheme:   "ws",
		Host:     addr,
		Path:     "/join",
		RawQuery: url.Values{"room": {room}, "client": {localID}}.Encode(),
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing relay %q: %w", u.String(), err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	logger.Info("relay connected",
		zap.String("addr", addr),
		zap.String("room", room),
		zap.String("client", localID))
	return &RelayClient{
		localID: localID,
		room:    room,
		conn:    conn,
		logger:  logger,
		closed:  make(chan struct{}),
	}, nil
}

// Emit encodes and sends ev. Implements netsync.Emitter. Send failures are
// logged and swallowed: a dropped outbound event degrades remote mirroring,
// never local gameplay.
func (r *RelayClient) Emit(ev netsync.Event) {
	if ev.Sender == "" {
		ev.Sender = r.localID
	}
	data, err := netsync.Encode(ev)
	if err != nil {
		r.logger.Error("encoding sync event", zap.Error(err))
		return
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := r.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		r.logger.Warn("relay write failed",
			zap.String("type", string(ev.Type)),
			zap.Error(err))
	}
}

// Listen reads frames until the connection or ctx closes, decoding each into
// a sync event and delivering it to sink. Malformed or unknown-type frames
// are dropped per the desync policy.
//
// Blocks; callers run it on its own goroutine.
func (r *RelayClient) Listen(ctx context.Context, sink func(netsync.Event)) {
	go func() {
		select {
		case <-ctx.Done():
			r.Close()
		case <-r.closed:
		}
	}()
	for {
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			select {
			case <-r.closed:
			default:
				r.logger.Warn("relay read failed", zap.Error(err))
			}
			return
		}
		ev, err := netsync.Decode(data)
		if err != nil {
			r.logger.Debug("dropping undecodable frame", zap.Error(err))
			continue
		}
		if ev.Sender == r.localID {
			continue
		}
		sink(ev)
	}
}

// Close shuts the connection down. Idempotent.
func (r *RelayClient) Close() error {
	var err error
	r.once.Do(func() {
		close(r.closed)
		r.writeMu.Lock()
		defer r.writeMu.Unlock()
		_ = r.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = r.conn.Close()
	})
	return err
}
