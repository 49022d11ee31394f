// Package relay implements the dumb message relay: clients join a room over
// a websocket and every frame a client sends is forwarded, unparsed, to
// every other client in the same room. The relay never inspects payloads and
// holds no game state.
package relay

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// outboundBuffer is the per-client fan-out queue depth. A client that falls
// this far behind starts losing frames rather than stalling its peers.
const outboundBuffer = 64

// Client is one joined connection's view of the hub. Frames addressed to it
// arrive on Outbound; the transport layer drains that channel.
type Client struct {
	ID   string
	Room string

	outbound chan []byte
}

// Outbound returns the channel of frames forwarded to this client.
// The channel is closed when the client leaves the hub.
func (c *Client) Outbound() <-chan []byte { return c.outbound }

// Hub tracks rooms and fans frames out between their members.
type Hub struct {
	logger *zap.Logger

	mu    sync.Mutex
	rooms map[string]map[string]*Client
}

// NewHub creates an empty hub.
//
// Precondition: logger must be non-nil.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[string]*Client),
	}
}

// Join adds a client to a room, creating the room on first join.
//
// Precondition: room and id must be non-empty.
// Postcondition: Returns an error if id is already present in room.
func (h *Hub) Join(room, id string) (*Client, error) {
	if room == "" || id == "" {
		return nil, fmt.Errorf("joining relay: room and client id must be non-empty")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	if _, taken := members[id]; taken {
		return nil, fmt.Errorf("joining relay room %q: client id %q already present", room, id)
	}

	c := &Client{
		ID:       id,
		Room:     room,
		outbound: make(chan []byte, outboundBuffer),
	}
	members[id] = c

	h.logger.Info("client joined room",
		zap.String("room", room),
		zap.String("client", id),
		zap.Int("members", len(members)),
	)
	return c, nil
}

// Leave removes a client from its room and closes its outbound channel.
// Empty rooms are deleted. Safe to call more than once.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[c.Room]
	if !ok {
		return
	}
	current, ok := members[c.ID]
	if !ok || current != c {
		return
	}

	delete(members, c.ID)
	close(c.outbound)
	if len(members) == 0 {
		delete(h.rooms, c.Room)
	}

	h.logger.Info("client left room",
		zap.String("room", c.Room),
		zap.String("client", c.ID),
		zap.Int("members", len(members)),
	)
}

// Broadcast forwards data to every member of the sender's room except the
// sender itself. Clients whose outbound queue is full lose the frame.
func (h *Hub) Broadcast(sender *Client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[sender.Room]
	if !ok {
		return
	}
	for id, peer := range members {
		if id == sender.ID {
			continue
		}
		select {
		case peer.outbound <- data:
		default:
			h.logger.Warn("dropping frame for slow client",
				zap.String("room", sender.Room),
				zap.String("client", id),
			)
		}
	}
}

// RoomSize returns the current member count of room.
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}
