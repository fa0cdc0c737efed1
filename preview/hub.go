// Package preview streams a frame to browsers while it is being assembled.
//
// A browser connects to the websocket endpoint and first receives a JSON Status text message,
// then one binary message per finished row: the row index as a big-endian uint32 followed by
// the row's RGBA bytes. A final Status with Complete set is sent when the frame is done.
package preview

import (
	"context"
	"encoding/binary"
	"errors"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/coder/websocket"
	"github.com/marben/julia/internal/logging"
)

const writeTimeout = 5 * time.Second

var errSlowClient = errors.New("client too slow")

type Status struct {
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	RowsDone int  `json:"rows_done"`
	Complete bool `json:"complete"`
}

type message struct {
	typ  websocket.MessageType
	data []byte
}

type client struct {
	msgs chan message
	// closed when the hub drops the client for being too slow
	dropped chan struct{}
}

// Hub fans finished rows out to every connected websocket client.
// Rows are kept, so clients connecting late get the frame so far.
type Hub struct {
	Logger logging.Logger

	m       sync.Mutex
	status  Status
	rows    []message
	clients map[*client]struct{}
}

func NewHub(width, height int) *Hub {
	return &Hub{
		status:  Status{Width: width, Height: height},
		clients: make(map[*client]struct{}),
	}
}

// PublishRow queues row y for every client. It copies the row, so row may be reused.
// Its signature matches render.Assembler.OnRow.
func (h *Hub) PublishRow(y int, row *image.RGBA) {
	b := row.Bounds()
	data := make([]byte, 4, 4+b.Dx()*4)
	binary.BigEndian.PutUint32(data, uint32(y))
	for x := b.Min.X; x < b.Max.X; x++ {
		i := row.PixOffset(x, b.Min.Y)
		data = append(data, row.Pix[i:i+4]...)
	}

	h.m.Lock()
	defer h.m.Unlock()
	msg := message{typ: websocket.MessageBinary, data: data}
	h.rows = append(h.rows, msg)
	h.status.RowsDone++
	h.broadcast(msg)
}

// Finish tells every client that the frame is complete.
func (h *Hub) Finish() {
	h.m.Lock()
	defer h.m.Unlock()
	h.status.Complete = true
	msg, err := h.statusMessage()
	if err != nil {
		logging.OrNoop(h.Logger).Errorf("preview", "status: %v", err)
		return
	}
	h.broadcast(msg)
}

func (h *Hub) Status() Status {
	h.m.Lock()
	defer h.m.Unlock()
	return h.status
}

// statusMessage must be called with h.m held.
func (h *Hub) statusMessage() (message, error) {
	data, err := sonic.Marshal(h.status)
	if err != nil {
		return message{}, err
	}
	return message{typ: websocket.MessageText, data: data}, nil
}

// broadcast must be called with h.m held.
func (h *Hub) broadcast(msg message) {
	for c := range h.clients {
		select {
		case c.msgs <- msg:
		default:
			h.drop(c)
		}
	}
}

// drop must be called with h.m held.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.dropped)
}

// subscribe registers a client and returns everything it has missed so far.
func (h *Hub) subscribe() (*client, []message, error) {
	h.m.Lock()
	defer h.m.Unlock()

	status, err := h.statusMessage()
	if err != nil {
		return nil, nil, err
	}
	backlog := make([]message, 0, len(h.rows)+1)
	backlog = append(backlog, status)
	backlog = append(backlog, h.rows...)

	// room for every row still to come plus the final status, so a client
	// is only dropped if something publishes more rows than the frame has
	c := &client{msgs: make(chan message, h.status.Height+1), dropped: make(chan struct{})}
	h.clients[c] = struct{}{}
	return c, backlog, nil
}

func (h *Hub) unsubscribe(c *client) {
	h.m.Lock()
	defer h.m.Unlock()
	h.drop(c)
}

// ServeWS upgrades the request to a websocket and streams the frame to it
// until the client disconnects or falls too far behind.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	logger := logging.OrNoop(h.Logger)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		logger.Errorf("preview", "accept: %v", err)
		return
	}
	defer conn.CloseNow()

	logger.Infof("preview", "client %s connected", r.RemoteAddr)
	err = h.stream(r.Context(), conn)
	logger.Infof("preview", "client %s gone: %v", r.RemoteAddr, err)
}

// stream only returns once the client is gone, with the reason.
func (h *Hub) stream(ctx context.Context, conn *websocket.Conn) error {
	// we never expect messages from the browser; CloseRead handles control frames
	ctx = conn.CloseRead(ctx)

	c, backlog, err := h.subscribe()
	if err != nil {
		return err
	}
	defer h.unsubscribe(c)

	for _, msg := range backlog {
		if err := write(ctx, conn, msg); err != nil {
			return err
		}
	}

	for {
		select {
		case msg := <-c.msgs:
			if err := write(ctx, conn, msg); err != nil {
				return err
			}
		case <-c.dropped:
			conn.Close(websocket.StatusPolicyViolation, errSlowClient.Error())
			return errSlowClient
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, msg.typ, msg.data)
}
