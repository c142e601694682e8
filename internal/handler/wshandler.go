package handler

// wshandler is code for handling websockets.  It supports the graphql-ws protocol (sub-protocol name
// graphql-transport-ws) which can carry queries and mutations, each as a "subscribe" message answered
// by a single "next" message then "complete".

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const wsSubprotocol = "graphql-transport-ws"

// Close codes of the graphql-ws protocol
const (
	closeBadMessage     = 4400
	closeUnauthorized   = 4401
	closeInitTimeout    = 4408
	closeDuplicateID    = 4409
	closeTooManyInitReq = 4429
)

type (
	wsConnection struct {
		*websocket.Conn // handle for WS communications

		h   *Handler // we need this for the schema etc
		log logrus.FieldLogger

		writeMu sync.Mutex // websocket.Conn supports only one concurrent writer

		// cancel keeps track of the cancel function associated with each running operation.
		//  map key = ID that identifies the operation
		//  map value = context.CancelFunc that will terminate the operation
		mu     sync.Mutex
		cancel map[string]context.CancelFunc
		wg     sync.WaitGroup
	}

	// wsMessage is a message received from the client (payload is decoded later as it depends on the type)
	wsMessage struct {
		Type    string          `json:"type"`
		ID      string          `json:"id,omitempty"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}

	// wsReply is a message sent to the client
	wsReply struct {
		Type    string      `json:"type"`
		ID      string      `json:"id,omitempty"`
		Payload interface{} `json:"payload,omitempty"`
	}
)

var upgrader = websocket.Upgrader{
	CheckOrigin:  func(r *http.Request) bool { return true },
	Subprotocols: []string{wsSubprotocol},
}

// serveWS is called in response to a GraphQL HTTP request wanting to upgrade to a WS.
// It runs each operation it receives and sends back the result.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		// nothing else required here as w's HTTP status has already been set
		return
	}
	c := &wsConnection{
		Conn:   conn,
		h:      h,
		log:    h.log.WithField("remote", r.RemoteAddr),
		cancel: make(map[string]context.CancelFunc),
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		c.stopAll()
		c.wg.Wait()
		if err := c.Close(); err != nil {
			c.log.WithError(err).Debug("websocket close")
		}
	}()

	if c.Subprotocol() != wsSubprotocol {
		c.closeWith(closeBadMessage, "Unsupported sub-protocol")
		return
	}
	if !c.init() {
		return
	}
	go c.pinger(ctx)

	for {
		message := c.read(c.h.pingFrequency + c.h.pongTimeout)
		if message == nil {
			return
		}

		switch message.Type {
		case "subscribe":
			if !c.start(ctx, message) {
				return
			}

		case "complete":
			c.stop(message.ID)

		case "ping":
			c.write(wsReply{Type: "pong"})

		case "pong":
			// just resets the read deadline

		case "connection_init":
			c.closeWith(closeTooManyInitReq, "Too many initialisation requests")
			return

		default:
			c.log.WithField("type", message.Type).Warn("websocket unexpected message type")
			c.closeWith(closeBadMessage, "Unexpected message type: "+message.Type)
			return
		}
	}
}

// init handles the initial (high level) handshake by receiving an "init" message and sending an "ack"
func (c *wsConnection) init() bool {
	message := c.read(c.h.initialTimeout)
	if message == nil {
		c.closeWith(closeInitTimeout, "Connection initialisation timeout")
		return false
	}
	if message.Type != "connection_init" {
		c.closeWith(closeUnauthorized, "Unauthorized")
		return false
	}
	return c.write(wsReply{Type: "connection_ack"})
}

// start decodes the request of a "subscribe" message and runs it in the background
// Returns: false if the connection should be closed
func (c *wsConnection) start(ctx context.Context, message *wsMessage) bool {
	var g gqlRequest
	decoder := json.NewDecoder(bytes.NewReader(message.Payload))
	decoder.UseNumber() // allows us to distinguish ints from floats in Variables map (see also FixNumberVariables())
	if message.ID == "" || decoder.Decode(&g) != nil {
		c.closeWith(closeBadMessage, "Invalid subscribe message")
		return false
	}

	// Add to our map of operations active in this ws (first checking that the ID is not in use)
	c.mu.Lock()
	if _, ok := c.cancel[message.ID]; ok {
		c.mu.Unlock()
		c.closeWith(closeDuplicateID, "Subscriber for "+message.ID+" already exists")
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel[message.ID] = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		result := c.h.Execute(ctx, g)
		cancelled := ctx.Err() != nil
		c.stop(message.ID) // the ID can be reused as soon as the client sees "complete"
		if cancelled {
			return // client sent complete (or went away) so no reply
		}
		if c.write(wsReply{Type: "next", ID: message.ID, Payload: result}) {
			c.write(wsReply{Type: "complete", ID: message.ID})
		}
	}()
	return true
}

// stop cancels an operation (and forgets it so that the ID can be reused)
func (c *wsConnection) stop(ID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cancel := c.cancel[ID]; cancel != nil {
		cancel()
		delete(c.cancel, ID)
	}
}

// stopAll kills processing of all operations (eg before closing the websocket)
func (c *wsConnection) stopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ID, cancel := range c.cancel {
		cancel()
		delete(c.cancel, ID)
	}
}

// pinger sends a "ping" message periodically - the client must reply (with "pong") before the read deadline
func (c *wsConnection) pinger(ctx context.Context) {
	ticker := time.NewTicker(c.h.pingFrequency)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !c.write(wsReply{Type: "ping"}) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// read gets the next message waiting at most timeout
func (c *wsConnection) read(timeout time.Duration) *wsMessage {
	if err := c.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil
	}
	_, reader, err := c.NextReader()
	if err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.log.WithError(err).Debug("websocket read")
		}
		return nil
	}

	var message wsMessage
	if err = json.NewDecoder(reader).Decode(&message); err != nil {
		c.log.WithError(err).Warn("websocket decode error")
		c.closeWith(closeBadMessage, "Invalid message received")
		return nil
	}
	return &message
}

func (c *wsConnection) write(reply wsReply) bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.WriteJSON(reply); err != nil {
		c.log.WithError(err).WithField("type", reply.Type).Debug("websocket write")
		return false
	}
	return true
}

func (c *wsConnection) closeWith(code int, text string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}
