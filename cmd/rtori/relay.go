package main

import (
	"context"
	"log"
	"net/http"
	"sync"

	"nhooyr.io/websocket"
)

// relay is the WebSocket broadcaster spec.md §6's CLI describes: one
// connection at /simulator pushes frames, and every connection at
// /consumer receives a copy of each one. Out of the solver's core scope
// (spec.md §1 "OUT OF SCOPE as external collaborators... the WebSocket
// relay"); this is the thin transport wrapper around it.
type relay struct {
	mu        sync.Mutex
	consumers map[*websocket.Conn]struct{}
}

func newRelay() *relay {
	return &relay{consumers: make(map[*websocket.Conn]struct{})}
}

func (r *relay) addConsumer(c *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consumers[c] = struct{}{}
}

func (r *relay) removeConsumer(c *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.consumers, c)
}

// broadcast forwards one message from the simulator connection to every
// currently-connected consumer in turn, waiting on each write; a consumer
// whose write fails is dropped and closed.
func (r *relay) broadcast(ctx context.Context, typ websocket.MessageType, data []byte) {
	r.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(r.consumers))
	for c := range r.consumers {
		targets = append(targets, c)
	}
	r.mu.Unlock()

	for _, c := range targets {
		if err := c.Write(ctx, typ, data); err != nil {
			log.Printf("relay: dropping consumer after write error: %v", err)
			r.removeConsumer(c)
			c.CloseNow()
		}
	}
}

// handleSimulator accepts a broadcaster connection and forwards every
// message it sends to every connected consumer until it closes; each
// broadcaster connection is served independently.
func (r *relay) handleSimulator(w http.ResponseWriter, req *http.Request) {
	c, err := websocket.Accept(w, req, nil)
	if err != nil {
		log.Printf("relay: simulator accept: %v", err)
		return
	}
	defer c.CloseNow()

	ctx := req.Context()
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			log.Printf("relay: simulator disconnected: %v", err)
			return
		}
		r.broadcast(ctx, typ, data)
	}
}

// handleConsumer accepts a recipient connection, registers it, and blocks
// on reads (consumers are not expected to send anything; this only
// exists to notice the connection closing) until it disconnects.
func (r *relay) handleConsumer(w http.ResponseWriter, req *http.Request) {
	c, err := websocket.Accept(w, req, nil)
	if err != nil {
		log.Printf("relay: consumer accept: %v", err)
		return
	}
	r.addConsumer(c)
	defer func() {
		r.removeConsumer(c)
		c.CloseNow()
	}()

	ctx := req.Context()
	for {
		if _, _, err := c.Read(ctx); err != nil {
			return
		}
	}
}

func (r *relay) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/simulator", r.handleSimulator)
	mux.HandleFunc("/consumer", r.handleConsumer)
	return mux
}
