// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package websocket pushes live league updates to connected browsers.

The event router forwards every domain event to Hub.BroadcastJSON, and the hub
fans it out to all clients as a JSON text frame:

	{"type": "game.recorded", "data": {"id": "...", "season_id": "...", "payload": {...}}}

Key Components:

  - Hub: owns the client set and a buffered broadcast channel
  - Client: one connection with a read goroutine and a write goroutine
  - Message: the {type, data} frame

Architecture:

	event router --BroadcastJSON--> Hub --send chan--> Client.writePump --> browser
	                                 ^
	                     Register / Unregister

Each client has two goroutines:
  - readPump: reads client frames, answers {"type":"ping"} with a pong and
    extends the read deadline on protocol pongs
  - writePump: writes queued messages and sends a protocol ping every
    pingPeriod

Slow Clients:

Every client has a 256-message send buffer. A client whose buffer is full
when a broadcast arrives is disconnected, so one stalled browser never blocks
the hub. Dropped clients are counted in rinkside_ws_dropped_clients_total.

Supervision:

Hub.Serve implements suture.Service. On cancellation every client is closed
and Serve returns ctx.Err() so the supervisor can restart it cleanly.

Usage Example - Server:

	hub := websocket.NewHub()
	go func() { _ = hub.Serve(ctx) }()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
	    return
	}
	client := websocket.NewClient(hub, conn)
	hub.Register <- client
	client.Start()

Usage Example - Client (JavaScript):

	const ws = new WebSocket('wss://league.example.com/api/v1/ws');
	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);
	    if (msg.type === 'game.recorded') {
	        refreshStandings(msg.data.season_id);
	    }
	};
*/
package websocket
