// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package websocket

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/models"
)

// eventFrame is a hub message as a browser decodes it.
type eventFrame struct {
	Type string       `json:"type"`
	Data events.Event `json:"data"`
}

// connectFan serves hub clients over a test server and returns the browser
// side of one connection, with its welcome frame already read.
func connectFan(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(hub, conn)
		hub.Register <- c
		c.Start()
	}))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var welcome Message
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != MessageTypeWelcome {
		t.Fatalf("first frame = %q, want %q", welcome.Type, MessageTypeWelcome)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) eventFrame {
	t.Helper()
	var f eventFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestClient_IDsIncrease(t *testing.T) {
	hub := NewHub()
	first, second := NewClient(hub, nil), NewClient(hub, nil)
	if second.ID() <= first.ID() {
		t.Errorf("ids %d then %d", first.ID(), second.ID())
	}
	if cap(first.send) != sendBuffer {
		t.Errorf("send buffer = %d, want %d", cap(first.send), sendBuffer)
	}
}

func TestClient_DeliversGameRecorded(t *testing.T) {
	hub := setupHub(t)
	fan := connectFan(t, hub)

	game := models.Game{
		Base:       models.Base{ID: "g1"},
		SeasonID:   "s1",
		HomeClubID: "anc",
		AwayClubID: "bru",
		Status:     models.GameFinal,
		HomeScore:  4,
		AwayScore:  3,
		Overtime:   true,
	}
	hub.BroadcastJSON(events.TopicGameRecorded, events.NewEvent(events.TopicGameRecorded, game.SeasonID, game.ID, game))

	f := readFrame(t, fan)
	if f.Type != events.TopicGameRecorded || f.Data.Topic != events.TopicGameRecorded {
		t.Fatalf("frame = %q / %q, want %s", f.Type, f.Data.Topic, events.TopicGameRecorded)
	}
	if f.Data.SeasonID != "s1" || f.Data.ResourceID != "g1" || f.Data.ID == "" {
		t.Errorf("event = %+v", f.Data)
	}
	var got models.Game
	if err := json.Unmarshal(f.Data.Payload, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.HomeScore != 4 || got.AwayScore != 3 || !got.Overtime || got.Status != models.GameFinal {
		t.Errorf("payload = %+v", got)
	}
}

func TestClient_TopicsArriveInOrder(t *testing.T) {
	hub := setupHub(t)
	fan := connectFan(t, hub)

	bracket := models.Playoff{Base: models.Base{ID: "p1"}, SeasonID: "s1", Name: "Cup", ChampionClubID: "anc"}
	hub.BroadcastJSON(events.TopicPlayoffUpdated, events.NewEvent(events.TopicPlayoffUpdated, "s1", "p1", bracket))
	hub.BroadcastJSON(events.TopicGameDeleted, events.NewEvent(events.TopicGameDeleted, "s1", "g2", nil))

	first := readFrame(t, fan)
	if first.Type != events.TopicPlayoffUpdated {
		t.Fatalf("first frame = %q, want %s", first.Type, events.TopicPlayoffUpdated)
	}
	var p models.Playoff
	if err := json.Unmarshal(first.Data.Payload, &p); err != nil {
		t.Fatalf("decode bracket: %v", err)
	}
	if p.ChampionClubID != "anc" {
		t.Errorf("champion = %q", p.ChampionClubID)
	}

	second := readFrame(t, fan)
	if second.Type != events.TopicGameDeleted || second.Data.ResourceID != "g2" {
		t.Errorf("second frame = %+v", second)
	}
	if len(second.Data.Payload) != 0 {
		t.Errorf("deleted game carries payload %s", second.Data.Payload)
	}
}

func TestClient_AnswersPing(t *testing.T) {
	hub := setupHub(t)
	fan := connectFan(t, hub)

	// Frames that are not JSON are ignored.
	if err := fan.WriteMessage(websocket.TextMessage, []byte("season.updated?")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fan.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	var pong Message
	if err := fan.ReadJSON(&pong); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if pong.Type != MessageTypePong {
		t.Errorf("reply = %q, want %q", pong.Type, MessageTypePong)
	}
}

func TestClient_LeavesHubWhenBrowserCloses(t *testing.T) {
	hub := setupHub(t)
	fan := connectFan(t, hub)
	waitForCount(t, hub, 1)

	_ = fan.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	_ = fan.Close()
	waitForCount(t, hub, 0)

	// Broadcasting to an empty hub is a no-op.
	hub.BroadcastJSON(events.TopicSeasonUpdated, events.NewEvent(events.TopicSeasonUpdated, "s1", "s1", nil))
	waitForCount(t, hub, 0)
}

func TestClient_HubStopClosesConnection(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	fan := connectFan(t, hub)

	cancel()
	<-done
	for {
		_, _, err := fan.ReadMessage()
		if err == nil {
			continue
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			t.Fatal("connection stayed open after the hub stopped")
		}
		return
	}
}

func TestClient_WritePumpFlushesQueueThenCloses(t *testing.T) {
	got := make(chan []string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var types []string
		for {
			var m Message
			if err := conn.ReadJSON(&m); err != nil {
				got <- types
				return
			}
			types = append(types, m.Type)
		}
	}))
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	c := NewClient(NewHub(), conn)
	c.send <- Message{Type: events.TopicRankingPublished}
	c.send <- Message{Type: events.TopicArticlePublished}
	close(c.send)
	c.writePump()

	select {
	case types := <-got:
		if strings.Join(types, ",") != events.TopicRankingPublished+","+events.TopicArticlePublished {
			t.Errorf("received %v", types)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("peer never saw the close frame")
	}
}
