package ws_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"league-service/internal/service/game"
	"league-service/internal/settlement"
	"league-service/internal/ws"
	appErr "league-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type stubPreviewer struct {
	requests chan game.SubmitRequest
}

func (s *stubPreviewer) Preview(_ context.Context, req game.SubmitRequest) (*game.Preview, error) {
	s.requests <- req
	if req.RulesetID == 404 {
		return nil, appErr.ErrRulesetNotFound
	}
	results := make([]settlement.Result, len(req.Seats))
	for i := range results {
		results[i].Position = i + 1
	}
	return &game.Preview{RulesetID: req.RulesetID, Results: results, Errors: []string{}}, nil
}

func dial(t *testing.T, previewer ws.Previewer) *websocket.Conn {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/settlement/preview", ws.NewHandler(previewer).HandlePreviewWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/settlement/preview"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

type reply struct {
	Type string          `json:"type"`
	Seq  int64           `json:"seq"`
	Data json.RawMessage `json:"data"`
}

func roundTrip(t *testing.T, conn *websocket.Conn, payload string) reply {
	t.Helper()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var msg reply
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func TestPreviewSocketEchoesSequence(t *testing.T) {
	stub := &stubPreviewer{requests: make(chan game.SubmitRequest, 4)}
	conn := dial(t, stub)

	msg := roundTrip(t, conn, `{"type":"preview","seq":7,"data":{"rulesetId":3,"playedOn":"2026-04-12","gameNumber":2,
		"seats":[{"playerId":1,"gameScore":35000},{"playerId":2,"gameScore":28000},{"playerId":3,"gameScore":22000},{"playerId":4,"gameScore":15000}]}}`)
	if msg.Type != "preview" || msg.Seq != 7 {
		t.Fatalf("unexpected reply %s/%d", msg.Type, msg.Seq)
	}

	var preview game.Preview
	if err := json.Unmarshal(msg.Data, &preview); err != nil {
		t.Fatalf("decode preview failed: %v", err)
	}
	if preview.RulesetID != 3 || len(preview.Results) != 4 {
		t.Fatalf("unexpected preview %+v", preview)
	}

	req := <-stub.requests
	if req.GameNumber != 2 || req.PlayedOn.Day() != 12 || len(req.Seats) != 4 || req.Seats[0].GameScore != 35000 {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestPreviewSocketReportsErrors(t *testing.T) {
	stub := &stubPreviewer{requests: make(chan game.SubmitRequest, 4)}
	conn := dial(t, stub)

	msg := roundTrip(t, conn, `not json`)
	if msg.Type != "error" {
		t.Fatalf("expected error reply, got %s", msg.Type)
	}

	msg = roundTrip(t, conn, `{"type":"preview","seq":3,"data":{"rulesetId":404,"seats":[]}}`)
	if msg.Type != "error" || msg.Seq != 3 || !strings.Contains(string(msg.Data), appErr.ErrRulesetNotFound.Error()) {
		t.Fatalf("expected ruleset error for seq 3, got %s/%d %s", msg.Type, msg.Seq, msg.Data)
	}

	msg = roundTrip(t, conn, `{"type":"submit","seq":4,"data":{}}`)
	if msg.Type != "error" || msg.Seq != 4 {
		t.Fatalf("expected unsupported type error, got %s/%d", msg.Type, msg.Seq)
	}

	msg = roundTrip(t, conn, `{"type":"preview","seq":5,"data":{"playedOn":"yesterday"}}`)
	if msg.Type != "error" || msg.Seq != 5 {
		t.Fatalf("expected date error, got %s/%d", msg.Type, msg.Seq)
	}
}
