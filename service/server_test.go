/*
Copyright (C) 2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/launix-de/awful/awful"
)

func newTestServer(t *testing.T, settings awful.Settings, timeout time.Duration) (*Server, *httptest.Server) {
	t.Helper()
	s := New(awful.New(awful.WithSettings(settings)), timeout)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url string, body string) (int, string, http.Header) {
	t.Helper()
	res, err := http.Post(url, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res.StatusCode, string(b), res.Header
}

func TestEval(t *testing.T) {
	_, ts := newTestServer(t, awful.DefaultSettings(), time.Second)
	cases := []struct {
		source string
		status int
		prefix string
	}{
		{"ADD 1 2", http.StatusOK, "3\n"},
		{"TOS (PUSH 1 (PUSH 2 NIL))", http.StatusOK, "1\n"},
		{"x", http.StatusUnprocessableEntity, "error: unbound variable"},
		{"ADD 1", http.StatusUnprocessableEntity, "error: unexpected end of text"},
		{"({: 1} 2)", http.StatusUnprocessableEntity, "error: arity error"},
	}
	for _, c := range cases {
		status, body, _ := post(t, ts.URL+"/eval", c.source)
		if status != c.status || !strings.HasPrefix(body, c.prefix) {
			t.Fatalf("%s: got %d %q", c.source, status, body)
		}
	}
}

func TestEvalWarning(t *testing.T) {
	_, ts := newTestServer(t, awful.DefaultSettings(), 0)
	status, body, header := post(t, ts.URL+"/eval", "1 2")
	if status != http.StatusOK || body != "1\n" || header.Get(WarningHeader) == "" {
		t.Fatalf("got %d %q %v", status, body, header)
	}
}

func TestEvalTooLarge(t *testing.T) {
	settings := awful.DefaultSettings()
	settings.MaxSourceSize = 8
	_, ts := newTestServer(t, settings, 0)
	status, body, _ := post(t, ts.URL+"/eval", "ADD 1 ADD 2 ADD 3 4")
	if status != http.StatusRequestEntityTooLarge {
		t.Fatalf("got %d %q", status, body)
	}
}

func TestEvalTimeout(t *testing.T) {
	_, ts := newTestServer(t, awful.DefaultSettings(), time.Nanosecond)
	status, body, _ := post(t, ts.URL+"/eval", "({f: (f f)} {f: (f f)})")
	if status != http.StatusUnprocessableEntity || !strings.HasPrefix(body, "error: limit exceeded") {
		t.Fatalf("got %d %q", status, body)
	}
}

func TestEvalMethod(t *testing.T) {
	_, ts := newTestServer(t, awful.DefaultSettings(), 0)
	res, err := http.Get(ts.URL + "/eval")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("got %d", res.StatusCode)
	}
}

func TestWebsocket(t *testing.T) {
	s, ts := newTestServer(t, awful.DefaultSettings(), time.Second)
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	exchange := func(msg string) string {
		if err := ws.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatal(err)
		}
		_, reply, err := ws.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		return string(reply)
	}
	if got := exchange("({x: MUL x x} 7)"); got != "49" {
		t.Fatalf("unexpected reply %q", got)
	}
	if got := exchange("NOPE"); !strings.HasPrefix(got, "error: unbound variable") {
		t.Fatalf("unexpected reply %q", got)
	}

	// the session is registered while the connection is open
	res, err := http.Get(ts.URL + "/sessions")
	if err != nil {
		t.Fatal(err)
	}
	var sessions []SessionInfo
	err = json.NewDecoder(res.Body).Decode(&sessions)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].Evaluations != 2 || sessions[0].Failures != 1 {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	if s.Sessions().Get(sessions[0].ID) == nil {
		t.Fatalf("session %s not found", sessions[0].ID)
	}

	res, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	metrics, _ := io.ReadAll(res.Body)
	res.Body.Close()
	for _, want := range []string{"evaluations_total 2\n", "evaluation_failures_total 1\n", "sessions 1\n"} {
		if !strings.Contains(string(metrics), want) {
			t.Fatalf("metrics lack %q:\n%s", want, metrics)
		}
	}
}

func TestWebsocketTooLarge(t *testing.T) {
	settings := awful.DefaultSettings()
	settings.MaxSourceSize = 8
	_, ts := newTestServer(t, settings, 0)
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	if err := ws.WriteMessage(websocket.TextMessage, []byte("ADD 1 2")); err != nil {
		t.Fatal(err)
	}
	if _, reply, err := ws.ReadMessage(); err != nil || string(reply) != "3" {
		t.Fatalf("unexpected reply %q (%v)", reply, err)
	}

	if err := ws.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("ADD 1 ", 10)+"0")); err != nil {
		t.Fatal(err)
	}
	_, _, err = ws.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseMessageTooBig) {
		t.Fatalf("expected close 1009, got %v", err)
	}
}
