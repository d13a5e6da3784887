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

// Package service offers an interpreter over HTTP and websockets.
package service

import "io"
import "fmt"
import "time"
import "errors"
import "context"
import "log/slog"
import "net/http"
import "encoding/json"
import "github.com/gorilla/websocket"
import "github.com/launix-de/awful/awful"

// header carrying the residual token warning of /eval
const WarningHeader = "X-Awful-Warning"

type Server struct {
	interp   *awful.Interpreter
	timeout  time.Duration // per evaluation, 0 = none
	sessions *Registry
	metrics  *Metrics
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func New(in *awful.Interpreter, timeout time.Duration) *Server {
	s := &Server{
		interp:   in,
		timeout:  timeout,
		sessions: NewRegistry(),
		metrics:  NewMetrics(),
		logger:   in.Logger().With("component", "service"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	return s
}

func (s *Server) Sessions() *Registry { return s.sessions }
func (s *Server) Metrics() *Metrics   { return s.metrics }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/eval", s.handleEval)
	mux.HandleFunc("/ws", s.handleWebsocket)
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return s.recoverer(mux)
}

// ListenAndServe serves until ctx is done and then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:           addr,
		Handler:        s.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
		ConnState:      s.metrics.connState,
	}
	if s.timeout > 0 {
		server.WriteTimeout = s.timeout + 10*time.Second
	}
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- server.Shutdown(shutdown)
	}()
	s.logger.Info("listening", "addr", addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

// catch panics and print out 500 Internal Server Error
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		s.metrics.Requests.Add(1)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in http handler", "path", req.URL.Path, "panic", fmt.Sprint(r))
				res.Header().Set("Content-Type", "text/plain")
				res.WriteHeader(http.StatusInternalServerError)
				io.WriteString(res, "500 Internal Server Error: ")
				io.WriteString(res, fmt.Sprint(r))
			}
		}()
		next.ServeHTTP(res, req)
	})
}

func (s *Server) evaluate(ctx context.Context, source string) (awful.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	result, err := s.interp.EvaluateContext(ctx, source)
	s.metrics.evaluated(source, err)
	return result, err
}

func (s *Server) handleEval(res http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		res.Header().Set("Allow", http.MethodPost)
		http.Error(res, "only POST is allowed", http.StatusMethodNotAllowed)
		return
	}
	body := req.Body
	if max := s.interp.Settings().MaxSourceSize; max > 0 {
		body = http.MaxBytesReader(res, req.Body, max)
	}
	source, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(res, fmt.Sprintf("error: source larger than %s", awful.HumanSize(tooLarge.Limit)), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(res, "error: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.evaluate(req.Context(), string(source))
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err != nil {
		s.logger.Debug("evaluation failed", "remote", req.RemoteAddr, "error", err)
		res.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(res, "error: "+err.Error()+"\n")
		return
	}
	if result.Warning != "" {
		res.Header().Set(WarningHeader, result.Warning)
	}
	io.WriteString(res, result.Rendered+"\n")
}

// handleWebsocket evaluates every text message and answers with the
// rendering or "error: ..."
func (s *Server) handleWebsocket(res http.ResponseWriter, req *http.Request) {
	ws, err := s.upgrader.Upgrade(res, req, nil)
	if err != nil {
		// Upgrade already replied with an http error
		s.logger.Warn("websocket upgrade failed", "remote", req.RemoteAddr, "error", err)
		return
	}
	defer ws.Close()
	if max := s.interp.Settings().MaxSourceSize; max > 0 {
		// larger messages close the connection with 1009 before they are buffered
		ws.SetReadLimit(max)
	}
	sess := s.sessions.Open(req.RemoteAddr)
	defer s.sessions.Close(sess)
	log := s.logger.With("session", sess.ID)
	log.Info("session opened", "remote", sess.Remote)

	for {
		// websocket read loop
		messageType, msg, err := ws.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				log.Warn("websocket message too large", "limit", awful.HumanSize(s.interp.Settings().MaxSourceSize))
			} else if _, ok := err.(*websocket.CloseError); !ok {
				log.Warn("websocket receive failed", "error", err)
			}
			log.Info("session closed", "evaluations", sess.evaluations.Load())
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var reply string
		result, err := s.evaluate(req.Context(), string(msg))
		sess.count(err != nil)
		if err != nil {
			reply = "error: " + err.Error()
		} else {
			reply = result.Rendered
		}
		if err := ws.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			log.Warn("websocket send failed", "error", err)
			return
		}
	}
}

func (s *Server) handleSessions(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(s.sessions.List()); err != nil {
		s.logger.Warn("writing sessions failed", "error", err)
	}
}

func (s *Server) handleMetrics(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	s.metrics.Print(res, s.sessions.Len())
}
