/* ws.go
 * Contains the websocket handlers that stream team snapshots. The subscription is opened before the upgrade so
 * permission and not found errors are returned as plain HTTP errors
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"hackathon-engine/api/shared"
	"hackathon-engine/api/store"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const writeTimeout = 3 * time.Second

// serverMessage is a single frame sent to a watching client
type serverMessage struct {
	Type  string        `json:"type"`
	Team  *shared.Team  `json:"team,omitempty"`
	Teams []shared.Team `json:"teams,omitempty"`
	Error string        `json:"error,omitempty"`
}

// WatchTeam streams the team to a member or admin every time it changes
func (s *Server) WatchTeam(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan serverMessage, 1)
	sub, err := s.api.WatchTeam(ctx, principalFrom(ctx).ID, chi.URLParam(r, "id"), func(team shared.Team, err error) {
		offer(out, teamMessage(team, err))
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.stream(ctx, w, r, sub, out)
}

// WatchTeams streams the full team list to an admin every time any team changes
func (s *Server) WatchTeams(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan serverMessage, 1)
	sub, err := s.api.WatchTeams(ctx, principalFrom(ctx).ID, func(teams []shared.Team, err error) {
		if err != nil {
			offer(out, serverMessage{Type: "error", Error: errorMessage(err)})
			return
		}
		if teams == nil {
			teams = []shared.Team{}
		}
		offer(out, serverMessage{Type: "teams", Teams: teams})
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.stream(ctx, w, r, sub, out)
}

// stream upgrades the connection and writes every message from out until the client goes away or the
// subscription ends
func (s *Server) stream(ctx context.Context, w http.ResponseWriter, r *http.Request, sub store.Subscription, out <-chan serverMessage) {
	defer sub.Unsubscribe()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	// clients only listen, CloseRead handles control frames and cancels once the client closes
	ctx = conn.CloseRead(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			conn.Close(websocket.StatusGoingAway, "subscription ended")
			return
		case msg := <-out:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, msg)
			cancel()
			if err != nil {
				return
			}
			if msg.Type == "error" {
				conn.Close(websocket.StatusPolicyViolation, msg.Error)
				return
			}
		}
	}
}

func teamMessage(team shared.Team, err error) serverMessage {
	if err != nil {
		return serverMessage{Type: "error", Error: errorMessage(err)}
	}
	return serverMessage{Type: "team", Team: &team}
}

func errorMessage(err error) string {
	if shared.CodeOf(err) == shared.CodeUnavailable {
		return "subscription failed"
	}
	return err.Error()
}

// offer replaces any undelivered message in ch with msg, so a slow client only receives the latest snapshot.
// There is a single sender per channel
func offer(ch chan serverMessage, msg serverMessage) {
	for {
		select {
		case ch <- msg:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
