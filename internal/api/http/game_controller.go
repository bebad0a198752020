package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"github.com/quizlane/quizlane/internal/api/http/converter"
	"github.com/quizlane/quizlane/internal/config"
	"github.com/quizlane/quizlane/internal/domain"
	"github.com/quizlane/quizlane/internal/repository"
	"github.com/quizlane/quizlane/internal/service"
	"github.com/quizlane/quizlane/lib/logger/sl"
	"github.com/skip2/go-qrcode"
)

type GameController struct {
	games    service.GameInteractor
	log      *slog.Logger
	webrtc   config.WebRTCConfig
	upgrader websocket.Upgrader
}

func NewGameController(games service.GameInteractor, log *slog.Logger, webrtc config.WebRTCConfig) *GameController {
	return &GameController{
		games:  games,
		log:    log,
		webrtc: webrtc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// clientMessage is the single inbound shape; which fields matter
// depends on type.
type clientMessage struct {
	Type      string `json:"type"`
	RoomCode  string `json:"roomCode,omitempty"`
	Password  string `json:"password,omitempty"`
	TeamsMode bool   `json:"teamsMode,omitempty"`

	Name      string `json:"name,omitempty"`
	HasCamera bool   `json:"hasCamera,omitempty"`
	IsCamMode bool   `json:"isCamMode,omitempty"`
	TeamID    string `json:"teamId,omitempty"`
	ColorID   string `json:"colorId,omitempty"`
	PlayerID  string `json:"playerId,omitempty"`

	Enabled   bool    `json:"enabled,omitempty"`
	Delta     int     `json:"delta,omitempty"`
	Question  string  `json:"question,omitempty"`
	TimeLimit int     `json:"timeLimit,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Abstained bool    `json:"abstained,omitempty"`
	Message   string  `json:"message,omitempty"`

	TargetID  string                     `json:"targetId,omitempty"`
	SDP       *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
	Payload   map[string]any             `json:"payload,omitempty"`
}

// Serve upgrades the websocket and runs the connection's read loop.
// One writer pump drains the event channel; the read loop dispatches
// each message to completion before reading the next, so events from
// one connection are handled in arrival order.
func (c *GameController) Serve(ctx *gin.Context) {
	socket, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.log.Error("failed to upgrade connection", sl.Err(err))
		return
	}

	conn := domain.NewConn(socket)
	go pumpEvents(conn)

	conn.Enqueue(domain.JoinedEvent{Type: "connected", ConnID: conn.ID})

	var roomCode string
	for {
		var msg clientMessage
		if err := socket.ReadJSON(&msg); err != nil {
			if roomCode != "" {
				c.games.Disconnect(context.Background(), roomCode, conn.ID)
			} else {
				conn.CloseEvents()
			}
			_ = socket.Close()
			return
		}

		c.dispatch(context.Background(), conn, &roomCode, msg)
	}
}

func (c *GameController) dispatch(ctx context.Context, conn *domain.Conn, roomCode *string, msg clientMessage) {
	switch msg.Type {
	case "create-room":
		room, err := c.games.CreateRoom(ctx, conn, msg.Password, msg.TeamsMode)
		if err != nil {
			c.sendError(conn, err)
			return
		}
		*roomCode = room.Code
		conn.Enqueue(domain.RoomCreatedEvent{Type: "room-created", RoomCode: room.Code})

	case "player-join":
		player, err := c.games.JoinPlayer(ctx, msg.RoomCode, conn, msg.Name, msg.HasCamera, msg.TeamID)
		if err != nil {
			c.sendError(conn, err)
			return
		}
		*roomCode = msg.RoomCode
		conn.Enqueue(domain.JoinedEvent{
			Type:     "joined",
			RoomCode: msg.RoomCode,
			PlayerID: player.ID,
			ConnID:   conn.ID,
		})

	case "spectator-join":
		if err := c.games.JoinSpectator(ctx, msg.RoomCode, conn); err != nil {
			c.sendError(conn, err)
			return
		}
		*roomCode = msg.RoomCode

	case "board-join":
		if err := c.games.JoinBoard(ctx, msg.RoomCode, conn, msg.IsCamMode); err != nil {
			c.sendError(conn, err)
			return
		}
		*roomCode = msg.RoomCode

	case "create-team":
		if _, err := c.games.CreateTeam(ctx, msg.RoomCode, msg.Name, msg.ColorID); err != nil {
			c.sendError(conn, err)
		}

	case "join-team":
		if err := c.games.JoinTeam(ctx, msg.RoomCode, msg.PlayerID, msg.TeamID); err != nil {
			c.sendError(conn, err)
		}

	case "set-buzzing":
		if err := c.games.SetBuzzing(ctx, msg.RoomCode, conn, msg.Enabled); err != nil {
			c.sendError(conn, err)
		}

	case "enable-buzz":
		if err := c.games.EnableBuzzing(ctx, msg.RoomCode); err != nil {
			c.sendError(conn, err)
		}

	case "buzz":
		_ = c.games.Buzz(ctx, msg.RoomCode, conn)

	case "lock-player":
		if err := c.games.LockPlayer(ctx, msg.RoomCode, conn, msg.PlayerID); err != nil {
			c.sendError(conn, err)
		}

	case "clear-locks":
		if err := c.games.ClearLocks(ctx, msg.RoomCode, conn); err != nil {
			c.sendError(conn, err)
		}

	case "update-score":
		if err := c.games.UpdateScore(ctx, msg.RoomCode, conn, msg.PlayerID, msg.Delta); err != nil {
			c.sendError(conn, err)
		}

	case "estimate-start":
		if err := c.games.StartEstimate(ctx, msg.RoomCode, conn, msg.Question, msg.TimeLimit); err != nil {
			c.sendError(conn, err)
		}

	case "estimate-answer":
		_ = c.games.SubmitEstimate(ctx, msg.RoomCode, conn, msg.Value, msg.Abstained)

	case "estimate-end":
		if err := c.games.EndEstimate(ctx, msg.RoomCode, conn); err != nil {
			c.sendError(conn, err)
		}

	case "webrtc-offer", "webrtc-answer", "webrtc-ice-candidate", "request-offer":
		c.games.Relay(ctx, msg.RoomCode, conn, &domain.SignalMessage{
			Type:      msg.Type,
			SDP:       msg.SDP,
			Candidate: msg.Candidate,
			TargetID:  msg.TargetID,
			Payload:   msg.Payload,
		})

	case "chat":
		if err := c.games.Chat(ctx, msg.RoomCode, conn, msg.Message); err != nil {
			c.sendError(conn, err)
		}

	default:
		// unknown types are ignored
	}
}

func (c *GameController) sendError(conn *domain.Conn, err error) {
	conn.Enqueue(domain.ErrorEvent{Type: "error", Error: err.Error()})
}

func pumpEvents(conn *domain.Conn) {
	for event := range conn.Events() {
		if err := conn.Socket.WriteJSON(event); err != nil {
			return
		}
	}
	_ = conn.Socket.Close()
}

// GetRoom serves a REST snapshot of a session.
func (c *GameController) GetRoom(ctx *gin.Context) {
	room, err := c.games.GetRoom(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

// ICEConfig serves the STUN servers clients should put in their
// RTCPeerConnection configuration before signaling starts.
func (c *GameController) ICEConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"iceServers": []gin.H{
			{"urls": c.webrtc.STUNServers},
		},
	})
}

// RoomQR serves a PNG QR code pointing players at the join URL for
// this room.
func (c *GameController) RoomQR(ctx *gin.Context) {
	room, err := c.games.GetRoom(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	url := scheme + "://" + ctx.Request.Host + "/?room=" + room.Code

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "qr generation failed"})
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}
