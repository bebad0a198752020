package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"

	"github.com/quizlane/quizlane/internal/config"
	"github.com/quizlane/quizlane/internal/domain"
	"github.com/quizlane/quizlane/internal/repository"
	"github.com/quizlane/quizlane/lib/logger/sl"
)

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrNotHost       = errors.New("host-only action")
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GameService owns the room registry and every per-room state machine:
// identity, teams, buzzer, estimate rounds, signaling relay and the
// snapshot fan-out.
type GameService struct {
	rooms repository.RoomRepository
	log   *slog.Logger
	cfg   config.GameConfig
}

func NewGameService(rooms repository.RoomRepository, log *slog.Logger, cfg config.GameConfig) *GameService {
	if log == nil {
		log = slog.Default()
	}
	return &GameService{
		rooms: rooms,
		log:   log,
		cfg:   cfg,
	}
}

// CreateRoom checks the shared password and registers a new session
// owned by the creating connection. Codes are generated until one is
// free, so a collision can never overwrite a live room.
func (s *GameService) CreateRoom(ctx context.Context, conn *domain.Conn, password string, teamsMode bool) (*domain.Room, error) {
	const op = "service.game.createRoom"
	log := s.log.With(slog.String("op", op))

	if password != s.cfg.Password {
		log.Info("room creation rejected, wrong password")
		return nil, ErrWrongPassword
	}

	for {
		room := domain.NewRoom(s.newRoomCode(), conn.ID, teamsMode)
		if err := s.rooms.Create(ctx, room); err != nil {
			if errors.Is(err, repository.ErrRoomCodeExists) {
				continue
			}
			return nil, err
		}

		conn.Role = domain.RoleHost
		room.Mutex.Lock()
		room.Conns[conn.ID] = conn
		room.Mutex.Unlock()

		log.Info("room created",
			slog.String("room_code", room.Code),
			slog.Bool("teams_mode", teamsMode),
		)
		return room, nil
	}
}

func (s *GameService) GetRoom(ctx context.Context, code string) (*domain.Room, error) {
	return s.rooms.GetByCode(ctx, code)
}

// JoinPlayer resolves the connection to a stable player identity and
// attaches it to the room. A known id is a reconnect: the score is
// preserved and the previous connection mapping is superseded.
func (s *GameService) JoinPlayer(ctx context.Context, code string, conn *domain.Conn, name string, hasCamera bool, teamID string) (*domain.Player, error) {
	const op = "service.game.joinPlayer"
	log := s.log.With(slog.String("op", op), slog.String("room_code", code))

	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	player, err := room.ResolvePlayer(name, conn.ID, hasCamera, teamID)
	if err != nil {
		log.Info("join rejected", sl.Err(err))
		return nil, err
	}

	conn.Role = domain.RolePlayer
	room.Conns[conn.ID] = conn

	if room.TeamsMode && player.TeamID != "" {
		if _, ok := room.Teams[player.TeamID]; ok {
			s.placeOnTeamLocked(room, player, player.TeamID)
		}
	}

	s.sendCatchUpLocked(room, conn)
	if hasCamera {
		s.announceCameraLocked(room, player, conn)
	}
	s.broadcastPlayersLocked(room)
	if room.TeamsMode {
		s.broadcastTeamsLocked(room)
	}

	log.Info("player joined",
		slog.String("player_id", player.ID),
		slog.Bool("has_camera", hasCamera),
	)
	return player, nil
}

// JoinSpectator attaches a read-only connection. Spectators never
// publish a camera stream; anyone who wants to be seen joins as a
// player. The catch-up snapshot is enqueued under the room lock,
// before any later update.
func (s *GameService) JoinSpectator(ctx context.Context, code string, conn *domain.Conn) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	conn.Role = domain.RoleSpectator
	room.Conns[conn.ID] = conn
	room.Spectators[conn.ID] = struct{}{}

	s.sendCatchUpLocked(room, conn)

	s.log.Info("spectator joined",
		slog.String("room_code", room.Code),
		slog.String("conn_id", conn.ID),
	)
	return nil
}

// JoinBoard attaches the display connection. In cam mode it becomes
// the room's stream sink and is told about every camera-capable player
// already present so it can initiate signaling.
func (s *GameService) JoinBoard(ctx context.Context, code string, conn *domain.Conn, camMode bool) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	conn.Role = domain.RoleBoard
	room.Conns[conn.ID] = conn
	if camMode {
		room.BoardConnID = conn.ID
	}

	s.sendCatchUpLocked(room, conn)

	if camMode {
		for _, player := range room.CameraPlayers() {
			conn.Enqueue(domain.CameraReadyEvent{
				Type:     "camera-ready",
				PlayerID: player.ID,
				ConnID:   player.ConnID,
				Name:     player.Name,
			})
		}
	}

	s.log.Info("board joined",
		slog.String("room_code", room.Code),
		slog.Bool("cam_mode", camMode),
	)
	return nil
}

// Disconnect detaches a connection from its room. Host disconnect
// destroys the room: every remaining connection is told the game ended
// before the record is removed. Safe to call more than once.
func (s *GameService) Disconnect(ctx context.Context, code string, connID string) {
	const op = "service.game.disconnect"
	log := s.log.With(slog.String("op", op), slog.String("room_code", code))

	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return
	}

	room.Mutex.Lock()

	conn, ok := room.Conns[connID]
	if !ok {
		room.Mutex.Unlock()
		return
	}
	delete(room.Conns, connID)

	if connID == room.HostConnID {
		remaining := make([]*domain.Conn, 0, len(room.Conns))
		for _, c := range room.Conns {
			c.Enqueue(domain.GameEndedEvent{Type: "game-ended"})
			remaining = append(remaining, c)
		}
		room.Mutex.Unlock()

		if err := s.rooms.Delete(ctx, room.Code); err != nil && !errors.Is(err, repository.ErrRoomNotFound) {
			log.Error("failed to delete room", sl.Err(err))
		}
		for _, c := range remaining {
			c.CloseEvents()
		}
		conn.CloseEvents()

		log.Info("host left, room destroyed")
		return
	}

	if playerID, mapped := room.ConnToPlayer[connID]; mapped {
		delete(room.ConnToPlayer, connID)
		if player, exists := room.Players[playerID]; exists {
			player.Connected = false
			player.ConnID = ""
		}
		s.broadcastPlayersLocked(room)
	}
	delete(room.Spectators, connID)
	if room.BoardConnID == connID {
		room.BoardConnID = ""
	}

	room.Mutex.Unlock()
	conn.CloseEvents()

	log.Info("connection left", slog.String("conn_id", connID))
}

func (s *GameService) newRoomCode() string {
	length := s.cfg.RoomCodeLength
	if length <= 0 {
		length = 5
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, length)
	for i := range out {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(out)
}
