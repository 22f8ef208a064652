package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/quizline/realtime-service/internal/domain"
	"github.com/quizline/realtime-service/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type ChatSvc interface {
	Validate(ctx context.Context, m *domain.ChatMessage) error
}

type GameSvc interface {
	Seed(roomID string, questionCount int)
	Advance(roomID string, q int) error
	Skip(roomID string, q int) error
	Forget(roomID string)
}

type StatusSvc interface {
	FindRoom(ctx context.Context, roomID string) (*domain.Room, error)
}

type Server struct {
	upgrader  websocket.Upgrader
	hub       *Hub
	chatSvc   ChatSvc
	gameSvc   GameSvc
	statusSvc StatusSvc

	pingEvery time.Duration
}

func NewServer(hub *Hub, chat ChatSvc, game GameSvc, status StatusSvc) *Server {
	return &Server{
		hub:       hub,
		chatSvc:   chat,
		gameSvc:   game,
		statusSvc: status,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws?access_token=...&player_id=...
// Токен не верифицируем — это забота внешнего auth-сервиса.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accessToken := strings.TrimSpace(q.Get("access_token"))
	playerID := strings.TrimSpace(q.Get("player_id"))
	if accessToken == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	if playerID == "" {
		http.Error(w, "missing player_id", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, uuid.NewString(), playerID)
	s.hub.Register(c)

	// снапшот occupancy новому соединению (диагностика)
	if err := c.Send(s.snapshotMsg()); err != nil {
		slog.Warn("ws send initial snapshot failed", "conn", c.ID(), "err", err)
	}

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	s.disconnect(c)
}

func (s *Server) disconnect(c Conn) {
	roomID, emptied := s.hub.Unregister(c)
	if emptied {
		s.gameSvc.Forget(roomID)
	}
	s.hub.BroadcastAll(s.snapshotMsg())

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", c.ID(), "err", err)
	}
}

func (s *Server) snapshotMsg() Message {
	return Message{
		Type:    EventUsersResponse,
		Payload: SnapshotPayload{Rooms: s.hub.Snapshot()},
	}
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		s.handleEvent(ctx, c, data)
	}
}

// handleEvent — единая точка диспетчеризации входящих событий.
// Падение одного обработчика не задевает остальные: все отказы
// терминальны внутри события.
func (s *Server) handleEvent(ctx context.Context, c Conn, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.rejectMalformed(c, "invalid message envelope")
		return
	}

	switch msg.Type {
	case EventJoinRoom:
		var p JoinPayload
		if err := decode(msg.Payload, &p); err != nil {
			s.rejectMalformed(c, "join_room: "+err.Error())
			return
		}
		s.joinRoom(ctx, c, p)

	case EventSendMessage:
		var p ChatPayload
		if err := decode(msg.Payload, &p); err != nil {
			s.rejectMalformed(c, "send_message: "+err.Error())
			return
		}
		s.sendMessage(ctx, c, p)

	case EventTyping:
		var p TypingPayload
		if err := decode(msg.Payload, &p); err != nil {
			s.rejectMalformed(c, "typing: "+err.Error())
			return
		}
		s.hub.BroadcastExcept(p.RoomID, c, Message{Type: EventTypingResponse, Payload: p})

	case EventNextQuestion:
		var p ProgressionPayload
		if err := decode(msg.Payload, &p); err != nil {
			s.rejectMalformed(c, "next_question: "+err.Error())
			return
		}
		if err := s.gameSvc.Advance(p.RoomID, p.QNumber); err != nil {
			slog.Debug("advance rejected", "room", p.RoomID, "q", p.QNumber, "err", err)
			return
		}
		s.hub.BroadcastExcept(p.RoomID, c, Message{
			Type:    EventNextQuestionResponse,
			Payload: QuestionPayload{QNumber: p.QNumber},
		})

	case EventSkipQuestion:
		var p ProgressionPayload
		if err := decode(msg.Payload, &p); err != nil {
			s.rejectMalformed(c, "skip_to_next_question: "+err.Error())
			return
		}
		if err := s.gameSvc.Skip(p.RoomID, p.QNumber); err != nil {
			slog.Debug("skip rejected", "room", p.RoomID, "q", p.QNumber, "err", err)
			return
		}
		s.hub.BroadcastExcept(p.RoomID, c, Message{
			Type:    EventSkipQuestionResponse,
			Payload: QuestionPayload{QNumber: p.QNumber},
		})

	default:
		// незнакомые события игнорируем
	}
}

func (s *Server) joinRoom(ctx context.Context, c Conn, p JoinPayload) {
	// личность игрока фиксируется при upgrade (query param player_id);
	// payload, называющий другого игрока, не принимаем
	if p.PlayerID != c.PlayerID() {
		s.rejectMalformed(c, "join_room: playerId does not match connection identity")
		return
	}

	prevRoom, prevEmptied := s.hub.Join(c, p.RoomID)
	if prevEmptied {
		s.gameSvc.Forget(prevRoom)
	}

	// прогрессия сеется числом вопросов из стора; недоступность стора
	// вход не блокирует
	if room, err := s.statusSvc.FindRoom(ctx, p.RoomID); err == nil {
		s.gameSvc.Seed(p.RoomID, room.QuestionCount)
	} else {
		slog.Debug("join: room lookup failed", "room", p.RoomID, "err", err)
		s.gameSvc.Seed(p.RoomID, 0)
	}

	s.hub.BroadcastAll(s.snapshotMsg())
}

func (s *Server) sendMessage(ctx context.Context, c Conn, p ChatPayload) {
	m := domain.ChatMessage{
		RoomID: p.RoomID,
		Sender: p.Sender,
		Text:   p.Text,
		Kind:   p.Kind,
	}
	if err := s.chatSvc.Validate(ctx, &m); err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyText), errors.Is(err, service.ErrTextTooLong):
			s.rejectMalformed(c, "send_message: "+err.Error())
		case errors.Is(err, domain.ErrRoomClosed), errors.Is(err, domain.ErrRoomNotFound):
			// молчаливый дроп: не раскрываем существование комнаты
			slog.Debug("chat dropped: room not open", "room", p.RoomID)
		default:
			// fail-closed: стор недоступен — не рассылаем
			slog.Warn("chat dropped: status lookup failed", "room", p.RoomID, "err", err)
		}
		return
	}

	// рассылка всей комнате, включая отправителя — в отличие от
	// прогрессии (см. BroadcastExcept выше)
	s.hub.Broadcast(m.RoomID, Message{
		Type: EventReceiveMessage,
		Payload: ChatPayload{
			RoomID: m.RoomID,
			Sender: m.Sender,
			Text:   m.Text,
			Kind:   m.Kind,
			TSUnix: m.SentAt.Unix(),
		},
	})
}

// rejectMalformed — ack об ошибке только отправителю; авторизационные
// отказы сюда не попадают, они молчаливые.
func (s *Server) rejectMalformed(c Conn, reason string) {
	slog.Debug("malformed payload", "conn", c.ID(), "reason", reason)
	_ = c.Send(Message{Type: EventErrorResponse, Payload: ErrorPayload{Reason: reason}})
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

type wsConn struct {
	conn   *websocket.Conn
	id     string
	player string
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn, id, playerID string) *wsConn {
	return &wsConn{
		conn:   c,
		id:     id,
		player: playerID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) PlayerID() string { return c.player }
