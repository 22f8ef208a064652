package ws

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

type Conn interface {
	Send(msg Message) error
	Close() error
	ID() string
	PlayerID() string
}

// Hub — реестр членства: roomID -> множество соединений плюс обратный
// индекс соединение -> комната. Соединение состоит максимум в одной
// комнате; Join переносит его из предыдущей.
type Hub struct {
	mu     sync.RWMutex
	conns  map[Conn]struct{}
	rooms  map[string]map[Conn]struct{}
	byConn map[Conn]string
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[Conn]struct{}),
		rooms:  make(map[string]map[Conn]struct{}),
		byConn: make(map[Conn]string),
	}
}

// Register учитывает соединение до входа в комнату:
// users_response должен доходить и до «лобби».
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c] = struct{}{}
}

// Unregister — уход транспорта: соединение покидает комнату и реестр.
func (h *Hub) Unregister(c Conn) (roomID string, emptied bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, c)
	roomID, ok := h.byConn[c]
	if !ok {
		return "", false
	}
	return roomID, h.removeLocked(c, roomID)
}

// Join идемпотентен: повторный вход в ту же комнату ничего не меняет.
// Возвращает комнату, из которой соединение ушло, и опустела ли она.
func (h *Hub) Join(c Conn, roomID string) (prevRoom string, prevEmptied bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev, ok := h.byConn[c]
	if ok && prev == roomID {
		return "", false
	}
	if ok {
		prevEmptied = h.removeLocked(c, prev)
		prevRoom = prev
	}

	rs, ok := h.rooms[roomID]
	if !ok {
		rs = make(map[Conn]struct{})
		h.rooms[roomID] = rs
	}
	rs[c] = struct{}{}
	h.byConn[c] = roomID
	h.conns[c] = struct{}{}

	return prevRoom, prevEmptied
}

// removeLocked чистит обе стороны индекса; пустая комната удаляется.
func (h *Hub) removeLocked(c Conn, roomID string) (emptied bool) {
	delete(h.byConn, c)
	if rs, ok := h.rooms[roomID]; ok {
		delete(rs, c)
		if len(rs) == 0 {
			delete(h.rooms, roomID)
			return true
		}
	}
	return false
}

func (h *Hub) RoomOf(c Conn) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomID, ok := h.byConn[c]
	return roomID, ok
}

func (h *Hub) MembersOf(roomID string) []Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.Keys(h.rooms[roomID])
}

// Snapshot — occupancy всех комнат: roomID -> отсортированные playerID.
func (h *Hub) Snapshot() map[string][]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string][]string, len(h.rooms))
	for roomID, rs := range h.rooms {
		ids := lo.Map(lo.Keys(rs), func(c Conn, _ int) string { return c.PlayerID() })
		sort.Strings(ids)
		out[roomID] = ids
	}
	return out
}

func (h *Hub) Broadcast(roomID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomID] {
		_ = c.Send(msg) // best-effort
	}
}

// BroadcastExcept — рассылка по комнате без отправителя.
func (h *Hub) BroadcastExcept(roomID string, sender Conn, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomID] {
		if c == sender {
			continue
		}
		_ = c.Send(msg)
	}
}

// BroadcastAll — всем зарегистрированным соединениям (users_response).
func (h *Hub) BroadcastAll(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns {
		_ = c.Send(msg)
	}
}
