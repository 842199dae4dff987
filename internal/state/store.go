package state

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/snapshot"
	"github.com/five82/roster/internal/userapi"
)

// Messages recorded in Snapshot.Error. They are shown to the user as-is.
const (
	MsgFetchFailed  = "Failed to fetch users"
	MsgNotFound     = "User not found"
	MsgUpdateFailed = "Failed to update user"
)

// Snapshot represents the store state available to the UI.
type Snapshot struct {
	Users       []userapi.User
	Current     userapi.User
	HasCurrent  bool
	Loading     bool
	Error       string
	LastError   error // cause behind Error
	LastUpdated time.Time
}

// Store owns the cached user collection and mirrors it to a snapshot
// backend. The mutex guards fields only; actions never hold it across
// gateway calls, so overlapping actions resolve last-writer-wins.
type Store struct {
	gateway userapi.Gateway
	snaps   snapshot.Backend
	logger  *slog.Logger

	mu         sync.RWMutex
	users      []userapi.User
	current    userapi.User
	hasCurrent bool
	inflight   int
	errMsg     string
	cause      error
	updated    time.Time

	persistMu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// New builds an empty store. snaps may be nil to disable persistence.
func New(gw userapi.Gateway, snaps snapshot.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Store{
		gateway: gw,
		snaps:   snaps,
		logger:  logger.With("component", "state"),
		subs:    make(map[int]chan struct{}),
	}
}

// Open builds a store and hydrates it from the snapshot backend.
func Open(ctx context.Context, gw userapi.Gateway, snaps snapshot.Backend, logger *slog.Logger) *Store {
	s := New(gw, snaps, logger)
	s.Hydrate(ctx)
	return s
}

// Hydrate replaces the collection with the persisted snapshot. A missing,
// unreadable or malformed snapshot leaves the collection as it is.
func (s *Store) Hydrate(ctx context.Context) {
	if s.snaps == nil {
		return
	}
	data, err := s.snaps.Read(ctx)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			s.logger.Debug("no snapshot to hydrate from")
		} else {
			s.logger.Warn("snapshot read failed", logging.Err(err))
		}
		return
	}

	var users []userapi.User
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn("snapshot ignored", logging.Err(err))
		return
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	s.logger.Debug("hydrated from snapshot", "users", len(users))
	s.notify()
}

// FetchAllUsers replaces the collection with the remote list. Failures are
// recorded in Snapshot.Error and not returned.
func (s *Store) FetchAllUsers(ctx context.Context) {
	s.begin()
	defer s.end()

	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		s.fail(MsgFetchFailed, err)
		return
	}

	s.mu.Lock()
	s.users = cloneUsers(users)
	s.errMsg = ""
	s.cause = nil
	s.updated = time.Now()
	s.mu.Unlock()
	s.notify()

	s.persist(ctx)
}

// FetchUser loads one record, reconciles it into the collection and makes
// it current. It reports false when the fetch failed.
func (s *Store) FetchUser(ctx context.Context, id int64) (userapi.User, bool) {
	s.begin()
	defer s.end()

	user, err := s.gateway.GetUser(ctx, id)
	if err != nil {
		s.fail(MsgNotFound, err)
		return userapi.User{}, false
	}

	user = s.accept(id, user)
	s.persist(ctx)
	return user, true
}

// UpdateUser writes patch remotely and reconciles the server's answer.
// The failure is recorded and also returned.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch userapi.Patch) (userapi.User, error) {
	s.begin()
	defer s.end()

	user, err := s.gateway.UpdateUser(ctx, id, patch)
	if err != nil {
		s.fail(MsgUpdateFailed, err)
		return userapi.User{}, err
	}

	user = s.accept(id, user)
	s.persist(ctx)
	return user, nil
}

// UserByID looks id up in the cached collection. No I/O.
func (s *Store) UserByID(id int64) (userapi.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return userapi.User{}, false
}

// Users returns a copy of the cached collection.
func (s *Store) Users() []userapi.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUsers(s.users)
}

// Loading reports whether any gateway call is outstanding.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Err returns the message of the most recent failure, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Users:       cloneUsers(s.users),
		Current:     s.current,
		HasCurrent:  s.hasCurrent,
		Loading:     s.inflight > 0,
		Error:       s.errMsg,
		LastError:   s.cause,
		LastUpdated: s.updated,
	}
}

// Subscribe returns a channel signalled after every state change and a
// func that unsubscribes. Signals coalesce; read Snapshot on receive.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
	s.notify()
}

func (s *Store) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
	s.notify()
}

func (s *Store) fail(msg string, err error) {
	s.logger.Error(msg, logging.Err(err))
	s.mu.Lock()
	s.errMsg = msg
	s.cause = err
	s.mu.Unlock()
	s.notify()
}

// accept reconciles user into the collection. The returned record's id wins;
// requested is used only when the response carries none.
func (s *Store) accept(requested int64, user userapi.User) userapi.User {
	if user.ID == 0 {
		user.ID = requested
	}
	s.mu.Lock()
	s.users = upsert(s.users, user)
	s.current = user
	s.hasCurrent = true
	s.errMsg = ""
	s.cause = nil
	s.mu.Unlock()
	s.notify()
	return user
}

// persist writes the collection as it is now. Writes are serialized so the
// last write always carries the newest collection.
func (s *Store) persist(ctx context.Context) {
	if s.snaps == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	users := s.users
	if users == nil {
		users = []userapi.User{}
	}
	data, err := json.Marshal(users)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Warn("snapshot encode failed", logging.Err(err))
		return
	}

	if err := s.snaps.Write(context.WithoutCancel(ctx), data); err != nil {
		s.logger.Warn("snapshot write failed", logging.Err(err))
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func upsert(users []userapi.User, user userapi.User) []userapi.User {
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			return users
		}
	}
	return append(users, user)
}

func cloneUsers(users []userapi.User) []userapi.User {
	if users == nil {
		return nil
	}
	dup := make([]userapi.User, len(users))
	copy(dup, users)
	return dup
}
