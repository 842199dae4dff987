package state

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/roster/internal/snapshot"
	"github.com/five82/roster/internal/userapi"
)

type fakeGateway struct {
	list   func(ctx context.Context) ([]userapi.User, error)
	get    func(ctx context.Context, id int64) (userapi.User, error)
	update func(ctx context.Context, id int64, p userapi.Patch) (userapi.User, error)
	calls  int
}

func (f *fakeGateway) ListUsers(ctx context.Context) ([]userapi.User, error) {
	f.calls++
	return f.list(ctx)
}

func (f *fakeGateway) GetUser(ctx context.Context, id int64) (userapi.User, error) {
	f.calls++
	return f.get(ctx, id)
}

func (f *fakeGateway) UpdateUser(ctx context.Context, id int64, p userapi.Patch) (userapi.User, error) {
	f.calls++
	return f.update(ctx, id, p)
}

type failingBackend struct {
	readErr  error
	writeErr error
	data     []byte
}

func (b *failingBackend) Read(context.Context) ([]byte, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	return b.data, nil
}

func (b *failingBackend) Write(context.Context, []byte) error { return b.writeErr }
func (b *failingBackend) Close() error                        { return nil }

var (
	alice = userapi.User{ID: 1, Name: "Alice"}
	bob   = userapi.User{ID: 2, Name: "Bob"}
)

func strPtr(s string) *string { return &s }

func persisted(t *testing.T, m *snapshot.Memory) []userapi.User {
	t.Helper()
	data, err := m.Read(context.Background())
	if err != nil {
		t.Fatalf("snapshot Read returned error: %v", err)
	}
	var users []userapi.User
	if err := json.Unmarshal(data, &users); err != nil {
		t.Fatalf("snapshot is not a user list: %v (%s)", err, data)
	}
	return users
}

func TestStore_HydrateEmptyStorageLeavesUsersEmpty(t *testing.T) {
	s := Open(context.Background(), &fakeGateway{}, snapshot.NewMemory(), nil)
	if got := s.Users(); len(got) != 0 {
		t.Fatalf("Users = %#v, want empty", got)
	}
	if s.Err() != "" {
		t.Fatalf("Err = %q, want empty", s.Err())
	}
}

func TestStore_HydrateReadsSnapshot(t *testing.T) {
	mem := snapshot.NewMemory()
	if err := mem.Write(context.Background(), []byte(`[{"id":2,"name":"Bob"},{"id":"1","name":"Alice"}]`)); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	s := Open(context.Background(), &fakeGateway{}, mem, nil)
	got := s.Users()
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("Users = %#v, want Bob then Alice", got)
	}
}

func TestStore_HydrateIgnoresBadSnapshots(t *testing.T) {
	tests := []struct {
		name    string
		backend snapshot.Backend
	}{
		{"malformed", &failingBackend{data: []byte("{nope")}},
		{"read error", &failingBackend{readErr: errors.New("disk gone")}},
		{"nil backend", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeGateway{}, tt.backend, nil)
			s.mu.Lock()
			s.users = []userapi.User{alice}
			s.mu.Unlock()

			s.Hydrate(context.Background())

			if got := s.Users(); !reflect.DeepEqual(got, []userapi.User{alice}) {
				t.Fatalf("Users = %#v, want unchanged", got)
			}
			if s.Err() != "" {
				t.Fatalf("Err = %q, want empty: snapshot problems are not surfaced", s.Err())
			}
		})
	}
}

func TestStore_FetchAllUsersReplacesAndPersists(t *testing.T) {
	mem := snapshot.NewMemory()
	gw := &fakeGateway{list: func(context.Context) ([]userapi.User, error) {
		return []userapi.User{alice, bob}, nil
	}}
	s := Open(context.Background(), gw, mem, nil)
	s.mu.Lock()
	s.users = []userapi.User{{ID: 9, Name: "Stale"}}
	s.errMsg = MsgFetchFailed
	s.mu.Unlock()

	before := time.Now()
	s.FetchAllUsers(context.Background())

	want := []userapi.User{alice, bob}
	if got := s.Users(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Users = %#v, want %#v", got, want)
	}
	if s.Err() != "" {
		t.Fatalf("Err = %q, want cleared", s.Err())
	}
	if got := persisted(t, mem); !reflect.DeepEqual(got, want) {
		t.Fatalf("snapshot = %#v, want %#v", got, want)
	}
	if snap := s.Snapshot(); snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
}

func TestStore_FetchAllUsersFailureKeepsUsers(t *testing.T) {
	mem := snapshot.NewMemory()
	cause := errors.New("offline")
	gw := &fakeGateway{list: func(context.Context) ([]userapi.User, error) { return nil, cause }}
	s := New(gw, mem, nil)
	s.mu.Lock()
	s.users = []userapi.User{alice}
	s.mu.Unlock()

	s.FetchAllUsers(context.Background())

	if got := s.Users(); !reflect.DeepEqual(got, []userapi.User{alice}) {
		t.Fatalf("Users = %#v, want unchanged", got)
	}
	snap := s.Snapshot()
	if snap.Error != MsgFetchFailed {
		t.Fatalf("Error = %q, want %q", snap.Error, MsgFetchFailed)
	}
	if !errors.Is(snap.LastError, cause) {
		t.Fatalf("LastError = %v, want %v", snap.LastError, cause)
	}
	if _, err := mem.Read(context.Background()); !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Fatalf("failed fetch persisted a snapshot: %v", err)
	}
}

func TestStore_UpdateExistingReplacesInPlace(t *testing.T) {
	mem := snapshot.NewMemory()
	var gotPatch userapi.Patch
	gw := &fakeGateway{update: func(_ context.Context, id int64, p userapi.Patch) (userapi.User, error) {
		gotPatch = p
		return userapi.User{ID: id, Name: *p.Name}, nil
	}}
	s := New(gw, mem, nil)
	s.mu.Lock()
	s.users = []userapi.User{alice, bob, {ID: 3, Name: "Carol"}}
	s.mu.Unlock()

	got, err := s.UpdateUser(context.Background(), 2, userapi.Patch{Name: strPtr("Robert")})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if got.ID != 2 || got.Name != "Robert" {
		t.Fatalf("UpdateUser = %#v, want Robert(2)", got)
	}
	if gotPatch.Name == nil || *gotPatch.Name != "Robert" {
		t.Fatalf("gateway patch = %#v, want name Robert", gotPatch)
	}

	want := []userapi.User{alice, {ID: 2, Name: "Robert"}, {ID: 3, Name: "Carol"}}
	if users := s.Users(); !reflect.DeepEqual(users, want) {
		t.Fatalf("Users = %#v, want %#v", users, want)
	}
	if snap := persisted(t, mem); !reflect.DeepEqual(snap, want) {
		t.Fatalf("snapshot = %#v, want %#v", snap, want)
	}
	if snap := s.Snapshot(); !snap.HasCurrent || snap.Current.Name != "Robert" {
		t.Fatalf("Current = %#v, want Robert", snap.Current)
	}
}

func TestStore_UpdateSingleUserScenario(t *testing.T) {
	gw := &fakeGateway{update: func(context.Context, int64, userapi.Patch) (userapi.User, error) {
		return userapi.User{ID: 1, Name: "Alicia"}, nil
	}}
	s := New(gw, snapshot.NewMemory(), nil)
	s.mu.Lock()
	s.users = []userapi.User{alice}
	s.mu.Unlock()

	if _, err := s.UpdateUser(context.Background(), 1, userapi.Patch{Name: strPtr("Alicia")}); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	want := []userapi.User{{ID: 1, Name: "Alicia"}}
	if got := s.Users(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Users = %#v, want %#v", got, want)
	}
}

func TestStore_UpdateMissingAppends(t *testing.T) {
	gw := &fakeGateway{update: func(_ context.Context, id int64, _ userapi.Patch) (userapi.User, error) {
		return userapi.User{ID: id, Name: "New"}, nil
	}}
	s := New(gw, snapshot.NewMemory(), nil)
	s.mu.Lock()
	s.users = []userapi.User{alice, bob}
	s.mu.Unlock()

	if _, err := s.UpdateUser(context.Background(), 11, userapi.Patch{}); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	got := s.Users()
	if len(got) != 3 || got[2].ID != 11 || !reflect.DeepEqual(got[:2], []userapi.User{alice, bob}) {
		t.Fatalf("Users = %#v, want new record appended", got)
	}
}

func TestStore_UpdateReconcilesByReturnedID(t *testing.T) {
	gw := &fakeGateway{update: func(context.Context, int64, userapi.Patch) (userapi.User, error) {
		return userapi.User{Name: "No id echoed"}, nil
	}}
	s := New(gw, nil, nil)
	s.mu.Lock()
	s.users = []userapi.User{alice}
	s.mu.Unlock()

	got, err := s.UpdateUser(context.Background(), 1, userapi.Patch{})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("UpdateUser = %#v, want id filled from request", got)
	}
	users := s.Users()
	if len(users) != 1 || users[0].ID != 1 || users[0].Name != "No id echoed" {
		t.Fatalf("Users = %#v, want record 1 replaced", users)
	}
}

func TestStore_UpdateFailureRecordsAndReturns(t *testing.T) {
	mem := snapshot.NewMemory()
	cause := &userapi.NetworkError{Op: "update user", Status: 500}
	gw := &fakeGateway{update: func(context.Context, int64, userapi.Patch) (userapi.User, error) {
		return userapi.User{}, cause
	}}
	s := New(gw, mem, nil)
	s.mu.Lock()
	s.users = []userapi.User{alice}
	s.mu.Unlock()

	_, err := s.UpdateUser(context.Background(), 1, userapi.Patch{Name: strPtr("Alicia")})
	if !errors.Is(err, cause) {
		t.Fatalf("UpdateUser error = %v, want %v", err, cause)
	}
	if got := s.Users(); !reflect.DeepEqual(got, []userapi.User{alice}) {
		t.Fatalf("Users = %#v, want unchanged", got)
	}
	if s.Err() != MsgUpdateFailed {
		t.Fatalf("Err = %q, want %q", s.Err(), MsgUpdateFailed)
	}
	if _, err := mem.Read(context.Background()); !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Fatalf("failed update persisted a snapshot: %v", err)
	}
}

func TestStore_FetchUser(t *testing.T) {
	gw := &fakeGateway{get: func(_ context.Context, id int64) (userapi.User, error) {
		if id == 404 {
			return userapi.User{}, userapi.ErrNotFound
		}
		return userapi.User{ID: id, Name: "Fetched"}, nil
	}}
	s := New(gw, snapshot.NewMemory(), nil)
	s.mu.Lock()
	s.users = []userapi.User{alice}
	s.mu.Unlock()

	got, ok := s.FetchUser(context.Background(), 1)
	if !ok || got.Name != "Fetched" {
		t.Fatalf("FetchUser = %#v, %v; want Fetched", got, ok)
	}
	if users := s.Users(); len(users) != 1 || users[0].Name != "Fetched" {
		t.Fatalf("Users = %#v, want record 1 replaced", users)
	}

	if _, ok := s.FetchUser(context.Background(), 404); ok {
		t.Fatalf("FetchUser(404) ok = true, want false")
	}
	snap := s.Snapshot()
	if snap.Error != MsgNotFound {
		t.Fatalf("Error = %q, want %q", snap.Error, MsgNotFound)
	}
	if !snap.HasCurrent || snap.Current.ID != 1 {
		t.Fatalf("Current = %#v, want last good record kept", snap.Current)
	}
	if len(snap.Users) != 1 {
		t.Fatalf("Users = %#v, want unchanged by failure", snap.Users)
	}
}

func TestStore_LoadingBracketsEveryAction(t *testing.T) {
	var s *Store
	var seen []bool
	observe := func() { seen = append(seen, s.Loading()) }
	fail := errors.New("boom")

	gw := &fakeGateway{
		list: func(context.Context) ([]userapi.User, error) {
			observe()
			return nil, fail
		},
		get: func(context.Context, int64) (userapi.User, error) {
			observe()
			return alice, nil
		},
		update: func(context.Context, int64, userapi.Patch) (userapi.User, error) {
			observe()
			return userapi.User{}, fail
		},
	}
	s = New(gw, snapshot.NewMemory(), nil)

	actions := []func(){
		func() { s.FetchAllUsers(context.Background()) },
		func() { s.FetchUser(context.Background(), 1) },
		func() { _, _ = s.UpdateUser(context.Background(), 1, userapi.Patch{}) },
	}
	for i, act := range actions {
		if s.Loading() {
			t.Fatalf("action %d: Loading = true before call", i)
		}
		act()
		if s.Loading() {
			t.Fatalf("action %d: Loading = true after call", i)
		}
	}
	if !reflect.DeepEqual(seen, []bool{true, true, true}) {
		t.Fatalf("Loading during calls = %v, want all true", seen)
	}
}

func TestStore_LoadingStaysTrueWhileAnyCallOutstanding(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gw := &fakeGateway{
		list: func(context.Context) ([]userapi.User, error) {
			close(entered)
			<-release
			return nil, nil
		},
		get: func(context.Context, int64) (userapi.User, error) { return alice, nil },
	}
	s := New(gw, nil, nil)

	done := make(chan struct{})
	go func() {
		s.FetchAllUsers(context.Background())
		close(done)
	}()
	<-entered

	s.FetchUser(context.Background(), 1)
	if !s.Loading() {
		t.Fatalf("Loading = false while list call is outstanding")
	}
	close(release)
	<-done
	if s.Loading() {
		t.Fatalf("Loading = true after all calls resolved")
	}
}

func TestStore_UserByIDIsPure(t *testing.T) {
	gw := &fakeGateway{}
	s := New(gw, nil, nil)
	s.mu.Lock()
	s.users = []userapi.User{alice, bob}
	s.mu.Unlock()

	first, ok1 := s.UserByID(2)
	second, ok2 := s.UserByID(2)
	if !ok1 || !ok2 || !reflect.DeepEqual(first, second) || first.Name != "Bob" {
		t.Fatalf("UserByID(2) = %#v/%v then %#v/%v, want Bob twice", first, ok1, second, ok2)
	}
	if _, ok := s.UserByID(42); ok {
		t.Fatalf("UserByID(42) ok = true, want false")
	}
	if gw.calls != 0 {
		t.Fatalf("gateway calls = %d, want 0", gw.calls)
	}
	if s.Loading() {
		t.Fatalf("UserByID toggled loading")
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := New(&fakeGateway{}, nil, nil)
	s.mu.Lock()
	s.users = []userapi.User{alice}
	s.mu.Unlock()

	snap := s.Snapshot()
	snap.Users[0].Name = "Mallory"
	users := s.Users()
	users[0].Name = "Eve"

	if got, _ := s.UserByID(1); got.Name != "Alice" {
		t.Fatalf("store mutated through a copy: %#v", got)
	}
}

func TestStore_PersistFailureDoesNotFailAction(t *testing.T) {
	gw := &fakeGateway{list: func(context.Context) ([]userapi.User, error) {
		return []userapi.User{alice}, nil
	}}
	s := New(gw, &failingBackend{writeErr: errors.New("read-only fs")}, nil)

	s.FetchAllUsers(context.Background())

	if s.Err() != "" {
		t.Fatalf("Err = %q, want empty after persist failure", s.Err())
	}
	if got := s.Users(); len(got) != 1 {
		t.Fatalf("Users = %#v, want fetched list kept in memory", got)
	}
}

func TestStore_SubscribeSignalsChanges(t *testing.T) {
	gw := &fakeGateway{list: func(context.Context) ([]userapi.User, error) {
		return []userapi.User{alice}, nil
	}}
	s := New(gw, nil, nil)

	ch, cancel := s.Subscribe()
	s.FetchAllUsers(context.Background())

	select {
	case <-ch:
	default:
		t.Fatalf("no change signal after FetchAllUsers")
	}

	cancel()
	cancel()
	s.FetchAllUsers(context.Background())
	select {
	case <-ch:
		t.Fatalf("signal delivered after unsubscribe")
	default:
	}
}
