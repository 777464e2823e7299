package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Seednode/happyhour/games"
)

type fakeConn struct {
	id string
}

func (c *fakeConn) ID() string {
	return c.id
}

func (c *fakeConn) Send([]byte) error {
	return nil
}

type fakeEngine struct {
	players int
	rounds  int
}

func (e *fakeEngine) StartRound() games.Result {
	e.rounds++

	return games.Succeed("started", nil)
}

func (e *fakeEngine) Apply(int, games.Action) games.Result {
	return games.Fail("unsupported")
}

func (e *fakeEngine) PublicView() any {
	return map[string]int{"rounds": e.rounds}
}

func (e *fakeEngine) PrivateView(slot int) any {
	return map[string]int{"your_id": slot}
}

func (e *fakeEngine) Over() bool {
	return false
}

func newTestRegistry() (*Registry, *int) {
	built := 0
	factory := func(v games.Variant, players int) (games.Engine, error) {
		built++

		return &fakeEngine{players: players}, nil
	}

	return NewRegistry(factory, nil), &built
}

func conn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func TestCreate(t *testing.T) {
	reg, _ := newTestRegistry()

	tests := []struct {
		name     string
		id       string
		variant  games.Variant
		capacity int
		want     error
	}{
		{"blank id", "  ", games.TheMind, 2, ErrBlankRoomID},
		{"unknown game", "a", games.Variant("chess"), 2, ErrUnknownGameType},
		{"too few", "a", games.TheMind, 1, ErrInvalidPlayerCount},
		{"too many", "a", games.TheMind, 5, ErrInvalidPlayerCount},
		{"republic needs four", "a", games.AzroksRepublic, 3, ErrInvalidPlayerCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Create(tt.id, tt.variant, tt.capacity, "alice", conn("c1"), nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if reg.Len() != 0 {
		t.Fatalf("failed creates left %d rooms behind", reg.Len())
	}

	r, err := reg.Create(" room1 ", games.TheMind, 2, "alice", conn("c1"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID() != "room1" {
		t.Errorf("expected trimmed id, got %q", r.ID())
	}

	if _, err := reg.Create("room1", games.TheMind, 2, "bob", conn("c2"), nil); !errors.Is(err, ErrRoomExists) {
		t.Errorf("expected ErrRoomExists, got %v", err)
	}
	if _, err := reg.Create("room2", games.TheMind, 2, "alice", conn("c1"), nil); !errors.Is(err, ErrAlreadyInRoom) {
		t.Errorf("expected ErrAlreadyInRoom, got %v", err)
	}
}

func TestJoinStartsWhenFull(t *testing.T) {
	reg, built := newTestRegistry()

	var joins []int
	var starts int
	record := func(r *Room, m *Member, start *games.Result) {
		joins = append(joins, m.Slot)
		if start != nil {
			starts++
		}
	}

	r, err := reg.Create("r", games.TheMind, 3, "a", conn("c1"), record)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i, id := range []string{"c2", "c3"} {
		if _, err := reg.Join("r", fmt.Sprintf("p%d", i), conn(id), record); err != nil {
			t.Fatalf("Join(%s) failed: %v", id, err)
		}
	}

	if *built != 1 || starts != 1 {
		t.Errorf("expected one engine built and started, got %d and %d", *built, starts)
	}
	if fmt.Sprint(joins) != "[0 1 2]" {
		t.Errorf("expected slots in join order, got %v", joins)
	}

	r.Do(func() {
		e := r.EngineLocked().(*fakeEngine)
		if e.rounds != 1 || e.players != 3 {
			t.Errorf("unexpected engine %+v", e)
		}
	})

	if _, err := reg.Join("r", "late", conn("c4"), nil); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("expected ErrGameInProgress, got %v", err)
	}
	if _, err := reg.Join("missing", "x", conn("c5"), nil); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := reg.Join("r", "dup", conn("c1"), nil); !errors.Is(err, ErrAlreadyInRoom) {
		t.Errorf("expected ErrAlreadyInRoom, got %v", err)
	}
}

func TestCreateSoloStartsImmediately(t *testing.T) {
	reg, built := newTestRegistry()

	started := false
	_, err := reg.Create("solo", games.Scribbles, 1, "a", conn("c1"), func(r *Room, m *Member, start *games.Result) {
		started = start != nil
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !started || *built != 1 {
		t.Error("expected a single-seat room to start at creation")
	}
}

func TestLeaveBeforeStartReusesSlot(t *testing.T) {
	reg, _ := newTestRegistry()

	reg.Create("r", games.TheMind, 3, "a", conn("c1"), nil)
	reg.Join("r", "b", conn("c2"), nil)

	if err := reg.Leave("c1", nil); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	var slot int
	reg.Join("r", "c", conn("c3"), func(r *Room, m *Member, start *games.Result) {
		slot = m.Slot
	})
	if slot != 0 {
		t.Errorf("expected freed slot 0 to be reused, got %d", slot)
	}
}

func TestRoomLifecycle(t *testing.T) {
	reg, _ := newTestRegistry()

	reg.Create("r", games.TheMind, 2, "a", conn("c1"), nil)
	reg.Join("r", "b", conn("c2"), nil)

	var remaining []int
	record := func(r *Room, m *Member) {
		remaining = append(remaining, r.LenLocked())
	}

	if err := reg.Leave("c1", record); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if _, ok := reg.Get("r"); !ok {
		t.Fatal("room removed while a member remains")
	}
	if _, ok := reg.Lookup("c1"); ok {
		t.Error("departed connection still indexed")
	}

	if err := reg.Leave("c2", record); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if _, ok := reg.Get("r"); ok {
		t.Error("empty room still registered")
	}
	if reg.Len() != 0 {
		t.Errorf("expected no rooms, got %d", reg.Len())
	}
	if fmt.Sprint(remaining) != "[1 0]" {
		t.Errorf("unexpected remaining counts %v", remaining)
	}

	if err := reg.Leave("c2", nil); !errors.Is(err, ErrNotInRoom) {
		t.Errorf("expected ErrNotInRoom, got %v", err)
	}
}

func TestList(t *testing.T) {
	reg, _ := newTestRegistry()

	reg.Create("b", games.TheMind, 2, "a", conn("c1"), nil)
	reg.Create("a", games.Scribbles, 1, "x", conn("c2"), nil)

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(list))
	}

	if list[0].ID != "a" || !list[0].InProgress || list[0].GameType != games.Scribbles {
		t.Errorf("unexpected first summary %+v", list[0])
	}
	if list[1].ID != "b" || list[1].InProgress || list[1].Players != 1 || list[1].Capacity != 2 {
		t.Errorf("unexpected second summary %+v", list[1])
	}
}

func TestFactoryFailureLeavesNoTrace(t *testing.T) {
	reg := NewRegistry(func(games.Variant, int) (games.Engine, error) {
		return nil, errors.New("boom")
	}, nil)

	if _, err := reg.Create("r", games.Scribbles, 1, "a", conn("c1"), nil); err == nil {
		t.Fatal("expected factory error")
	}
	if reg.Len() != 0 {
		t.Error("room registered despite factory failure")
	}
	if _, ok := reg.Lookup("c1"); ok {
		t.Error("connection indexed despite factory failure")
	}
}

func TestConcurrentJoinLeave(t *testing.T) {
	reg, _ := newTestRegistry()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			id := fmt.Sprintf("room%d", i%5)
			c := conn(fmt.Sprintf("c%d", i))

			if _, err := reg.Create(id, games.Scribbles, 4, "p", c, nil); err != nil {
				reg.Join(id, "p", c, nil)
			}
			reg.Leave(c.ID(), nil)
		}()
	}
	wg.Wait()

	if reg.Len() != 0 {
		t.Errorf("expected every room to be gone, %d remain", reg.Len())
	}
}
