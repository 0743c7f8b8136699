package core

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/gatherly/eventchat/internal/domain"
)

type stubConn struct {
	frames   []Frame
	saturate bool
	closed   bool
}

func (c *stubConn) TrySend(f Frame) error {
	if c.saturate {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *stubConn) Close() { c.closed = true }

func newMember(sid, userID, name string) (MemberSession, *stubConn) {
	conn := &stubConn{}
	identity := domain.Identity{ID: domain.UserID(userID), DisplayName: name}
	return NewMemberSession(SessionID(sid), identity, conn), conn
}

func TestRoomRegistry_JoinCreatesRoom(t *testing.T) {
	reg := NewRoomRegistry()
	ms, _ := newMember("s1", "u1", "Alice")

	if got := reg.MemberCount("evt1"); got != 0 {
		t.Fatalf("MemberCount() before join = %d, want 0", got)
	}

	reg.Join("evt1", ms)

	if got := reg.MemberCount("evt1"); got != 1 {
		t.Fatalf("MemberCount() after join = %d, want 1", got)
	}
	if !reg.Contains("evt1", "u1") {
		t.Error("Contains() = false, want true")
	}
	if got := len(reg.List()); got != 1 {
		t.Errorf("List() returned %d rooms, want 1", got)
	}
}

func TestRoomRegistry_DuplicateJoinIsNoOp(t *testing.T) {
	reg := NewRoomRegistry()
	ms, _ := newMember("s1", "u1", "Alice")

	reg.Join("evt1", ms)
	reg.Join("evt1", ms)

	if got := reg.MemberCount("evt1"); got != 1 {
		t.Fatalf("MemberCount() = %d, want 1", got)
	}
}

func TestRoomRegistry_LeaveDropsEmptyRoom(t *testing.T) {
	reg := NewRoomRegistry()
	a, _ := newMember("s1", "u1", "Alice")
	b, _ := newMember("s2", "u2", "Bob")

	reg.Join("evt1", a)
	reg.Join("evt1", b)

	reg.Leave("evt1", "s1")
	if got := reg.MemberCount("evt1"); got != 1 {
		t.Fatalf("MemberCount() after first leave = %d, want 1", got)
	}
	if reg.Contains("evt1", "u1") {
		t.Error("Contains(u1) = true after leave, want false")
	}

	reg.Leave("evt1", "s2")
	if got := len(reg.List()); got != 0 {
		t.Errorf("List() returned %d rooms after last leave, want 0", got)
	}
}

func TestRoomRegistry_LeaveUnknownRoomIsNoOp(t *testing.T) {
	reg := NewRoomRegistry()
	reg.Leave("missing", "s1")

	ms, _ := newMember("s1", "u1", "Alice")
	reg.Join("evt1", ms)
	reg.Leave("evt1", "ghost")
	if got := reg.MemberCount("evt1"); got != 1 {
		t.Errorf("MemberCount() = %d, want 1", got)
	}
}

func TestRoomRegistry_BroadcastIncludesEveryMember(t *testing.T) {
	reg := NewRoomRegistry()
	a, connA := newMember("s1", "u1", "Alice")
	b, connB := newMember("s2", "u2", "Bob")
	reg.Join("evt1", a)
	reg.Join("evt1", b)

	res := reg.Broadcast("evt1", Frame("hello"))

	if res.SentTo != 2 {
		t.Fatalf("SentTo = %d, want 2", res.SentTo)
	}
	if len(connA.frames) != 1 || len(connB.frames) != 1 {
		t.Errorf("frames delivered = (%d, %d), want (1, 1)", len(connA.frames), len(connB.frames))
	}
}

func TestRoomRegistry_BroadcastMissingRoom(t *testing.T) {
	reg := NewRoomRegistry()
	res := reg.Broadcast("nowhere", Frame("hello"))
	if res.SentTo != 0 || len(res.Dropped) != 0 {
		t.Errorf("Broadcast() = %+v, want zero result", res)
	}
}

func TestRoomRegistry_BroadcastReportsSaturatedMembers(t *testing.T) {
	reg := NewRoomRegistry()
	a, _ := newMember("s1", "u1", "Alice")
	slowConn := &stubConn{saturate: true}
	slow := NewMemberSession("s2", domain.Identity{ID: "u2", DisplayName: "Bob"}, slowConn)
	reg.Join("evt1", a)
	reg.Join("evt1", slow)

	res := reg.Broadcast("evt1", Frame("hello"))

	if res.SentTo != 1 {
		t.Errorf("SentTo = %d, want 1", res.SentTo)
	}
	if len(res.Dropped) != 1 || res.Dropped[0].ID() != "s2" {
		t.Fatalf("Dropped = %v, want the saturated session", res.Dropped)
	}
}

func TestRoomRegistry_ConcurrentBroadcastsKeepRelativeOrder(t *testing.T) {
	reg := NewRoomRegistry()
	conns := make([]*stubConn, 4)
	for i := range conns {
		ms, conn := newMember(fmt.Sprintf("s%d", i), fmt.Sprintf("u%d", i), fmt.Sprintf("user%d", i))
		conns[i] = conn
		reg.Join("evt1", ms)
	}

	const perSender = 50
	var wg sync.WaitGroup
	for _, prefix := range []string{"A", "B"} {
		wg.Add(1)
		go func(prefix string) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				reg.Broadcast("evt1", Frame(fmt.Sprintf("%s%d", prefix, i)))
			}
		}(prefix)
	}
	wg.Wait()

	want := conns[0].frames
	if len(want) != 2*perSender {
		t.Fatalf("member 0 observed %d frames, want %d", len(want), 2*perSender)
	}
	for i, conn := range conns[1:] {
		if len(conn.frames) != len(want) {
			t.Fatalf("member %d observed %d frames, want %d", i+1, len(conn.frames), len(want))
		}
		for j := range want {
			if string(conn.frames[j]) != string(want[j]) {
				t.Fatalf("members diverge at index %d: member 0 saw %q, member %d saw %q",
					j, want[j], i+1, conn.frames[j])
			}
		}
	}
}

func TestRoomRegistry_MembersSnapshot(t *testing.T) {
	reg := NewRoomRegistry()
	a, _ := newMember("s1", "u1", "Alice")
	reg.Join("evt1", a)

	members := reg.Members("evt1")
	if len(members) != 1 {
		t.Fatalf("Members() returned %d entries, want 1", len(members))
	}
	if members[0].ID != "u1" || members[0].DisplayName != "Alice" {
		t.Errorf("Members()[0] = %+v", members[0])
	}

	if got := reg.Members("missing"); got != nil {
		t.Errorf("Members(missing) = %v, want nil", got)
	}
}
