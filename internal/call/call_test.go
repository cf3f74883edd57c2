package call

import (
	"testing"

	"github.com/nexthop-io/transport/internal/events"
)

func TestCall_CancelAtMostOnce(t *testing.T) {
	var kinds []events.Kind
	bus := events.NewBus(events.ListenerFunc(func(e events.Event) { kinds = append(kinds, e.Kind) }))
	c := New(bus)

	c.Cancel()
	c.Cancel()

	count := 0
	for _, k := range kinds {
		if k == events.Canceled {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Canceled emitted %d times, want 1", count)
	}
	if !c.IsCanceled() {
		t.Fatal("IsCanceled should be true after Cancel")
	}
}

func TestCall_StartEndOnce(t *testing.T) {
	var kinds []events.Kind
	bus := events.NewBus(events.ListenerFunc(func(e events.Event) { kinds = append(kinds, e.Kind) }))
	c := New(bus)

	c.Start()
	c.Start()
	c.End()
	c.End()

	want := []events.Kind{events.CallStart, events.CallEnd}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

type requestID string

func TestTags_PutGetByType(t *testing.T) {
	var tags Tags
	tags.Put(requestID("abc"))
	tags.Put(42)

	if got, ok := Get[requestID](&tags); !ok || got != "abc" {
		t.Fatalf("Get[requestID] = (%v, %v), want (abc, true)", got, ok)
	}
	if got, ok := Get[int](&tags); !ok || got != 42 {
		t.Fatalf("Get[int] = (%v, %v), want (42, true)", got, ok)
	}
	if _, ok := Get[float64](&tags); ok {
		t.Fatal("Get[float64] should miss when never stored")
	}
	if Tag[int](&tags) != 42 {
		t.Fatal("Tag should mirror Get's value on hit")
	}
}
