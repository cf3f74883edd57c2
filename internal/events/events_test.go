package events

import "testing"

func TestBus_CanceledAtMostOnce(t *testing.T) {
	var got []Kind
	b := NewBus(ListenerFunc(func(e Event) { got = append(got, e.Kind) }))

	b.Emit(Event{Kind: Canceled})
	b.Emit(Event{Kind: Canceled})
	b.Emit(Event{Kind: CallFailed})

	count := 0
	for _, k := range got {
		if k == Canceled {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Canceled delivered %d times, want 1", count)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want [Canceled, CallFailed]", got)
	}
}

func TestBus_MultipleListeners(t *testing.T) {
	var a, b []Kind
	bus := NewBus(
		ListenerFunc(func(e Event) { a = append(a, e.Kind) }),
		ListenerFunc(func(e Event) { b = append(b, e.Kind) }),
	)
	bus.Emit(Event{Kind: CallStart})
	if len(a) != 1 || len(b) != 1 {
		t.Fatal("both listeners should observe the event")
	}
}
