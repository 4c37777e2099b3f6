package focus

import (
	"slices"
	"testing"

	"github.com/1broseidon/tilewm/internal/window"
)

func TestOrder(t *testing.T) {
	var o Order
	o.Insert(1)
	o.Insert(2)
	o.Insert(3)
	if got := o.Handles(); !slices.Equal(got, []window.Handle{3, 2, 1}) {
		t.Fatalf("after inserts = %v", got)
	}
	if o.Tail() != 1 {
		t.Fatalf("Tail() = %d, want 1", o.Tail())
	}

	o.Raise(3)
	if o.Tail() != 3 {
		t.Fatalf("Tail() after raise = %d, want 3", o.Tail())
	}
	if o.Prev(3) != 1 {
		t.Fatalf("Prev(3) = %d, want 1", o.Prev(3))
	}

	var walked []window.Handle
	o.Walk(func(h window.Handle) bool {
		walked = append(walked, h)
		return h != 1
	})
	if !slices.Equal(walked, []window.Handle{3, 1}) {
		t.Fatalf("Walk = %v, want [3 1]", walked)
	}

	o.Remove(1)
	o.Insert(2)
	if got := o.Handles(); !slices.Equal(got, []window.Handle{2, 3}) {
		t.Fatalf("after remove = %v", got)
	}
	if o.Prev(2) != window.None {
		t.Fatalf("Prev(head) = %d, want None", o.Prev(2))
	}
}

func TestOrderEmpty(t *testing.T) {
	var o Order
	if o.Tail() != window.None || o.Len() != 0 {
		t.Fatalf("empty order not empty")
	}
	o.Remove(5)
}
