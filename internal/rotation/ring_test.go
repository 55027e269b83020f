package rotation

import "testing"

func TestRingFrontAndBackOrdering(t *testing.T) {
	var r ring
	r.pushBack("a")
	r.pushBack("b")
	r.pushFront("c")

	want := []string{"c", "a", "b"}
	for _, expected := range want {
		got, ok := r.popFront()
		if !ok {
			t.Fatalf("expected %q, ring empty", expected)
		}
		if got != expected {
			t.Fatalf("expected %q, got %q", expected, got)
		}
	}
	if _, ok := r.popFront(); ok {
		t.Fatal("expected empty ring")
	}
}

func TestRingGrowsPastInitialCapacity(t *testing.T) {
	var r ring
	const n = 100
	for i := 0; i < n; i++ {
		r.pushBack(string(rune('a' + i%26)))
	}
	if r.len() != n {
		t.Fatalf("expected %d entries, got %d", n, r.len())
	}
	for i := 0; i < n; i++ {
		got, ok := r.popFront()
		if !ok {
			t.Fatalf("ring emptied early at %d", i)
		}
		if got != string(rune('a'+i%26)) {
			t.Fatalf("order broken at %d: %q", i, got)
		}
	}
}

func TestRingInterleavedWrap(t *testing.T) {
	var r ring
	for i := 0; i < 6; i++ {
		r.pushBack(string(rune('a' + i)))
	}
	// Rotate several full cycles so head wraps the backing slice.
	for i := 0; i < 20; i++ {
		value, ok := r.popFront()
		if !ok {
			t.Fatal("unexpected empty ring")
		}
		r.pushBack(value)
	}
	if r.len() != 6 {
		t.Fatalf("expected stable size, got %d", r.len())
	}
	got, _ := r.popFront()
	if got != string(rune('a'+20%6)) {
		t.Fatalf("unexpected head after rotation: %q", got)
	}
}
