package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(0)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := r.Register(Info{ID: "b", User: "bob", Started: base.Add(time.Minute)}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := r.Register(Info{ID: "a", User: "alice", Started: base}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if r.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", r.Count())
	}

	list := r.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("List() = %+v, expected a then b", list)
	}

	r.SetSource("a", "pattern:rings")
	if info, ok := r.Get("a"); !ok || info.Source != "pattern:rings" {
		t.Errorf("Get(a) = %+v, %v; expected source pattern:rings", info, ok)
	}

	// Unknown IDs are ignored
	r.SetSource("missing", "x")
	if _, ok := r.Get("missing"); ok {
		t.Error("SetSource() should not create sessions")
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("Get() found an unregistered session")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d after Unregister, expected 1", r.Count())
	}
}

func TestRegistryLimit(t *testing.T) {
	r := NewRegistry(2)

	for _, id := range []ID{"a", "b"} {
		if err := r.Register(Info{ID: id}); err != nil {
			t.Fatalf("Register(%s) failed: %v", id, err)
		}
	}
	if err := r.Register(Info{ID: "c"}); !errors.Is(err, ErrFull) {
		t.Errorf("Register() over the limit = %v, expected ErrFull", err)
	}

	// Re-registering a known session does not count against the limit
	if err := r.Register(Info{ID: "a", User: "alice"}); err != nil {
		t.Errorf("Register() of an existing session failed: %v", err)
	}

	r.Unregister("b")
	if err := r.Register(Info{ID: "c"}); err != nil {
		t.Errorf("Register() after a slot freed failed: %v", err)
	}
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := ID(fmt.Sprintf("s%d", i))
			_ = r.Register(Info{ID: id})
			r.SetSource(id, "pattern:checker")
			_ = r.List()
			if i%2 == 0 {
				r.Unregister(id)
			}
		}(i)
	}
	wg.Wait()

	if r.Count() != 25 {
		t.Errorf("Count() = %d, expected 25", r.Count())
	}
}
