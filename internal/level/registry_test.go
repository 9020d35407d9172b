package level

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternCaseVariantsShareIdentity(t *testing.T) {
	reg := NewRegistry()
	first := reg.Intern("Error")
	for _, variant := range []string{"error", "ERROR", "eRrOr", "Error"} {
		if got := reg.Intern(variant); got != first {
			t.Fatalf("Intern(%q) = %p, want %p", variant, got, first)
		}
	}
	if got := first.Name(); got != "Error" {
		t.Fatalf("Name() = %q, want first-seen spelling %q", got, "Error")
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
}

func TestInternDistinctTextDistinctIdentity(t *testing.T) {
	reg := NewRegistry()
	warn := reg.Intern("Warning")
	errLevel := reg.Intern("Error")
	info := reg.Intern("Info")
	if warn == errLevel || warn == info || errLevel == info {
		t.Fatalf("distinct labels shared an identity: %p %p %p", warn, errLevel, info)
	}
}

func TestAllKeepsFirstSeenOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Intern("Warning")
	reg.Intern("Error")
	reg.Intern("WARNING")
	reg.Intern("Debug")

	all := reg.All()
	want := []string{"Warning", "Error", "Debug"}
	if len(all) != len(want) {
		t.Fatalf("All() len = %d, want %d", len(all), len(want))
	}
	for i, name := range want {
		if all[i].Name() != name {
			t.Fatalf("All()[%d] = %q, want %q", i, all[i].Name(), name)
		}
	}

	all[0] = nil
	if reg.All()[0] == nil {
		t.Fatalf("All() must return a copy")
	}
}

func TestRegistriesAreIsolated(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	if a.Intern("Error") == b.Intern("Error") {
		t.Fatalf("separate registries must not share levels")
	}
}

func TestInternConcurrentCallersAgree(t *testing.T) {
	reg := NewRegistry()
	const workers = 16
	results := make([]*Level, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text := "error"
			if i%2 == 0 {
				text = "ERROR"
			}
			for j := range 100 {
				reg.Intern(fmt.Sprintf("level-%d", j))
			}
			results[i] = reg.Intern(text)
		}()
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d got a different identity", i)
		}
	}
	if got, want := reg.Len(), 101; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
}
