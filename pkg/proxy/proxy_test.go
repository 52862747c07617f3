package proxy

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundRobinCycles(t *testing.T) {
	pool := []string{"http://p1:8080", "http://p2:8080", "http://p3:8080"}
	r := New(pool, RoundRobin)

	var got []string
	for range 6 {
		p, ok := r.Next()
		if !ok {
			t.Fatal("Next reported empty pool")
		}
		got = append(got, p)
	}

	want := append(append([]string{}, pool...), pool...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rotation mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyPool(t *testing.T) {
	r := New(nil, RoundRobin)
	if p, ok := r.Next(); ok {
		t.Errorf("Next on empty pool = %q, want none", p)
	}
}

func TestRandomStaysInPool(t *testing.T) {
	pool := []string{"http://p1:8080", "http://p2:8080"}
	r := New(pool, Random)

	members := map[string]bool{}
	for _, p := range pool {
		members[p] = true
	}
	for range 50 {
		p, ok := r.Next()
		if !ok {
			t.Fatal("Next reported empty pool")
		}
		if !members[p] {
			t.Fatalf("Next returned %q, not in pool", p)
		}
	}
}

func TestUnknownModeFallsBack(t *testing.T) {
	r := New([]string{"http://p1:8080"}, Mode("bogus"))
	p, ok := r.Next()
	if !ok || p != "http://p1:8080" {
		t.Errorf("Next = %q, %v", p, ok)
	}
}

// Concurrent callers must each get a proxy and the round-robin cursor must
// distribute evenly with no lost updates.
func TestConcurrentRoundRobin(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}
	r := New(pool, RoundRobin)

	const callers = 10
	const perCaller = 100

	counts := make([]map[string]int, callers)
	var wg sync.WaitGroup
	for i := range callers {
		counts[i] = map[string]int{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perCaller {
				p, ok := r.Next()
				if !ok {
					t.Error("Next reported empty pool")
					return
				}
				counts[i][p]++
			}
		}()
	}
	wg.Wait()

	total := map[string]int{}
	for _, m := range counts {
		for p, n := range m {
			total[p] += n
		}
	}
	// 1000 calls over 5 proxies: exactly 200 each.
	for _, p := range pool {
		if total[p] != callers*perCaller/len(pool) {
			t.Errorf("proxy %q served %d times, want %d", p, total[p], callers*perCaller/len(pool))
		}
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.txt")
	content := "http://p1:8080\n\n# comment\nhttp://p2:8080  \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := FromFile(path, RoundRobin)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if r.Size() != 2 {
		t.Fatalf("Size = %d, want 2", r.Size())
	}
	p, _ := r.Next()
	if p != "http://p1:8080" {
		t.Errorf("first proxy = %q", p)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.txt"), RoundRobin); err == nil {
		t.Error("FromFile on missing file should error")
	}
}
