package ordernum

import (
	"regexp"
	"sync"
	"testing"
)

var orderNumberPattern = regexp.MustCompile(`^[A-Z0-9]{9}$`)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := Generate()
		if !orderNumberPattern.MatchString(n) {
			t.Fatalf("Generate() = %q, want 9 characters from [A-Z0-9]", n)
		}
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	const (
		goroutines = 50
		perWorker  = 200
	)

	var (
		mu   sync.Mutex
		seen = make(map[string]bool, goroutines*perWorker)
		wg   sync.WaitGroup
	)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, Generate())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, n := range local {
				seen[n] = true
			}
		}()
	}
	wg.Wait()

	for n := range seen {
		if !orderNumberPattern.MatchString(n) {
			t.Fatalf("concurrent Generate() produced %q, want 9 characters from [A-Z0-9]", n)
		}
	}

	// 10k samples from a 36^9 keyspace: a duplicate here means the source is
	// correlated across goroutines, not bad luck.
	if len(seen) != goroutines*perWorker {
		t.Errorf("got %d distinct numbers from %d concurrent calls, want all distinct",
			len(seen), goroutines*perWorker)
	}
}
