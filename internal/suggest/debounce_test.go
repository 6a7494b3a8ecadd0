package suggest

import (
	"context"
	"sync"
	"testing"
	"time"

	"trijoshh/internal/core"
)

// slowGenerator blocks until released, modeling a hung provider.
type slowGenerator struct {
	mu      sync.Mutex
	reply   string
	release chan struct{}
	calls   int
}

func (s *slowGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.release != nil {
		<-s.release
	}
	return s.reply, nil
}

func (s *slowGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestAwaitDeliversAfterQuietPeriod(t *testing.T) {
	d := NewDebouncer(NewClient(&stubGenerator{reply: "Food"}, nil), 10*time.Millisecond, 5)
	cat, ok := d.Await(context.Background(), "lunch with client")
	if !ok || cat != core.CategoryFood {
		t.Fatalf("got %q ok=%v", cat, ok)
	}
}

func TestAwaitShortDescriptionNeverCallsProvider(t *testing.T) {
	gen := &stubGenerator{reply: "Food"}
	d := NewDebouncer(NewClient(gen, nil), time.Millisecond, 5)
	if _, ok := d.Await(context.Background(), "tea "); ok {
		t.Fatal("short description produced a suggestion")
	}
	if gen.calls != 0 {
		t.Fatalf("provider called %d times for a short description", gen.calls)
	}
}

func TestAwaitNewerEditSupersedesWaiter(t *testing.T) {
	gen := &stubGenerator{reply: "Food"}
	d := NewDebouncer(NewClient(gen, nil), 50*time.Millisecond, 5)

	results := make(chan bool, 1)
	go func() {
		_, ok := d.Await(context.Background(), "first description")
		results <- ok
	}()

	// Let the first waiter arm its timer, then supersede it.
	time.Sleep(10 * time.Millisecond)
	cat, ok := d.Await(context.Background(), "second description")
	if !ok || cat != core.CategoryFood {
		t.Fatalf("latest edit lost: %q ok=%v", cat, ok)
	}

	select {
	case ok := <-results:
		if ok {
			t.Fatal("superseded waiter still delivered a suggestion")
		}
	case <-time.After(time.Second):
		t.Fatal("superseded waiter never returned")
	}
}

func TestAwaitLateResultIsDiscarded(t *testing.T) {
	gen := &slowGenerator{reply: "Food", release: make(chan struct{})}
	d := NewDebouncer(NewClient(gen, nil), time.Millisecond, 5)

	results := make(chan bool, 1)
	go func() {
		_, ok := d.Await(context.Background(), "first description")
		results <- ok
	}()

	// Wait until the first call is in flight at the provider.
	for gen.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	// A newer edit arrives while the provider hangs; then the provider
	// finally answers. The first result must be discarded on arrival.
	done := make(chan struct{})
	go func() {
		d.Await(context.Background(), "second description")
		close(done)
	}()
	for gen.callCount() < 2 {
		time.Sleep(time.Millisecond)
	}
	close(gen.release)

	select {
	case ok := <-results:
		if ok {
			t.Fatal("stale provider result was delivered")
		}
	case <-time.After(time.Second):
		t.Fatal("first waiter never returned")
	}
	<-done
}

func TestAwaitContextCancel(t *testing.T) {
	d := NewDebouncer(NewClient(&stubGenerator{reply: "Food"}, nil), time.Hour, 5)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	if _, ok := d.Await(ctx, "lunch with client"); ok {
		t.Fatal("cancelled wait produced a suggestion")
	}
}
