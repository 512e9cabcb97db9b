package debounce

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	commits []string
}

func (r *recorder) commit(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commits))
	copy(out, r.commits)
	return out
}

func TestBurstCommitsOnce(t *testing.T) {
	rec := &recorder{}
	d := New(30*time.Millisecond, rec.commit)

	// Rapid typing: only the final value may commit, exactly once.
	d.Input("b")
	time.Sleep(5 * time.Millisecond)
	d.Input("ba")
	time.Sleep(5 * time.Millisecond)
	d.Input("bak")

	time.Sleep(80 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 commit, got %d: %v", len(got), got)
	}
	if got[0] != "bak" {
		t.Errorf("expected final value %q, got %q", "bak", got[0])
	}
}

func TestSeedNeverFires(t *testing.T) {
	rec := &recorder{}
	d := New(10*time.Millisecond, rec.commit)

	d.Seed("restored search")
	time.Sleep(40 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("seeding must not commit, got %v", got)
	}
}

func TestFlushCommitsImmediately(t *testing.T) {
	rec := &recorder{}
	d := New(time.Hour, rec.commit)

	d.Input("kopi")
	d.Flush()

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "kopi" {
		t.Fatalf("expected immediate commit of %q, got %v", "kopi", got)
	}

	// The pending timer died with the flush.
	time.Sleep(20 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 {
		t.Fatalf("flush must cancel the pending timer, got %v", got)
	}
}

func TestCancelDropsPending(t *testing.T) {
	rec := &recorder{}
	d := New(10*time.Millisecond, rec.commit)

	d.Input("kopi")
	d.Cancel()
	time.Sleep(40 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("cancel must drop the pending commit, got %v", got)
	}
}

func TestSeparateBurstsCommitSeparately(t *testing.T) {
	rec := &recorder{}
	d := New(15*time.Millisecond, rec.commit)

	d.Input("kopi")
	time.Sleep(50 * time.Millisecond)
	d.Input("teh")
	time.Sleep(50 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 2 || got[0] != "kopi" || got[1] != "teh" {
		t.Fatalf("expected two commits [kopi teh], got %v", got)
	}
}
