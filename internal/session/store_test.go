package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreEmptyLoad(t *testing.T) {
	s := openTestStore(t)

	user, authenticated, cookies, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if user != nil || authenticated || cookies != nil {
		t.Errorf("expected empty session, got user=%v auth=%v cookies=%v", user, authenticated, cookies)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := &domain.User{ID: "u-1", Username: "budi", Email: "budi@example.com", Role: "admin"}
	cookies := []*http.Cookie{{Name: "auth", Value: "token-123"}}
	if err := s.Save(ctx, in, true, cookies); err != nil {
		t.Fatalf("Save: %v", err)
	}

	user, authenticated, restored, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if user == nil || user.Username != "budi" {
		t.Fatalf("expected user budi, got %+v", user)
	}
	if !authenticated {
		t.Error("expected authenticated")
	}
	if len(restored) != 1 || restored[0].Name != "auth" || restored[0].Value != "token-123" {
		t.Errorf("cookies did not survive the round trip: %+v", restored)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &domain.User{ID: "u-1", Username: "budi"}, true, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, &domain.User{ID: "u-2", Username: "sari"}, true, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	user, _, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if user.Username != "sari" {
		t.Errorf("expected latest save to win, got %q", user.Username)
	}
}

func TestStoreClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &domain.User{ID: "u-1", Username: "budi"}, true, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	user, authenticated, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if user != nil || authenticated {
		t.Errorf("expected cleared session, got user=%+v auth=%v", user, authenticated)
	}
}
