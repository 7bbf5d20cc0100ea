package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brandconnect/marketplace-api/internal/model"
)

func TestGetOrCreateConversation_PairUniqueness(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	c1, created, err := m.GetOrCreateConversation(ctx, "user-a", "user-b")
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}
	if !created {
		t.Error("expected first call to create")
	}

	// Reversed order must resolve to the same conversation.
	c2, created, err := m.GetOrCreateConversation(ctx, "user-b", "user-a")
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}
	if created {
		t.Error("expected second call to reuse")
	}
	if c1.ID != c2.ID {
		t.Errorf("expected same conversation, got %s and %s", c1.ID, c2.ID)
	}
}

func TestGetOrCreateConversation_Concurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	const goroutines = 16
	ids := make([]string, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := "user-a", "user-b"
			if i%2 == 0 {
				a, b = b, a
			}
			c, _, err := m.GetOrCreateConversation(ctx, a, b)
			if err != nil {
				t.Errorf("GetOrCreateConversation failed: %v", err)
				return
			}
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("expected one conversation for the pair, got %s and %s", ids[0], ids[i])
		}
	}
}

func TestAppendMessage_TimestampsNonDecreasing(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	conv, _, err := m.GetOrCreateConversation(ctx, "user-a", "user-b")
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}

	// Drive the clock backwards; the clamp must keep append order.
	base := time.Now()
	offsets := []time.Duration{0, -time.Second, time.Second, -2 * time.Second}
	i := 0
	m.SetClock(func() time.Time {
		ts := base.Add(offsets[i%len(offsets)])
		i++
		return ts
	})

	for j := 0; j < len(offsets); j++ {
		if _, err := m.AppendMessage(ctx, conv.ID, "user-a", "m"); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	msgs, err := m.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != len(offsets) {
		t.Fatalf("expected %d messages, got %d", len(offsets), len(msgs))
	}
	for j := 1; j < len(msgs); j++ {
		if msgs[j].CreatedAt.Before(msgs[j-1].CreatedAt) {
			t.Errorf("message %d timestamp precedes message %d", j, j-1)
		}
	}
}

func TestAppendMessage_UnknownConversation(t *testing.T) {
	m := NewMemory()
	if _, err := m.AppendMessage(context.Background(), "missing", "user-a", "m"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertViewIfNoneSince_Dedup(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	first := &model.ProfileView{ViewerID: "brand-1", CreatorID: "creator-1", ViewedAt: now}
	inserted, err := m.InsertViewIfNoneSince(ctx, first, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("InsertViewIfNoneSince failed: %v", err)
	}
	if !inserted {
		t.Fatal("expected first view to insert")
	}
	if first.ID == "" {
		t.Error("expected id to be assigned")
	}

	// Same pair inside the window.
	second := &model.ProfileView{ViewerID: "brand-1", CreatorID: "creator-1", ViewedAt: now}
	inserted, err = m.InsertViewIfNoneSince(ctx, second, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("InsertViewIfNoneSince failed: %v", err)
	}
	if inserted {
		t.Error("expected duplicate inside window to be rejected")
	}

	// Different viewer is unaffected.
	third := &model.ProfileView{ViewerID: "brand-2", CreatorID: "creator-1", ViewedAt: now}
	inserted, err = m.InsertViewIfNoneSince(ctx, third, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("InsertViewIfNoneSince failed: %v", err)
	}
	if !inserted {
		t.Error("expected different viewer to insert")
	}

	count, err := m.CountViewsByCreator(ctx, "creator-1")
	if err != nil {
		t.Fatalf("CountViewsByCreator failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 persisted views, got %d", count)
	}
}

func TestCountViewsByCreatorBetween(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	for _, age := range []time.Duration{10 * 24 * time.Hour, 3 * 24 * time.Hour, 24 * time.Hour} {
		ts := now.Add(-age)
		v := &model.ProfileView{ViewerID: "brand-1", CreatorID: "creator-1", ViewedAt: ts}
		if _, err := m.InsertViewIfNoneSince(ctx, v, ts); err != nil {
			t.Fatalf("InsertViewIfNoneSince failed: %v", err)
		}
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	lastWeek, err := m.CountViewsByCreatorBetween(ctx, "creator-1", weekAgo, now)
	if err != nil {
		t.Fatalf("CountViewsByCreatorBetween failed: %v", err)
	}
	if lastWeek != 2 {
		t.Errorf("expected 2 views in last week, got %d", lastWeek)
	}

	prevWeek, err := m.CountViewsByCreatorBetween(ctx, "creator-1", now.Add(-14*24*time.Hour), weekAgo)
	if err != nil {
		t.Fatalf("CountViewsByCreatorBetween failed: %v", err)
	}
	if prevWeek != 1 {
		t.Errorf("expected 1 view in previous week, got %d", prevWeek)
	}
}

func TestLastMessage_Empty(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	conv, _, err := m.GetOrCreateConversation(ctx, "user-a", "user-b")
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}
	if _, err := m.LastMessage(ctx, conv.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for empty conversation, got %v", err)
	}
}
