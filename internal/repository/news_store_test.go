package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"FXPulse/internal/domain/models"
)

func article(id, pair string, at time.Time, score float64) models.NewsArticle {
	return models.NewsArticle{ID: id, PairID: pair, Title: "t-" + id, PublishedAt: at, SentimentScore: score}
}

func TestMemoryNewsStore_CapacityAndOrder(t *testing.T) {
	s := NewMemoryNewsStore(3, 0)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := s.AddArticle(ctx, article(fmt.Sprint(i), "EUR_USD", base.Add(time.Duration(i)*time.Hour), 0.1)); err != nil {
			t.Fatalf("AddArticle() error = %v", err)
		}
	}
	got, _ := s.GetArticles(ctx, "EUR_USD")
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "4" || got[2].ID != "2" {
		t.Fatalf("expected newest first, got %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
	if other, _ := s.GetArticles(ctx, "USD_JPY"); len(other) != 0 {
		t.Fatalf("pairs must be isolated")
	}
}

func TestMemoryNewsStore_DuplicateReplaces(t *testing.T) {
	s := NewMemoryNewsStore(10, 0)
	ctx := context.Background()
	at := time.Now()

	_ = s.AddArticle(ctx, article("a", "GBP_USD", at, 0.2))
	_ = s.AddArticle(ctx, article("a", "GBP_USD", at, -0.4))

	got, _ := s.GetArticles(ctx, "GBP_USD")
	if len(got) != 1 || got[0].SentimentScore != -0.4 {
		t.Fatalf("unexpected articles %+v", got)
	}
}

func TestMemoryNewsStore_Retention(t *testing.T) {
	s := NewMemoryNewsStore(10, 24*time.Hour)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.AddArticle(ctx, article("old", "USD_KRW", now.Add(-48*time.Hour), 0.5))
	_ = s.AddArticle(ctx, article("new", "USD_KRW", now.Add(-time.Hour), 0.5))
	got, _ := s.GetArticles(ctx, "USD_KRW")
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("unexpected articles %+v", got)
	}

	now = now.Add(24 * time.Hour)
	if got, _ = s.GetArticles(ctx, "USD_KRW"); len(got) != 0 {
		t.Fatalf("expected all articles to expire, got %d", len(got))
	}
}

func TestMemoryNewsStore_Rejects(t *testing.T) {
	s := NewMemoryNewsStore(10, 0)
	ctx := context.Background()
	if err := s.AddArticle(ctx, article("x", "EUR_USD", time.Now(), 1.5)); !errors.Is(err, models.ErrSentimentOutOfRange) {
		t.Fatalf("err = %v, want ErrSentimentOutOfRange", err)
	}
	if err := s.AddArticle(ctx, article("x", "XXX_YYY", time.Now(), 0)); err == nil {
		t.Fatalf("expected error for unknown pair")
	}
}
