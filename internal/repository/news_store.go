package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"FXPulse/internal/domain/models"
	domrepo "FXPulse/internal/domain/repository"
)

var (
	_ domrepo.NewsSource = (*MemoryNewsStore)(nil)
	_ domrepo.NewsSink   = (*MemoryNewsStore)(nil)
)

// MemoryNewsStore keeps the most recent scored articles per pair. Articles
// older than the retention window are dropped on read and on write; a
// duplicate id replaces the stored copy.
type MemoryNewsStore struct {
	mu        sync.RWMutex
	byPair    map[string][]models.NewsArticle
	capacity  int
	retention time.Duration
	now       func() time.Time
}

func NewMemoryNewsStore(capacity int, retention time.Duration) *MemoryNewsStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryNewsStore{
		byPair:    make(map[string][]models.NewsArticle),
		capacity:  capacity,
		retention: retention,
		now:       time.Now,
	}
}

func (s *MemoryNewsStore) AddArticle(ctx context.Context, a models.NewsArticle) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, ok := models.FindPair(a.PairID); !ok {
		return fmt.Errorf("article %q: unknown pair %q", a.ID, a.PairID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byPair[a.PairID]
	replaced := false
	if a.ID != "" {
		for i := range list {
			if list[i].ID == a.ID {
				list[i] = a
				replaced = true
				break
			}
		}
	}
	if !replaced {
		list = append(list, a)
	}
	sortNewestFirst(list)
	list = s.prune(list)
	s.byPair[a.PairID] = list
	return nil
}

// GetArticles returns a copy of the pair's articles, newest first.
func (s *MemoryNewsStore) GetArticles(ctx context.Context, pairID string) ([]models.NewsArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.cutoff()
	list := s.byPair[pairID]
	out := make([]models.NewsArticle, 0, len(list))
	for _, a := range list {
		if !cutoff.IsZero() && a.PublishedAt.Before(cutoff) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *MemoryNewsStore) cutoff() time.Time {
	if s.retention <= 0 {
		return time.Time{}
	}
	return s.now().Add(-s.retention)
}

// prune expects list sorted newest first.
func (s *MemoryNewsStore) prune(list []models.NewsArticle) []models.NewsArticle {
	if cutoff := s.cutoff(); !cutoff.IsZero() {
		n := sort.Search(len(list), func(i int) bool { return list[i].PublishedAt.Before(cutoff) })
		list = list[:n]
	}
	if len(list) > s.capacity {
		list = list[:s.capacity]
	}
	return list
}

func sortNewestFirst(list []models.NewsArticle) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].PublishedAt.After(list[j].PublishedAt) })
}
