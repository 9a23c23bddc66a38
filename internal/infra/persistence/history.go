package persistence

import (
	"context"

	"github.com/xavierca1/prospector/internal/entity"
)

type HistoryStore struct {
	*Store
}

func (s *HistoryStore) GetAll(ctx context.Context) []entity.SearchHistoryItem {
	history, _ := readLocal[[]entity.SearchHistoryItem](ctx, s.Store, KeyHistory)

	var remote []entity.SearchHistoryItem
	ok := s.withRemote(ctx, "history.get_all", func(ctx context.Context, m Mirror) error {
		var err error
		remote, err = m.FetchHistory(ctx)
		return err
	})
	if ok {
		writeLocal(ctx, s.Store, KeyHistory, remote)
		history = remote
	}

	if history == nil {
		history = []entity.SearchHistoryItem{}
	}
	return history
}

func (s *HistoryStore) SaveAll(ctx context.Context, history []entity.SearchHistoryItem) {
	if len(history) > entity.MaxHistoryItems {
		history = history[:entity.MaxHistoryItems]
	}
	writeLocal(ctx, s.Store, KeyHistory, history)
	s.withRemote(ctx, "history.save_all", func(ctx context.Context, m Mirror) error {
		return m.ReplaceHistory(ctx, history)
	})
}
