package persistence

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/xavierca1/prospector/internal/entity"
)

const remoteTimeout = 10 * time.Second

// Mirror is the remote copy of one owner's workspace. FetchProfile returns
// (nil, nil) when the owner has no stored profile yet.
type Mirror interface {
	FetchLeads(ctx context.Context) ([]*entity.Lead, error)
	ReplaceLeads(ctx context.Context, leads []*entity.Lead) error
	UpsertLead(ctx context.Context, lead *entity.Lead) error
	DeleteLead(ctx context.Context, id string) error

	FetchProfile(ctx context.Context) (*entity.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *entity.UserProfile) error

	FetchHistory(ctx context.Context) ([]entity.SearchHistoryItem, error)
	ReplaceHistory(ctx context.Context, history []entity.SearchHistoryItem) error

	FetchTemplates(ctx context.Context) ([]entity.EmailTemplate, error)
	ReplaceTemplates(ctx context.Context, templates []entity.EmailTemplate) error
	UpsertTemplate(ctx context.Context, template entity.EmailTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
}

// Store holds what every collection adapter shares: the local KV, the
// optional remote mirror and the offline switch.
type Store struct {
	local   KV
	remote  Mirror
	offline atomic.Bool
	logger  *slog.Logger
}

type Option func(*Store)

func WithRemote(m Mirror) Option {
	return func(s *Store) { s.remote = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(local KV, opts ...Option) *Store {
	s := &Store{
		local:  local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Leads() *LeadStore { return &LeadStore{s} }
func (s *Store) Profile() *ProfileStore { return &ProfileStore{s} }
func (s *Store) History() *HistoryStore { return &HistoryStore{s} }
func (s *Store) Templates() *TemplateStore { return &TemplateStore{s} }

// SetOffline stops (or resumes) every remote read and write.
func (s *Store) SetOffline(offline bool) {
	s.offline.Store(offline)
}

func (s *Store) Close() error {
	return s.local.Close()
}

func (s *Store) remoteReady() bool {
	return s.remote != nil && !s.offline.Load()
}

// withRemote runs fn against the mirror under its own deadline and logs
// any failure. It reports whether the call succeeded.
func (s *Store) withRemote(ctx context.Context, op string, fn func(ctx context.Context, m Mirror) error) bool {
	if !s.remoteReady() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	if err := fn(ctx, s.remote); err != nil {
		s.logger.Warn("remote mirror unavailable, using local copy", "op", op, "error", err)
		return false
	}
	return true
}

func readLocal[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var out T
	raw, found, err := s.local.Get(ctx, key)
	if err != nil {
		s.logger.Error("failed to read local store", "key", key, "error", err)
		return out, false
	}
	if !found {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Error("corrupt local entry, ignoring", "key", key, "error", err)
		var zero T
		return zero, false
	}
	return out, true
}

func writeLocal(ctx context.Context, s *Store, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode local entry", "key", key, "error", err)
		return
	}
	if err := s.local.Set(ctx, key, raw); err != nil {
		s.logger.Error("failed to write local store", "key", key, "error", err)
	}
}
