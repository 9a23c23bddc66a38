package persistence

import (
	"context"

	"github.com/xavierca1/prospector/internal/entity"
)

// ProfileStore implements entity.ProfileRepository. Get returns nil when no
// profile exists anywhere.
type ProfileStore struct {
	*Store
}

func (s *ProfileStore) Get(ctx context.Context) *entity.UserProfile {
	profile, _ := readLocal[*entity.UserProfile](ctx, s.Store, KeyProfile)

	var remote *entity.UserProfile
	ok := s.withRemote(ctx, "profile.get", func(ctx context.Context, m Mirror) error {
		var err error
		remote, err = m.FetchProfile(ctx)
		return err
	})
	if ok && remote != nil {
		writeLocal(ctx, s.Store, KeyProfile, remote)
		profile = remote
	}
	return profile
}

func (s *ProfileStore) Save(ctx context.Context, profile *entity.UserProfile) {
	if profile == nil {
		return
	}
	writeLocal(ctx, s.Store, KeyProfile, profile)
	s.withRemote(ctx, "profile.save", func(ctx context.Context, m Mirror) error {
		return m.UpsertProfile(ctx, profile)
	})
}
