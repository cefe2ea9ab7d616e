package household

import (
	"context"

	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/db"
	"github.com/tgienger/chores/internal/models"
)

// AddMember creates a member with the next palette colour
func (s *Service) AddMember(ctx context.Context, name, emoji string) (models.Member, error) {
	name, err := chores.CleanName(name)
	if err != nil {
		return models.Member{}, err
	}
	m := models.Member{
		ID:    s.newID(),
		Name:  name,
		Emoji: chores.OrDefault(emoji, chores.DefaultMemberEmoji),
		Color: chores.MemberColor(len(s.state.Snapshot().Members)),
	}
	if err := s.commit(ctx, "add member", s.store.Batch().SetMember(m), zap.String("member_id", m.ID)); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// EditMember renames a member and changes their emoji. Colour stays.
func (s *Service) EditMember(ctx context.Context, id, name, emoji string) error {
	if _, ok := s.state.Snapshot().Member(id); !ok {
		return chores.ErrMemberNotFound
	}
	name, err := chores.CleanName(name)
	if err != nil {
		return err
	}
	emoji = chores.OrDefault(emoji, chores.DefaultMemberEmoji)
	patch := db.MemberPatch{Name: &name, Emoji: &emoji}
	return s.commit(ctx, "edit member", s.store.Batch().UpdateMember(id, patch), zap.String("member_id", id))
}

// DeleteMember removes a member who is in no task rotation. Their history
// and manual assignments stay behind and resolve through fallbacks.
func (s *Service) DeleteMember(ctx context.Context, id string) error {
	snap := s.state.Snapshot()
	if _, ok := snap.Member(id); !ok {
		return chores.ErrMemberNotFound
	}
	if err := chores.CheckMemberDeletable(snap, id); err != nil {
		return err
	}
	return s.commit(ctx, "delete member", s.store.Batch().DeleteMember(id), zap.String("member_id", id))
}
