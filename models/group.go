package models

import (
	"context"
	"errors"

	"memories/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Member struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	AvatarFileID *uuid.UUID `json:"avatarFileId,omitempty"`
}

type MemberList []Member

// Group is a read model owned by the upstream users service. It is kept in
// sync by the event subscriber (events package) and only ever read by the
// request handlers.
type Group struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(300)" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Members     MemberList `gorm:"serializer:json;type:text" json:"members"`
}

func GroupByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	var g Group
	err := db.Instance.WithContext(ctx).First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// SaveGroup inserts or replaces the whole group document.
func SaveGroup(ctx context.Context, g *Group) error {
	return db.Instance.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(g).Error
}

// GroupsByMemberID finds all groups the user belongs to. The members column
// is serialized JSON, so this narrows candidates with a LIKE on the uuid and
// confirms membership in memory.
func GroupsByMemberID(ctx context.Context, userID uuid.UUID) ([]Group, error) {
	var candidates []Group
	err := db.Instance.WithContext(ctx).
		Where("members LIKE ?", "%"+userID.String()+"%").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	groups := candidates[:0]
	for _, g := range candidates {
		if g.HasMember(userID) {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

func (g *Group) HasMember(userID uuid.UUID) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// SetMember adds the member, or replaces the existing entry with the same id.
func (g *Group) SetMember(m Member) {
	for i := range g.Members {
		if g.Members[i].ID == m.ID {
			g.Members[i] = m
			return
		}
	}
	g.Members = append(g.Members, m)
}

func (g *Group) RemoveMember(userID uuid.UUID) {
	kept := g.Members[:0]
	for _, m := range g.Members {
		if m.ID != userID {
			kept = append(kept, m)
		}
	}
	g.Members = kept
}

// AssertGroupMember is the membership guard run before every read or write
// scoped to a group. It is executed fresh per request, no caching.
func AssertGroupMember(ctx context.Context, groupID, userID uuid.UUID) error {
	g, err := GroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.HasMember(userID) {
		return ErrNotGroupMember
	}
	return nil
}
