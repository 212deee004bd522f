package models

import (
	"time"

	"github.com/google/uuid"
)

// ReactionType is the canonical reaction enumeration, shared between
// storage, domain logic and the JSON API.
type ReactionType string

const (
	ReactionLove       ReactionType = "love"
	ReactionLaugh      ReactionType = "laugh"
	ReactionWow        ReactionType = "wow"
	ReactionNostalgic  ReactionType = "nostalgic"
	ReactionGrateful   ReactionType = "grateful"
	ReactionCelebrate  ReactionType = "celebrate"
	ReactionSupport    ReactionType = "support"
	ReactionMemories   ReactionType = "memories"
	ReactionFamily     ReactionType = "family"
	ReactionFriendship ReactionType = "friendship"
	ReactionJourney    ReactionType = "journey"
	ReactionMilestone  ReactionType = "milestone"
	ReactionPeaceful   ReactionType = "peaceful"
	ReactionAdventure  ReactionType = "adventure"
	ReactionWarm       ReactionType = "warm"
)

var reactionTypes = map[ReactionType]bool{
	ReactionLove: true, ReactionLaugh: true, ReactionWow: true,
	ReactionNostalgic: true, ReactionGrateful: true, ReactionCelebrate: true,
	ReactionSupport: true, ReactionMemories: true, ReactionFamily: true,
	ReactionFriendship: true, ReactionJourney: true, ReactionMilestone: true,
	ReactionPeaceful: true, ReactionAdventure: true, ReactionWarm: true,
}

func (t ReactionType) Valid() bool {
	return reactionTypes[t]
}

type Reaction struct {
	UserID    uuid.UUID    `json:"userId"`
	Type      ReactionType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ReactionList is embedded in the owning Post or Comment as a JSON column.
// Invariant: at most one reaction per user.
type ReactionList []Reaction

// Upsert adds the user's reaction, or overwrites type and timestamp in
// place if the user already reacted.
func (l *ReactionList) Upsert(userID uuid.UUID, t ReactionType, now time.Time) {
	for i := range *l {
		if (*l)[i].UserID == userID {
			(*l)[i].Type = t
			(*l)[i].CreatedAt = now
			return
		}
	}
	*l = append(*l, Reaction{UserID: userID, Type: t, CreatedAt: now})
}

// Remove drops the user's reaction. Removing a missing reaction is a no-op.
func (l *ReactionList) Remove(userID uuid.UUID) {
	kept := (*l)[:0]
	for _, r := range *l {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	*l = kept
}

type ReactionSummary struct {
	TotalCount     int                  `json:"totalCount"`
	ReactionCounts map[ReactionType]int `json:"reactionCounts"`
	UserReactions  []ReactionType       `json:"userReactions"`
}

// Summary aggregates the list for the requesting user: total count, counts
// per type (present types only) and the user's own reaction types.
func (l ReactionList) Summary(userID uuid.UUID) ReactionSummary {
	s := ReactionSummary{
		TotalCount:     len(l),
		ReactionCounts: map[ReactionType]int{},
		UserReactions:  []ReactionType{},
	}
	for _, r := range l {
		s.ReactionCounts[r.Type]++
		if r.UserID == userID {
			s.UserReactions = append(s.UserReactions, r.Type)
		}
	}
	return s
}
