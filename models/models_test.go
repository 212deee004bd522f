package models

import (
	"context"
	"testing"
	"time"

	"memories/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testDB points db.Instance at a fresh in-memory database.
func testDB(t *testing.T) {
	t.Helper()
	instance, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// Every pool connection to :memory: would get its own empty database,
	// so keep everything on a single connection.
	sqlDB, err := instance.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.Instance = instance
	Init()
}

func testGroup(t *testing.T, members ...uuid.UUID) *Group {
	t.Helper()
	g := &Group{ID: uuid.New(), Name: "family"}
	for _, id := range members {
		g.SetMember(Member{ID: id, Name: "member"})
	}
	require.NoError(t, SaveGroup(context.Background(), g))
	return g
}

func testMemory(t *testing.T, groupID, creatorID uuid.UUID, createdAt time.Time) *Memory {
	t.Helper()
	m := &Memory{
		ID:            uuid.New(),
		GroupID:       groupID,
		Title:         "summer trip",
		CreatedAt:     createdAt,
		CreatorUserID: creatorID,
	}
	p := &Post{
		ID:            uuid.New(),
		MemoryID:      m.ID,
		Content:       "first day",
		CreatedAt:     createdAt,
		CreatorUserID: creatorID,
	}
	m.MainPostID = p.ID
	require.NoError(t, CreateMemoryWithMainPost(context.Background(), m, p))
	return m
}
