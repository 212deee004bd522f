package events

import (
	"context"
	"encoding/json"
	"testing"

	"memories/db"
	"memories/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) {
	t.Helper()
	instance, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := instance.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db.Instance = instance
	models.Init()
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	buf, err := json.Marshal(v)
	require.NoError(t, err)
	return buf
}

func TestGroupProjection(t *testing.T) {
	testDB(t)
	ctx := context.Background()
	groupID := uuid.New()
	creatorID := uuid.New()
	joinerID := uuid.New()

	require.NoError(t, handleGroupCreated(ctx, encode(t, GroupCreatedEvent{
		GroupID:     groupID,
		Name:        "family",
		Description: "our memories",
		CreatedByUser: EventUser{
			ID:       creatorID,
			Name:     "Ana",
			UserName: "ana",
		},
	})))

	group, err := models.GroupByID(ctx, groupID)
	require.NoError(t, err)
	require.Equal(t, "family", group.Name)
	require.True(t, group.HasMember(creatorID))

	require.NoError(t, handleUserJoined(ctx, encode(t, UserJoinedGroupEvent{
		GroupID:  groupID,
		UserID:   joinerID,
		Name:     "Ben",
		UserName: "ben",
	})))
	require.NoError(t, handleGroupUpdated(ctx, encode(t, GroupUpdatedEvent{
		GroupID:     groupID,
		Name:        "family 2.0",
		Description: "still ours",
	})))

	group, err = models.GroupByID(ctx, groupID)
	require.NoError(t, err)
	require.Equal(t, "family 2.0", group.Name)
	require.Len(t, group.Members, 2)

	require.NoError(t, handleUserLeft(ctx, encode(t, UserLeftGroupEvent{
		GroupID: groupID,
		UserID:  creatorID,
	})))
	group, err = models.GroupByID(ctx, groupID)
	require.NoError(t, err)
	require.False(t, group.HasMember(creatorID))
	require.True(t, group.HasMember(joinerID))
}

func TestGroupProjectionUnknownGroup(t *testing.T) {
	testDB(t)
	ctx := context.Background()

	// Updates for groups this service never saw are dropped, not errors.
	require.NoError(t, handleGroupUpdated(ctx, encode(t, GroupUpdatedEvent{GroupID: uuid.New(), Name: "x"})))
	require.NoError(t, handleUserJoined(ctx, encode(t, UserJoinedGroupEvent{GroupID: uuid.New(), UserID: uuid.New()})))
	require.NoError(t, handleUserLeft(ctx, encode(t, UserLeftGroupEvent{GroupID: uuid.New(), UserID: uuid.New()})))
}

func TestUserProjectionAcrossGroups(t *testing.T) {
	testDB(t)
	ctx := context.Background()
	userID := uuid.New()
	avatarID := uuid.New()

	for _, name := range []string{"family", "friends"} {
		g := &models.Group{ID: uuid.New(), Name: name}
		g.SetMember(models.Member{ID: userID, Name: "Ana", Username: "ana"})
		require.NoError(t, models.SaveGroup(ctx, g))
	}

	require.NoError(t, handleUserNameChanged(ctx, encode(t, UserNameChangedEvent{
		UserID:  userID,
		NewName: "Ana Maria",
	})))
	require.NoError(t, handleUserAvatarChanged(ctx, encode(t, UserAvatarChangedEvent{
		UserID:       userID,
		AvatarFileID: &avatarID,
	})))

	groups, err := models.GroupsByMemberID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	for _, g := range groups {
		require.Equal(t, "Ana Maria", g.Members[0].Name)
		require.NotNil(t, g.Members[0].AvatarFileID)
		require.Equal(t, avatarID, *g.Members[0].AvatarFileID)
	}
}
