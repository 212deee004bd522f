package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"memories/models"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const handlerTimeout = 10 * time.Second

// subscribeGroupEvents wires the handlers that keep the local group read
// model in sync with the user-groups service.
func subscribeGroupEvents(nc *nats.Conn) error {
	subs := map[string]func(context.Context, []byte) error{
		SubjectGroupCreated:      handleGroupCreated,
		SubjectGroupUpdated:      handleGroupUpdated,
		SubjectUserJoinedGroup:   handleUserJoined,
		SubjectUserLeftGroup:     handleUserLeft,
		SubjectUserNameChanged:   handleUserNameChanged,
		SubjectUserAvatarChanged: handleUserAvatarChanged,
	}
	for subject, handler := range subs {
		handler := handler
		_, err := nc.QueueSubscribe(subject, "memories", func(msg *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
			defer cancel()
			if err := handler(ctx, msg.Data); err != nil {
				log.Printf("cannot handle %s event: %v", msg.Subject, err)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func handleGroupCreated(ctx context.Context, data []byte) error {
	var event GroupCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	group := models.Group{
		ID:          event.GroupID,
		Name:        event.Name,
		Description: event.Description,
		Members: models.MemberList{{
			ID:           event.CreatedByUser.ID,
			Name:         event.CreatedByUser.Name,
			Username:     event.CreatedByUser.UserName,
			AvatarFileID: event.CreatedByUser.AvatarFileID,
		}},
	}
	return models.SaveGroup(ctx, &group)
}

func handleGroupUpdated(ctx context.Context, data []byte) error {
	var event GroupUpdatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	group, err := models.GroupByID(ctx, event.GroupID)
	if errors.Is(err, models.ErrGroupNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	group.Name = event.Name
	group.Description = event.Description
	return models.SaveGroup(ctx, group)
}

func handleUserJoined(ctx context.Context, data []byte) error {
	var event UserJoinedGroupEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	group, err := models.GroupByID(ctx, event.GroupID)
	if errors.Is(err, models.ErrGroupNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	group.SetMember(models.Member{
		ID:           event.UserID,
		Name:         event.Name,
		Username:     event.UserName,
		AvatarFileID: event.AvatarFileID,
	})
	return models.SaveGroup(ctx, group)
}

func handleUserLeft(ctx context.Context, data []byte) error {
	var event UserLeftGroupEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	group, err := models.GroupByID(ctx, event.GroupID)
	if errors.Is(err, models.ErrGroupNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	group.RemoveMember(event.UserID)
	return models.SaveGroup(ctx, group)
}

func handleUserNameChanged(ctx context.Context, data []byte) error {
	var event UserNameChangedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	return updateMemberships(ctx, event.UserID, func(m *models.Member) {
		m.Name = event.NewName
	})
}

func handleUserAvatarChanged(ctx context.Context, data []byte) error {
	var event UserAvatarChangedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	return updateMemberships(ctx, event.UserID, func(m *models.Member) {
		m.AvatarFileID = event.AvatarFileID
	})
}

func updateMemberships(ctx context.Context, userID uuid.UUID, apply func(*models.Member)) error {
	groups, err := models.GroupsByMemberID(ctx, userID)
	if err != nil {
		return err
	}
	for i := range groups {
		for j := range groups[i].Members {
			if groups[i].Members[j].ID == userID {
				apply(&groups[i].Members[j])
			}
		}
		if err = models.SaveGroup(ctx, &groups[i]); err != nil {
			return err
		}
	}
	return nil
}
