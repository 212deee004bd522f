package models

import "errors"

// Error taxonomy shared by all handlers. The HTTP layer maps these to
// status codes; everything else is treated as a server error.
var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrMemoryNotFound  = errors.New("memory not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrImageNotFound   = errors.New("image not found")

	ErrNotGroupMember = errors.New("user is not a member of the group")
	ErrNotOwner       = errors.New("not the owner")

	// ErrConflict means the optimistic version check failed: the entity
	// was modified between our read and our write.
	ErrConflict = errors.New("concurrent modification")
)
