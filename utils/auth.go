package utils

import (
	"github.com/bwmarrin/discordgo"
)

// Auth decides who may run privileged commands.
type Auth struct {
	OwnerID string
}

// NewAuth creates an Auth for the bot owner.
func NewAuth(ownerID string) *Auth {
	return &Auth{OwnerID: ownerID}
}

// IsOwner checks if a user owns the bot.
func (a *Auth) IsOwner(userID string) bool {
	return a.OwnerID != "" && userID == a.OwnerID
}

// IsModerator checks if the permission set allows managing messages.
func (a *Auth) IsModerator(permissions int64) bool {
	return permissions&discordgo.PermissionManageMessages != 0
}

// CanExportThread checks if a user may export a thread: the owner, a
// moderator, or the author of the thread's starting message.
func (a *Auth) CanExportThread(userID string, permissions int64, startingAuthorID string) bool {
	if a.IsOwner(userID) || a.IsModerator(permissions) {
		return true
	}
	return startingAuthorID != "" && startingAuthorID == userID
}
