package handlers

import (
	"context"

	"chick-bot/models"
)

// CommandEvent is an invoked slash command.
type CommandEvent struct {
	Name        string
	UserID      string
	Permissions int64
	ChannelID   string
	// Thread is set when the command was invoked inside a thread.
	Thread *models.Thread
}

// CommandResponse is what the command replies with.
type CommandResponse struct {
	Content   string
	Files     []models.File
	Ephemeral bool
}

// HandleCommand is the central handler for all slash commands.
func (h *Handler) HandleCommand(ctx context.Context, ev CommandEvent) CommandResponse {
	commandsHandled.WithLabelValues(ev.Name).Inc()
	h.logger.Info("command invoked", "command", ev.Name, "user_id", ev.UserID)

	switch ev.Name {
	case "help":
		return h.handleHelp()
	case "discord_id":
		return h.handleDiscordID(ev)
	case "export_denicky":
		return h.handleExport(ctx, ev)
	default:
		return CommandResponse{Content: "🚫 Neznámý příkaz.", Ephemeral: true}
	}
}
