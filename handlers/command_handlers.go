package handlers

import (
	"context"
	"errors"
	"fmt"

	"chick-bot/export"
	"chick-bot/models"
)

func (h *Handler) handleHelp() CommandResponse {
	return CommandResponse{
		Content: "Píp píp píp! Všechno se dovíš v [dokumentaci na webu](https://junior.guru/about/bot/) 📖",
	}
}

func (h *Handler) handleDiscordID(ev CommandEvent) CommandResponse {
	return CommandResponse{
		Content: fmt.Sprintf("Tvoje Discord ID je `%s`. "+
			"Až si budeš zakládat profil v [seznamu kandidátů](https://junior.guru/candidates/), "+
			"bude se ti tahle informace hodit <a:awkward:985064290044223488>", ev.UserID),
	}
}

// handleExport exports a diaries thread to JSON for its author, a
// moderator or the bot owner.
func (h *Handler) handleExport(ctx context.Context, ev CommandEvent) CommandResponse {
	if ev.Thread == nil {
		return CommandResponse{Content: "Tento příkaz funguje pouze ve vláknech.", Ephemeral: true}
	}
	thread := *ev.Thread

	if thread.ParentID != h.cfg.Channels.DiariesID {
		return CommandResponse{
			Content:   fmt.Sprintf("Tento příkaz funguje pouze ve vláknech v kanálu <#%s>.", h.cfg.Channels.DiariesID),
			Ephemeral: true,
		}
	}

	var startingAuthorID string
	starting, err := h.actions.StartingMessage(ctx, thread)
	switch {
	case err == nil:
		startingAuthorID = starting.AuthorID
	case !errors.Is(err, ErrNotFound):
		h.logger.Warn("cannot fetch starting message", "thread", thread.Name, "error", err)
	}

	if !h.auth.CanExportThread(ev.UserID, ev.Permissions, startingAuthorID) {
		return CommandResponse{
			Content: "Nemáš oprávnění exportovat toto vlákno. " +
				"Export mohou provést pouze moderátoři, vlastník bota nebo autor prvního příspěvku.",
			Ephemeral: true,
		}
	}

	h.logger.Info("exporting thread", "thread", thread.Name, "user_id", ev.UserID)
	messages, err := h.actions.ThreadMessages(ctx, thread.ID)
	var data []byte
	if err == nil {
		data, err = export.Export(thread, thread.CreatedAt, messages).JSON()
	}
	if err != nil {
		h.logger.Error("failed to export thread", "thread", thread.Name, "error", err)
		return CommandResponse{Content: "Export se nezdařil. Zkus to prosím znovu později.", Ephemeral: true}
	}

	return CommandResponse{
		Content: fmt.Sprintf("Export vlákna **%s** (%d zpráv):", thread.Name, len(messages)),
		Files: []models.File{{
			Name:        fmt.Sprintf("thread_%s.json", thread.ID),
			ContentType: "application/json",
			Data:        data,
		}},
		Ephemeral: true,
	}
}
