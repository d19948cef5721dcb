package handlers

import (
	"context"
	"errors"

	"chick-bot/models"
	"chick-bot/threads"
	"chick-bot/utils"
)

const dmReply = "Píp píp píp! Jsem jen malé kuřátko, které neumí číst soukromé zprávy a odpovídat na ně. " +
	"Tvou zprávu si nikdo nepřečte. Pokud se chceš na něco zeptat, zkus kanál " +
	"https://discord.com/channels/769966886598737931/806215364379148348 " +
	"nebo napiš do soukromé zprávy komukoliv z moderátorů. Rádi tě nasměrují."

// HandleMessage routes a new message.
func (h *Handler) HandleMessage(ctx context.Context, ev MessageEvent) {
	msg := ev.Message
	switch {
	case msg.AuthorID == h.actions.SelfID():
		return
	case msg.System:
		h.logger.Debug("system message, skipping", "message_id", msg.ID)
		return
	case !h.firstDelivery("message:" + msg.ID):
		return
	case ev.DirectMessage:
		messagesHandled.WithLabelValues("dm").Inc()
		h.onDirectMessage(ctx, msg)
	case ev.Thread != nil:
		messagesHandled.WithLabelValues("thread").Inc()
		h.onThreadMessage(ctx, ev)
	default:
		messagesHandled.WithLabelValues("channel").Inc()
		h.onChannelMessage(ctx, ev)
	}
}

func (h *Handler) onDirectMessage(ctx context.Context, msg models.Message) {
	_, err := h.actions.SendMessage(ctx, msg.ChannelID, models.OutgoingMessage{Content: dmReply, ReplyTo: msg.ID})
	if err != nil {
		h.logger.Warn("cannot reply to direct message", "user_id", msg.AuthorID, "error", err)
	}
}

func (h *Handler) onThreadMessage(ctx context.Context, ev MessageEvent) {
	thread := *ev.Thread

	if ev.ChannelName == h.cfg.Channels.Reviews && ev.MentionsBot {
		h.logger.Info("mentioned in review thread, starting review", "thread", thread.Name)
		starting, err := h.actions.StartingMessage(ctx, thread)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				h.logger.Warn("cannot fetch starting message", "thread", thread.Name, "error", err)
			}
			starting = ev.Message
		}
		h.reviewThread(ctx, starting, thread)
	}

	h.notifyInterest(ctx, thread)
}

// notifyInterest adds the interest's role to the thread when the thread
// is tracked and out of cooldown. The decision is taken by the store,
// the members are added afterwards.
func (h *Handler) notifyInterest(ctx context.Context, thread models.Thread) {
	if h.interests == nil {
		return
	}
	threadID, err := utils.ParseID(thread.ID)
	if err != nil {
		h.logger.Warn("unexpected thread id", "error", err)
		return
	}
	if _, tracked := h.interests.Get(threadID); !tracked {
		return
	}

	interest, ok := h.interests.TryNotify(threadID)
	if !ok {
		interestNotifications.WithLabelValues("cooldown").Inc()
		h.logger.Info("not notifying interest due to cooldown", "thread", thread.Name)
		return
	}

	roleID := utils.FormatID(interest.RoleID)
	h.logger.Info("notifying interest", "thread", thread.Name, "role_id", roleID)
	if err := h.actions.AddRoleMembers(ctx, thread.ID, roleID); err != nil {
		interestNotifications.WithLabelValues("error").Inc()
		h.logger.Error("failed to add role members to interest thread", "thread", thread.Name, "role_id", roleID, "error", err)
		h.report(ctx, "⚠️ Failed to notify <@&"+roleID+"> in <#"+thread.ID+">: "+err.Error())
		return
	}
	interestNotifications.WithLabelValues("sent").Inc()
}

func (h *Handler) onChannelMessage(ctx context.Context, ev MessageEvent) {
	var defaultTemplate, overrideTemplate string
	switch ev.ChannelName {
	case h.cfg.Channels.Intro:
		defaultTemplate = threads.IntroTemplate
	case h.cfg.Channels.Traps:
		defaultTemplate, overrideTemplate = threads.TrapsTemplate, threads.TrapsBracketTemplate
	case h.cfg.Channels.Discoveries:
		defaultTemplate, overrideTemplate = threads.DiscoveriesTemplate, threads.DiscoveriesBracketTemplate
	default:
		return
	}

	msg := ev.Message
	name := threads.Name(msg.Content, msg.AuthorDisplayName, defaultTemplate, overrideTemplate, h.now().In(h.location))
	h.logger.Info("creating thread", "channel", ev.ChannelName, "name", name)
	if _, err := h.actions.CreateThread(ctx, msg.ChannelID, msg.ID, name); err != nil {
		h.logger.Error("failed to create thread", "channel", ev.ChannelName, "error", err)
		return
	}
	threadsCreated.WithLabelValues(ev.ChannelName).Inc()
}
