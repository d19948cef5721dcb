package handlers

import (
	"context"
	"errors"
	"sync"

	"chick-bot/classifier"
	"chick-bot/models"
	"chick-bot/threads"
)

const (
	emojiDK         = "<:dk:842727526736068609>"
	emojiThumbsUp   = "👍"
	emojiMicroscope = "🔬"
)

// HandleThreadCreate routes a newly created thread by its parent channel.
func (h *Handler) HandleThreadCreate(ctx context.Context, thread models.Thread) {
	if !h.firstDelivery("thread:" + thread.ID) {
		return
	}
	if thread.ParentName == "" {
		h.logger.Warn("thread has no parent, skipping", "thread", thread.Name)
		return
	}
	h.logger.Info("thread created", "thread", thread.Name, "channel", thread.ParentName)

	starting, err := h.actions.StartingMessage(ctx, thread)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.logger.Warn("thread has no starting message, skipping", "thread", thread.Name)
		} else {
			h.logger.Error("cannot fetch starting message", "thread", thread.Name, "error", err)
		}
		return
	}
	if starting.AuthorID == h.actions.SelfID() {
		h.logger.Info("thread created by the bot itself, skipping", "thread", thread.Name)
		return
	}

	switch thread.ParentName {
	case h.cfg.Channels.Intro:
		h.introThread(ctx, starting, thread)
	case h.cfg.Channels.Jobs:
		h.logger.Info("reacting to job posting", "thread", thread.Name)
		h.react(ctx, starting, emojiDK)
	case h.cfg.Channels.Candidates:
		h.logger.Info("reacting to candidate", "thread", thread.Name)
		h.react(ctx, starting, emojiThumbsUp)
	case h.cfg.Channels.Reviews:
		h.reviewThread(ctx, starting, thread)
	}
}

func (h *Handler) introThread(ctx context.Context, starting models.Message, thread models.Thread) {
	emojis := classifier.Classify(starting.Content)
	h.logger.Info("welcoming", "thread", thread.Name, "reactions", len(emojis))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.ensureThreadName(ctx, starting, thread, threads.IntroTemplate)
	}()
	go func() {
		defer wg.Done()
		if _, err := h.actions.SendMessage(ctx, thread.ID, IntroMessage(starting.Content)); err != nil {
			h.logger.Error("failed to send welcome message", "thread", thread.Name, "error", err)
			return
		}
		if err := h.actions.PingRole(ctx, thread.ID, h.cfg.Roles.Greeter); err != nil {
			h.logger.Error("failed to ping greeters", "thread", thread.Name, "error", err)
		}
	}()
	// Reactions keep their order.
	h.react(ctx, starting, emojis...)
	wg.Wait()
}

func (h *Handler) ensureThreadName(ctx context.Context, starting models.Message, thread models.Thread, template string) {
	name := threads.Name(starting.Content, starting.AuthorDisplayName, template, "", h.now().In(h.location))
	if thread.Name == name {
		return
	}
	if err := h.actions.EditThreadName(ctx, thread.ID, name); err != nil {
		h.logger.Error("failed to rename thread", "thread", thread.Name, "name", name, "error", err)
	}
}

func (h *Handler) react(ctx context.Context, msg models.Message, emojis ...string) {
	for _, emoji := range emojis {
		if err := h.actions.AddReaction(ctx, msg.ChannelID, msg.ID, emoji); err != nil {
			reactionsAdded.WithLabelValues("error").Inc()
			h.logger.Warn("failed to add reaction", "emoji", emoji, "message_id", msg.ID, "error", err)
			continue
		}
		reactionsAdded.WithLabelValues("ok").Inc()
	}
}
