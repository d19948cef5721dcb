package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"

	"chick-bot/handlers"
	"chick-bot/models"
)

// DiscordActions performs handler actions through a discordgo session.
type DiscordActions struct {
	session *discordgo.Session
}

// NewDiscordActions wraps session.
func NewDiscordActions(session *discordgo.Session) *DiscordActions {
	return &DiscordActions{session: session}
}

var _ handlers.Actions = (*DiscordActions)(nil)

func (a *DiscordActions) SelfID() string {
	if a.session.State == nil || a.session.State.User == nil {
		return ""
	}
	return a.session.State.User.ID
}

func (a *DiscordActions) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return wrap(a.session.MessageReactionAdd(channelID, messageID, reactionID(emoji), discordgo.WithContext(ctx)))
}

func (a *DiscordActions) SendMessage(ctx context.Context, channelID string, msg models.OutgoingMessage) (string, error) {
	data := &discordgo.MessageSend{
		Content: msg.Content,
		// Mentions written by the bot itself are intended, users are not
		// pinged through replies.
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers, discordgo.AllowedMentionTypeRoles},
		},
	}
	if msg.SuppressEmbeds {
		data.Flags |= discordgo.MessageFlagsSuppressEmbeds
	}
	if msg.ReplyTo != "" {
		data.Reference = &discordgo.MessageReference{MessageID: msg.ReplyTo, ChannelID: channelID}
	}
	for _, e := range msg.Embeds {
		data.Embeds = append(data.Embeds, &discordgo.MessageEmbed{Description: e.Description, Color: e.Color})
	}
	if len(msg.Buttons) > 0 {
		row := discordgo.ActionsRow{}
		for _, b := range msg.Buttons {
			row.Components = append(row.Components, discordgo.Button{Label: b.Label, Style: discordgo.LinkButton, URL: b.URL})
		}
		data.Components = []discordgo.MessageComponent{row}
	}
	data.Files = handlers.ToFiles(msg.Files)

	sent, err := a.session.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(ctx))
	if err != nil {
		return "", wrap(err)
	}
	return sent.ID, nil
}

func (a *DiscordActions) CreateThread(ctx context.Context, channelID, messageID, name string) (string, error) {
	ch, err := a.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{Name: threadName(name)}, discordgo.WithContext(ctx))
	if err != nil {
		return "", wrap(err)
	}
	return ch.ID, nil
}

func (a *DiscordActions) EditThreadName(ctx context.Context, threadID, name string) error {
	_, err := a.session.ChannelEdit(threadID, &discordgo.ChannelEdit{Name: threadName(name)}, discordgo.WithContext(ctx))
	return wrap(err)
}

// PingRole sends a silent role mention and deletes it right away. The
// mention alone adds the role's members to the thread.
func (a *DiscordActions) PingRole(ctx context.Context, threadID, roleID string) error {
	if roleID == "" {
		return errors.New("no role configured")
	}
	msg, err := a.session.ChannelMessageSendComplex(threadID, &discordgo.MessageSend{
		Content:         "<@&" + roleID + ">",
		Flags:           discordgo.MessageFlagsSuppressNotifications,
		AllowedMentions: &discordgo.MessageAllowedMentions{Roles: []string{roleID}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return wrap(err)
	}
	return wrap(a.session.ChannelMessageDelete(threadID, msg.ID, discordgo.WithContext(ctx)))
}

func (a *DiscordActions) AddRoleMembers(ctx context.Context, threadID, roleID string) error {
	ch, err := a.channel(ctx, threadID)
	if err != nil {
		return err
	}

	after := ""
	for {
		members, err := a.session.GuildMembers(ch.GuildID, after, 1000, discordgo.WithContext(ctx))
		if err != nil {
			return wrap(err)
		}
		for _, m := range members {
			if m.User == nil || !slices.Contains(m.Roles, roleID) {
				continue
			}
			if err := a.session.ThreadMemberAdd(threadID, m.User.ID, discordgo.WithContext(ctx)); err != nil {
				return fmt.Errorf("add %s to thread: %w", m.User.ID, wrap(err))
			}
		}
		if len(members) < 1000 {
			return nil
		}
		after = members[len(members)-1].User.ID
	}
}

func (a *DiscordActions) SetThreadTags(ctx context.Context, threadID string, tags []string) error {
	_, err := a.session.ChannelEdit(threadID, &discordgo.ChannelEdit{AppliedTags: &tags}, discordgo.WithContext(ctx))
	return wrap(err)
}

// StartingMessage fetches the message a thread was started from; it
// shares the thread's ID.
func (a *DiscordActions) StartingMessage(ctx context.Context, thread models.Thread) (models.Message, error) {
	m, err := a.session.ChannelMessage(thread.ID, thread.ID, discordgo.WithContext(ctx))
	if err != nil {
		return models.Message{}, wrap(err)
	}
	return handlers.ToMessage(m), nil
}

func (a *DiscordActions) Thread(ctx context.Context, threadID string) (models.Thread, error) {
	ch, err := a.channel(ctx, threadID)
	if err != nil {
		return models.Thread{}, err
	}
	var parent *discordgo.Channel
	if ch.ParentID != "" {
		if parent, err = a.channel(ctx, ch.ParentID); err != nil {
			return models.Thread{}, err
		}
	}
	return handlers.ToThread(ch, parent), nil
}

func (a *DiscordActions) ThreadMessages(ctx context.Context, threadID string) ([]models.Message, error) {
	var (
		messages []models.Message
		before   string
	)
	for {
		page, err := a.session.ChannelMessages(threadID, 100, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, wrap(err)
		}
		// Pages come newest first.
		for _, m := range page {
			messages = append(messages, handlers.ToMessage(m))
		}
		if len(page) < 100 {
			break
		}
		before = page[len(page)-1].ID
	}
	slices.Reverse(messages)
	return messages, nil
}

func (a *DiscordActions) Typing(ctx context.Context, channelID string) error {
	return wrap(a.session.ChannelTyping(channelID, discordgo.WithContext(ctx)))
}

// channel prefers the state cache over a REST call.
func (a *DiscordActions) channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if a.session.State != nil {
		if ch, err := a.session.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	ch, err := a.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrap(err)
	}
	return ch, nil
}

// wrap maps 404 responses to handlers.ErrNotFound.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", handlers.ErrNotFound, err)
	}
	return err
}

// reactionID turns "<:name:id>" or "<a:name:id>" into "name:id", the
// form the API expects for custom emojis. Unicode emojis pass through.
func reactionID(emoji string) string {
	if !strings.HasPrefix(emoji, "<") || !strings.HasSuffix(emoji, ">") {
		return emoji
	}
	inner := strings.TrimPrefix(strings.TrimSuffix(emoji[1:], ">"), "a")
	return strings.TrimPrefix(inner, ":")
}

// Thread names are limited to 100 characters.
func threadName(name string) string {
	runes := []rune(name)
	if len(runes) > 100 {
		return string(runes[:100])
	}
	return name
}
