package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"chick-bot/interests"
	"chick-bot/models"
	"chick-bot/utils"
)

// ErrNotFound is returned by Actions when a message or channel does not
// exist (anymore).
var ErrNotFound = errors.New("not found")

// Actions is everything the handlers need from the chat platform.
type Actions interface {
	// SelfID returns the bot's own user ID.
	SelfID() string
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	// SendMessage posts msg to channelID and returns the new message ID.
	SendMessage(ctx context.Context, channelID string, msg models.OutgoingMessage) (string, error)
	// CreateThread starts a thread from a message and returns its ID.
	CreateThread(ctx context.Context, channelID, messageID, name string) (string, error)
	EditThreadName(ctx context.Context, threadID, name string) error
	// PingRole notifies a role in a thread without leaving a message behind.
	PingRole(ctx context.Context, threadID, roleID string) error
	// AddRoleMembers adds every member holding roleID to the thread.
	AddRoleMembers(ctx context.Context, threadID, roleID string) error
	SetThreadTags(ctx context.Context, threadID string, tags []string) error
	// StartingMessage returns the message the thread was started from.
	StartingMessage(ctx context.Context, thread models.Thread) (models.Message, error)
	Thread(ctx context.Context, threadID string) (models.Thread, error)
	// ThreadMessages returns all messages of a thread, oldest first.
	ThreadMessages(ctx context.Context, threadID string) ([]models.Message, error)
	Typing(ctx context.Context, channelID string) error
}

// ProfileChecker reviews GitHub profiles.
type ProfileChecker interface {
	Check(ctx context.Context, profileURL string) (models.Summary, error)
	HasProfile(ctx context.Context, username string) (bool, error)
}

// MessageEvent is an incoming message together with where it was posted.
type MessageEvent struct {
	Message models.Message
	// ChannelName is the channel the message was posted to, or the
	// thread's parent channel when Thread is set.
	ChannelName   string
	Thread        *models.Thread
	DirectMessage bool
	MentionsBot   bool
}

// Handler reacts to chat events.
type Handler struct {
	cfg       models.Config
	actions   Actions
	interests *interests.Store
	profiles  ProfileChecker
	reporter  utils.Reporter
	auth      *utils.Auth
	location  *time.Location
	now       func() time.Time
	seenMu    sync.Mutex
	seen      *expirable.LRU[string, struct{}]
	logger    *slog.Logger
}

// New creates a Handler. profiles may be nil, GitHub reviews then report
// an engine error.
func New(cfg models.Config, actions Actions, store *interests.Store, profiles ProfileChecker, reporter utils.Reporter, logger *slog.Logger) (*Handler, error) {
	location, err := time.LoadLocation(cfg.Bot.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:       cfg,
		actions:   actions,
		interests: store,
		profiles:  profiles,
		reporter:  reporter,
		auth:      utils.NewAuth(cfg.Bot.OwnerID),
		location:  location,
		now:       time.Now,
		seen:      expirable.NewLRU[string, struct{}](4096, nil, 10*time.Minute),
		logger:    logger.With("system", "handlers"),
	}, nil
}

// firstDelivery reports whether key is seen for the first time. The
// gateway may deliver the same event more than once.
func (h *Handler) firstDelivery(key string) bool {
	h.seenMu.Lock()
	defer h.seenMu.Unlock()
	if h.seen.Contains(key) {
		duplicateEvents.Inc()
		return false
	}
	h.seen.Add(key, struct{}{})
	return true
}

func (h *Handler) report(ctx context.Context, message string) {
	if h.reporter != nil {
		h.reporter.Report(ctx, message)
	}
}
