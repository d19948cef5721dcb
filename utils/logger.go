package utils

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

var reportsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chick_error_reports_total",
	Help: "Error reports sent to the error channel",
}, []string{"result"})

// NewLogger returns the process logger. Debug enables debug level.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Reporter receives human readable error reports.
type Reporter interface {
	Report(ctx context.Context, message string)
}

// EmbedSender posts embeds to a channel. *discordgo.Session implements it.
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordReporter posts error reports to an admin channel. Without a
// channel it only logs.
type DiscordReporter struct {
	sender    EmbedSender
	channelID string
	logger    *slog.Logger
	now       func() time.Time
}

// NewDiscordReporter creates a reporter posting to channelID.
func NewDiscordReporter(sender EmbedSender, channelID string, logger *slog.Logger) *DiscordReporter {
	if channelID == "" {
		logger.Warn("bot.error_channel_id is not set, error reports will only be logged")
	}
	return &DiscordReporter{sender: sender, channelID: channelID, logger: logger, now: time.Now}
}

// Report sends message to the error channel. Delivery failures are
// logged and never returned.
func (r *DiscordReporter) Report(ctx context.Context, message string) {
	if r.sender == nil || r.channelID == "" {
		r.logger.Error("error report", "details", message)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Log Level: ERROR",
		Color:       ColorError,
		Description: message,
		Timestamp:   r.now().Format(time.RFC3339),
	}
	if _, err := r.sender.ChannelMessageSendEmbed(r.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		reportsSent.WithLabelValues("error").Inc()
		r.logger.Error("failed to send error report", "error", err, "details", message)
		return
	}
	reportsSent.WithLabelValues("ok").Inc()
}
