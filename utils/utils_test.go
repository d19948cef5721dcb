package utils

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu     sync.Mutex
	embeds map[string][]*discordgo.MessageEmbed
	err    error
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.embeds == nil {
		f.embeds = make(map[string][]*discordgo.MessageEmbed)
	}
	f.embeds[channelID] = append(f.embeds[channelID], embed)
	return &discordgo.Message{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiscordReporter(t *testing.T) {
	sender := &fakeSender{}
	reporter := NewDiscordReporter(sender, "1135903241792651365", discardLogger())
	reporter.now = func() time.Time { return time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC) }

	reporter.Report(context.Background(), "⚠️ Failed to fetch interests")

	embeds := sender.embeds["1135903241792651365"]
	require.Len(t, embeds, 1)
	assert.Equal(t, "⚠️ Failed to fetch interests", embeds[0].Description)
	assert.Equal(t, ColorError, embeds[0].Color)
	assert.Equal(t, "2024-05-15T12:00:00Z", embeds[0].Timestamp)
}

func TestDiscordReporterSwallowsFailures(t *testing.T) {
	reporter := NewDiscordReporter(&fakeSender{err: errors.New("403 Forbidden")}, "1", discardLogger())
	assert.NotPanics(t, func() { reporter.Report(context.Background(), "boom") })
}

func TestDiscordReporterWithoutChannel(t *testing.T) {
	sender := &fakeSender{}
	NewDiscordReporter(sender, "", discardLogger()).Report(context.Background(), "boom")
	assert.Empty(t, sender.embeds)
}

func TestCanExportThread(t *testing.T) {
	auth := NewAuth("1")

	tests := []struct {
		name        string
		userID      string
		permissions int64
		author      string
		want        bool
	}{
		{name: "owner", userID: "1", author: "3", want: true},
		{name: "moderator", userID: "2", permissions: discordgo.PermissionManageMessages | discordgo.PermissionSendMessages, author: "3", want: true},
		{name: "starting message author", userID: "3", permissions: discordgo.PermissionSendMessages, author: "3", want: true},
		{name: "someone else", userID: "4", permissions: discordgo.PermissionSendMessages, author: "3", want: false},
		{name: "unknown author", userID: "4", author: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.CanExportThread(tt.userID, tt.permissions, tt.author))
		})
	}

	assert.False(t, NewAuth("").IsOwner(""), "empty owner matches nobody")
}

func TestParseID(t *testing.T) {
	id, err := ParseID("1135903241792651365")
	require.NoError(t, err)
	assert.Equal(t, int64(1135903241792651365), id)
	assert.Equal(t, "1135903241792651365", FormatID(id))

	_, err = ParseID("general")
	assert.Error(t, err)
}
