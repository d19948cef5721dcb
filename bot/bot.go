package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"

	"chick-bot/command"
	"chick-bot/interests"
	"chick-bot/models"
	"chick-bot/utils"
)

// Bot encapsulates the bot's state.
type Bot struct {
	Session   *discordgo.Session
	Actions   *DiscordActions
	Reporter  *utils.DiscordReporter
	Interests *interests.Store

	cfg     models.Config
	fetcher interests.FetchFunc
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a Bot. Nothing connects until Start.
func New(cfg models.Config, logger *slog.Logger) (*Bot, error) {
	if cfg.DiscordAPIKey == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordAPIKey)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	logger = logger.With("system", "bot")
	reporter := utils.NewDiscordReporter(dg, cfg.Bot.ErrorChannelID, logger)
	fetcher := interests.NewHTTPFetcher(cfg.Interests.URL, nil)

	return &Bot{
		Session:   dg,
		Actions:   NewDiscordActions(dg),
		Reporter:  reporter,
		Interests: interests.NewStore(interests.RealClock(), cfg.Interests.Cooldown, reporter, logger),
		cfg:       cfg,
		fetcher:   interests.WithTimeout(countFetches(fetcher.Fetch), cfg.Interests.Timeout),
		logger:    logger,
	}, nil
}

// Start opens the bot's session, registers slash commands and starts the
// scheduler. Event handlers must be added before.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	for _, def := range command.GetCommandDefinitions() {
		if _, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", def, discordgo.WithContext(ctx)); err != nil {
			b.logger.Error("cannot create command", "command", def.Name, "error", err)
		}
	}

	if err := b.startScheduler(ctx); err != nil {
		b.Session.Close()
		return err
	}

	b.logger.Info("bot is now running")
	return nil
}

// Stop gracefully closes the bot's session.
func (b *Bot) Stop() {
	b.stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	b.logger.Info("bot stopped gracefully")
}

// Wait blocks until the process is asked to terminate or ctx is done.
func Wait(ctx context.Context) {
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer signal.Stop(sc)

	select {
	case <-sc:
	case <-ctx.Done():
	}
}

func (b *Bot) location() *time.Location {
	loc, err := time.LoadLocation(b.cfg.Bot.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
