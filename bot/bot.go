package bot

import (
	"context"
	"fmt"
	"strings"

	"reiatsu/bot/common"
	"reiatsu/bot/features/classes"
	"reiatsu/bot/features/collection"
	"reiatsu/bot/features/fun"
	"reiatsu/bot/features/games"
	"reiatsu/bot/features/garden"
	"reiatsu/bot/features/reiatsu"
	"reiatsu/bot/features/rpg"
	"reiatsu/bot/features/settings"
	"reiatsu/bot/features/shop"
	"reiatsu/bot/features/sortviz"
	"reiatsu/bot/features/spawn"
	"reiatsu/bot/features/steal"
	"reiatsu/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Bot manages the Discord session and all feature modules
type Bot struct {
	// Core components
	session  *discordgo.Session
	deps     *common.Deps
	eventBus *events.Bus
	metrics  CommandRecorder

	// Feature modules
	reiatsu    *reiatsu.Feature
	steal      *steal.Feature
	classes    *classes.Feature
	spawn      *spawn.Feature
	shop       *shop.Feature
	rpg        *rpg.Feature
	games      *games.Feature
	sortviz    *sortviz.Feature
	garden     *garden.Feature
	collection *collection.Feature
	fun        *fun.Feature
	settings   *settings.Feature

	// Worker cleanup functions
	stopSpawnWorker   func()
	stopSessionWorker func()
}

// CommandRecorder counts handled commands
type CommandRecorder interface {
	RecordCommand(ctx context.Context, name string)
}

type noopRecorder struct{}

func (noopRecorder) RecordCommand(context.Context, string) {}

// New creates the Discord session, opens the gateway and registers commands
func New(deps *common.Deps, eventBus *events.Bus, metrics CommandRecorder) (*Bot, error) {
	dg, err := discordgo.New("Bot " + deps.Config.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	if metrics == nil {
		metrics = noopRecorder{}
	}

	bot := &Bot{
		session:  dg,
		deps:     deps,
		eventBus: eventBus,
		metrics:  metrics,
	}

	// Create feature modules
	bot.reiatsu = reiatsu.New(deps)
	bot.steal = steal.New(deps)
	bot.classes = classes.New(deps)
	bot.spawn = spawn.New(deps)
	bot.shop = shop.New(deps)
	bot.rpg = rpg.New(deps)
	bot.games = games.New(deps)
	bot.sortviz = sortviz.New(deps)
	bot.garden = garden.New(deps)
	bot.collection = collection.New(deps)
	bot.fun = fun.New()
	bot.settings = settings.New(deps)

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.spawn.HandleReaction)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infof("Logged in as %s#%s in %d guilds", r.User.Username, r.User.Discriminator, len(r.Guilds))
	})

	bot.registerSubscriptions()

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start background workers
	ctx := context.Background()
	bot.stopSpawnWorker = bot.StartSpawnWorker(ctx)
	bot.stopSessionWorker = bot.StartSessionCleanupWorker(ctx)
	log.Info("Background workers started")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	// Stop background workers
	if b.stopSpawnWorker != nil {
		b.stopSpawnWorker()
	}
	if b.stopSessionWorker != nil {
		b.stopSessionWorker()
	}
	b.games.Close()
	log.Info("Background workers stopped")

	return b.session.Close()
}

// ForceSpawn releases a spawn in the guild now, used by the admin panel
func (b *Bot) ForceSpawn(ctx context.Context, guildID int64) error {
	return b.spawn.Force(ctx, b.session, guildID)
}

// handleCommands routes slash commands and autocomplete requests to features
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
	case discordgo.InteractionApplicationCommandAutocomplete:
		if i.ApplicationCommandData().Name == "rpg" {
			b.rpg.HandleAutocomplete(s, i)
		}
		return
	default:
		return
	}

	name := i.ApplicationCommandData().Name
	b.metrics.RecordCommand(context.Background(), name)

	switch name {
	case "reiatsu":
		b.reiatsu.HandleCommand(s, i)
	case "steal":
		b.steal.HandleCommand(s, i)
	case "class":
		b.classes.HandleClassCommand(s, i)
	case "skill":
		b.classes.HandleSkillCommand(s, i)
	case "spawn":
		b.spawn.HandleCommand(s, i)
	case "shop":
		b.shop.HandleCommand(s, i)
	case "rpg":
		b.rpg.HandleCommand(s, i)
	case "memory", "quiz", "anagram":
		b.games.HandleCommand(s, i)
	case "sort":
		b.sortviz.HandleCommand(s, i)
	case "garden":
		b.garden.HandleCommand(s, i)
	case "garage":
		b.collection.HandleCommand(s, i)
	case "say", "emoji", "calc":
		b.fun.HandleCommand(s, i)
	case "settings":
		b.settings.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "shop_"):
		b.shop.HandleInteraction(s, i)

	case strings.HasPrefix(customID, "memory_"), strings.HasPrefix(customID, "quiz_"):
		b.games.HandleInteraction(s, i)
	}
}

// handleMessageCreate feeds anagram rounds and prefix commands
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Skip messages from bots, including our own
	if m.Author == nil || m.Author.Bot {
		return
	}

	if m.GuildID == "" {
		log.Debugf("Skipping message %s - not from a guild (possibly a DM)", m.ID)
		return
	}

	if b.games.HandleMessage(s, m) {
		return
	}
	b.handlePrefixCommand(s, m)
}
