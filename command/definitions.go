package command

import "github.com/bwmarrin/discordgo"

// HelpCommand defines the structure for the /help command.
type HelpCommand struct{}

// Definition returns the application command definition.
func (c *HelpCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "help",
		Description: "Nápověda k použití kuřete",
	}
}

// DiscordIDCommand defines the structure for the /discord_id command.
type DiscordIDCommand struct{}

// Definition returns the application command definition.
func (c *DiscordIDCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "discord_id",
		Description: "Jaké je tvoje Discord ID?",
	}
}

// ExportDiariesCommand defines the structure for the /export_denicky
// command. Fetching a long thread takes a while, so the response is
// deferred.
type ExportDiariesCommand struct{}

// Definition returns the application command definition.
func (c *ExportDiariesCommand) Definition() *discordgo.ApplicationCommand {
	dm := false
	return &discordgo.ApplicationCommand{
		Name:         "export_denicky",
		Description:  "Exportuj vlákno z deníčků do JSON",
		DMPermission: &dm,
	}
}

func (c *ExportDiariesCommand) Deferred() bool { return true }
