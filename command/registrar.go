package command

import "github.com/bwmarrin/discordgo"

// Command is an interface for application commands.
type Command interface {
	Definition() *discordgo.ApplicationCommand
}

// deferrer is implemented by commands that acknowledge the interaction
// first and answer with a followup message.
type deferrer interface {
	Deferred() bool
}

// AllCommands holds all the command instances.
var AllCommands = []Command{
	&HelpCommand{},
	&DiscordIDCommand{},
	&ExportDiariesCommand{},
}

// GetCommandDefinitions returns a slice of all command definitions.
func GetCommandDefinitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, len(AllCommands))
	for i, cmd := range AllCommands {
		defs[i] = cmd.Definition()
	}
	return defs
}

// IsDeferred reports whether the named command answers with a followup.
func IsDeferred(name string) bool {
	for _, cmd := range AllCommands {
		if cmd.Definition().Name != name {
			continue
		}
		d, ok := cmd.(deferrer)
		return ok && d.Deferred()
	}
	return false
}
