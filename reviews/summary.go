package reviews

import (
	"fmt"

	"chick-bot/models"
)

// Embed colours per outcome status.
var colors = map[models.Status]int{
	models.StatusError:   0xe74c3c,
	models.StatusWarning: 0xe67e22,
	models.StatusInfo:    0x3498db,
	models.StatusDone:    0x2ecc71,
}

// IsReady reports whether no outcome is an error, i.e. the profile is
// good enough to start applying for jobs.
func IsReady(outcomes []models.Outcome) bool {
	for _, outcome := range outcomes {
		if outcome.Status == models.StatusError {
			return false
		}
	}
	return true
}

// FormatSummary renders a GitHub profile review as the messages posted
// to the review thread. hasProfile tells whether the user is already
// listed among candidates. An engine error becomes a single message
// pinging maintainerID.
func FormatSummary(summary models.Summary, hasProfile bool, maintainerID string) []models.OutgoingMessage {
	if summary.Error != "" {
		return []models.OutgoingMessage{{
			Content: fmt.Sprintf(
				"🔬 Kouklo jsem na ten GitHub, ale bohužel to skončilo chybou 🤕\n```\n%s\n```\n<@%s>, mrkni na to, prosím.",
				summary.Error, maintainerID,
			),
			SuppressEmbeds: true,
		}}
	}

	messages := []models.OutgoingMessage{{Content: "🔬 Tak jsem kouklo na ten GitHub."}}
	for _, outcome := range summary.Outcomes {
		messages = append(messages, models.OutgoingMessage{
			Embeds: []models.Embed{{
				Color:       colors[outcome.Status],
				Description: fmt.Sprintf("%s\n\nℹ️ [Vysvětlení](%s)", outcome.Message, outcome.DocsURL),
			}},
		})
	}
	messages = append(messages, models.OutgoingMessage{Content: "Hotovo! ✨"})

	if !IsReady(summary.Outcomes) {
		return append(messages, models.OutgoingMessage{
			Content: "Vidím zásadní nedostatky 🔴 Oprav si to, než si začneš hledat práci. " +
				"Až uděláš změny, stačí mě označit v tomto vlákně a projedu to znova 🔬",
		})
	}

	messages = append(messages, models.OutgoingMessage{
		Content: "Nevidím žádné zásadní nedostatky! Hledej si práci v oboru! 💪",
	})
	if hasProfile {
		return append(messages, models.OutgoingMessage{
			Content:        "Profil na [junior.guru/candidates](https://junior.guru/candidates/) už máš, výborně! 🚀",
			SuppressEmbeds: true,
		})
	}
	return append(messages, models.OutgoingMessage{
		Content: "Udělej Pull Request na [github.com/juniorguru/eggtray](https://github.com/juniorguru/eggtray) " +
			"a vytvoř si profil na [junior.guru/candidates](https://junior.guru/candidates/)! 🚀",
		SuppressEmbeds: true,
	})
}
