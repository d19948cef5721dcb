package handlers

import (
	"strings"

	"chick-bot/models"
)

const (
	introGreeting = "Píp, píp! Tady kuře, místní robot. Vítej v klubu 👋\n\n" +
		"Dík, že se představuješ! Když o tobě víme víc, můžeme ti líp radit <:meowthumbsup:842730599906279494>"

	introGitHub = "\n\nVidím, že máš **profil na GitHubu**. " +
		"Hoď ho do <#1123527619716055040> a dám ti na něj zpětnou vazbu. " +
		"Možná si už můžeš hledat práci přes [junior.guru/candidates](https://junior.guru/candidates/)?" +
		"<a:awkward:985064290044223488>"

	introTips = "\n\nPředstavení můžeš kdyžtak doplnit či změnit přes tři tečky a „Upravit zprávu“ 📝\n\n" +
		"- Nevíš co dál? Popiš svou situaci do <#788826407412170752>\n" +
		"- Vybíráš kurz? Založ vlákno v <#1075052469303906335>\n" +
		"- Hledáš konkrétní recenze? Zkus vyhledávání\n" +
		"- Dotaz? Hurá do <#1067439203983568986>\n" +
		"- Záznamy přednášek? <#1169636415387205632>\n" +
		"- Něco jiného? <#769966887055392768> snese cokoliv\n" +
		"- Nevíš, jak to tady funguje? Ptej se v <#806215364379148348>"

	introFooter = "\n\nA nezapomeň, že junior.guru není jenom klub. " +
		"Tady aspoň dva odkazy, které fakt nechceš minout: "
)

// IntroMessage is the welcome posted into a new introduction thread.
func IntroMessage(introContent string) models.OutgoingMessage {
	var b strings.Builder
	b.WriteString(introGreeting)
	if strings.Contains(introContent, "github.com/") {
		b.WriteString(introGitHub)
	}
	b.WriteString(introTips)
	b.WriteString(introFooter)

	return models.OutgoingMessage{
		Content: b.String(),
		Buttons: []models.LinkButton{
			{Label: "📖 Příručka", URL: "https://junior.guru/handbook/"},
			{Label: "💌 Newsletter", URL: "https://junior.guru/news/"},
		},
	}
}
