package handlers

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"chick-bot/classifier"
	"chick-bot/models"
	"chick-bot/reviews"
)

const (
	cvReply = "📝 Zavětřilo jsem CV\n\n" +
		"🙏 Na CV zatím zpětnou vazbu dávat neumím, ale třeba pomůže někdo jiný\n\n" +
		"💡 Přečti si [návod na CV](https://junior.guru/handbook/cv/) v příručce, ušetříš spoustu času sobě i nám! " +
		"Ve zpětné vazbě nebudeme muset opakovat rady z návodu a budeme se moci soustředit na to podstatné."

	githubReply = "<:github:842685206095724554> Zavětřilo jsem [GitHub profil](%s), jdu se v tom pohrabat…\n\n" +
		"💡 Přečti si [návod na GitHub profil](https://junior.guru/handbook/github-profile/) v příručce, pochopíš kontext mých doporučení."

	linkedinReply = "<:linkedin:915267970752712734> Zavětřilo jsem [LinkedIn profil](%s)\n\n" +
		"🙏 Na LinkedIn zatím zpětnou vazbu dávat neumím, ale třeba pomůže někdo jiný\n\n" +
		"💡 Přidej se do [naší LinkedIn skupiny](https://www.linkedin.com/groups/13988090/). " +
		"Můžeš se pak snadno propojit s ostatními členy a oni s tebou. " +
		"Zároveň se ti bude logo junior.guru zobrazovat na profilu v sekci „zájmy”. " +
		"Nevíme, jestli ti to přidá nějaký kredit u recruiterů, ale vyloučeno to není!"
)

// reviewThread looks for a CV, a GitHub profile and a LinkedIn profile in
// the starting message, replies to each and tags the thread. It may run
// again on the same thread, tags only accumulate.
func (h *Handler) reviewThread(ctx context.Context, starting models.Message, thread models.Thread) {
	var flags reviews.Flags

	if _, ok := classifier.FindCVURL(starting.Attachments); ok {
		flags.CV = true
		reviewsStarted.WithLabelValues("cv").Inc()
		h.logger.Info("found CV, reviewing", "thread", thread.Name)
		h.react(ctx, starting, emojiMicroscope)
		h.reply(ctx, starting, cvReply)
		h.pingReviewers(ctx, thread)
	}

	if githubURL, ok := classifier.FindGitHubURL(starting.Content); ok {
		flags.GitHub = true
		reviewsStarted.WithLabelValues("github").Inc()
		h.logger.Info("found GitHub profile, reviewing", "thread", thread.Name, "url", githubURL)
		h.react(ctx, starting, emojiMicroscope)
		h.reply(ctx, starting, fmt.Sprintf(githubReply, githubURL))
		h.checkGitHub(ctx, githubURL, thread)
	}

	if linkedinURL, ok := classifier.FindLinkedInURL(starting.Content); ok {
		flags.LinkedIn = true
		reviewsStarted.WithLabelValues("linkedin").Inc()
		h.logger.Info("found LinkedIn profile, reviewing", "thread", thread.Name, "url", linkedinURL)
		h.react(ctx, starting, emojiMicroscope)
		h.reply(ctx, starting, fmt.Sprintf(linkedinReply, linkedinURL))
		h.pingReviewers(ctx, thread)
	}

	h.tagReviewThread(ctx, thread, flags)
}

func (h *Handler) checkGitHub(ctx context.Context, githubURL string, thread models.Thread) {
	if err := h.actions.Typing(ctx, thread.ID); err != nil {
		h.logger.Debug("typing indicator failed", "error", err)
	}

	summary, err := h.checkProfile(ctx, githubURL)
	if err != nil {
		h.logger.Error("profile check failed", "url", githubURL, "error", err)
		summary = models.Summary{Error: err.Error()}
	}
	h.logger.Info("done reviewing", "url", githubURL, "ok", summary.Error == "")

	hasProfile := false
	if summary.Error == "" && h.profiles != nil {
		if hasProfile, err = h.profiles.HasProfile(ctx, summary.Username); err != nil {
			h.logger.Warn("cannot check candidate profiles", "error", err)
		}
	}

	for _, msg := range reviews.FormatSummary(summary, hasProfile, h.cfg.Bot.MaintainerID) {
		if _, err := h.actions.SendMessage(ctx, thread.ID, msg); err != nil {
			h.logger.Error("failed to send review summary", "thread", thread.Name, "error", err)
			return
		}
	}
}

func (h *Handler) checkProfile(ctx context.Context, githubURL string) (models.Summary, error) {
	if h.profiles == nil {
		return models.Summary{}, errors.New("profile checker not configured")
	}
	return h.profiles.Check(ctx, githubURL)
}

// tagReviewThread adds the forum tags for what was found. A tag missing
// from the forum is a deployment problem and goes to the error report,
// not to the user.
func (h *Handler) tagReviewThread(ctx context.Context, thread models.Thread, flags reviews.Flags) {
	tags, err := reviews.ComputeTags(thread.AppliedTags, thread.AvailableTags, flags)
	if err != nil {
		reviewTagErrors.Inc()
		h.logger.Error("cannot compute review tags", "thread", thread.Name, "error", err)
		h.report(ctx, fmt.Sprintf("⚠️ Cannot tag review thread <#%s>:\n\n```\n%s\n```", thread.ID, err))
		return
	}
	if slices.Equal(tags, thread.AppliedTags) {
		return
	}
	if err := h.actions.SetThreadTags(ctx, thread.ID, tags); err != nil {
		reviewTagErrors.Inc()
		h.logger.Error("failed to tag review thread", "thread", thread.Name, "error", err)
	}
}

func (h *Handler) reply(ctx context.Context, to models.Message, content string) {
	msg := models.OutgoingMessage{Content: content, ReplyTo: to.ID, SuppressEmbeds: true}
	if _, err := h.actions.SendMessage(ctx, to.ChannelID, msg); err != nil {
		h.logger.Error("failed to reply", "message_id", to.ID, "error", err)
	}
}

func (h *Handler) pingReviewers(ctx context.Context, thread models.Thread) {
	if err := h.actions.PingRole(ctx, thread.ID, h.cfg.Roles.Reviewer); err != nil {
		h.logger.Error("failed to ping reviewers", "thread", thread.Name, "error", err)
	}
}
