package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chick-bot/classifier"
	"chick-bot/interests"
	"chick-bot/models"
	"chick-bot/reviews"
)

const botID = "1"

type reaction struct {
	MessageID string
	Emoji     string
}

type sentMessage struct {
	ChannelID string
	Message   models.OutgoingMessage
}

type createdThread struct {
	ChannelID string
	MessageID string
	Name      string
}

type fakeActions struct {
	mu sync.Mutex

	starting    map[string]models.Message
	startingErr error
	messages    []models.Message
	roleErr     error

	reactions   []reaction
	sent        []sentMessage
	created     []createdThread
	renamed     map[string]string
	pings       []string
	roleMembers []string
	tags        map[string][]string
	typing      int
}

func newFakeActions() *fakeActions {
	return &fakeActions{
		starting: map[string]models.Message{},
		renamed:  map[string]string{},
		tags:     map[string][]string{},
	}
}

func (f *fakeActions) SelfID() string { return botID }

func (f *fakeActions) AddReaction(_ context.Context, _, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, reaction{MessageID: messageID, Emoji: emoji})
	return nil
}

func (f *fakeActions) SendMessage(_ context.Context, channelID string, msg models.OutgoingMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Message: msg})
	return "sent", nil
}

func (f *fakeActions) CreateThread(_ context.Context, channelID, messageID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, createdThread{ChannelID: channelID, MessageID: messageID, Name: name})
	return messageID, nil
}

func (f *fakeActions) EditThreadName(_ context.Context, threadID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renamed[threadID] = name
	return nil
}

func (f *fakeActions) PingRole(_ context.Context, _, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings = append(f.pings, roleID)
	return nil
}

func (f *fakeActions) AddRoleMembers(_ context.Context, threadID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roleErr != nil {
		return f.roleErr
	}
	f.roleMembers = append(f.roleMembers, threadID+"/"+roleID)
	return nil
}

func (f *fakeActions) SetThreadTags(_ context.Context, threadID string, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags[threadID] = tags
	return nil
}

func (f *fakeActions) StartingMessage(_ context.Context, thread models.Thread) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startingErr != nil {
		return models.Message{}, f.startingErr
	}
	msg, ok := f.starting[thread.ID]
	if !ok {
		return models.Message{}, ErrNotFound
	}
	return msg, nil
}

func (f *fakeActions) Thread(_ context.Context, threadID string) (models.Thread, error) {
	return models.Thread{ID: threadID}, nil
}

func (f *fakeActions) ThreadMessages(context.Context, string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages, nil
}

func (f *fakeActions) Typing(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return nil
}

func (f *fakeActions) emojis() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.reactions {
		out = append(out, r.Emoji)
	}
	return out
}

type fakeProfiles struct {
	summary    models.Summary
	err        error
	hasProfile bool
	checked    []string
}

func (p *fakeProfiles) Check(_ context.Context, profileURL string) (models.Summary, error) {
	p.checked = append(p.checked, profileURL)
	return p.summary, p.err
}

func (p *fakeProfiles) HasProfile(context.Context, string) (bool, error) {
	return p.hasProfile, nil
}

type fakeReporter struct {
	mu       sync.Mutex
	messages []string
}

func (r *fakeReporter) Report(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Wednesday.
var testNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func testConfig() models.Config {
	return models.Config{
		Bot: models.BotConfig{
			Timezone:     "Europe/Prague",
			OwnerID:      "999",
			MaintainerID: "777",
		},
		Roles: models.RolesConfig{Greeter: "100", Reviewer: "200"},
		Channels: models.ChannelsConfig{
			Intro:       "ahoj",
			Traps:       "past-vedle-pasti",
			Discoveries: "můj-dnešní-objev",
			Jobs:        "práce-inzeráty",
			Candidates:  "práce-hledám",
			Reviews:     "cv-github-linkedin",
			DiariesID:   "300",
		},
	}
}

type testEnv struct {
	handler  *Handler
	actions  *fakeActions
	profiles *fakeProfiles
	reporter *fakeReporter
	clock    *fixedClock
	store    *interests.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		actions:  newFakeActions(),
		profiles: &fakeProfiles{},
		reporter: &fakeReporter{},
		clock:    &fixedClock{now: testNow},
	}
	logger := slog.New(slog.DiscardHandler)
	env.store = interests.NewStore(env.clock, 24*time.Hour, env.reporter, logger)

	h, err := New(testConfig(), env.actions, env.store, env.profiles, env.reporter, logger)
	require.NoError(t, err)
	h.now = func() time.Time { return testNow }
	env.handler = h
	return env
}

func TestNewInvalidTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Bot.Timezone = "Mars/Olympus"
	_, err := New(cfg, newFakeActions(), nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestHandleMessageSkips(t *testing.T) {
	tests := []struct {
		name string
		msg  models.Message
	}{
		{name: "own message", msg: models.Message{ID: "10", ChannelID: "2", AuthorID: botID, Content: "Ahoj"}},
		{name: "system message", msg: models.Message{ID: "11", ChannelID: "2", AuthorID: "5", System: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.handler.HandleMessage(context.Background(), MessageEvent{Message: tt.msg, ChannelName: "ahoj"})
			assert.Empty(t, env.actions.created)
			assert.Empty(t, env.actions.sent)
		})
	}
}

func TestHandleMessageDuplicateDelivery(t *testing.T) {
	env := newTestEnv(t)
	ev := MessageEvent{
		Message:     models.Message{ID: "10", ChannelID: "2", AuthorID: "5", AuthorDisplayName: "Jana", Content: "Zase rozbitý build"},
		ChannelName: "past-vedle-pasti",
	}
	env.handler.HandleMessage(context.Background(), ev)
	env.handler.HandleMessage(context.Background(), ev)
	assert.Len(t, env.actions.created, 1)
}

func TestHandleMessageDirectMessage(t *testing.T) {
	env := newTestEnv(t)
	env.handler.HandleMessage(context.Background(), MessageEvent{
		Message:       models.Message{ID: "10", ChannelID: "dm", AuthorID: "5", Content: "Ahoj kuře"},
		DirectMessage: true,
	})

	require.Len(t, env.actions.sent, 1)
	got := env.actions.sent[0]
	assert.Equal(t, "dm", got.ChannelID)
	assert.Equal(t, dmReply, got.Message.Content)
	assert.Equal(t, "10", got.Message.ReplyTo)
	assert.Empty(t, env.actions.created)
}

func TestHandleMessageCreatesThreads(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		content string
		want    string
	}{
		{name: "intro", channel: "ahoj", content: "Ahoj, jsem Jana", want: "Ahoj Jana!"},
		{name: "intro ignores brackets", channel: "ahoj", content: "[python] Ahoj", want: "Ahoj Jana!"},
		{name: "traps", channel: "past-vedle-pasti", content: "Zase rozbitý build", want: "Středeční past na Jana"},
		{name: "traps with label", channel: "past-vedle-pasti", content: "[CSS] Zase flexbox", want: "Past na Jana: CSS"},
		{name: "discoveries", channel: "můj-dnešní-objev", content: "Našla jsem super nástroj", want: "Středeční objev od Jana"},
		{name: "discoveries with labels", channel: "můj-dnešní-objev", content: "[eslint,nextjs] Hele", want: "Objev od Jana: eslint, nextjs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.handler.HandleMessage(context.Background(), MessageEvent{
				Message:     models.Message{ID: "10", ChannelID: "2", AuthorID: "5", AuthorDisplayName: "Jana", Content: tt.content},
				ChannelName: tt.channel,
			})
			want := []createdThread{{ChannelID: "2", MessageID: "10", Name: tt.want}}
			if diff := cmp.Diff(want, env.actions.created); diff != "" {
				t.Errorf("created threads mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleMessageOtherChannel(t *testing.T) {
	env := newTestEnv(t)
	env.handler.HandleMessage(context.Background(), MessageEvent{
		Message:     models.Message{ID: "10", ChannelID: "2", AuthorID: "5", Content: "Ahoj"},
		ChannelName: "klub",
	})
	assert.Empty(t, env.actions.created)
	assert.Empty(t, env.actions.sent)
}

func TestHandleThreadCreateIntro(t *testing.T) {
	env := newTestEnv(t)
	content := "Ahoj, učím se Python a Docker. Kód mám na github.com/jana"
	starting := models.Message{ID: "50", ChannelID: "50", AuthorID: "5", AuthorDisplayName: "Jana", Content: content}
	env.actions.starting["50"] = starting

	env.handler.HandleThreadCreate(context.Background(), models.Thread{ID: "50", Name: "Ahoj, učím se", ParentName: "ahoj"})

	assert.Equal(t, classifier.Classify(content), env.actions.emojis())
	assert.Equal(t, map[string]string{"50": "Ahoj Jana!"}, env.actions.renamed)
	require.Len(t, env.actions.sent, 1)
	assert.Equal(t, IntroMessage(content), env.actions.sent[0].Message)
	assert.Equal(t, []string{"100"}, env.actions.pings)
}

func TestHandleThreadCreateIntroKeepsMatchingName(t *testing.T) {
	env := newTestEnv(t)
	env.actions.starting["50"] = models.Message{ID: "50", ChannelID: "50", AuthorID: "5", AuthorDisplayName: "Jana", Content: "Ahoj"}

	env.handler.HandleThreadCreate(context.Background(), models.Thread{ID: "50", Name: "Ahoj Jana!", ParentName: "ahoj"})
	assert.Empty(t, env.actions.renamed)
}

func TestHandleThreadCreateReactions(t *testing.T) {
	tests := []struct {
		channel string
		want    []string
	}{
		{channel: "práce-inzeráty", want: []string{emojiDK}},
		{channel: "práce-hledám", want: []string{emojiThumbsUp}},
		{channel: "klub"},
	}
	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			env := newTestEnv(t)
			env.actions.starting["50"] = models.Message{ID: "50", ChannelID: "50", AuthorID: "5", Content: "Hledám práci"}

			env.handler.HandleThreadCreate(context.Background(), models.Thread{ID: "50", ParentName: tt.channel})
			assert.Equal(t, tt.want, env.actions.emojis())
		})
	}
}

func TestHandleThreadCreateSkips(t *testing.T) {
	t.Run("no parent", func(t *testing.T) {
		env := newTestEnv(t)
		env.actions.starting["50"] = models.Message{ID: "50", AuthorID: "5", Content: "Ahoj"}
		env.handler.HandleThreadCreate(context.Background(), models.Thread{ID: "50"})
		assert.Empty(t, env.actions.reactions)
	})

	t.Run("starting message deleted", func(t *testing.T) {
		env := newTestEnv(t)
		env.handler.HandleThreadCreate(context.Background(), models.Thread{ID: "50", ParentName: "ahoj"})
		assert.Empty(t, env.actions.reactions)
		assert.Empty(t, env.actions.sent)
	})

	t.Run("started by the bot", func(t *testing.T) {
		env := newTestEnv(t)
		env.actions.starting["50"] = models.Message{ID: "50", AuthorID: botID, Content: "Ahoj"}
		env.handler.HandleThreadCreate(context.Background(), models.Thread{ID: "50", ParentName: "ahoj"})
		assert.Empty(t, env.actions.reactions)
	})

	t.Run("duplicate delivery", func(t *testing.T) {
		env := newTestEnv(t)
		env.actions.starting["50"] = models.Message{ID: "50", AuthorID: "5", Content: "Hledám práci"}
		thread := models.Thread{ID: "50", ParentName: "práce-hledám"}
		env.handler.HandleThreadCreate(context.Background(), thread)
		env.handler.HandleThreadCreate(context.Background(), thread)
		assert.Equal(t, []string{emojiThumbsUp}, env.actions.emojis())
	})
}

func reviewForum() map[string]string {
	return map[string]string{
		reviews.TagCV:       "t-cv",
		reviews.TagGitHub:   "t-gh",
		reviews.TagLinkedIn: "t-li",
		"ostatní":           "t-other",
	}
}

func TestHandleThreadCreateReview(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.summary = models.Summary{
		Username: "jana",
		Outcomes: []models.Outcome{{Status: models.StatusDone, Message: "Máš README", DocsURL: "https://junior.guru/handbook/github-profile/"}},
	}
	env.profiles.hasProfile = true
	env.actions.starting["60"] = models.Message{
		ID:        "60",
		ChannelID: "60",
		AuthorID:  "5",
		Content:   "Prosím o zpětnou vazbu https://github.com/jana a www.linkedin.com/in/jana-b-o",
		Attachments: []models.Attachment{
			{URL: "https://cdn.example/cv.pdf", ContentType: "application/pdf"},
		},
	}
	thread := models.Thread{ID: "60", ParentName: "cv-github-linkedin", AppliedTags: []string{"t-other"}, AvailableTags: reviewForum()}

	env.handler.HandleThreadCreate(context.Background(), thread)

	assert.Equal(t, []string{emojiMicroscope, emojiMicroscope, emojiMicroscope}, env.actions.emojis())
	assert.Equal(t, []string{"200", "200"}, env.actions.pings)
	assert.Equal(t, []string{"https://github.com/jana/"}, env.profiles.checked)
	assert.Equal(t, 1, env.actions.typing)
	assert.Equal(t, map[string][]string{"60": {"t-other", "t-cv", "t-gh", "t-li"}}, env.actions.tags)

	var replies, summary []models.OutgoingMessage
	for _, s := range env.actions.sent {
		if s.Message.ReplyTo == "60" {
			replies = append(replies, s.Message)
		} else {
			summary = append(summary, s.Message)
		}
	}
	require.Len(t, replies, 3)
	assert.Equal(t, cvReply, replies[0].Content)
	assert.Contains(t, replies[1].Content, "https://github.com/jana/")
	assert.Contains(t, replies[2].Content, "https://www.linkedin.com/in/jana-b-o/")
	for _, r := range replies {
		assert.True(t, r.SuppressEmbeds)
	}
	assert.Equal(t, reviews.FormatSummary(env.profiles.summary, true, "777"), summary)
	assert.Empty(t, env.reporter.messages)
}

func TestReviewEngineError(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.err = errors.New("engine down")
	env.actions.starting["60"] = models.Message{ID: "60", ChannelID: "60", AuthorID: "5", Content: "github.com/jana"}

	env.handler.HandleThreadCreate(context.Background(), models.Thread{ID: "60", ParentName: "cv-github-linkedin", AvailableTags: reviewForum()})

	last := env.actions.sent[len(env.actions.sent)-1].Message
	assert.Contains(t, last.Content, "engine down")
	assert.Contains(t, last.Content, "<@777>")
	assert.Equal(t, []string{"t-gh"}, env.actions.tags["60"])
}

func TestReviewWithoutFindingsKeepsTags(t *testing.T) {
	env := newTestEnv(t)
	env.actions.starting["60"] = models.Message{ID: "60", ChannelID: "60", AuthorID: "5", Content: "Co si myslíte o mém portfoliu?"}

	env.handler.HandleThreadCreate(context.Background(), models.Thread{ID: "60", ParentName: "cv-github-linkedin", AvailableTags: reviewForum()})

	assert.Empty(t, env.actions.tags)
	assert.Empty(t, env.actions.sent)
}

func TestReviewUnknownTagIsReported(t *testing.T) {
	env := newTestEnv(t)
	env.actions.starting["60"] = models.Message{ID: "60", ChannelID: "60", AuthorID: "5", Content: "linkedin.com/in/jana"}

	env.handler.HandleThreadCreate(context.Background(), models.Thread{
		ID:            "60",
		ParentName:    "cv-github-linkedin",
		AvailableTags: map[string]string{reviews.TagCV: "t-cv"},
	})

	assert.Empty(t, env.actions.tags)
	require.Len(t, env.reporter.messages, 1)
	assert.Contains(t, env.reporter.messages[0], reviews.TagLinkedIn)
}

func TestMentionInReviewThreadReruns(t *testing.T) {
	env := newTestEnv(t)
	thread := models.Thread{ID: "60", ParentName: "cv-github-linkedin", AppliedTags: []string{"t-li"}, AvailableTags: reviewForum()}
	env.actions.starting["60"] = models.Message{ID: "60", ChannelID: "60", AuthorID: "5", Content: "linkedin.com/in/jana"}

	env.handler.HandleMessage(context.Background(), MessageEvent{
		Message:     models.Message{ID: "61", ChannelID: "60", AuthorID: "5", Content: "<@1> znova prosím"},
		ChannelName: "cv-github-linkedin",
		Thread:      &thread,
		MentionsBot: true,
	})

	assert.Equal(t, []string{emojiMicroscope}, env.actions.emojis())
	require.NotEmpty(t, env.actions.reactions)
	assert.Equal(t, "60", env.actions.reactions[0].MessageID)
	// The tag is already applied.
	assert.Empty(t, env.actions.tags)
}

func TestThreadMessageWithoutMentionDoesNotReview(t *testing.T) {
	env := newTestEnv(t)
	thread := models.Thread{ID: "60", ParentName: "cv-github-linkedin", AvailableTags: reviewForum()}
	env.actions.starting["60"] = models.Message{ID: "60", ChannelID: "60", AuthorID: "5", Content: "linkedin.com/in/jana"}

	env.handler.HandleMessage(context.Background(), MessageEvent{
		Message:     models.Message{ID: "61", ChannelID: "60", AuthorID: "5", Content: "díky"},
		ChannelName: "cv-github-linkedin",
		Thread:      &thread,
	})
	assert.Empty(t, env.actions.reactions)
}

func trackInterest(t *testing.T, env *testEnv, threadID, roleID int64) {
	t.Helper()
	env.store.Refresh(context.Background(), func(context.Context) ([]models.FeedItem, error) {
		return []models.FeedItem{{ThreadID: threadID, RoleID: roleID}}, nil
	})
	_, ok := env.store.Get(threadID)
	require.True(t, ok)
}

func threadMessage(id string, thread *models.Thread) MessageEvent {
	return MessageEvent{
		Message:     models.Message{ID: id, ChannelID: thread.ID, AuthorID: "5", Content: "Ahoj"},
		ChannelName: "klub",
		Thread:      thread,
	}
}

func TestInterestNotification(t *testing.T) {
	env := newTestEnv(t)
	trackInterest(t, env, 123, 456)
	thread := &models.Thread{ID: "123", ParentName: "klub"}

	env.handler.HandleMessage(context.Background(), threadMessage("10", thread))
	assert.Equal(t, []string{"123/456"}, env.actions.roleMembers)

	env.clock.Advance(time.Hour)
	env.handler.HandleMessage(context.Background(), threadMessage("11", thread))
	assert.Len(t, env.actions.roleMembers, 1, "within cooldown")

	env.clock.Advance(23 * time.Hour)
	env.handler.HandleMessage(context.Background(), threadMessage("12", thread))
	assert.Len(t, env.actions.roleMembers, 2, "cooldown elapsed")
}

func TestInterestNotificationUntrackedThread(t *testing.T) {
	env := newTestEnv(t)
	trackInterest(t, env, 123, 456)

	env.handler.HandleMessage(context.Background(), threadMessage("10", &models.Thread{ID: "124", ParentName: "klub"}))
	assert.Empty(t, env.actions.roleMembers)
}

func TestInterestNotificationFailureIsReported(t *testing.T) {
	env := newTestEnv(t)
	trackInterest(t, env, 123, 456)
	env.actions.roleErr = errors.New("missing access")

	env.handler.HandleMessage(context.Background(), threadMessage("10", &models.Thread{ID: "123", ParentName: "klub"}))

	require.Len(t, env.reporter.messages, 1)
	assert.Contains(t, env.reporter.messages[0], "missing access")
	assert.Contains(t, env.reporter.messages[0], "<@&456>")
}

func TestHandleCommandHelp(t *testing.T) {
	env := newTestEnv(t)
	resp := env.handler.HandleCommand(context.Background(), CommandEvent{Name: "help", UserID: "5"})
	assert.Contains(t, resp.Content, "https://junior.guru/about/bot/")
	assert.False(t, resp.Ephemeral)
}

func TestHandleCommandDiscordID(t *testing.T) {
	env := newTestEnv(t)
	resp := env.handler.HandleCommand(context.Background(), CommandEvent{Name: "discord_id", UserID: "668226181769986078"})
	assert.Contains(t, resp.Content, "`668226181769986078`")
}

func TestHandleCommandUnknown(t *testing.T) {
	env := newTestEnv(t)
	resp := env.handler.HandleCommand(context.Background(), CommandEvent{Name: "ping", UserID: "5"})
	assert.True(t, resp.Ephemeral)
}

func TestHandleCommandExport(t *testing.T) {
	diary := models.Thread{
		ID:        "1240259512342872074",
		Name:      "Deníček Jany",
		ParentID:  "300",
		CreatedAt: time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC),
	}
	messages := []models.Message{
		{ID: "1240259512342872074", AuthorID: "5", AuthorDisplayName: "Jana", Content: "Den 1", Timestamp: diary.CreatedAt},
		{ID: "1240259512342872075", AuthorID: "6", AuthorDisplayName: "Petr", Content: "Drž se!", Timestamp: diary.CreatedAt.Add(time.Minute)},
	}

	tests := []struct {
		name        string
		userID      string
		permissions int64
		thread      *models.Thread
		wantFile    bool
	}{
		{name: "outside a thread", userID: "5"},
		{name: "another channel", userID: "5", thread: &models.Thread{ID: "70", ParentID: "301"}},
		{name: "stranger", userID: "8", thread: &diary},
		{name: "author", userID: "5", thread: &diary, wantFile: true},
		{name: "owner", userID: "999", thread: &diary, wantFile: true},
		{name: "moderator", userID: "8", permissions: discordgo.PermissionManageMessages, thread: &diary, wantFile: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.actions.starting[diary.ID] = messages[0]
			env.actions.messages = messages

			resp := env.handler.HandleCommand(context.Background(), CommandEvent{
				Name:        "export_denicky",
				UserID:      tt.userID,
				Permissions: tt.permissions,
				Thread:      tt.thread,
			})
			assert.True(t, resp.Ephemeral)
			if !tt.wantFile {
				assert.Empty(t, resp.Files)
				return
			}

			require.Len(t, resp.Files, 1)
			file := resp.Files[0]
			assert.Equal(t, "thread_1240259512342872074.json", file.Name)
			assert.Contains(t, resp.Content, "(2 zpráv)")

			var doc struct {
				ID       int64  `json:"id"`
				Name     string `json:"name"`
				Messages []struct {
					AuthorName string `json:"author_name"`
					Content    string `json:"content"`
				} `json:"messages"`
			}
			require.NoError(t, json.Unmarshal(file.Data, &doc))
			assert.Equal(t, int64(1240259512342872074), doc.ID)
			assert.Equal(t, "Deníček Jany", doc.Name)
			require.Len(t, doc.Messages, 2)
			assert.Equal(t, "Jana", doc.Messages[0].AuthorName)
			assert.Equal(t, "Drž se!", doc.Messages[1].Content)
		})
	}
}

func TestIntroMessage(t *testing.T) {
	plain := IntroMessage("Ahoj, jsem Jana")
	assert.NotContains(t, plain.Content, "profil na GitHubu")
	assert.True(t, slices.ContainsFunc(plain.Buttons, func(b models.LinkButton) bool {
		return b.URL == "https://junior.guru/handbook/"
	}))
	assert.Len(t, plain.Buttons, 2)

	withGitHub := IntroMessage("Kód mám na https://github.com/jana")
	assert.Contains(t, withGitHub.Content, "profil na GitHubu")
}

func TestFirstDeliveryConcurrent(t *testing.T) {
	env := newTestEnv(t)
	for round := 0; round < 50; round++ {
		key := "thread:" + strconv.Itoa(round)
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if env.handler.firstDelivery(key) {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, winners, key)
	}
}
