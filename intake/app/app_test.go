package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/clanintake/core/config"
	"github.com/m3rciful/clanintake/core/metrics"
	coretelegram "github.com/m3rciful/clanintake/core/telegram"
	"github.com/m3rciful/clanintake/core/telegram/state"
	"github.com/m3rciful/clanintake/intake/form"
	"github.com/m3rciful/clanintake/intake/messaging"
	"github.com/m3rciful/clanintake/intake/messaging/messagingtest"
	"github.com/m3rciful/clanintake/intake/review"

	tele "gopkg.in/telebot.v4"
)

const (
	applicantID = int64(42)
	reviewerID  = int64(500)
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOT_TOKEN", "ADMIN_ID", "PORT", "TELEGRAM_RUN_MODE", "EXAMPLE_IMAGE",
		"REVIEW_TIMEZONE", "DB_HOST", "DB_NAME", "METRICS_LISTEN", "CONFIG_PATH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Form.ExampleImage != DefaultExampleImage {
		t.Fatalf("example image = %q", cfg.Form.ExampleImage)
	}
	if cfg.Database.Enabled() {
		t.Fatalf("database enabled without DB_HOST")
	}
	if cfg.ReviewerConfigured() {
		t.Fatalf("reviewer configured without ADMIN_ID")
	}
	if cfg.CoreConfig().Health.Port != coreconfig.DefaultHealthPort {
		t.Fatalf("health port = %d", cfg.CoreConfig().Health.Port)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bot.yaml")
	yaml := "telegram:\n  token: \"1:yaml\"\n  admin_id: 500\n" +
		"form:\n  example_image: \"-\"\n" +
		"review:\n  timezone: UTC\n" +
		"database:\n  host: db\n  name: intake\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ADMIN_ID", "501")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.Token != "1:yaml" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminID != 501 {
		t.Fatalf("admin id = %d, want env override", cfg.Telegram.AdminID)
	}
	if cfg.Form.ExampleImage != "" {
		t.Fatalf("example image = %q, want disabled", cfg.Form.ExampleImage)
	}
	if cfg.Database.Port != "5432" {
		t.Fatalf("db port = %q", cfg.Database.Port)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("location = %v, %v", loc, err)
	}
}

func TestLoadConfigRejectsUnknownTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("REVIEW_TIMEZONE", "Nowhere/Bogus")
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("unknown timezone accepted")
	}
}

func testConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.AdminID = reviewerID
	cfg.Health.Host = "127.0.0.1"
	return cfg
}

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return b
}

type harness struct {
	bot     *tele.Bot
	rec     *messagingtest.Recorder
	pending *review.Pending
	h       *handlers
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	rec := messagingtest.NewRecorder()
	pending := review.NewPending()
	return &harness{
		bot:     offlineBot(t),
		rec:     rec,
		pending: pending,
		h: &handlers{
			machine: form.New(form.Options{
				Store:   state.NewMemoryStore(),
				Gateway: rec,
				Submitter: review.NewRouter(review.RouterOptions{
					Gateway:    rec,
					Pending:    pending,
					ReviewerID: reviewerID,
					Location:   time.UTC,
				}),
			}),
			resolver: review.NewResolver(review.ResolverOptions{Gateway: rec, Pending: pending}),
		},
	}
}

func (hs *harness) message(m *tele.Message) tele.Context {
	m.Sender = &tele.User{ID: applicantID, FirstName: "Ann", Username: "ann"}
	m.Chat = &tele.Chat{ID: applicantID}
	return hs.bot.NewContext(tele.Update{Message: m})
}

func (hs *harness) callback(sender int64, data string, ref messaging.MessageRef) tele.Context {
	return hs.bot.NewContext(tele.Update{Callback: &tele.Callback{
		Sender:  &tele.User{ID: sender},
		Data:    data,
		Message: &tele.Message{ID: ref.MessageID, Chat: &tele.Chat{ID: ref.ChatID}},
	}})
}

func TestHandlersDriveFullApplication(t *testing.T) {
	hs := newHarness(t)
	h := hs.h

	steps := []struct {
		name string
		run  func() error
	}{
		{"start", func() error { return h.onStart(hs.message(&tele.Message{Text: "/start"})) }},
		{"consent", func() error { return h.onText(hs.message(&tele.Message{Text: "✅ Да"})) }},
		{"age", func() error { return h.onText(hs.message(&tele.Message{Text: "19"})) }},
		{"game id", func() error { return h.onText(hs.message(&tele.Message{Text: "CPM-777"})) }},
		{"sticker", func() error { return h.onOther(hs.message(&tele.Message{Sticker: &tele.Sticker{}})) }},
		{"photo", func() error {
			return h.onPhoto(hs.message(&tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "shot-1"}}}))
		}},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
	}

	if hs.pending.Len() != 1 {
		t.Fatalf("pending = %d, want 1", hs.pending.Len())
	}
	toReviewer := hs.rec.To(reviewerID)
	if len(toReviewer) != 2 {
		t.Fatalf("reviewer got %d messages, want 2", len(toReviewer))
	}
	if toReviewer[0].Photo.FileID != "shot-1" {
		t.Fatalf("screenshot = %+v", toReviewer[0].Photo)
	}
	details := toReviewer[1]
	if len(details.Markup.Actions) != 2 || details.Markup.Actions[0].Token != "approve:42" {
		t.Fatalf("actions = %+v", details.Markup.Actions)
	}

	hs.rec.Reset()
	if err := h.onDecision(hs.callback(reviewerID, "approve:42", details.Ref)); err != nil {
		t.Fatalf("decision: %v", err)
	}
	if got := hs.rec.To(applicantID); len(got) != 1 {
		t.Fatalf("applicant notifications = %d, want 1", len(got))
	}
	if !hs.rec.Cleared(details.Ref) {
		t.Fatalf("review buttons not cleared")
	}
	if hs.pending.Len() != 0 {
		t.Fatalf("pending not consumed")
	}
}

func TestForeignReviewerCannotDecide(t *testing.T) {
	hs := newHarness(t)
	hs.pending.Put(review.Request{ID: "r1", Submission: review.Submission{
		Applicant: review.Applicant{ID: applicantID},
	}})

	a := &App{cfg: testConfig(), metrics: metrics.New(), loc: time.UTC}
	reg, err := a.registry(hs.h)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	approve, ok := reg.GetCallback("approve")
	if !ok {
		t.Fatalf("approve callback not registered")
	}

	ref := messaging.MessageRef{ChatID: 7, MessageID: 3}
	if err := approve(hs.callback(7, "approve:42", ref)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if hs.pending.Len() != 1 {
		t.Fatalf("foreign decision consumed the request")
	}
	if len(hs.rec.Sent()) != 0 {
		t.Fatalf("foreign decision produced output: %+v", hs.rec.Sent())
	}
}

func TestRunOptionsWiring(t *testing.T) {
	a := &App{cfg: testConfig(), metrics: metrics.New(), loc: time.UTC}
	opts, err := a.runOptions(offlineBot(t))
	if err != nil {
		t.Fatalf("runOptions: %v", err)
	}

	if _, _, ok := opts.Registry.LookupCommand("/start"); !ok {
		t.Fatalf("/start not registered")
	}
	cbs := opts.Registry.ListCallbacks()
	if len(cbs) != 2 {
		t.Fatalf("callbacks = %v", cbs)
	}
	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, ep := range []string{"/start", tele.OnCallback, tele.OnText, tele.OnPhoto, tele.OnSticker} {
		if !endpoints[ep] {
			t.Fatalf("route %q missing", ep)
		}
	}
	if len(opts.Middlewares) == 0 {
		t.Fatalf("no middlewares")
	}

	ctx := context.Background()
	if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
		t.Fatalf("OnStart: %v", err)
	}
	if err := opts.OnStop(ctx, coretelegram.Runtime{}); err != nil {
		t.Fatalf("OnStop: %v", err)
	}
}
