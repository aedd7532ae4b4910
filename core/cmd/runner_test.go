package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/clanintake/core/config"
	coretelegram "github.com/m3rciful/clanintake/core/telegram"
)

type stubConfig struct{ core *coreconfig.Config }

func (s stubConfig) CoreConfig() *coreconfig.Config { return s.core }

type stubApp struct {
	opts coretelegram.RunOptions
	err  error
}

func (a stubApp) TelegramRunOptions() (coretelegram.RunOptions, error) { return a.opts, a.err }

func TestRunWrapsLifecycleHooks(t *testing.T) {
	var calls []string
	app := stubApp{opts: coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error { calls = append(calls, "start"); return nil },
		OnStop:  func(context.Context, coretelegram.Runtime) error { calls = append(calls, "stop"); return nil },
	}}

	var gotPath string
	err := Run(Options{
		ConfigPath: "bot.yaml",
		Context:    context.Background(),
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			return stubConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(context.Context, ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger: func() error { calls = append(calls, "logger"); return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotPath != "bot.yaml" {
		t.Fatalf("config path = %q", gotPath)
	}
	want := []string{"start", "stop", "logger"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestRunEnvOnlyWhenNoPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	gotPath := "unset"
	_ = Run(Options{
		Context: context.Background(),
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			return nil, errors.New("stop here")
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	if gotPath != "" {
		t.Fatalf("config path = %q, want empty", gotPath)
	}
}

func TestRunPropagatesBootstrapError(t *testing.T) {
	err := Run(Options{
		Context: context.Background(),
		LoadConfig: func(string) (ConfigCarrier, error) {
			return stubConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, errors.New("db down") },
		ShutdownLogger: func() error { return nil },
	})
	if err == nil {
		t.Fatalf("expected bootstrap error")
	}
}

func TestRunRequiresLoaders(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Fatalf("missing LoadConfig accepted")
	}
}
