// Package app drives one weather question end to end: validate arguments,
// fetch current conditions, ask the model, clean and return the reply.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/akashicode/weather/internal/display"
	"github.com/akashicode/weather/internal/llm"
	"github.com/akashicode/weather/internal/logging"
	"github.com/akashicode/weather/internal/weather"
)

// Request policy. These are fixed for every run.
const (
	PromptName      = "weather"
	MaximumTokens   = 500
	Model           = "gpt-5-nano"
	Verbosity       = "low"
	ReasoningEffort = "minimal"
)

const (
	// UsageLine is printed when required arguments are missing.
	UsageLine = "Usage: weather <MESSAGE_TO_AI> <REGION_CODE> [LOG_MODE], <LOG_MODE> is Optional 'Debug' or 'Info' (default)"
	// UsageReply is returned to the caller on a usage error.
	UsageReply = "<MESSAGE_TO_AI> and <REGION_CODE> parameters are required, Weather exiting"
	// FallbackReply is returned when cleaning leaves nothing.
	FallbackReply = "AI response error, could not clean"
)

// ErrUsage is returned alongside UsageReply when arguments are invalid.
var ErrUsage = errors.New("usage error")

// Backend is the conversational model the question is sent to.
type Backend interface {
	LoadPrompt(name string) error
	Prompt() string
	SetMaximumTokens(n int)
	SetModel(name string)
	SetVerbosity(level string)
	SetReasoningEffort(level string)
	Settings() llm.Settings
	SendMessage(ctx context.Context, userMessage, promptName, addendum string) (string, error)
}

// Fetcher supplies current conditions for a region.
type Fetcher interface {
	Fetch(ctx context.Context, regionCode string) (weather.Snapshot, error)
	State() weather.State
}

// Options configures an App.
type Options struct {
	Backend Backend
	Fetcher Fetcher
	Logger  zerolog.Logger
	// Stderr receives usage guidance. Defaults to os.Stderr.
	Stderr io.Writer
	// Version is recorded in the start-of-run log entry.
	Version string
}

// App is the weather question pipeline.
type App struct {
	backend Backend
	fetcher Fetcher
	log     zerolog.Logger
	stderr  io.Writer
	version string
}

// New validates opts and returns an App.
func New(opts Options) (*App, error) {
	if opts.Backend == nil {
		return nil, errors.New("app backend is required")
	}
	if opts.Fetcher == nil {
		return nil, errors.New("app weather fetcher is required")
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &App{
		backend: opts.Backend,
		fetcher: opts.Fetcher,
		log:     opts.Logger,
		stderr:  opts.Stderr,
		version: opts.Version,
	}, nil
}

// request is a validated invocation.
type request struct {
	message string
	region  string
	logMode string
}

func parseArgs(args []string) (request, bool) {
	if len(args) < 2 || len(args) > 3 {
		return request{}, false
	}
	req := request{
		message: strings.TrimSpace(args[0]),
		region:  strings.TrimSpace(args[1]),
	}
	if req.message == "" || req.region == "" {
		return request{}, false
	}
	if len(args) == 3 {
		req.logMode = args[2]
	}
	return req, true
}

// Run answers args[0] using current conditions for region args[1]. An
// optional args[2] overrides the log mode for this run. On invalid
// arguments it prints usage and returns UsageReply with ErrUsage. Weather
// failures degrade the prompt; backend failures are returned.
func (a *App) Run(ctx context.Context, args []string) (string, error) {
	req, ok := parseArgs(args)
	if !ok {
		display.Usage(a.stderr, UsageLine, UsageReply)
		return UsageReply, ErrUsage
	}

	log := a.log
	if req.logMode != "" {
		log = log.Level(logging.ParseMode(req.logMode))
	}

	log.Info().Msg("💡")
	log.Info().
		Str("version", a.version).
		Str("region", req.region).
		Msg("weather run started")

	a.configureBackend(log)

	snap := a.fetchWeather(ctx, log, req.region)
	addendum := Addendum(snap)

	s := a.backend.Settings()
	log.Info().
		Str("model", s.Model).
		Str("verbosity", s.Verbosity).
		Str("reasoning", s.ReasoningEffort).
		Int("max_tokens", s.MaximumTokens).
		Msg("model settings")
	log.Debug().Msgf("Payload \n\nSystem Prompt: %s \n\nSpecial/Dynamic Content: \n%s \n\nUser Message: %s",
		a.backend.Prompt(), addendum, req.message)

	start := time.Now()
	reply, err := a.backend.SendMessage(ctx, req.message, PromptName, addendum)
	elapsed := time.Since(start)
	switch {
	case err == nil:
	case errors.Is(err, llm.ErrEmptyResponse):
		log.Warn().Err(err).Msg("assistant returned no content")
		reply = ""
	case errors.Is(err, llm.ErrSaveHistory):
		log.Warn().Err(err).Msg("chat history not saved")
	default:
		log.Error().Err(err).Str("elapsed", display.FormatDuration(elapsed)).Msg("assistant request failed")
		return "", fmt.Errorf("send message: %w", err)
	}
	log.Info().Str("elapsed", display.FormatDuration(elapsed)).Msg("assistant replied")
	log.Info().Msgf("Assistant Raw Reply: %s", reply)

	response := llm.CleanResponse(reply)
	if response == "" {
		log.Debug().Msgf("cleaning left no content, raw reply: %q", reply)
		response = FallbackReply
	} else {
		log.Debug().Msgf("cleaned reply: %s", response)
	}

	log.Info().Msgf("Returning response: [%s]", response)
	return response, nil
}

func (a *App) configureBackend(log zerolog.Logger) {
	if err := a.backend.LoadPrompt(PromptName); err != nil {
		log.Warn().Err(err).Str("prompt", PromptName).Msg("system prompt not loaded")
	}
	a.backend.SetMaximumTokens(MaximumTokens)
	a.backend.SetModel(Model)
	a.backend.SetVerbosity(Verbosity)
	a.backend.SetReasoningEffort(ReasoningEffort)
}

func (a *App) fetchWeather(ctx context.Context, log zerolog.Logger, region string) weather.Snapshot {
	start := time.Now()
	snap, err := a.fetcher.Fetch(ctx, region)
	elapsed := display.FormatDuration(time.Since(start))

	if err != nil {
		st := a.fetcher.State()
		log.Warn().
			Err(err).
			Str("region", region).
			Str("elapsed", elapsed).
			Bool("loading", st.Loading).
			Str("last_error", st.LastError).
			Msg("weather fetch failed, continuing without conditions")
		return nil
	}
	log.Info().Str("region", region).Str("elapsed", elapsed).Int("fields", len(snap)).Msg("weather fetched")
	return snap
}

// Addendum renders snap for the system prompt. An absent snapshot renders
// as null.
func Addendum(snap weather.Snapshot) string {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Sprintf("Weather: %v", map[string]any(snap))
	}
	return "Weather: " + string(data)
}
