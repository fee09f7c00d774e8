package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/akashicode/weather/internal/app"
	"github.com/akashicode/weather/internal/config"
	"github.com/akashicode/weather/internal/display"
	"github.com/akashicode/weather/internal/history"
	"github.com/akashicode/weather/internal/llm"
	"github.com/akashicode/weather/internal/logging"
	"github.com/akashicode/weather/internal/prompt"
	"github.com/akashicode/weather/internal/render"
	"github.com/akashicode/weather/internal/weather"
)

// Exit codes.
const (
	exitError = 1
	exitUsage = 64
)

// defaultConfigFile is looked up in the working directory, then next to
// the executable.
const defaultConfigFile = "weather.json"

var (
	cfgFile   string
	plainText bool
)

var rootCmd = &cobra.Command{
	Use:   "weather <message> <region_code> [log_mode]",
	Short: "Ask an AI about the current weather in a Canadian region.",
	Long: `Weather fetches current conditions for an Environment Canada region code,
hands them to an OpenAI model together with your question, and prints the reply.

  weather "Do I need a coat today?" on-118
  weather "Is it going to snow?" qc-147 Debug

The optional log_mode (Debug or Info) overrides the configured log level
for this run. The API key is read from $OPENAI_API_KEY, a .env file, or
the "openai key" setting.`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runAsk,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, app.ErrUsage) {
		return exitUsage
	}
	display.ErrorMsg(err.Error())
	return exitError
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigFile, "settings file (JSON, YAML or TOML)")
	rootCmd.Flags().BoolVar(&plainText, "plain", false, "print the reply without markdown rendering")
}

func initConfig() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	cfgFile = resolveConfigPath(cfgFile)
}

// resolveConfigPath returns path unchanged if it exists or is absolute,
// otherwise the same name beside the running executable when present.
func resolveConfigPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return path
	}
	candidate := filepath.Join(filepath.Dir(exe), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	log, closer, err := logging.New(cfg.LogFile, cfg.LogMode)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	if cfg.Loaded() {
		log.Debug().Str("path", cfg.Source).Msg("settings loaded")
	} else {
		log.Warn().Str("path", cfgFile).Msg("settings file not found, using defaults")
	}

	provider := cfg.Provider(config.ResolveAPIKey(cfg, log))
	conn, err := llm.NewConnection(&provider)
	if err != nil {
		return fmt.Errorf("create openai client: %w", err)
	}

	prompts, err := prompt.Load(cfg.PromptsFile)
	if err != nil {
		// The run still proceeds, just without a system prompt.
		log.Warn().Err(err).Str("path", cfg.PromptsFile).Msg("prompts file not loaded")
		prompts = prompt.NewBuilder(nil)
	}

	hist, err := history.Load(cfg.ChatHistoryFile)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.ChatHistoryFile).Msg("chat history not loaded, starting fresh")
		hist, _ = history.Load("")
	}

	payload, err := llm.NewPayload(conn, prompts, hist)
	if err != nil {
		return err
	}
	payload.HistoryLimit = cfg.HistoryLimit
	payload.AutoAddResponseToHistory = true

	fetcher := weather.NewFetcher(
		weather.WithURLTemplate(cfg.WeatherURL),
		weather.WithUserAgent("weather/"+version),
	)

	a, err := app.New(app.Options{
		Backend: payload,
		Fetcher: fetcher,
		Logger:  log,
		Stderr:  cmd.ErrOrStderr(),
		Version: version,
	})
	if err != nil {
		return err
	}

	reply, err := a.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return render.NewTerminalRenderer(out, render.ShouldUsePlainText(out, plainText)).Render(reply)
}
