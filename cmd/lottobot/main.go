package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lottobot/pkg/browser"
	"lottobot/pkg/config"
	"lottobot/pkg/logger"
	"lottobot/pkg/lottery"
	"lottobot/pkg/notify"
	"lottobot/pkg/workflow"
)

const version = "1.0.0"

func main() {
	// Flags
	headless := flag.Bool("headless", true, "Run Chrome without a visible window")
	timeout := flag.Duration("timeout", 20*time.Second, "Per-step browser timeout")
	logDir := flag.String("log-dir", "logs", "Directory for the run log")
	telegramToken := flag.String("telegram-token", "", "Telegram bot token (optional secondary channel)")
	telegramChat := flag.Int64("telegram-chat", 0, "Telegram chat id")
	showVersion := flag.Bool("version", false, "Show version")
	showHelp := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	if *showVersion {
		fmt.Printf("lottobot v%s\n", version)
		return
	}

	// Configuration: positional arguments win over environment variables.
	cfg, err := config.FromArgs(flag.Args())
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	cfg.Headless = *headless
	cfg.StepTimeout = *timeout
	cfg.LogDir = *logDir
	if *telegramToken != "" {
		cfg.TelegramToken = *telegramToken
	}
	if *telegramChat != 0 {
		cfg.TelegramChatID = *telegramChat
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	lg, err := logger.New(cfg.LogDir)
	if err != nil {
		log.Printf("logger setup failed: %v", err)
		return 1
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Notification sinks: Slack always, Telegram when configured.
	sinks := notify.MultiNotifier{notify.NewSlackClient(cfg.SlackToken, cfg.SlackChannel, lg)}
	if tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, lg); err != nil {
		lg.Warn("telegram disabled: %v", err)
	} else if tg != nil {
		sinks = append(sinks, tg)
	}

	opts := browser.DefaultOptions()
	opts.Headless = cfg.Headless
	opts.StepTimeout = cfg.StepTimeout

	session, err := browser.NewSession(opts, lg)
	if err != nil {
		lg.Error("browser launch failed: %v", err)
		return 1
	}

	controller := workflow.New(
		cfg.UserID, cfg.Password, cfg.Count,
		session, lottery.NewRetriever(lg), sinks, lg,
	)
	if err := controller.Run(ctx); err != nil {
		return 1
	}

	lg.Info("purchase run completed")
	return 0
}

func printHelp() {
	fmt.Println(`lottobot - unattended lottery ticket purchase

Usage:
  lottobot [flags] <user-id> <password> <slack-token> <slack-channel> <count>

Positional arguments may be omitted when the matching environment variable
is set: LOTTO_USER_ID, LOTTO_USER_PW, SLACK_BOT_TOKEN, SLACK_CHANNEL,
LOTTO_COUNT. Telegram delivery is enabled with TELEGRAM_BOT_TOKEN and
TELEGRAM_CHAT_ID or the matching flags.

Flags:`)
	flag.PrintDefaults()
}
