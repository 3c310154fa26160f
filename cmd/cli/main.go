package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/appointment-booking/config"
	"github.com/jwalitptl/appointment-booking/internal/command"
	"github.com/jwalitptl/appointment-booking/internal/console"
	"github.com/jwalitptl/appointment-booking/internal/service/booking"
	"github.com/jwalitptl/appointment-booking/pkg/event"
	"github.com/jwalitptl/appointment-booking/pkg/logger"
	"github.com/jwalitptl/appointment-booking/pkg/messaging"
	"github.com/jwalitptl/appointment-booking/pkg/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Logs go to stderr so they never interleave with command output.
	logCfg := cfg.Log.ToLoggerConfig()
	logCfg.Output = os.Stderr
	logCfg.Service = "booking-cli"
	appLogger := logger.NewLogger(logCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outbox := event.NewOutbox(cfg.Outbox.Size, nil)
	broker := messaging.NewLogBroker(appLogger.Zerolog())
	defer broker.Close()

	dispatcher := worker.NewEventDispatcher(outbox, broker, cfg.Outbox.ToDispatcherConfig(cfg.Redis.Channel), appLogger, nil)
	dispatched := make(chan struct{})
	go func() {
		dispatcher.Start(ctx)
		close(dispatched)
	}()

	dispatch := command.NewDispatcher(booking.NewService(outbox, nil, appLogger), appLogger)
	out := console.NewRenderer(os.Stdout)

	fmt.Println(console.Welcome())
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := command.Parse(line)
		if err != nil {
			out.RenderError(err)
			fmt.Println(console.Prompt)
			continue
		}

		res, err := dispatch.Execute(ctx, cmd)
		if err != nil {
			out.RenderError(err)
		} else if res.Exit {
			break
		} else {
			out.Render(res)
		}
		fmt.Println(console.Prompt)
	}
	if err := scanner.Err(); err != nil {
		appLogger.Error(err, "failed to read input")
	}

	outbox.Close()
	<-dispatched
}
