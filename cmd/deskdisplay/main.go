package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"DeskDisplay/internal/bus"
	"DeskDisplay/internal/clock"
	"DeskDisplay/internal/collector"
	"DeskDisplay/internal/config"
	"DeskDisplay/internal/controller"
	"DeskDisplay/internal/gateway"
	"DeskDisplay/internal/media"
	"DeskDisplay/internal/nextion"
	"DeskDisplay/internal/recorder"
	"DeskDisplay/internal/scheduler"

	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] DeskDisplay starting...")

	// Load config
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Display
	panel, stream, err := nextion.Open(cfg.Display.Port, cfg.Display.Baud)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer panel.Close()

	// Session and market data
	session, err := collector.NewSession(cfg.Market.Timezone, cfg.Market.Open, cfg.Market.Close)
	if err != nil {
		log.Fatalf("[FATAL] market session: %v", err)
	}
	tickClose, err := collector.ParseClock(cfg.Schedule.TickClose)
	if err != nil {
		log.Fatalf("[FATAL] schedule.tick_close: %v", err)
	}
	fetcher := collector.NewYahooFetcher(cfg.Market.BaseURL, cfg.Market.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, session)

	// Clock
	clk := clock.New(cfg.Clock.Servers, session.Location)
	syncCtx, cancelSync := context.WithTimeout(ctx, 15*time.Second)
	if err := clk.Sync(syncCtx); err != nil {
		log.Printf("[WARN] startup clock sync: %v", err)
	}
	cancelSync()
	if err := clock.WriteRTC(panel, clk.Now()); err != nil {
		log.Printf("[ERROR] set display clock: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			log.Printf("[INFO] recording to %s (run %s)", cfg.Database.SQLitePath, sr.RunID())
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	registry := scheduler.NewRegistry(cfg.Market.Symbols...)
	if quotes, err := rec.LatestQuotes(cfg.Market.Symbols); err != nil {
		log.Printf("[WARN] load last quotes: %v", err)
	} else if n := registry.Seed(quotes); n > 0 {
		log.Printf("[INFO] seeded %d quotes from history", n)
	}

	sched, err := scheduler.NewScheduler(col, panel, registry, rec, clk, scheduler.Options{
		Tick:             cfg.Schedule.Tick,
		TickClose:        tickClose,
		HousekeepingHour: cfg.Schedule.HousekeepingHour,
		Dimming: scheduler.Dimming{
			StartHour: cfg.Schedule.DimStartHour,
			EndHour:   cfg.Schedule.DimEndHour,
			Dim:       cfg.Schedule.DimBrightness,
			Full:      cfg.Schedule.FullBrightness,
		},
		Layout: scheduler.Layout{
			QuotesPage:  cfg.Display.QuotesPage,
			ChartPage:   cfg.Display.ChartPage,
			Fields:      cfg.Market.Fields,
			StatusField: "t7",
			ChartSymbol: cfg.Market.ChartSymbol,
		},
	})
	if err != nil {
		log.Fatalf("[FATAL] init scheduler: %v", err)
	}

	// Bus and gateway
	mq := bus.NewMQTTClient(bus.Options{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
	})
	defer mq.Disconnect()
	supervisor := bus.NewSupervisor(mq, cfg.MQTT.RetryDelay, cfg.MQTT.MediaPrefix+"/#", cfg.MQTT.PowerTopic)
	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Token, cfg.Gateway.MediaEntity, cfg.Gateway.LightEntity)

	ctrl := controller.New(panel, sched, supervisor, mq, gw, media.Classifier{MediaPrefix: cfg.MQTT.MediaPrefix}, cfg.MQTT.PowerCommandTopic)
	ctrl.Now = clk.Now

	if err := panel.SetPage(cfg.Display.QuotesPage); err != nil {
		log.Printf("[ERROR] show quotes page: %v", err)
	}
	sched.UpdateQuotes(ctx, clk.Now())

	events := make(chan nextion.Event, 16)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return nextion.Listen(gctx, stream, events)
	})
	g.Go(func() error {
		return ctrl.Run(gctx, events, mq.Inbox())
	})
	g.Go(func() error {
		// Unblocks the serial read in Listen.
		<-gctx.Done()
		return panel.Close()
	})

	log.Println("[INFO] DeskDisplay is running. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Printf("[ERROR] %v", err)
	}
	log.Println("[INFO] DeskDisplay stopped")
}
