package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marksb/aeron/internal/clock"
	"github.com/marksb/aeron/internal/conductor"
	"github.com/marksb/aeron/internal/config"
	"github.com/marksb/aeron/internal/idle"
	"github.com/marksb/aeron/internal/proto"
	"github.com/marksb/aeron/internal/proxy"
	"github.com/marksb/aeron/internal/ring"
	"github.com/marksb/aeron/internal/tracing"
)

// runDriver builds the conductor and its ambient stack from flags/config
// and drives it until interrupted. The sender and receiver agents
// themselves are out of scope (spec.md §1: "network I/O ... external
// collaborators") — the mailboxes this wires the conductor to are the
// full extent of this process's responsibility toward them; a real
// deployment runs the sender/receiver as separate agents draining the
// same mailboxes.
func runDriver(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	dotenv, _ := flags.GetString("dotenv")
	if err := config.LoadDotenv(dotenv); err != nil {
		return err
	}

	cfg := config.Defaults()

	if v, _ := flags.GetString("log-dir"); v != "" {
		cfg.LogDir = v
	}
	if v, _ := flags.GetString("admin-addr"); v != "" {
		cfg.AdminAddr = v
	}
	if v, _ := flags.GetString("trace-sqlite"); v != "" {
		cfg.TracePath = v
	}

	chHost, _ := flags.GetString("trace-clickhouse-host")
	var chCfg *tracing.ClickHouseConfig
	if chHost != "" {
		port, _ := flags.GetInt("trace-clickhouse-port")
		database, _ := flags.GetString("trace-clickhouse-database")
		username, _ := flags.GetString("trace-clickhouse-username")
		password, _ := flags.GetString("trace-clickhouse-password")
		chCfg = &tracing.ClickHouseConfig{
			Host:      chHost,
			Port:      port,
			Database:  database,
			Username:  username,
			Password:  password,
			BatchSize: 256,
		}
	}

	tracer, closeTracer, err := buildTracer(cfg, chCfg)
	if err != nil {
		return err
	}
	defer closeTracer()

	rawLog, err := conductor.NewFileRawLogFactory(cfg.LogDir)
	if err != nil {
		return err
	}

	clientRing := ring.New[proto.Command]("client-command-ring", cfg.ClientCommandRingCapacity)
	toSender := ring.New[proxy.SenderCommand]("to-sender", cfg.InternalQueueCapacity)
	toReceiver := ring.New[proxy.ReceiverCommand]("to-receiver", cfg.InternalQueueCapacity)
	fromSender := proxy.NewInbox(ring.New[proxy.InboundCommand]("from-sender", cfg.InternalQueueCapacity))
	fromReceiver := proxy.NewInbox(ring.New[proxy.InboundCommand]("from-receiver", cfg.InternalQueueCapacity))

	c := conductor.New(conductor.Deps{
		Clock:        clock.NewReal(),
		Config:       cfg,
		Sender:       proxy.NewMailboxSender(toSender),
		Receiver:     proxy.NewMailboxReceiver(toReceiver),
		FromSender:   fromSender,
		FromReceiver: fromReceiver,
		ClientRing:   clientRing,
		RawLog:       rawLog,
		Tracer:       tracer,
		ErrorHandler: logError,
	})

	stopAdmin := startAdmin(cfg, c)
	defer stopAdmin()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	strategy := idle.New(cfg.IdleMaxSpins, cfg.IdleMaxYields, cfg.IdleMinPark, cfg.IdleMaxPark)
	runner := idle.NewRunner(c, strategy)

	log.Printf("aeron-driver: conductor started, log-dir=%s admin-addr=%q", cfg.LogDir, cfg.AdminAddr)
	runner.Run(ctx)
	log.Printf("aeron-driver: conductor stopped")

	return nil
}

func logError(correlationID int64, code proto.ErrorCode, message string) {
	log.Printf("aeron-driver: correlation=%d code=%s: %s", correlationID, code, message)
}

func buildTracer(cfg config.Config, chCfg *tracing.ClickHouseConfig) (tracing.Tracer, func(), error) {
	if chCfg != nil {
		t, err := tracing.OpenClickHouse(*chCfg)
		if err != nil {
			return nil, nil, err
		}

		return t, func() {
			t.Flush()
			_ = t.Close()
		}, nil
	}

	if cfg.TracePath == "" {
		return tracing.Null{}, func() {}, nil
	}

	t, err := tracing.OpenSQLite(cfg.TracePath)
	if err != nil {
		return nil, nil, err
	}

	return t, func() {
		t.Flush()
		_ = t.Close()
	}, nil
}
