package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/config"
	"github.com/shaigo/knowledgehub/internal/handler"
	"github.com/shaigo/knowledgehub/internal/repository"
	"github.com/shaigo/knowledgehub/internal/server"
	"github.com/shaigo/knowledgehub/internal/service/assistant"
	"github.com/shaigo/knowledgehub/internal/service/auth"
	"github.com/shaigo/knowledgehub/internal/service/catalog"
	"github.com/shaigo/knowledgehub/internal/service/circulation"
	"github.com/shaigo/knowledgehub/internal/service/gemini"
	"github.com/shaigo/knowledgehub/internal/session"
	"github.com/shaigo/knowledgehub/migrations"
	"github.com/shaigo/knowledgehub/pkg/kafka"
	"github.com/shaigo/knowledgehub/pkg/logger"
	"github.com/shaigo/knowledgehub/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "knowledgehub")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	producer, err := kafka.NewAsyncProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewAsyncProducer", zap.Error(err))
	}
	events := handler.NewStatsLog(producer, kafka.CirculationTopic)

	authSvc := auth.NewService(repo, log)
	catalogSvc := catalog.NewService(repo, log)
	circulationSvc := circulation.NewService(repo, events, log)
	generator := gemini.NewClient(log, cfg.Gemini)
	assistantSvc := assistant.NewService(repo, generator, log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	go kafka.Consume(log, consumer, handler.NewConsumer(circulationSvc.Stats, log), kafka.CirculationTopic)

	sessions := session.NewStore(session.IdleTimeout)
	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()
	go func() {
		for range sweep.C {
			sessions.Sweep()
		}
	}()

	h := handler.New(log, authSvc, catalogSvc, circulationSvc, assistantSvc, sessions)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	_ = producer.Close()
	_ = consumer.Close()
	db.Close()
	log.Info("Graceful shutdown finished")
}
