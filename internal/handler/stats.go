package handler

import (
	"encoding/json"
	"net/http"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/pkg/auth"
	"github.com/shaigo/knowledgehub/pkg/kafka"
)

type statsLog struct {
	producer sarama.AsyncProducer
	topic    string
}

type StatsLog interface {
	Log(sl kafka.EventStats) error
}

func NewStatsLog(producer sarama.AsyncProducer, topic string) *statsLog {
	return &statsLog{
		producer: producer,
		topic:    topic,
	}
}

func (l *statsLog) Log(sl kafka.EventStats) error {
	data, err := json.Marshal(sl)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: l.topic, Value: sarama.StringEncoder(data)}
	l.producer.Input() <- msg
	return nil
}

// GetStats aggregates the event counters with live loan and return
// figures.
func (h *Handler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	var stats model.Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counters, err := h.circulationSvc.GetStatCounters(ctx)
		if err != nil {
			return err
		}
		stats.Counters = counters
		return nil
	})
	g.Go(func() error {
		count, avg, err := h.circulationSvc.LoanAggregates(ctx)
		if err != nil {
			return err
		}
		stats.ActiveLoans, stats.AvgDaysBorrowed = count, avg
		return nil
	})
	g.Go(func() error {
		count, avg, err := h.circulationSvc.ReturnAggregates(ctx)
		if err != nil {
			return err
		}
		stats.TotalReturned, stats.AvgDaysKept = count, avg
		return nil
	})
	if err := g.Wait(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
