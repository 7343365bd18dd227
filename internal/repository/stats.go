package repository

import (
	"context"

	"github.com/shaigo/knowledgehub/internal/model"
)

func (r *repository) BumpStat(ctx context.Context, action string) error {
	q := `
insert into circulation_stats (action, total)
values ($1, 1)
on conflict (action) do update set total = circulation_stats.total + 1`

	_, err := r.db.ExecContext(ctx, q, action)
	return err
}

func (r *repository) GetStatCounters(ctx context.Context) ([]model.StatCounter, error) {
	q := `select action, total from circulation_stats order by action`

	var counters []model.StatCounter
	if err := r.db.SelectContext(ctx, &counters, q); err != nil {
		return nil, err
	}
	return counters, nil
}

func (r *repository) LoanAggregates(ctx context.Context) (int, float64, error) {
	q := `
select count(*),
       coalesce(avg(extract(epoch from now() - borrowed_date) / 86400), 0)
from borrowed_books`

	var (
		count   int
		avgDays float64
	)
	if err := r.db.QueryRowContext(ctx, q).Scan(&count, &avgDays); err != nil {
		return 0, 0, err
	}
	return count, avgDays, nil
}

func (r *repository) ReturnAggregates(ctx context.Context) (int, float64, error) {
	q := `
select count(*),
       coalesce(avg(extract(epoch from returned_date - borrowed_date) / 86400), 0)
from returned_books`

	var (
		count   int
		avgDays float64
	)
	if err := r.db.QueryRowContext(ctx, q).Scan(&count, &avgDays); err != nil {
		return 0, 0, err
	}
	return count, avgDays, nil
}
