package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// QuotaRepository controla o teto diário de mensagens (todas as campanhas
// compartilham o mesmo contador). Uma linha por dia em message_quota.
type QuotaRepository struct {
	DB *sql.DB
}

func NewQuotaRepository(db *sql.DB) *QuotaRepository {
	return &QuotaRepository{DB: db}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SentToday devolve quanto já foi disparado hoje
func (r *QuotaRepository) SentToday(ctx context.Context, now time.Time) (int, error) {
	var sent int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(sent, 0) FROM message_quota WHERE day = $1`, dayKey(now),
	).Scan(&sent)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("erro ao ler quota diária: %w", err)
	}
	return sent, nil
}

// Reserve tenta reservar `want` envios dentro do limite diário e devolve
// quantos foram concedidos. O FOR UPDATE serializa execuções concorrentes:
// duas campanhas disparando juntas nunca estouram o teto.
func (r *QuotaRepository) Reserve(ctx context.Context, now time.Time, want, dailyLimit int) (int, error) {
	if want <= 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	day := dayKey(now)

	// Garante a linha do dia antes de travar
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO message_quota (day, sent) VALUES ($1, 0) ON CONFLICT (day) DO NOTHING`, day,
	); err != nil {
		return 0, fmt.Errorf("erro ao criar linha de quota: %w", err)
	}

	var sent int
	if err := tx.QueryRowContext(ctx,
		`SELECT sent FROM message_quota WHERE day = $1 FOR UPDATE`, day,
	).Scan(&sent); err != nil {
		return 0, fmt.Errorf("erro ao travar quota: %w", err)
	}

	remaining := dailyLimit - sent
	if remaining < 0 {
		remaining = 0
	}
	granted := want
	if granted > remaining {
		granted = remaining
	}

	if granted > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE message_quota SET sent = sent + $2 WHERE day = $1`, day, granted,
		); err != nil {
			return 0, fmt.Errorf("erro ao incrementar quota: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("erro no commit da quota: %w", err)
	}
	return granted, nil
}
