package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/rescue_dispatch/internal/models"
)

// querier общий интерфейс пула и транзакции
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func statusStrings(statuses []models.IncidentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func assignmentStatusStrings(statuses []models.AssignmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// prefixed добавляет алиас таблицы к списку колонок
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// lockConflict переводит откат транзакции из-за взаимной блокировки или сериализации
// в ErrStateConflict: конкурирующая операция уже изменила инцидент
func lockConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.DeadlockDetected, pgerrcode.SerializationFailure, pgerrcode.LockNotAvailable:
			return fmt.Errorf("%w: concurrent update, retry the request: %v", models.ErrStateConflict, err)
		}
	}
	return err
}
