package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/event-registry/internal/domain"
)

// RegistrationRepository implements domain.RegistrationRepository using
// SQLite.
type RegistrationRepository struct {
	db *sql.DB
}

// Create inserts the registration. The unique index on
// (event_id, participant_id) arbitrates concurrent inserts of the same
// pair: exactly one wins, the rest get ErrAlreadyRegistered. There is no
// prior existence check on purpose.
func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (event_id, participant_id, checked_in, registered_at, checked_in_at)
		 VALUES (?, ?, 0, ?, NULL)`,
		reg.EventID, reg.ParticipantID, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	reg.ID = id
	reg.CheckedIn = false
	reg.RegisteredAt = now
	reg.CheckedInAt = nil
	return nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var checkedInAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, event_id, participant_id, checked_in, registered_at, checked_in_at
		 FROM registrations WHERE id = ?`, id,
	).Scan(&reg.ID, &reg.EventID, &reg.ParticipantID, &reg.CheckedIn, &reg.RegisteredAt, &checkedInAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query registration by id: %w", err)
	}
	if checkedInAt.Valid {
		reg.CheckedInAt = &checkedInAt.Time
	}
	return reg, nil
}

// MarkCheckedIn flips checked_in for a row that has not been checked in
// yet. The guard in the WHERE clause makes repeat calls no-ops, so
// checked_in_at keeps its first value.
func (r *RegistrationRepository) MarkCheckedIn(ctx context.Context, id int64, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET checked_in = 1, checked_in_at = ?
		 WHERE id = ? AND checked_in = 0`,
		at.UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("mark checked in: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) ListAll(ctx context.Context) ([]domain.Registration, error) {
	return r.list(ctx,
		`SELECT id, event_id, participant_id, checked_in, registered_at, checked_in_at
		 FROM registrations ORDER BY registered_at DESC, id DESC`)
}

func (r *RegistrationRepository) ListByParticipant(ctx context.Context, participantID int64) ([]domain.Registration, error) {
	return r.list(ctx,
		`SELECT id, event_id, participant_id, checked_in, registered_at, checked_in_at
		 FROM registrations WHERE participant_id = ?
		 ORDER BY registered_at DESC, id DESC`, participantID)
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Registration, error) {
	return r.list(ctx,
		`SELECT id, event_id, participant_id, checked_in, registered_at, checked_in_at
		 FROM registrations WHERE event_id = ?
		 ORDER BY registered_at DESC, id DESC`, eventID)
}

func (r *RegistrationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		var checkedInAt sql.NullTime
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.ParticipantID, &reg.CheckedIn, &reg.RegisteredAt, &checkedInAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		if checkedInAt.Valid {
			reg.CheckedInAt = &checkedInAt.Time
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
