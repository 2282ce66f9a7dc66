package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not_found")
	ErrValidation = errors.New("validation_failed")
	ErrConflict   = errors.New("conflict")

	ErrTourHasParticipants  = errors.New("tour_has_participants")
	ErrTourFull             = errors.New("tour_full")
	ErrDuplicatePhone       = errors.New("duplicate_phone")
	ErrParticipantNotInTour = errors.New("participant_not_in_tour")
	ErrParticipantCancelled = errors.New("participant_cancelled")
	ErrRoomFull             = errors.New("room_full")
	ErrTeeTimeFull          = errors.New("tee_time_full")
	ErrMessageTooLong       = errors.New("message_too_long")
	ErrNoRecipients         = errors.New("no_recipients")
	ErrSettlementLocked     = errors.New("settlement_locked")
	ErrLinkInactive         = errors.New("link_inactive")
	ErrLinkExpired          = errors.New("link_expired")
	ErrLetterDisabled       = errors.New("letter_generation_disabled")
	ErrInvalidCredentials   = errors.New("invalid_credentials")
)

// ValidationError carries a human readable reason and unwraps to ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// notFound maps gorm.ErrRecordNotFound to ErrNotFound and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// IsDuplicateKey recognises unique violations from every driver we run on.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
