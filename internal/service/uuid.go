package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidUUID indicates the string is not a valid UUID format
	ErrInvalidUUID = errors.New("invalid UUID format")
	// ErrNotUUIDv7 indicates the UUID is not version 7
	ErrNotUUIDv7 = errors.New("UUID must be version 7")
	// ErrFutureTimestamp indicates a UUIDv7 or entry timestamp too far in the future
	ErrFutureTimestamp = errors.New("timestamp is too far in the future")
)

// MaxFutureSkew is the clock skew tolerated for client-supplied timestamps
const MaxFutureSkew = time.Minute

// ValidateEntryID checks that a client-minted entry ID is a UUIDv7 whose
// embedded timestamp is not ahead of now by more than MaxFutureSkew.
// Returns nil if valid, or ErrInvalidUUID, ErrNotUUIDv7, or ErrFutureTimestamp.
func ValidateEntryID(id string, now time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	if parsed.Version() != 7 {
		return fmt.Errorf("%w: got version %d", ErrNotUUIDv7, parsed.Version())
	}

	// For UUIDv7, Time() is derived from the embedded Unix milliseconds
	if ts := uuidTime(parsed); ts.After(now.Add(MaxFutureSkew)) {
		return fmt.Errorf("%w: %v is ahead of %v",
			ErrFutureTimestamp, ts.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	return nil
}

// EntryIDTimestamp extracts the embedded timestamp from a UUIDv7.
// Returns zero time if parsing fails.
func EntryIDTimestamp(id string) time.Time {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.Version() != 7 {
		return time.Time{}
	}
	return uuidTime(parsed)
}

func uuidTime(id uuid.UUID) time.Time {
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec).UTC()
}
