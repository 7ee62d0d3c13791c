package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "inProgress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID          uuid.UUID     `db:"id"`
	ReferenceID string        `db:"reference_id"`
	UserID      uuid.UUID     `db:"user_id"`
	ServiceID   string        `db:"service_id"`
	ServiceName string        `db:"service_name"`
	Date        string        `db:"date"`
	Time        string        `db:"time"`
	Address     string        `db:"address"`
	Notes       string        `db:"notes"`
	Status      BookingStatus `db:"status"`
	AdminSeen   bool          `db:"admin_seen"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}
