package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"enjez/internal/dto"
	"enjez/internal/models"
	"enjez/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidStatus   = errors.New("invalid booking status")
)

const (
	referencePrefix   = "BKG-"
	referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	referenceLength   = 5
)

type BookingService struct {
	bookings BookingStore
	catalog  CatalogSource
	logger   *zap.Logger
}

func NewBookingService(bookings BookingStore, catalog CatalogSource, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		catalog:  catalog,
		logger:   logger,
	}
}

// NewReferenceID returns a short human-readable booking reference such as BKG-7Q2ZK.
func NewReferenceID() string {
	var b strings.Builder
	b.WriteString(referencePrefix)
	for i := 0; i < referenceLength; i++ {
		b.WriteByte(referenceAlphabet[rand.IntN(len(referenceAlphabet))])
	}
	return b.String()
}

func ToBookingResponse(b *models.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:          b.ID.String(),
		ReferenceID: b.ReferenceID,
		ServiceID:   b.ServiceID,
		ServiceName: b.ServiceName,
		Date:        b.Date,
		Time:        b.Time,
		Address:     b.Address,
		Notes:       b.Notes,
		Status:      string(b.Status),
		AdminSeen:   b.AdminSeen,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingResponses(bookings []*models.Booking) []dto.BookingResponse {
	out := make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToBookingResponse(b))
	}
	return out
}

func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:          uuid.New(),
		ReferenceID: NewReferenceID(),
		UserID:      userID,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Date:        req.Date,
		Time:        req.Time,
		Address:     strings.TrimSpace(req.Address),
		Notes:       strings.TrimSpace(req.Notes),
		Status:      models.BookingStatusPending,
		AdminSeen:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference_id", booking.ReferenceID),
		zap.String("service_id", booking.ServiceID),
	)

	resp := ToBookingResponse(booking)
	return &resp, nil
}

// ListForUser returns the user's bookings; an empty status means all of them.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID, status string) ([]dto.BookingResponse, error) {
	var filter *models.BookingStatus
	if status != "" {
		st := models.BookingStatus(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		filter = &st
	}

	bookings, err := s.bookings.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingResponses(bookings), nil
}

// Get hides bookings of other users behind ErrBookingNotFound.
func (s *BookingService) Get(ctx context.Context, userID, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}

	resp := ToBookingResponse(booking)
	return &resp, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status string) error {
	st := models.BookingStatus(status)
	if !st.Valid() {
		return ErrInvalidStatus
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	s.logger.Info("Booking status updated",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", status),
	)
	return nil
}

func (s *BookingService) ListUnseen(ctx context.Context) ([]dto.BookingResponse, error) {
	bookings, err := s.bookings.ListUnseen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unseen bookings: %w", err)
	}
	return toBookingResponses(bookings), nil
}

func (s *BookingService) MarkSeen(ctx context.Context, bookingID uuid.UUID) error {
	if err := s.bookings.MarkSeen(ctx, bookingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to mark booking as seen: %w", err)
	}
	return nil
}
