package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
	"github.com/spec-kit/booking-service/internal/observability"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// BookingService owns the booking lifecycle.
type BookingService struct {
	store        repository.Transactor
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	now          func() time.Time
	newBookingID func() (string, error)
}

// BookingDependencies bundles collaborators for the booking service.
type BookingDependencies struct {
	Store      repository.Transactor
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// BookingCreateInput describes a booking request from a client.
type BookingCreateInput struct {
	ClientName      string
	Phone           string
	ServiceTypeID   *string
	SessionDateTime *time.Time
	StartTime       string
	EndTime         string
	Duration        int
	Message         *string
}

// BookingPatch carries admin changes. Nil fields are left untouched.
type BookingPatch struct {
	ClientName      *string
	ServiceTypeID   Nullable[string]
	SessionDateTime *time.Time
	StartTime       *string
	EndTime         *string
	Duration        *int
	Message         Nullable[string]
	Status          *domain.BookingStatus
	PaymentStatus   *domain.PaymentStatus
}

// BookingListFilter describes admin listing filters.
type BookingListFilter struct {
	Statuses        []domain.BookingStatus
	PaymentStatuses []domain.PaymentStatus
	ServiceTypeID   *string
	Search          string
	Pagination
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.Nop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &BookingService{
		store:        deps.Store,
		dispatcher:   dispatcher,
		metrics:      deps.Metrics,
		logger:       logger.Named("booking_service"),
		now:          clock,
		newBookingID: GenerateBookingID,
	}
}

// Create stores a new booking. Status and payment status always start as
// pending and unpaid.
func (s *BookingService) Create(ctx context.Context, input BookingCreateInput) (*domain.Booking, error) {
	if input.Duration <= 0 {
		return nil, apperrors.NewFieldError("duration", "Ensure this value is greater than 0.")
	}
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		return nil, apperrors.NewFieldError("client_name", msgRequired)
	}
	start, err := clockOrDefault("start_time", input.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := clockOrDefault("end_time", input.EndTime)
	if err != nil {
		return nil, err
	}

	bookingID, err := s.newBookingID()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	booking := &domain.Booking{
		BookingID:       bookingID,
		ClientName:      clientName,
		Phone:           strings.TrimSpace(input.Phone),
		ServiceTypeID:   input.ServiceTypeID,
		SessionDateTime: s.now(),
		StartTime:       start,
		EndTime:         end,
		Duration:        input.Duration,
		Message:         input.Message,
		Status:          domain.BookingStatusPending,
		PaymentStatus:   domain.PaymentStatusUnpaid,
	}
	if input.SessionDateTime != nil {
		booking.SessionDateTime = *input.SessionDateTime
	}

	err = s.store.Atomic(ctx, func(repos repository.Repositories) error {
		return repos.Bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, translate("booking", err)
	}

	s.metrics.BookingCreated()
	s.logger.Info("booking created",
		zap.String("id", booking.ID),
		zap.String("booking_id", booking.BookingID))
	s.dispatcher.Publish(ctx, events.New(events.EventBookingCreated, booking.ID, nil, s.now(),
		events.BookingCreatedPayload{
			BookingID:       booking.BookingID,
			ClientName:      booking.ClientName,
			ServiceTypeID:   booking.ServiceTypeID,
			SessionDateTime: booking.SessionDateTime,
		}))
	return booking, nil
}

// Get returns a booking by internal id.
func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		booking, err = repos.Bookings.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate("booking", err)
	}
	return booking, nil
}

// List returns bookings newest first.
func (s *BookingService) List(ctx context.Context, filter BookingListFilter) ([]domain.Booking, error) {
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, apperrors.NewFieldError("status", "Select a valid choice. "+string(st)+" is not one of the available choices.")
		}
	}
	for _, ps := range filter.PaymentStatuses {
		if !ps.Valid() {
			return nil, apperrors.NewFieldError("payment_status", "Select a valid choice. "+string(ps)+" is not one of the available choices.")
		}
	}

	repoFilter := repository.BookingFilter{
		Statuses:        filter.Statuses,
		PaymentStatuses: filter.PaymentStatuses,
		ServiceTypeID:   filter.ServiceTypeID,
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		repoFilter.SearchTerm = &term
	}
	repoFilter.Limit, repoFilter.Offset = filter.limitOffset()

	var bookings []domain.Booking
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		bookings, err = repos.Bookings.List(ctx, repoFilter)
		return err
	})
	if err != nil {
		return nil, translate("booking", err)
	}
	return bookings, nil
}

// Update applies patch to a booking. A full update requires client_name and
// duration. booking_id and phone cannot be changed.
func (s *BookingService) Update(ctx context.Context, actorID, id string, patch BookingPatch, full bool) (*domain.Booking, error) {
	if full {
		missing := map[string]any{}
		if patch.ClientName == nil {
			missing["client_name"] = msgRequired
		}
		if patch.Duration == nil {
			missing["duration"] = msgRequired
		}
		if len(missing) > 0 {
			return nil, apperrors.NewValidationError("missing required fields", missing)
		}
	}

	var (
		booking   *domain.Booking
		oldStatus domain.BookingStatus
		fields    []string
	)
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		booking, err = repos.Bookings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		oldStatus = booking.Status
		fields, err = applyBookingPatch(booking, patch)
		if err != nil {
			return err
		}
		return repos.Bookings.Update(ctx, booking)
	})
	if err != nil {
		return nil, translate("booking", err)
	}

	actor := optionalActor(actorID)
	s.dispatcher.Publish(ctx, events.New(events.EventBookingUpdated, booking.ID, actor, s.now(),
		events.BookingUpdatedPayload{BookingID: booking.BookingID, Fields: fields}))
	if booking.Status != oldStatus {
		s.metrics.BookingStatusChanged(string(booking.Status))
		s.dispatcher.Publish(ctx, events.New(events.EventBookingStatusChanged, booking.ID, actor, s.now(),
			events.BookingStatusChangedPayload{
				BookingID: booking.BookingID,
				OldStatus: oldStatus,
				NewStatus: booking.Status,
			}))
	}
	return booking, nil
}

// Delete removes a booking.
func (s *BookingService) Delete(ctx context.Context, actorID, id string) error {
	var booking *domain.Booking
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		booking, err = repos.Bookings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return repos.Bookings.Delete(ctx, id)
	})
	if err != nil {
		return translate("booking", err)
	}
	s.dispatcher.Publish(ctx, events.New(events.EventBookingDeleted, booking.ID, optionalActor(actorID), s.now(),
		events.BookingDeletedPayload{BookingID: booking.BookingID}))
	return nil
}

// Dashboard returns user and booking totals plus every booking, read in one
// transaction.
func (s *BookingService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	dashboard := &domain.Dashboard{}
	err := s.store.Atomic(ctx, func(repos repository.Repositories) error {
		var err error
		if dashboard.TotalUsers, err = repos.Users.Count(ctx); err != nil {
			return err
		}
		if dashboard.TotalBookings, err = repos.Bookings.Count(ctx); err != nil {
			return err
		}
		dashboard.Bookings, err = repos.Bookings.List(ctx, repository.BookingFilter{})
		return err
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return dashboard, nil
}

func applyBookingPatch(booking *domain.Booking, patch BookingPatch) ([]string, error) {
	var fields []string
	if patch.ClientName != nil {
		name := strings.TrimSpace(*patch.ClientName)
		if name == "" {
			return nil, apperrors.NewFieldError("client_name", "This field may not be blank.")
		}
		booking.ClientName = name
		fields = append(fields, "client_name")
	}
	if patch.ServiceTypeID.Set {
		booking.ServiceTypeID = patch.ServiceTypeID.Value
		fields = append(fields, "service_type")
	}
	if patch.SessionDateTime != nil {
		booking.SessionDateTime = *patch.SessionDateTime
		fields = append(fields, "session_datetime")
	}
	if patch.StartTime != nil {
		v, err := clockOrDefault("start_time", *patch.StartTime)
		if err != nil {
			return nil, err
		}
		booking.StartTime = v
		fields = append(fields, "start_time")
	}
	if patch.EndTime != nil {
		v, err := clockOrDefault("end_time", *patch.EndTime)
		if err != nil {
			return nil, err
		}
		booking.EndTime = v
		fields = append(fields, "end_time")
	}
	if patch.Duration != nil {
		if *patch.Duration <= 0 {
			return nil, apperrors.NewFieldError("duration", "Ensure this value is greater than 0.")
		}
		booking.Duration = *patch.Duration
		fields = append(fields, "duration")
	}
	if patch.Message.Set {
		booking.Message = patch.Message.Value
		fields = append(fields, "message")
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperrors.NewFieldError("status", "\""+string(*patch.Status)+"\" is not a valid choice.")
		}
		booking.Status = *patch.Status
		fields = append(fields, "status")
	}
	if patch.PaymentStatus != nil {
		if !patch.PaymentStatus.Valid() {
			return nil, apperrors.NewFieldError("payment_status", "\""+string(*patch.PaymentStatus)+"\" is not a valid choice.")
		}
		booking.PaymentStatus = *patch.PaymentStatus
		fields = append(fields, "payment_status")
	}
	return fields, nil
}

// clockOrDefault normalizes a time of day, using midnight when empty.
func clockOrDefault(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return domain.DefaultClock, nil
	}
	v, err := domain.NormalizeClock(value)
	if err != nil {
		return "", apperrors.NewFieldError(field, "Time has wrong format. Use one of these formats instead: hh:mm[:ss].")
	}
	return v, nil
}

func optionalActor(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
