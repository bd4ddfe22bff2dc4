// Package repotest provides an in-memory implementation of the repository
// interfaces for service and handler tests. Constraint violations are reported
// as *pgconn.PgError values carrying the same constraint names as the schema.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository"
)

// Store is an in-memory repository.Transactor. A failed Atomic call restores
// the state captured when it began.
type Store struct {
	mu   sync.Mutex
	data *state
	// Now stamps created_at/updated_at columns.
	Now func() time.Time
	// CommitErr, when set, fails every Atomic call after fn succeeds, as a
	// failed COMMIT would.
	CommitErr error
}

type state struct {
	seq          int64
	users        map[string]domain.User
	roles        map[string]domain.Role
	serviceTypes map[string]domain.ServiceType
	bookings     map[string]domain.Booking
	bookingSeq   map[string]int64
	otps         map[string]domain.PasswordResetOTP
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		data: &state{
			users:        map[string]domain.User{},
			roles:        map[string]domain.Role{},
			serviceTypes: map[string]domain.ServiceType{},
			bookings:     map[string]domain.Booking{},
			bookingSeq:   map[string]int64{},
			otps:         map[string]domain.PasswordResetOTP{},
		},
		Now: time.Now,
	}
}

// Atomic implements repository.Transactor.
func (s *Store) Atomic(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(s.repos()); err != nil {
		s.data = snapshot
		return err
	}
	if s.CommitErr != nil {
		s.data = snapshot
		return s.CommitErr
	}
	return nil
}

func (s *Store) repos() repository.Repositories {
	return repository.Repositories{
		Users:          &users{s},
		Roles:          &roles{s},
		ServiceTypes:   &serviceTypes{s},
		Bookings:       &bookings{s},
		PasswordResets: &resets{s},
	}
}

// OTPs returns every stored reset code.
func (s *Store) OTPs() []domain.PasswordResetOTP {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PasswordResetOTP, 0, len(s.data.otps))
	for _, otp := range s.data.otps {
		out = append(out, otp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// User returns a stored user by email.
func (s *Store) User(email string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

// BookingCount reports how many bookings are stored.
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.bookings)
}

func (st *state) clone() *state {
	out := &state{
		seq:          st.seq,
		users:        make(map[string]domain.User, len(st.users)),
		roles:        make(map[string]domain.Role, len(st.roles)),
		serviceTypes: make(map[string]domain.ServiceType, len(st.serviceTypes)),
		bookings:     make(map[string]domain.Booking, len(st.bookings)),
		bookingSeq:   make(map[string]int64, len(st.bookingSeq)),
		otps:         make(map[string]domain.PasswordResetOTP, len(st.otps)),
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.roles {
		out.roles[k] = v
	}
	for k, v := range st.serviceTypes {
		out.serviceTypes[k] = v
	}
	for k, v := range st.bookings {
		out.bookings[k] = v
	}
	for k, v := range st.bookingSeq {
		out.bookingSeq[k] = v
	}
	for k, v := range st.otps {
		out.otps[k] = v
	}
	return out
}

func violation(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint, Message: "constraint violation: " + constraint}
}

func uniqueViolation(constraint string) error { return violation("23505", constraint) }

func fkViolation(constraint string) error { return violation("23503", constraint) }

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func window[T any](items []T, page repository.Page) []T {
	if page.Offset > 0 {
		if page.Offset >= len(items) {
			return nil
		}
		items = items[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

type users struct{ s *Store }

func (r *users) Create(_ context.Context, user *domain.User) error {
	d := r.s.data
	for _, u := range d.users {
		if u.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
		if u.Username == user.Username {
			return uniqueViolation("users_username_key")
		}
	}
	if user.RoleID != nil {
		if _, ok := d.roles[*user.RoleID]; !ok {
			return fkViolation("users_role_id_fkey")
		}
	}
	now := r.s.Now()
	user.ID = uuid.NewString()
	user.DateJoined = now
	user.UpdatedAt = now
	d.users[user.ID] = *user
	return nil
}

func (r *users) Update(_ context.Context, user *domain.User) error {
	d := r.s.data
	current, ok := d.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for id, u := range d.users {
		if id != user.ID && u.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
	}
	if user.RoleID != nil {
		if _, ok := d.roles[*user.RoleID]; !ok {
			return fkViolation("users_role_id_fkey")
		}
	}
	current.Email = user.Email
	current.PasswordHash = user.PasswordHash
	current.FullName = user.FullName
	current.Phone = user.Phone
	current.RoleID = user.RoleID
	current.IsActive = user.IsActive
	current.IsStaff = user.IsStaff
	current.UpdatedAt = r.s.Now()
	user.UpdatedAt = current.UpdatedAt
	d.users[user.ID] = current
	return nil
}

func (r *users) Delete(_ context.Context, id string) error {
	d := r.s.data
	if _, ok := d.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(d.users, id)
	for otpID, otp := range d.otps {
		if otp.UserID == id {
			delete(d.otps, otpID)
		}
	}
	return nil
}

func (r *users) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *users) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	for id, u := range r.s.data.users {
		if u.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *users) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.s.data.users {
		if filter.ExcludeID != "" && u.ID == filter.ExcludeID {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if !contains(u.FullName, term) && !contains(u.Phone, term) && !contains(u.ID, term) {
				continue
			}
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateJoined.After(out[j].DateJoined) })
	return window(out, filter.Page), nil
}

func (r *users) Count(context.Context) (int64, error) {
	return int64(len(r.s.data.users)), nil
}

type roles struct{ s *Store }

func (r *roles) Create(_ context.Context, role *domain.Role) error {
	for _, existing := range r.s.data.roles {
		if existing.Name == role.Name {
			return uniqueViolation("roles_name_key")
		}
	}
	now := r.s.Now()
	role.ID = uuid.NewString()
	role.CreatedAt, role.UpdatedAt = now, now
	r.s.data.roles[role.ID] = *role
	return nil
}

func (r *roles) Update(_ context.Context, role *domain.Role) error {
	if _, ok := r.s.data.roles[role.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.s.data.roles {
		if id != role.ID && existing.Name == role.Name {
			return uniqueViolation("roles_name_key")
		}
	}
	role.UpdatedAt = r.s.Now()
	r.s.data.roles[role.ID] = *role
	return nil
}

func (r *roles) Delete(_ context.Context, id string) error {
	d := r.s.data
	if _, ok := d.roles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(d.roles, id)
	for uid, u := range d.users {
		if u.RoleID != nil && *u.RoleID == id {
			u.RoleID = nil
			d.users[uid] = u
		}
	}
	return nil
}

func (r *roles) GetByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.s.data.roles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}

func (r *roles) List(context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.s.data.roles))
	for _, role := range r.s.data.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type serviceTypes struct{ s *Store }

func (r *serviceTypes) Create(_ context.Context, st *domain.ServiceType) error {
	for _, existing := range r.s.data.serviceTypes {
		if existing.Name == st.Name {
			return uniqueViolation("service_types_name_key")
		}
	}
	now := r.s.Now()
	st.ID = uuid.NewString()
	st.CreatedAt, st.UpdatedAt = now, now
	r.s.data.serviceTypes[st.ID] = *st
	return nil
}

func (r *serviceTypes) Update(_ context.Context, st *domain.ServiceType) error {
	if _, ok := r.s.data.serviceTypes[st.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.s.data.serviceTypes {
		if id != st.ID && existing.Name == st.Name {
			return uniqueViolation("service_types_name_key")
		}
	}
	st.UpdatedAt = r.s.Now()
	r.s.data.serviceTypes[st.ID] = *st
	return nil
}

func (r *serviceTypes) Delete(_ context.Context, id string) error {
	d := r.s.data
	if _, ok := d.serviceTypes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(d.serviceTypes, id)
	for bid, b := range d.bookings {
		if b.ServiceTypeID != nil && *b.ServiceTypeID == id {
			b.ServiceTypeID = nil
			d.bookings[bid] = b
		}
	}
	return nil
}

func (r *serviceTypes) GetByID(_ context.Context, id string) (*domain.ServiceType, error) {
	st, ok := r.s.data.serviceTypes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &st, nil
}

func (r *serviceTypes) List(context.Context) ([]domain.ServiceType, error) {
	out := make([]domain.ServiceType, 0, len(r.s.data.serviceTypes))
	for _, st := range r.s.data.serviceTypes {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type bookings struct{ s *Store }

// withServiceTypeName fills the joined name the way the SQL repository does.
func (r *bookings) withServiceTypeName(b domain.Booking) domain.Booking {
	b.ServiceTypeName = nil
	if b.ServiceTypeID != nil {
		if st, ok := r.s.data.serviceTypes[*b.ServiceTypeID]; ok {
			name := st.Name
			b.ServiceTypeName = &name
		}
	}
	return b
}

func (r *bookings) checkServiceType(b *domain.Booking) error {
	if b.ServiceTypeID == nil {
		return nil
	}
	if _, ok := r.s.data.serviceTypes[*b.ServiceTypeID]; !ok {
		return fkViolation("bookings_service_type_id_fkey")
	}
	return nil
}

func (r *bookings) Create(_ context.Context, booking *domain.Booking) error {
	d := r.s.data
	for _, b := range d.bookings {
		if b.BookingID == booking.BookingID {
			return uniqueViolation("bookings_booking_id_key")
		}
	}
	if booking.Duration <= 0 {
		return violation("23514", "bookings_duration_check")
	}
	if err := r.checkServiceType(booking); err != nil {
		return err
	}
	now := r.s.Now()
	booking.ID = uuid.NewString()
	booking.CreatedAt, booking.UpdatedAt = now, now
	d.seq++
	d.bookingSeq[booking.ID] = d.seq
	stored := r.withServiceTypeName(*booking)
	booking.ServiceTypeName = stored.ServiceTypeName
	d.bookings[booking.ID] = stored
	return nil
}

func (r *bookings) Update(_ context.Context, booking *domain.Booking) error {
	d := r.s.data
	current, ok := d.bookings[booking.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := r.checkServiceType(booking); err != nil {
		return err
	}
	current.ClientName = booking.ClientName
	current.ServiceTypeID = booking.ServiceTypeID
	current.SessionDateTime = booking.SessionDateTime
	current.StartTime = booking.StartTime
	current.EndTime = booking.EndTime
	current.Duration = booking.Duration
	current.Message = booking.Message
	current.Status = booking.Status
	current.PaymentStatus = booking.PaymentStatus
	current.UpdatedAt = r.s.Now()
	current = r.withServiceTypeName(current)
	booking.ServiceTypeName = current.ServiceTypeName
	booking.UpdatedAt = current.UpdatedAt
	d.bookings[booking.ID] = current
	return nil
}

func (r *bookings) Delete(_ context.Context, id string) error {
	if _, ok := r.s.data.bookings[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.data.bookings, id)
	delete(r.s.data.bookingSeq, id)
	return nil
}

func (r *bookings) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.s.data.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	b = r.withServiceTypeName(b)
	return &b, nil
}

func (r *bookings) List(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	d := r.s.data
	var out []domain.Booking
	for _, b := range d.bookings {
		if len(filter.Statuses) > 0 && !containsValue(filter.Statuses, b.Status) {
			continue
		}
		if len(filter.PaymentStatuses) > 0 && !containsValue(filter.PaymentStatuses, b.PaymentStatus) {
			continue
		}
		if filter.ServiceTypeID != nil && (b.ServiceTypeID == nil || *b.ServiceTypeID != *filter.ServiceTypeID) {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if !contains(b.ClientName, term) && !contains(b.Phone, term) && !contains(b.BookingID, term) {
				continue
			}
		}
		out = append(out, r.withServiceTypeName(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return d.bookingSeq[out[i].ID] > d.bookingSeq[out[j].ID]
	})
	return window(out, filter.Page), nil
}

func (r *bookings) Count(context.Context) (int64, error) {
	return int64(len(r.s.data.bookings)), nil
}

func containsValue[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

type resets struct{ s *Store }

func (r *resets) Create(_ context.Context, otp *domain.PasswordResetOTP) error {
	if _, ok := r.s.data.users[otp.UserID]; !ok {
		return fkViolation("password_reset_otps_user_id_fkey")
	}
	otp.ID = uuid.NewString()
	r.s.data.otps[otp.ID] = *otp
	return nil
}

func (r *resets) FindByUserAndCode(_ context.Context, userID, code string) (*domain.PasswordResetOTP, error) {
	var found *domain.PasswordResetOTP
	for _, otp := range r.s.data.otps {
		if otp.UserID != userID || otp.Code != code {
			continue
		}
		if found == nil || otp.CreatedAt.After(found.CreatedAt) {
			candidate := otp
			found = &candidate
		}
	}
	if found == nil {
		return nil, pgx.ErrNoRows
	}
	return found, nil
}

func (r *resets) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(func(otp domain.PasswordResetOTP) bool { return otp.ExpiresAt.Before(now) }), nil
}

func (r *resets) DeleteLiveForUser(_ context.Context, userID string, now time.Time) (int64, error) {
	return r.deleteWhere(func(otp domain.PasswordResetOTP) bool {
		return otp.UserID == userID && !otp.ExpiresAt.Before(now)
	}), nil
}

func (r *resets) DeleteAllForUser(_ context.Context, userID string) (int64, error) {
	return r.deleteWhere(func(otp domain.PasswordResetOTP) bool { return otp.UserID == userID }), nil
}

func (r *resets) deleteWhere(match func(domain.PasswordResetOTP) bool) int64 {
	var n int64
	for id, otp := range r.s.data.otps {
		if match(otp) {
			delete(r.s.data.otps, id)
			n++
		}
	}
	return n
}
