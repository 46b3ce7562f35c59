package appointment

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/turno/internal/slot"
)

// Operation names reported to the Observer.
const (
	OpBook       = "book"
	OpCancel     = "cancel"
	OpReschedule = "reschedule"
)

// Observer receives booking outcomes. internal/metrics provides the
// Prometheus implementation.
type Observer interface {
	ObserveOperation(op string, err error)
	SetReservations(n int)
}

// Options configures a Service.
type Options struct {
	Doctors  []string
	Rules    Rules
	Logger   *zap.Logger
	Observer Observer
	Now      func() time.Time
}

// BookRequest carries the inputs of a booking.
type BookRequest struct {
	Patient  Patient
	Doctor   string
	TimeSlot string
}

// Service owns a reservation store and admits, cancels and reschedules
// reservations against it. All operations are serialized.
type Service struct {
	mu       sync.Mutex
	repo     Repository
	doctors  []string
	roster   map[string]bool
	rules    Rules
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

// NewService creates a Service over repo.
func NewService(repo Repository, opts Options) *Service {
	roster := make(map[string]bool, len(opts.Doctors))
	for _, d := range opts.Doctors {
		roster[d] = true
	}
	if opts.Rules.Policy == "" {
		opts.Rules.Policy = PolicyExactMatch
	}
	if opts.Rules.ZeroLength == "" {
		opts.Rules.ZeroLength = ZeroLengthReject
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:     repo,
		doctors:  slices.Clone(opts.Doctors),
		roster:   roster,
		rules:    opts.Rules,
		logger:   opts.Logger,
		observer: opts.Observer,
		now:      opts.Now,
	}
}

// Doctors returns the configured doctor roster.
func (s *Service) Doctors() []string {
	return slices.Clone(s.doctors)
}

// Rules returns the slot rules in force.
func (s *Service) Rules() Rules {
	return s.rules
}

// IsKnownDoctor reports whether the doctor is on the roster.
func (s *Service) IsKnownDoctor(doctor string) bool {
	return s.roster[doctor]
}

// Book admits a new reservation.
//
// A doctor outside the roster yields ErrUnknownDoctor and an unordered slot
// ErrInvalidSlot. The exact duplicate checks run first: the doctor already
// holding the slot yields ErrDoctorSlotTaken, the patient already holding it
// ErrPatientSlotTaken. Under PolicyIntervalOverlap an overlapping reservation
// yields the same errors.
func (s *Service) Book(ctx context.Context, req BookRequest) (r *Reservation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe(ctx, OpBook, err) }()

	if !s.IsKnownDoctor(req.Doctor) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDoctor, req.Doctor)
	}

	candidate, err := s.rules.parse(req.TimeSlot)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	if taken := findExact(existing, func(r *Reservation) bool {
		return r.IsWithDoctor(req.Doctor) && r.Slot.Equal(candidate)
	}); taken != nil {
		return nil, fmt.Errorf("%w: %s is booked %s", ErrDoctorSlotTaken, req.Doctor, candidate)
	}

	if taken := findExact(existing, func(r *Reservation) bool {
		return r.Matches(req.Patient.Email, candidate)
	}); taken != nil {
		return nil, fmt.Errorf("%w: %s already booked %s with %s",
			ErrPatientSlotTaken, req.Patient.Email, candidate, taken.Doctor)
	}

	if s.rules.Policy.ChecksOverlap() {
		if c := FindConflict(existing, candidate, req.Doctor, req.Patient.Email, ""); c.Found() {
			return nil, conflictError(c, candidate)
		}
	}

	r = NewReservation(req.Patient, req.Doctor, candidate, s.now())
	if err := s.repo.Add(ctx, r); err != nil {
		return nil, fmt.Errorf("adding reservation: %w", err)
	}

	s.logger.Info("appointment booked",
		zap.String("id", r.ID),
		zap.String("patient", r.Patient.Email),
		zap.String("doctor", r.Doctor),
		zap.Stringer("slot", r.Slot),
	)
	return r.Clone(), nil
}

// Cancel removes the patient's reservation for exactly the given slot.
// Returns the removed reservation, or ErrNotFound.
func (s *Service) Cancel(ctx context.Context, email, timeSlot string) (r *Reservation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe(ctx, OpCancel, err) }()

	target, err := s.rules.parse(timeSlot)
	if err != nil {
		return nil, err
	}

	r, err = s.findByPatientSlot(ctx, email, target)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Remove(ctx, r.ID); err != nil {
		return nil, fmt.Errorf("removing reservation: %w", err)
	}

	s.logger.Info("appointment canceled",
		zap.String("id", r.ID),
		zap.String("patient", email),
		zap.Stringer("slot", target),
	)
	return r, nil
}

// CancelByID removes the reservation with the given ID, or returns
// ErrNotFound. The slot rules are not applied, so a reservation admitted
// under earlier rules can still be removed.
func (s *Service) CancelByID(ctx context.Context, id string) (r *Reservation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe(ctx, OpCancel, err) }()

	r, err = s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		return nil, fmt.Errorf("removing reservation: %w", err)
	}

	s.logger.Info("appointment canceled",
		zap.String("id", r.ID),
		zap.String("patient", r.Patient.Email),
		zap.Stringer("slot", r.Slot),
	)
	return r, nil
}

// Reschedule moves the patient's reservation at originalSlot to newSlot.
//
// Returns ErrNotFound when the patient holds nothing at originalSlot and
// ErrNewSlotTaken when another reservation with the same doctor already holds
// newSlot. Under PolicyIntervalOverlap any overlap for the doctor or the
// patient also yields ErrNewSlotTaken. The reservation keeps its ID and
// position in the store.
func (s *Service) Reschedule(ctx context.Context, email, originalSlot, newSlot string) (r *Reservation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe(ctx, OpReschedule, err) }()

	from, err := s.rules.parse(originalSlot)
	if err != nil {
		return nil, fmt.Errorf("original slot: %w", err)
	}
	to, err := s.rules.parse(newSlot)
	if err != nil {
		return nil, fmt.Errorf("new slot: %w", err)
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}

	r = findExact(existing, func(c *Reservation) bool { return c.Matches(email, from) })
	if r == nil {
		return nil, fmt.Errorf("%w: %s has nothing booked %s", ErrNotFound, email, from)
	}

	if taken := findExact(existing, func(c *Reservation) bool {
		return c.ID != r.ID && c.IsWithDoctor(r.Doctor) && c.Slot.Equal(to)
	}); taken != nil {
		return nil, fmt.Errorf("%w: %s is booked %s", ErrNewSlotTaken, r.Doctor, to)
	}

	if s.rules.Policy.ChecksOverlap() {
		// Overlaps is strict, so the patient's identical slot needs its own check.
		if taken := findExact(existing, func(c *Reservation) bool {
			return c.ID != r.ID && c.Matches(email, to)
		}); taken != nil {
			return nil, fmt.Errorf("%w: %s already booked %s with %s", ErrNewSlotTaken, email, to, taken.Doctor)
		}
		if c := FindConflict(existing, to, r.Doctor, email, r.ID); c.Found() {
			return nil, fmt.Errorf("%w: overlaps %s", ErrNewSlotTaken, c.Reservation.Slot)
		}
	}

	updatedAt := s.now()
	if err := s.repo.UpdateSlot(ctx, r.ID, to, updatedAt); err != nil {
		return nil, fmt.Errorf("updating reservation: %w", err)
	}
	r.Slot = to
	r.UpdatedAt = updatedAt

	s.logger.Info("appointment updated",
		zap.String("id", r.ID),
		zap.String("patient", email),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	return r, nil
}

// ListByPatient returns the patient's reservations in booking order.
// The result is empty, never nil, when nothing matches.
func (s *Service) ListByPatient(ctx context.Context, email string) ([]*Reservation, error) {
	return s.filter(ctx, func(r *Reservation) bool { return r.IsForPatient(email) })
}

// ListByDoctor returns the doctor's reservations in booking order.
// An unknown doctor and a doctor with no bookings both yield an empty slice.
func (s *Service) ListByDoctor(ctx context.Context, doctor string) ([]*Reservation, error) {
	return s.filter(ctx, func(r *Reservation) bool { return r.IsWithDoctor(doctor) })
}

// Get returns a reservation by its ID.
func (s *Service) Get(ctx context.Context, id string) (*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(ctx, id)
}

func (s *Service) filter(ctx context.Context, keep func(*Reservation) bool) ([]*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	out := make([]*Reservation, 0, len(all))
	for _, r := range all {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) findByPatientSlot(ctx context.Context, email string, target slot.Slot) (*Reservation, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	r := findExact(existing, func(c *Reservation) bool { return c.Matches(email, target) })
	if r == nil {
		return nil, fmt.Errorf("%w: %s has nothing booked %s", ErrNotFound, email, target)
	}
	return r, nil
}

// observe reports an outcome and, on success, the new store size.
// Must be called with s.mu held.
func (s *Service) observe(ctx context.Context, op string, err error) {
	switch {
	case err == nil:
	case IsRejection(err):
		s.logger.Info("appointment request rejected", zap.String("op", op), zap.Error(err))
	default:
		s.logger.Error("appointment request failed", zap.String("op", op), zap.Error(err))
	}
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(op, err)
	if err != nil {
		return
	}
	all, listErr := s.repo.List(ctx)
	if listErr != nil {
		s.logger.Error("counting reservations", zap.Error(listErr))
		return
	}
	s.observer.SetReservations(len(all))
}

func conflictError(c Conflict, candidate slot.Slot) error {
	if c.ByDoctor {
		return fmt.Errorf("%w: %s overlaps %s with %s",
			ErrDoctorSlotTaken, candidate, c.Reservation.Slot, c.Reservation.Doctor)
	}
	return fmt.Errorf("%w: %s overlaps %s for %s",
		ErrPatientSlotTaken, candidate, c.Reservation.Slot, c.Reservation.Patient.Email)
}
