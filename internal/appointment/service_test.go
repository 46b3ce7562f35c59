package appointment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/db"
	"github.com/javiermolinar/turno/internal/slot"
)

var testDoctors = []string{"Dr. Smith", "Dr. Jones"}

func newService(t *testing.T, rules appointment.Rules) *appointment.Service {
	t.Helper()
	return appointment.NewService(db.NewMemory(), appointment.Options{
		Doctors: testDoctors,
		Rules:   rules,
	})
}

func book(t *testing.T, svc *appointment.Service, email, doctor, timeSlot string) *appointment.Reservation {
	t.Helper()
	r, err := svc.Book(context.Background(), appointment.BookRequest{
		Patient:  appointment.Patient{FirstName: "John", LastName: "Doe", Email: email},
		Doctor:   doctor,
		TimeSlot: timeSlot,
	})
	if err != nil {
		t.Fatalf("Book(%s, %s, %s) failed: %v", email, doctor, timeSlot, err)
	}
	return r
}

func tryBook(svc *appointment.Service, email, doctor, timeSlot string) error {
	_, err := svc.Book(context.Background(), appointment.BookRequest{
		Patient:  appointment.Patient{Email: email},
		Doctor:   doctor,
		TimeSlot: timeSlot,
	})
	return err
}

func TestBook_ThenListByPatient(t *testing.T) {
	svc := newService(t, appointment.Rules{})
	ctx := context.Background()

	r := book(t, svc, "p@example.com", "Dr. Smith", "10:00 AM - 11:00 AM")
	if r.ID == "" {
		t.Error("expected reservation ID to be set")
	}

	got, err := svc.ListByPatient(ctx, "p@example.com")
	if err != nil {
		t.Fatalf("ListByPatient failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(got))
	}
	if got[0].ID != r.ID || got[0].Doctor != "Dr. Smith" || got[0].Slot.String() != "10:00 AM - 11:00 AM" {
		t.Errorf("unexpected reservation: %+v", got[0])
	}
}

func TestBook_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   [][3]string // email, doctor, slot
		email   string
		doctor  string
		slot    string
		wantErr error
	}{
		{
			name:    "unknown doctor",
			email:   "p@example.com",
			doctor:  "Dr. Who",
			slot:    "10:00 AM - 11:00 AM",
			wantErr: appointment.ErrUnknownDoctor,
		},
		{
			name:    "start after end",
			email:   "p@example.com",
			doctor:  "Dr. Smith",
			slot:    "11:00 AM - 10:00 AM",
			wantErr: appointment.ErrInvalidSlot,
		},
		{
			name:    "zero length rejected by default",
			email:   "p@example.com",
			doctor:  "Dr. Smith",
			slot:    "10:00 AM - 10:00 AM",
			wantErr: appointment.ErrInvalidSlot,
		},
		{
			name:    "malformed slot",
			email:   "p@example.com",
			doctor:  "Dr. Smith",
			slot:    "10am to 11am",
			wantErr: slot.ErrMalformedSlot,
		},
		{
			name:    "doctor already booked",
			setup:   [][3]string{{"p1@example.com", "Dr. Smith", "10:00 AM - 11:00 AM"}},
			email:   "p2@example.com",
			doctor:  "Dr. Smith",
			slot:    "10:00 AM - 11:00 AM",
			wantErr: appointment.ErrDoctorSlotTaken,
		},
		{
			name:    "patient already booked with another doctor",
			setup:   [][3]string{{"p@example.com", "Dr. Smith", "10:00 AM - 11:00 AM"}},
			email:   "p@example.com",
			doctor:  "Dr. Jones",
			slot:    "10:00 AM - 11:00 AM",
			wantErr: appointment.ErrPatientSlotTaken,
		},
		{
			name:    "doctor check precedes patient check",
			setup:   [][3]string{{"p@example.com", "Dr. Smith", "10:00 AM - 11:00 AM"}},
			email:   "p@example.com",
			doctor:  "Dr. Smith",
			slot:    "10:00 AM - 11:00 AM",
			wantErr: appointment.ErrDoctorSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, appointment.Rules{})
			for _, s := range tt.setup {
				book(t, svc, s[0], s[1], s[2])
			}

			err := tryBook(svc, tt.email, tt.doctor, tt.slot)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !appointment.IsRejection(err) {
				t.Errorf("expected %v to be a rejection", err)
			}

			all, _ := svc.ListByDoctor(context.Background(), tt.doctor)
			if len(all) != len(filterDoctor(tt.setup, tt.doctor)) {
				t.Errorf("rejected booking changed the store: %d reservations", len(all))
			}
		})
	}
}

func filterDoctor(setup [][3]string, doctor string) [][3]string {
	var out [][3]string
	for _, s := range setup {
		if s[1] == doctor {
			out = append(out, s)
		}
	}
	return out
}

func TestBook_ZeroLengthAllowed(t *testing.T) {
	svc := newService(t, appointment.Rules{ZeroLength: appointment.ZeroLengthAllow})

	r := book(t, svc, "p@example.com", "Dr. Smith", "10:00 AM - 10:00 AM")
	if !r.Slot.IsZeroLength() {
		t.Errorf("expected zero-length slot, got %s", r.Slot)
	}
}

func TestBook_ExactMatchPolicyIgnoresOverlap(t *testing.T) {
	svc := newService(t, appointment.Rules{Policy: appointment.PolicyExactMatch})

	book(t, svc, "p1@example.com", "Dr. Smith", "10:00 AM - 11:00 AM")
	// Overlapping but not identical: admitted under exact-match.
	book(t, svc, "p2@example.com", "Dr. Smith", "10:30 AM - 11:30 AM")

	got, _ := svc.ListByDoctor(context.Background(), "Dr. Smith")
	if len(got) != 2 {
		t.Errorf("expected 2 reservations, got %d", len(got))
	}
}

func TestBook_IntervalOverlapPolicy(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		doctor  string
		slot    string
		wantErr error
	}{
		{name: "doctor overlap", email: "p2@example.com", doctor: "Dr. Smith", slot: "10:30 AM - 11:30 AM", wantErr: appointment.ErrDoctorSlotTaken},
		{name: "doctor contained", email: "p2@example.com", doctor: "Dr. Smith", slot: "10:15 AM - 10:45 AM", wantErr: appointment.ErrDoctorSlotTaken},
		{name: "patient overlap other doctor", email: "p1@example.com", doctor: "Dr. Jones", slot: "9:30 AM - 10:30 AM", wantErr: appointment.ErrPatientSlotTaken},
		{name: "touching before", email: "p2@example.com", doctor: "Dr. Smith", slot: "9:00 AM - 10:00 AM"},
		{name: "touching after", email: "p1@example.com", doctor: "Dr. Smith", slot: "11:00 AM - 12:00 PM"},
		{name: "other doctor other patient", email: "p2@example.com", doctor: "Dr. Jones", slot: "10:00 AM - 11:00 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, appointment.Rules{Policy: appointment.PolicyIntervalOverlap})
			book(t, svc, "p1@example.com", "Dr. Smith", "10:00 AM - 11:00 AM")

			err := tryBook(svc, tt.email, tt.doctor, tt.slot)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected booking to succeed, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	svc := newService(t, appointment.Rules{})
	ctx := context.Background()

	r := book(t, svc, "p@example.com", "Dr. Smith", "10:00 AM - 11:00 AM")

	removed, err := svc.Cancel(ctx, "p@example.com", "10:00 AM - 11:00 AM")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if removed.ID != r.ID {
		t.Errorf("removed %s, want %s", removed.ID, r.ID)
	}

	got, _ := svc.ListByPatient(ctx, "p@example.com")
	if len(got) != 0 {
		t.Errorf("expected no reservations after cancel, got %d", len(got))
	}

	_, err = svc.Cancel(ctx, "p@example.com", "10:00 AM - 11:00 AM")
	if !errors.Is(err, appointment.ErrNotFound) {
		t.Errorf("second Cancel: expected ErrNotFound, got %v", err)
	}
}

func TestCancel_MatchesSlotNotText(t *testing.T) {
	svc := newService(t, appointment.Rules{})

	book(t, svc, "p@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")

	if _, err := svc.Cancel(context.Background(), "p@example.com", "09:00 AM - 10:00 AM"); err != nil {
		t.Fatalf("expected leading-zero spelling to match, got %v", err)
	}
}

func TestCancel_OnlyFirstMatchRemoved(t *testing.T) {
	svc := newService(t, appointment.Rules{})
	ctx := context.Background()

	book(t, svc, "p@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")
	book(t, svc, "p@example.com", "Dr. Jones", "10:00 AM - 11:00 AM")

	if _, err := svc.Cancel(ctx, "p@example.com", "9:00 AM - 10:00 AM"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	got, _ := svc.ListByPatient(ctx, "p@example.com")
	if len(got) != 1 || got[0].Doctor != "Dr. Jones" {
		t.Errorf("expected only the Dr. Jones booking to remain, got %+v", got)
	}
}

func TestCancel_Rejections(t *testing.T) {
	svc := newService(t, appointment.Rules{})
	ctx := context.Background()

	if _, err := svc.Cancel(ctx, "p@example.com", "11:00 AM - 10:00 AM"); !errors.Is(err, appointment.ErrInvalidSlot) {
		t.Errorf("unordered slot: expected ErrInvalidSlot, got %v", err)
	}
	if _, err := svc.Cancel(ctx, "nobody@example.com", "10:00 AM - 11:00 AM"); !errors.Is(err, appointment.ErrNotFound) {
		t.Errorf("unknown patient: expected ErrNotFound, got %v", err)
	}
}

func TestCancelByID(t *testing.T) {
	svc := newService(t, appointment.Rules{})
	ctx := context.Background()

	book(t, svc, "p@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")
	second := book(t, svc, "p@example.com", "Dr. Jones", "10:00 AM - 11:00 AM")

	removed, err := svc.CancelByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("CancelByID failed: %v", err)
	}
	if removed.ID != second.ID {
		t.Errorf("removed %s, want %s", removed.ID, second.ID)
	}

	got, _ := svc.ListByPatient(ctx, "p@example.com")
	if len(got) != 1 || got[0].Doctor != "Dr. Smith" {
		t.Errorf("expected only the Dr. Smith booking to remain, got %+v", got)
	}

	if _, err := svc.CancelByID(ctx, second.ID); !errors.Is(err, appointment.ErrNotFound) {
		t.Errorf("second CancelByID: expected ErrNotFound, got %v", err)
	}
}

func TestCancelByID_IgnoresCurrentSlotRules(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemory()
	doctors := []string{"Dr. Smith"}

	allow := appointment.NewService(repo, appointment.Options{
		Doctors: doctors,
		Rules:   appointment.Rules{ZeroLength: appointment.ZeroLengthAllow},
	})
	r, err := allow.Book(ctx, appointment.BookRequest{
		Patient:  appointment.Patient{Email: "p@example.com"},
		Doctor:   "Dr. Smith",
		TimeSlot: "9:00 AM - 9:00 AM",
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	reject := appointment.NewService(repo, appointment.Options{Doctors: doctors})
	if _, err := reject.Cancel(ctx, "p@example.com", "9:00 AM - 9:00 AM"); !errors.Is(err, appointment.ErrInvalidSlot) {
		t.Fatalf("Cancel by slot: expected ErrInvalidSlot, got %v", err)
	}
	if _, err := reject.CancelByID(ctx, r.ID); err != nil {
		t.Errorf("CancelByID failed: %v", err)
	}
}

func TestReschedule(t *testing.T) {
	svc := newService(t, appointment.Rules{})
	ctx := context.Background()

	r := book(t, svc, "p@example.com", "Dr. Smith", "10:00 AM - 11:00 AM")

	updated, err := svc.Reschedule(ctx, "p@example.com", "10:00 AM - 11:00 AM", "11:00 AM - 12:00 PM")
	if err != nil {
		t.Fatalf("Reschedule failed: %v", err)
	}
	if updated.ID != r.ID {
		t.Errorf("reschedule changed the reservation ID")
	}

	got, _ := svc.ListByPatient(ctx, "p@example.com")
	if len(got) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(got))
	}
	if got[0].Slot.String() != "11:00 AM - 12:00 PM" {
		t.Errorf("Slot: got %s, want 11:00 AM - 12:00 PM", got[0].Slot)
	}
}

func TestReschedule_NewSlotTaken(t *testing.T) {
	svc := newService(t, appointment.Rules{})

	book(t, svc, "a@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")
	book(t, svc, "b@example.com", "Dr. Smith", "10:00 AM - 11:00 AM")

	_, err := svc.Reschedule(context.Background(), "a@example.com", "9:00 AM - 10:00 AM", "10:00 AM - 11:00 AM")
	if !errors.Is(err, appointment.ErrNewSlotTaken) {
		t.Fatalf("expected ErrNewSlotTaken, got %v", err)
	}

	got, _ := svc.ListByPatient(context.Background(), "a@example.com")
	if got[0].Slot.String() != "9:00 AM - 10:00 AM" {
		t.Errorf("failed reschedule changed the slot to %s", got[0].Slot)
	}
}

func TestReschedule_SameSlotIsNotAConflict(t *testing.T) {
	svc := newService(t, appointment.Rules{})

	book(t, svc, "a@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")

	if _, err := svc.Reschedule(context.Background(), "a@example.com", "9:00 AM - 10:00 AM", "9:00 AM - 10:00 AM"); err != nil {
		t.Errorf("expected rescheduling onto its own slot to succeed, got %v", err)
	}
}

func TestReschedule_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		rules    appointment.Rules
		original string
		newSlot  string
		wantErr  error
	}{
		{name: "not found", original: "1:00 PM - 2:00 PM", newSlot: "3:00 PM - 4:00 PM", wantErr: appointment.ErrNotFound},
		{name: "new slot unordered", original: "9:00 AM - 10:00 AM", newSlot: "4:00 PM - 3:00 PM", wantErr: appointment.ErrInvalidSlot},
		{name: "new slot zero length", original: "9:00 AM - 10:00 AM", newSlot: "3:00 PM - 3:00 PM", wantErr: appointment.ErrInvalidSlot},
		{name: "new slot malformed", original: "9:00 AM - 10:00 AM", newSlot: "3 PM - 4 PM", wantErr: slot.ErrMalformedTime},
		{
			name:     "overlap with doctor under interval policy",
			rules:    appointment.Rules{Policy: appointment.PolicyIntervalOverlap},
			original: "9:00 AM - 10:00 AM",
			newSlot:  "10:30 AM - 11:30 AM",
			wantErr:  appointment.ErrNewSlotTaken,
		},
		{
			name:     "overlap with patient under interval policy",
			rules:    appointment.Rules{Policy: appointment.PolicyIntervalOverlap},
			original: "9:00 AM - 10:00 AM",
			newSlot:  "1:30 PM - 2:30 PM",
			wantErr:  appointment.ErrNewSlotTaken,
		},
		{
			name:     "identical slot for patient under interval policy",
			rules:    appointment.Rules{Policy: appointment.PolicyIntervalOverlap},
			original: "9:00 AM - 10:00 AM",
			newSlot:  "1:00 PM - 2:00 PM",
			wantErr:  appointment.ErrNewSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.rules)
			book(t, svc, "a@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")
			book(t, svc, "b@example.com", "Dr. Smith", "10:00 AM - 11:00 AM")
			book(t, svc, "a@example.com", "Dr. Jones", "1:00 PM - 2:00 PM")

			_, err := svc.Reschedule(context.Background(), "a@example.com", tt.original, tt.newSlot)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReschedule_ExtendWithinOwnSlotUnderIntervalPolicy(t *testing.T) {
	svc := newService(t, appointment.Rules{Policy: appointment.PolicyIntervalOverlap})

	book(t, svc, "a@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")

	if _, err := svc.Reschedule(context.Background(), "a@example.com", "9:00 AM - 10:00 AM", "9:00 AM - 10:30 AM"); err != nil {
		t.Errorf("expected a reservation not to conflict with itself, got %v", err)
	}
}

func TestList_EmptyNeverError(t *testing.T) {
	svc := newService(t, appointment.Rules{})
	ctx := context.Background()

	byPatient, err := svc.ListByPatient(ctx, "nobody@example.com")
	if err != nil || byPatient == nil || len(byPatient) != 0 {
		t.Errorf("ListByPatient on empty store: got %v, %v", byPatient, err)
	}

	book(t, svc, "p@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")

	byDoctor, err := svc.ListByDoctor(ctx, "Dr. Unknown")
	if err != nil || byDoctor == nil || len(byDoctor) != 0 {
		t.Errorf("ListByDoctor on non-matching doctor: got %v, %v", byDoctor, err)
	}
}

func TestListByDoctor_StoreOrder(t *testing.T) {
	svc := newService(t, appointment.Rules{})

	book(t, svc, "a@example.com", "Dr. Smith", "3:00 PM - 4:00 PM")
	book(t, svc, "b@example.com", "Dr. Jones", "9:00 AM - 10:00 AM")
	book(t, svc, "c@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")

	got, _ := svc.ListByDoctor(context.Background(), "Dr. Smith")
	if len(got) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(got))
	}
	if got[0].Patient.Email != "a@example.com" || got[1].Patient.Email != "c@example.com" {
		t.Errorf("expected booking order, got %s then %s", got[0].Patient.Email, got[1].Patient.Email)
	}
}

func TestGet(t *testing.T) {
	svc := newService(t, appointment.Rules{})
	ctx := context.Background()

	r := book(t, svc, "p@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")

	got, err := svc.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Patient.Email != "p@example.com" {
		t.Errorf("unexpected reservation %+v", got)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, appointment.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDoctors(t *testing.T) {
	svc := newService(t, appointment.Rules{})

	doctors := svc.Doctors()
	doctors[0] = "mutated"

	if svc.Doctors()[0] != "Dr. Smith" {
		t.Error("Doctors must return a copy")
	}
	if !svc.IsKnownDoctor("Dr. Jones") || svc.IsKnownDoctor("Dr. Who") {
		t.Error("unexpected roster membership")
	}
}

type recordingObserver struct {
	mu           sync.Mutex
	ops          []string
	failures     int
	reservations int
}

func (o *recordingObserver) ObserveOperation(op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op)
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) SetReservations(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reservations = n
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	fixed := time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC)
	svc := appointment.NewService(db.NewMemory(), appointment.Options{
		Doctors:  testDoctors,
		Observer: obs,
		Now:      func() time.Time { return fixed },
	})
	ctx := context.Background()

	r := book(t, svc, "a@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")
	if !r.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt: got %v, want %v", r.CreatedAt, fixed)
	}
	book(t, svc, "b@example.com", "Dr. Smith", "10:00 AM - 11:00 AM")
	_ = tryBook(svc, "c@example.com", "Dr. Smith", "9:00 AM - 10:00 AM")
	if _, err := svc.Cancel(ctx, "a@example.com", "9:00 AM - 10:00 AM"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	want := []string{appointment.OpBook, appointment.OpBook, appointment.OpBook, appointment.OpCancel}
	if len(obs.ops) != len(want) {
		t.Fatalf("observed %v, want %v", obs.ops, want)
	}
	for i := range want {
		if obs.ops[i] != want[i] {
			t.Errorf("op %d: got %s, want %s", i, obs.ops[i], want[i])
		}
	}
	if obs.failures != 1 {
		t.Errorf("expected 1 failure, got %d", obs.failures)
	}
	if obs.reservations != 1 {
		t.Errorf("expected 1 reservation reported, got %d", obs.reservations)
	}
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	svc := newService(t, appointment.Rules{})

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			email := string(rune('a'+i)) + "@example.com"
			if err := tryBook(svc, email, "Dr. Smith", "10:00 AM - 11:00 AM"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one booking to win, got %d", successes)
	}
}
