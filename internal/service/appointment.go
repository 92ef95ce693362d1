package service

import (
	"context"
	"time"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data"
	"github.com/lindasales/salespro/internal/domain/model"
)

// AppointmentServiceOptions groups dependencies for AppointmentService.
type AppointmentServiceOptions struct {
	AppointmentRepo core.AppointmentRepository
	Notifier        *NotificationService
	TimeProvider    data.TimeProvider
}

// AppointmentService orchestrates owner-scoped appointment scheduling.
type AppointmentService struct {
	appointments core.AppointmentRepository
	notifier     *NotificationService
	tp           data.TimeProvider
}

// NewAppointmentService constructs a new AppointmentService.
func NewAppointmentService(opts AppointmentServiceOptions) *AppointmentService {
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	return &AppointmentService{
		appointments: opts.AppointmentRepo,
		notifier:     opts.Notifier,
		tp:           tp,
	}
}

// Create schedules an appointment for the owner.
func (s *AppointmentService) Create(ctx context.Context, ownerID string, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.appointments.Create(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	s.notifier.Success(ctx, ownerID, "Appointment scheduled.")
	return appt, nil
}

// GetByID retrieves one of the owner's appointments.
func (s *AppointmentService) GetByID(ctx context.Context, ownerID, id string) (*model.Appointment, error) {
	return s.appointments.GetByID(ctx, ownerID, id)
}

// ListUpcoming returns the owner's appointments from the given instant on.
// A zero from means "from now".
func (s *AppointmentService) ListUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]*model.Appointment, error) {
	if from.IsZero() {
		from = s.tp.Now()
	}
	return s.appointments.ListUpcoming(ctx, ownerID, from, limit)
}

// Update updates one of the owner's appointments.
func (s *AppointmentService) Update(ctx context.Context, ownerID, id string, req model.UpdateAppointmentRequest) (*model.Appointment, error) {
	return s.appointments.Update(ctx, ownerID, id, req)
}

// Delete cancels one of the owner's appointments.
func (s *AppointmentService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	ok, err := s.appointments.Delete(ctx, ownerID, id)
	if err != nil || !ok {
		return ok, err
	}
	s.notifier.Info(ctx, ownerID, "Appointment cancelled.")
	return ok, nil
}
