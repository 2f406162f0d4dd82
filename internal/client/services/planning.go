package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/dmitrijs2005/ehbmatch/internal/client/client"
	"github.com/dmitrijs2005/ehbmatch/internal/client/models"
	"github.com/dmitrijs2005/ehbmatch/internal/logging"
)

// ErrSlotUnavailable is returned when a booking does not match a free slot.
var ErrSlotUnavailable = errors.New("slot not available")

// PlanningService covers the speed-date screens: the agenda, pending
// requests, company discovery and booking.
type PlanningService interface {
	Accepted(ctx context.Context) ([]models.DayGroup[models.SpeedDate], error)
	Pending(ctx context.Context) ([]models.SpeedDate, error)
	Discover(ctx context.Context, onlyNew bool) ([]models.Company, error)
	AvailableSlots(ctx context.Context, companyID int64) ([]models.DayGroup[models.Slot], error)
	Book(ctx context.Context, companyID int64, at time.Time) error
}

type planningService struct {
	client client.Client
	loc    *time.Location
	logger logging.Logger
}

// NewPlanningService groups and renders times in loc.
func NewPlanningService(c client.Client, loc *time.Location, logger logging.Logger) PlanningService {
	if loc == nil {
		loc = time.Local
	}
	return &planningService{client: c, loc: loc, logger: logger.With("component", "planning")}
}

func (p *planningService) Accepted(ctx context.Context) ([]models.DayGroup[models.SpeedDate], error) {
	dates, err := p.client.AcceptedSpeedDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("accepted speed dates: %w", err)
	}
	return models.GroupByDay(dates, models.SpeedDateBegin, p.loc), nil
}

func (p *planningService) Pending(ctx context.Context) ([]models.SpeedDate, error) {
	dates, err := p.client.PendingSpeedDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending speed dates: %w", err)
	}
	sort.SliceStable(dates, func(i, j int) bool { return dates[i].Begin.Before(dates[j].Begin) })
	return dates, nil
}

func (p *planningService) Discover(ctx context.Context, onlyNew bool) ([]models.Company, error) {
	companies, err := p.client.Discover(ctx, onlyNew)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	return companies, nil
}

func (p *planningService) AvailableSlots(ctx context.Context, companyID int64) ([]models.DayGroup[models.Slot], error) {
	slots, err := p.client.AvailableSlots(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("available slots: %w", err)
	}
	return models.GroupByDay(slots, models.SlotBegin, p.loc), nil
}

// Book reserves the slot of companyID starting at at. The slot must be in
// the current availability list.
func (p *planningService) Book(ctx context.Context, companyID int64, at time.Time) error {
	slots, err := p.client.AvailableSlots(ctx, companyID)
	if err != nil {
		return fmt.Errorf("available slots: %w", err)
	}

	var slot *models.Slot
	for i := range slots {
		if slots[i].Begin.Equal(at) {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		return ErrSlotUnavailable
	}

	err = p.client.BookSpeedDate(ctx, models.NewBookingRequest(companyID, slot.Begin, p.loc))
	if client.IsStatus(err, http.StatusConflict) {
		return ErrSlotUnavailable
	}
	if err != nil {
		return fmt.Errorf("book: %w", err)
	}

	p.client.ClearCache()
	p.logger.Info(ctx, "speed date booked", "company_id", companyID, "slot_id", slot.ID)
	return nil
}
