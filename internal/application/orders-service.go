package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/RaikyD/laundry-intake-service/internal/validation"
	"github.com/google/uuid"
)

var ErrInvalidStatus = errors.New("unknown order status")

type OrdersService struct {
	repo   repository.OrderRepo
	drafts *DraftStore
	promos PromoCodes
	loc    *time.Location
	now    func() time.Time
	newID  func() string
}

func NewOrdersService(r repository.OrderRepo, drafts *DraftStore, promos PromoCodes, loc *time.Location) *OrdersService {
	if loc == nil {
		loc = time.UTC
	}
	return &OrdersService{
		repo:   r,
		drafts: drafts,
		promos: promos,
		loc:    loc,
		now:    time.Now,
		newID:  NewOrderID,
	}
}

// NewOrderID returns the first group of a random UUID in upper case, e.g. "3F2A9C1B".
// Collisions are possible and not checked.
func NewOrderID() string {
	return strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}

func (s *OrdersService) validationContext() validation.Context {
	return validation.Context{Today: domain.DateOf(s.now().In(s.loc))}
}

func (s *OrdersService) StartDraft() Draft {
	return s.drafts.Create()
}

func (s *OrdersService) GetDraft(id string) (Draft, error) {
	return s.drafts.Get(id)
}

func (s *OrdersService) UpdateDraft(id string, p DraftPatch) (Draft, error) {
	return s.drafts.Update(id, func(d *Draft, now time.Time) error {
		return d.Apply(p, now)
	})
}

func (s *OrdersService) NextStep(id string) (Draft, error) {
	ctx := s.validationContext()
	return s.drafts.Update(id, func(d *Draft, now time.Time) error {
		return d.Next(ctx, now)
	})
}

func (s *OrdersService) PrevStep(id string) (Draft, error) {
	return s.drafts.Update(id, func(d *Draft, now time.Time) error {
		return d.Back(now)
	})
}

func (s *OrdersService) VerifyPromo(id, code string) (Draft, error) {
	return s.drafts.Update(id, func(d *Draft, now time.Time) error {
		_, err := d.VerifyPromo(code, s.promos, now)
		return err
	})
}

// Submit persists a reviewed draft as a new order and returns its short order id.
// Notifications are triggered by the stored record, not by this call.
func (s *OrdersService) Submit(ctx context.Context, draftID string) (string, Draft, error) {
	vctx := s.validationContext()
	snapshot, err := s.drafts.Update(draftID, func(d *Draft, _ time.Time) error {
		if err := d.CheckSubmittable(vctx); err != nil {
			return err
		}
		// claim the draft so a second submit cannot persist it twice
		d.Step = StepSubmitted
		return nil
	})
	if err != nil {
		return "", snapshot, err
	}

	order := &domain.Order{
		ID:         uuid.New(),
		OrderDraft: snapshot.Data,
		OrderID:    s.newID(),
		Status:     domain.StatusReceived,
	}
	if err := s.repo.AddOrder(ctx, order); err != nil {
		logger.Warn("submit: add order failed", "draft", draftID, "err", err)
		reverted, _ := s.drafts.Update(draftID, func(d *Draft, _ time.Time) error {
			d.Step = StepReview
			return nil
		})
		return "", reverted, fmt.Errorf("persist order: %w", err)
	}

	s.drafts.Delete(draftID)
	logger.Info("order received", "order_id", order.OrderID, "id", order.ID)
	snapshot.Step = StepSubmitted
	return order.OrderID, snapshot, nil
}

func (s *OrdersService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrOrderNotFound) {
			logger.Warn("orders service get by id", "id", id, "err", err)
		}
		return nil, err
	}
	return o, nil
}

// ListOrders backs the admin table; "all" or "" returns every order.
func (s *OrdersService) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	st := domain.Status(status)
	if status == "all" {
		st = ""
	}
	if st != "" && !st.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListOrders(ctx, st)
}

func (s *OrdersService) UpdateOrder(ctx context.Context, id uuid.UUID, upd domain.OrderUpdate) (*domain.Order, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	o, err := s.repo.UpdateOrder(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	logger.Info("order updated", "order_id", o.OrderID, "status", o.Status)
	return o, nil
}
