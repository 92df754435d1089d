package fees

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bybauk/byba-backend/pkg/db/models"
	"github.com/bybauk/byba-backend/pkg/errors"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/pagination"
)

type fakeRepository struct {
	eventType     *models.EventType
	registrations []models.EventRegistration

	createdFees  []*models.Fee
	updatedFees  []*models.Fee
	attachments  map[uuid.UUID]uuid.UUID
	fees         map[uuid.UUID]*models.Fee
	paymentTypes map[uuid.UUID]*models.PaymentType
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		attachments:  map[uuid.UUID]uuid.UUID{},
		fees:         map[uuid.UUID]*models.Fee{},
		paymentTypes: map[uuid.UUID]*models.PaymentType{},
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) FindEventType(ctx context.Context, id uuid.UUID) (*models.EventType, error) {
	return f.eventType, nil
}

func (f *fakeRepository) ListSeasonRegistrations(ctx context.Context, seasonID, eventTypeID, organisationID uuid.UUID) ([]models.EventRegistration, error) {
	return f.registrations, nil
}

func (f *fakeRepository) CreateFee(ctx context.Context, fee *models.Fee) error {
	fee.ID = uuid.New()
	f.createdFees = append(f.createdFees, fee)
	return nil
}

func (f *fakeRepository) UpdateFee(ctx context.Context, fee *models.Fee) error {
	f.updatedFees = append(f.updatedFees, fee)
	return nil
}

func (f *fakeRepository) DeleteFee(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeRepository) FindFee(ctx context.Context, id uuid.UUID) (*models.Fee, error) {
	return f.fees[id], nil
}

func (f *fakeRepository) AttachRegistrationFee(ctx context.Context, registrationID, feeID uuid.UUID) error {
	f.attachments[registrationID] = feeID
	return nil
}

func (f *fakeRepository) ListOutstandingFees(ctx context.Context, params ListOutstandingQuery) ([]models.Fee, *pagination.Cursor, error) {
	var out []models.Fee
	for _, fee := range f.fees {
		if !fee.IsPaid {
			out = append(out, *fee)
		}
	}
	return out, nil, nil
}

func (f *fakeRepository) FindPaymentType(ctx context.Context, id uuid.UUID) (*models.PaymentType, error) {
	return f.paymentTypes[id], nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Now:    func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func regWithEvent(start time.Time) models.EventRegistration {
	return models.EventRegistration{
		ID:    uuid.New(),
		Event: &models.Event{ID: uuid.New(), Start: start},
	}
}

func TestService_RecalculateFees_CreatesDiscountedFees(t *testing.T) {
	repo := newFakeRepository()
	repo.eventType = &models.EventType{
		ID:        uuid.New(),
		EntryCost: decimal.NewFromInt(100),
		Discounts: []models.EventTypeDiscount{
			{DiscountAfter: 0, DiscountMultiplier: decimal.NewFromFloat(1.0)},
			{DiscountAfter: 1, DiscountMultiplier: decimal.NewFromFloat(0.5)},
		},
	}
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	repo.registrations = []models.EventRegistration{
		regWithEvent(base),
		regWithEvent(base.AddDate(0, 0, 7)),
	}

	svc := newTestService(t, repo)
	if err := svc.RecalculateFees(context.Background(), uuid.New(), repo.eventType.ID, uuid.New()); err != nil {
		t.Fatalf("RecalculateFees error: %v", err)
	}

	if len(repo.createdFees) != 2 {
		t.Fatalf("created %d fees, want 2", len(repo.createdFees))
	}
	if !repo.createdFees[0].Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("first fee = %s, want 100", repo.createdFees[0].Total)
	}
	if !repo.createdFees[1].Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("second fee = %s, want 50", repo.createdFees[1].Total)
	}
	if len(repo.attachments) != 2 {
		t.Errorf("attached %d fees, want 2", len(repo.attachments))
	}
}

func TestService_RecalculateFees_Idempotent(t *testing.T) {
	repo := newFakeRepository()
	repo.eventType = &models.EventType{
		ID:        uuid.New(),
		EntryCost: decimal.NewFromInt(100),
	}
	reg := regWithEvent(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	reg.RegistrationFee = &models.Fee{ID: uuid.New(), Total: decimal.NewFromInt(100)}
	repo.registrations = []models.EventRegistration{reg}

	svc := newTestService(t, repo)
	for i := 0; i < 2; i++ {
		if err := svc.RecalculateFees(context.Background(), uuid.New(), repo.eventType.ID, uuid.New()); err != nil {
			t.Fatalf("RecalculateFees pass %d error: %v", i, err)
		}
	}

	if len(repo.createdFees) != 0 || len(repo.updatedFees) != 0 {
		t.Fatalf("fees touched on recalculation with unchanged inputs: created=%d updated=%d",
			len(repo.createdFees), len(repo.updatedFees))
	}
}

func TestService_RecalculateFees_WithdrawnDoesNotAdvanceCount(t *testing.T) {
	repo := newFakeRepository()
	repo.eventType = &models.EventType{
		ID:        uuid.New(),
		EntryCost: decimal.NewFromInt(100),
		Discounts: []models.EventTypeDiscount{
			{DiscountAfter: 0, DiscountMultiplier: decimal.NewFromFloat(1.0)},
			{DiscountAfter: 1, DiscountMultiplier: decimal.NewFromFloat(0.5)},
		},
	}
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	withdrawn := regWithEvent(base)
	withdrawn.Withdrawn = true
	active := regWithEvent(base.AddDate(0, 0, 7))
	repo.registrations = []models.EventRegistration{withdrawn, active}

	svc := newTestService(t, repo)
	if err := svc.RecalculateFees(context.Background(), uuid.New(), repo.eventType.ID, uuid.New()); err != nil {
		t.Fatalf("RecalculateFees error: %v", err)
	}

	if len(repo.createdFees) != 1 {
		t.Fatalf("created %d fees, want 1 (withdrawn registration must be skipped)", len(repo.createdFees))
	}
	if !repo.createdFees[0].Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("fee after withdrawn sibling = %s, want full price 100", repo.createdFees[0].Total)
	}
}

func TestService_RecalculateFees_PaidFeeLeftUnchanged(t *testing.T) {
	repo := newFakeRepository()
	repo.eventType = &models.EventType{
		ID:        uuid.New(),
		EntryCost: decimal.NewFromInt(100),
		Discounts: []models.EventTypeDiscount{
			{DiscountAfter: 0, DiscountMultiplier: decimal.NewFromFloat(0.5)},
		},
	}
	reg := regWithEvent(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	reg.RegistrationFee = &models.Fee{ID: uuid.New(), Total: decimal.NewFromInt(100), IsPaid: true}
	repo.registrations = []models.EventRegistration{reg}

	svc := newTestService(t, repo)
	if err := svc.RecalculateFees(context.Background(), uuid.New(), repo.eventType.ID, uuid.New()); err != nil {
		t.Fatalf("RecalculateFees error: %v", err)
	}

	if len(repo.updatedFees) != 0 {
		t.Fatal("paid fee was overwritten")
	}
}

func TestService_RecalculateFees_EventTypeMissing(t *testing.T) {
	svc := newTestService(t, newFakeRepository())

	err := svc.RecalculateFees(context.Background(), uuid.New(), uuid.New(), uuid.New())
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("error = %v, want %s", err, errors.CodeNotFound)
	}
}

func TestService_MarkPaid(t *testing.T) {
	repo := newFakeRepository()
	fee := &models.Fee{ID: uuid.New(), Total: decimal.NewFromInt(80)}
	repo.fees[fee.ID] = fee
	paymentType := &models.PaymentType{ID: uuid.New(), Description: "bank transfer", IsActive: true}
	repo.paymentTypes[paymentType.ID] = paymentType

	svc := newTestService(t, repo)
	paid, err := svc.MarkPaid(context.Background(), fee.ID, paymentType.ID)
	if err != nil {
		t.Fatalf("MarkPaid error: %v", err)
	}
	if !paid.IsPaid || paid.PaidAt == nil || paid.PaymentTypeID == nil {
		t.Fatalf("fee not settled: %+v", paid)
	}

	if _, err := svc.MarkPaid(context.Background(), fee.ID, paymentType.ID); errors.As(err) == nil || errors.As(err).Code() != errors.CodeConflict {
		t.Fatalf("second MarkPaid error = %v, want %s", err, errors.CodeConflict)
	}
}
