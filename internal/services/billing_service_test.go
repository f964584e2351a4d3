package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"curepharmax/internal/billing"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateBill(ctx context.Context, invoice *models.Invoice, deductions []repositories.StockDeduction,
	placeholders []*models.Medicine, reminders []*models.Reminder) error {
	args := m.Called(ctx, invoice, deductions, placeholders, reminders)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Search(ctx context.Context, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListOn(ctx context.Context, date time.Time) ([]*models.Invoice, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ReplaceItems(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SearchCustomers(ctx context.Context, query string, limit int) ([]*models.CustomerSummary, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]*models.CustomerSummary), args.Error(1)
}

// BillingServiceTestSuite defines the test suite
type BillingServiceTestSuite struct {
	suite.Suite
	invoiceRepo *MockInvoiceRepository
	cache       *MockCacheService
	service     BillingService
	ctx         context.Context
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.invoiceRepo = new(MockInvoiceRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewBillingService(suite.invoiceRepo, suite.cache)
	suite.ctx = context.Background()
}

func (suite *BillingServiceTestSuite) TearDownTest() {
	suite.invoiceRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}

func billableDraft() (*billing.Draft, *models.Medicine) {
	med := &models.Medicine{ID: uuid.New(), Name: "Paracetamol", MRP: 20.0, Quantity: 50}
	d := billing.NewDraft()
	d.CustomerName = "Ravi Kumar"
	d.CustomerPhone = "9876543210"
	d.AddCatalogItem(med)
	return d, med
}

func (suite *BillingServiceTestSuite) TestCreateBill_DeductsCatalogStock() {
	draft, med := billableDraft()
	_ = draft.SetQuantity(med.ID.String(), 3)
	_ = draft.SetDiscount(med.ID.String(), 10.0)

	suite.invoiceRepo.On("CreateBill", suite.ctx,
		mock.AnythingOfType("*models.Invoice"),
		mock.MatchedBy(func(deductions []repositories.StockDeduction) bool {
			return len(deductions) == 1 &&
				deductions[0].MedicineID == med.ID &&
				deductions[0].Quantity == 3
		}),
		mock.AnythingOfType("[]*models.Medicine"),
		mock.AnythingOfType("[]*models.Reminder"),
	).Return(nil)
	suite.cache.On("InvalidateDashboardStats", suite.ctx).Return(nil)

	invoice, err := suite.service.CreateBill(suite.ctx, draft)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 54.0, invoice.GrandTotal)
	assert.Len(suite.T(), invoice.Items, 1)
	assert.Equal(suite.T(), "Paracetamol", invoice.Items[0].MedicineName)
}

func (suite *BillingServiceTestSuite) TestCreateBill_ManualItemPlaceholder() {
	draft, _ := billableDraft()
	_, err := draft.AddManualItem("Herbal Balm", 99.0, true)
	assert.NoError(suite.T(), err)

	suite.invoiceRepo.On("CreateBill", suite.ctx,
		mock.AnythingOfType("*models.Invoice"),
		mock.AnythingOfType("[]repositories.StockDeduction"),
		mock.MatchedBy(func(placeholders []*models.Medicine) bool {
			return len(placeholders) == 1 &&
				placeholders[0].Name == "Herbal Balm" &&
				placeholders[0].Quantity == 0
		}),
		mock.AnythingOfType("[]*models.Reminder"),
	).Return(nil)
	suite.cache.On("InvalidateDashboardStats", suite.ctx).Return(nil)

	_, err = suite.service.CreateBill(suite.ctx, draft)
	assert.NoError(suite.T(), err)
}

func (suite *BillingServiceTestSuite) TestCreateBill_ReminderScheduled() {
	draft, med := billableDraft()
	_ = draft.SetReminderDays(med.ID.String(), 30)

	before := time.Now().AddDate(0, 0, 30).Add(-time.Minute)
	after := time.Now().AddDate(0, 0, 30).Add(time.Minute)

	suite.invoiceRepo.On("CreateBill", suite.ctx,
		mock.AnythingOfType("*models.Invoice"),
		mock.AnythingOfType("[]repositories.StockDeduction"),
		mock.AnythingOfType("[]*models.Medicine"),
		mock.MatchedBy(func(reminders []*models.Reminder) bool {
			return len(reminders) == 1 &&
				reminders[0].Status == models.ReminderStatusPending &&
				reminders[0].MedicineName == "Paracetamol" &&
				reminders[0].ReminderDate.After(before) &&
				reminders[0].ReminderDate.Before(after)
		}),
	).Return(nil)
	suite.cache.On("InvalidateDashboardStats", suite.ctx).Return(nil)

	_, err := suite.service.CreateBill(suite.ctx, draft)
	assert.NoError(suite.T(), err)
}

func (suite *BillingServiceTestSuite) TestCreateBill_IncompleteDraft() {
	draft := billing.NewDraft()

	invoice, err := suite.service.CreateBill(suite.ctx, draft)

	assert.ErrorIs(suite.T(), err, billing.ErrIncompleteOrder)
	assert.Nil(suite.T(), invoice)
}

func (suite *BillingServiceTestSuite) TestCreateBill_NegativeQuantityNeverReachesStock() {
	draft := billing.NewDraft()
	draft.CustomerName = "Ravi Kumar"
	draft.CustomerPhone = "9876543210"
	draft.Items = []*billing.LineItem{
		{ID: uuid.NewString(), Name: "Paracetamol", UnitPrice: 20.0, Quantity: -3},
	}

	invoice, err := suite.service.CreateBill(suite.ctx, draft)

	assert.ErrorIs(suite.T(), err, billing.ErrInvalidLineItem)
	assert.Nil(suite.T(), invoice)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateBill",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestCreateBill_ZeroQuantityRowRejected() {
	draft := billing.NewDraft()
	draft.CustomerName = "Ravi Kumar"
	draft.CustomerPhone = "9876543210"
	draft.Items = []*billing.LineItem{
		{ID: uuid.NewString(), Name: "Paracetamol", UnitPrice: 20.0, Quantity: 0},
	}

	invoice, err := suite.service.CreateBill(suite.ctx, draft)

	assert.ErrorIs(suite.T(), err, billing.ErrInvalidLineItem)
	assert.Nil(suite.T(), invoice)
}

func (suite *BillingServiceTestSuite) TestCreateBill_InsufficientStock() {
	draft, _ := billableDraft()

	suite.invoiceRepo.On("CreateBill", suite.ctx,
		mock.AnythingOfType("*models.Invoice"),
		mock.AnythingOfType("[]repositories.StockDeduction"),
		mock.AnythingOfType("[]*models.Medicine"),
		mock.AnythingOfType("[]*models.Reminder"),
	).Return(repositories.ErrInsufficientStock)

	invoice, err := suite.service.CreateBill(suite.ctx, draft)

	assert.ErrorIs(suite.T(), err, repositories.ErrInsufficientStock)
	assert.Nil(suite.T(), invoice)
}

func (suite *BillingServiceTestSuite) TestUpdateBill_KeepsBillDateAndSkipsStock() {
	draft, _ := billableDraft()
	billID := uuid.New()
	originalDate := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	suite.invoiceRepo.On("GetByID", suite.ctx, billID).Return(&models.Invoice{
		ID:       billID,
		BillDate: originalDate,
	}, nil)
	suite.invoiceRepo.On("ReplaceItems", suite.ctx, mock.MatchedBy(func(inv *models.Invoice) bool {
		return inv.ID == billID && inv.BillDate.Equal(originalDate)
	})).Return(nil)
	suite.cache.On("InvalidateDashboardStats", suite.ctx).Return(nil)

	invoice, err := suite.service.UpdateBill(suite.ctx, billID, draft)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), originalDate, invoice.BillDate)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateBill",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestUpdateBill_NotFound() {
	draft, _ := billableDraft()
	billID := uuid.New()

	suite.invoiceRepo.On("GetByID", suite.ctx, billID).Return(nil, repositories.ErrNotFound)

	invoice, err := suite.service.UpdateBill(suite.ctx, billID, draft)

	assert.ErrorIs(suite.T(), err, repositories.ErrNotFound)
	assert.Nil(suite.T(), invoice)
}

func (suite *BillingServiceTestSuite) TestSearchCustomers_EmptyQueryShortCircuits() {
	customers, err := suite.service.SearchCustomers(suite.ctx, "   ", 10)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), customers)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "SearchCustomers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestCustomerHistory_FiltersByPhone() {
	suite.invoiceRepo.On("Search", suite.ctx, mock.MatchedBy(func(f *models.InvoiceSearchFilter) bool {
		return f.Phone == "9876543210"
	})).Return([]*models.Invoice{{ID: uuid.New()}}, nil)

	history, err := suite.service.CustomerHistory(suite.ctx, "9876543210")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), history, 1)
}

func (suite *BillingServiceTestSuite) TestDeleteBill_InvalidatesStats() {
	billID := uuid.New()

	suite.invoiceRepo.On("Delete", suite.ctx, billID).Return(nil)
	suite.cache.On("InvalidateDashboardStats", suite.ctx).Return(nil)

	assert.NoError(suite.T(), suite.service.DeleteBill(suite.ctx, billID))
}
