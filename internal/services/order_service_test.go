package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"curepharmax/internal/billing"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

// Mock repositories and stores

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.OnlineOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OnlineOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OnlineOrder), args.Error(1)
}

func (m *MockOrderRepository) GetStatus(ctx context.Context, id uuid.UUID) (models.OrderStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.OrderStatus), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.OnlineOrder, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.OnlineOrder), args.Error(1)
}

func (m *MockOrderRepository) ListByPhone(ctx context.Context, phone string) ([]*models.OnlineOrder, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).([]*models.OnlineOrder), args.Error(1)
}

func (m *MockOrderRepository) Approve(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Reject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Load(ctx context.Context, userID uuid.UUID) (*billing.Draft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Draft), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, userID uuid.UUID, draft *billing.Draft) error {
	args := m.Called(ctx, userID, draft)
	return args.Error(0)
}

func (m *MockCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

func (m *MockCacheService) SetDashboardStats(ctx context.Context, stats *models.DashboardStats, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDashboardStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetPendingOrderCount(ctx context.Context) (int64, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCacheService) SetPendingOrderCount(ctx context.Context, count int64) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Client() *redis.Client {
	return nil
}

// OrderServiceTestSuite defines the test suite
type OrderServiceTestSuite struct {
	suite.Suite
	orderRepo *MockOrderRepository
	carts     *MockCartStore
	cache     *MockCacheService
	service   OrderService
	ctx       context.Context
	userID    uuid.UUID
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.orderRepo = new(MockOrderRepository)
	suite.carts = new(MockCartStore)
	suite.cache = new(MockCacheService)
	suite.service = NewOrderService(suite.orderRepo, suite.carts, suite.cache)
	suite.ctx = context.Background()
	suite.userID = uuid.New()
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	suite.orderRepo.AssertExpectations(suite.T())
	suite.carts.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func submittableDraft() *billing.Draft {
	d := billing.NewDraft()
	d.CustomerName = "Ravi Kumar"
	d.CustomerPhone = "9876543210"
	d.PaymentMode = models.PaymentModeCOD
	d.AddCatalogItem(&models.Medicine{ID: uuid.New(), Name: "Paracetamol", MRP: 20.0})
	return d
}

func (suite *OrderServiceTestSuite) TestSubmitOrder_Success() {
	draft := submittableDraft()

	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.OnlineOrder")).Return(nil)
	suite.carts.On("Clear", suite.ctx, suite.userID).Return(nil)
	suite.orderRepo.On("CountPending", suite.ctx).Return(int64(1), nil)
	suite.cache.On("SetPendingOrderCount", suite.ctx, int64(1)).Return(nil)

	order, err := suite.service.SubmitOrder(suite.ctx, suite.userID, draft)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusPending, order.Status)
	assert.Equal(suite.T(), "Ravi Kumar", order.CustomerName)
	assert.Equal(suite.T(), 20.0, order.GrandTotal)
	assert.Len(suite.T(), order.Items, 1)
	assert.NotNil(suite.T(), order.Items[0].MedicineID)
}

func (suite *OrderServiceTestSuite) TestSubmitOrder_IncompleteDraft() {
	draft := billing.NewDraft()

	order, err := suite.service.SubmitOrder(suite.ctx, suite.userID, draft)

	assert.ErrorIs(suite.T(), err, billing.ErrIncompleteOrder)
	assert.Nil(suite.T(), order)
}

func (suite *OrderServiceTestSuite) TestSubmitOrder_NonPositiveQuantityRejected() {
	draft := submittableDraft()
	draft.Items[0].Quantity = -3

	order, err := suite.service.SubmitOrder(suite.ctx, suite.userID, draft)

	assert.ErrorIs(suite.T(), err, billing.ErrInvalidLineItem)
	assert.Nil(suite.T(), order)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestSubmitOrder_CartClearFailureDoesNotFailSubmit() {
	draft := submittableDraft()

	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.OnlineOrder")).Return(nil)
	suite.carts.On("Clear", suite.ctx, suite.userID).Return(errors.New("redis down"))
	suite.orderRepo.On("CountPending", suite.ctx).Return(int64(1), nil)
	suite.cache.On("SetPendingOrderCount", suite.ctx, int64(1)).Return(nil)

	order, err := suite.service.SubmitOrder(suite.ctx, suite.userID, draft)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), order)
}

func (suite *OrderServiceTestSuite) TestSubmitOrder_RepoError() {
	draft := submittableDraft()

	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.OnlineOrder")).Return(errors.New("db down"))

	order, err := suite.service.SubmitOrder(suite.ctx, suite.userID, draft)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), order)
}

func (suite *OrderServiceTestSuite) TestApprove_RefreshesCountAndInvalidatesStats() {
	orderID := uuid.New()

	suite.orderRepo.On("Approve", suite.ctx, orderID).Return(nil)
	suite.orderRepo.On("CountPending", suite.ctx).Return(int64(0), nil)
	suite.cache.On("SetPendingOrderCount", suite.ctx, int64(0)).Return(nil)
	suite.cache.On("InvalidateDashboardStats", suite.ctx).Return(nil)

	assert.NoError(suite.T(), suite.service.Approve(suite.ctx, orderID))
}

func (suite *OrderServiceTestSuite) TestApprove_InsufficientStock() {
	orderID := uuid.New()

	suite.orderRepo.On("Approve", suite.ctx, orderID).Return(repositories.ErrInsufficientStock)

	err := suite.service.Approve(suite.ctx, orderID)
	assert.ErrorIs(suite.T(), err, repositories.ErrInsufficientStock)
}

func (suite *OrderServiceTestSuite) TestReject_InvalidTransition() {
	orderID := uuid.New()

	suite.orderRepo.On("Reject", suite.ctx, orderID).Return(repositories.ErrInvalidTransition)

	err := suite.service.Reject(suite.ctx, orderID)
	assert.ErrorIs(suite.T(), err, repositories.ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestCountPending_CacheHit() {
	suite.cache.On("GetPendingOrderCount", suite.ctx).Return(int64(7), true, nil)

	count, err := suite.service.CountPending(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), count)
	suite.orderRepo.AssertNotCalled(suite.T(), "CountPending", suite.ctx)
}

func (suite *OrderServiceTestSuite) TestCountPending_CacheMissFallsBackToRepo() {
	suite.cache.On("GetPendingOrderCount", suite.ctx).Return(int64(0), false, nil)
	suite.orderRepo.On("CountPending", suite.ctx).Return(int64(3), nil)
	suite.cache.On("SetPendingOrderCount", suite.ctx, int64(3)).Return(nil)

	count, err := suite.service.CountPending(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), count)
}

func (suite *OrderServiceTestSuite) TestGetStatus() {
	orderID := uuid.New()
	suite.orderRepo.On("GetStatus", suite.ctx, orderID).Return(models.OrderStatusApproved, nil)

	status, err := suite.service.GetStatus(suite.ctx, orderID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusApproved, status)
}
