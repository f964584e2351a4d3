package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// AuthServiceTestSuite defines the test suite
type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  AuthService
	ctx      context.Context
}

const testJWTSecret = "test-secret-key"

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = new(MockUserRepository)
	suite.service = NewAuthService(suite.userRepo, testJWTSecret, func(phone string) bool {
		return phone == "9999999999"
	})
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.userRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestSignup_CustomerRole() {
	suite.userRepo.On("Create", suite.ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == common.RoleCustomer && u.Name == "Ravi Kumar" &&
			u.PasswordHash != "secret123"
	})).Return(nil)

	user, err := suite.service.Signup(suite.ctx, "Ravi Kumar", "9876543210", "secret123")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.RoleCustomer, user.Role)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func (suite *AuthServiceTestSuite) TestSignup_AdminPhoneGetsAdminRole() {
	suite.userRepo.On("Create", suite.ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == common.RoleAdmin
	})).Return(nil)

	user, err := suite.service.Signup(suite.ctx, "Store Owner", "9999999999", "secret123")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.RoleAdmin, user.Role)
}

func (suite *AuthServiceTestSuite) TestSignup_PhoneTaken() {
	suite.userRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.User")).
		Return(repositories.ErrDuplicate)

	user, err := suite.service.Signup(suite.ctx, "Ravi Kumar", "9876543210", "secret123")

	assert.ErrorIs(suite.T(), err, ErrPhoneTaken)
	assert.Nil(suite.T(), user)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(suite.T(), err)

	stored := &models.User{
		ID:           uuid.New(),
		Name:         "Ravi Kumar",
		Phone:        "9876543210",
		PasswordHash: string(hash),
		Role:         common.RoleCustomer,
	}
	suite.userRepo.On("GetByPhone", suite.ctx, "9876543210").Return(stored, nil)

	user, err := suite.service.Login(suite.ctx, "9876543210", "secret123")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), stored.ID, user.ID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(suite.T(), err)

	suite.userRepo.On("GetByPhone", suite.ctx, "9876543210").Return(&models.User{
		PasswordHash: string(hash),
	}, nil)

	user, err := suite.service.Login(suite.ctx, "9876543210", "wrong")

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
	assert.Nil(suite.T(), user)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownPhoneSameError() {
	suite.userRepo.On("GetByPhone", suite.ctx, "0000000000").Return(nil, repositories.ErrNotFound)

	user, err := suite.service.Login(suite.ctx, "0000000000", "secret123")

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
	assert.Nil(suite.T(), user)
}

func (suite *AuthServiceTestSuite) TestIssueSessionToken_RoundTrips() {
	user := &models.User{
		ID:   uuid.New(),
		Name: "Ravi Kumar",
		Role: common.RoleAdmin,
	}

	signed, err := suite.service.IssueSessionToken(user)
	assert.NoError(suite.T(), err)

	claims := new(SessionClaims)
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), token.Valid)
	assert.Equal(suite.T(), user.ID.String(), claims.UserID)
	assert.Equal(suite.T(), "Ravi Kumar", claims.Name)
	assert.Equal(suite.T(), common.RoleAdmin, claims.Role)
	assert.Equal(suite.T(), "curepharmax", claims.Issuer)
}
