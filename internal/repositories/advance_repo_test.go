package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"curepharmax/internal/models"
)

type AdvanceRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      AdvanceRepository
	advanceID uuid.UUID
	context   context.Context
}

func (suite *AdvanceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAdvanceRepo(mock)
	suite.advanceID = uuid.New()
	suite.context = context.Background()
}

func (suite *AdvanceRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestAdvanceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AdvanceRepoTestSuite))
}

func advanceNotes(s string) *string {
	return &s
}

func (suite *AdvanceRepoTestSuite) TestCreate_Success() {
	adv := &models.AdvancePayment{
		ID:            suite.advanceID,
		CustomerName:  "Ravi Kumar",
		CustomerPhone: "9876543210",
		Amount:        500.0,
		Notes:         advanceNotes("Insulin pen, arriving Friday"),
	}

	suite.mock.ExpectExec(`INSERT INTO advance_payments \(id, customer_name, customer_phone, amount, notes, created_date, is_delivered\)`).
		WithArgs(adv.ID, adv.CustomerName, adv.CustomerPhone, adv.Amount, adv.Notes).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, adv)
	assert.NoError(suite.T(), err)
}

func (suite *AdvanceRepoTestSuite) TestListPending_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "customer_name", "customer_phone", "amount", "notes", "created_date", "is_delivered"}).
		AddRow(suite.advanceID, "Ravi Kumar", "9876543210", 500.0, nil, now, false).
		AddRow(uuid.New(), "Meena Iyer", "9123456780", 250.0, advanceNotes("Syrup"), now.Add(-time.Hour), false)

	suite.mock.ExpectQuery(`FROM advance_payments WHERE is_delivered = false ORDER BY created_date DESC`).
		WillReturnRows(rows)

	advances, err := suite.repo.ListPending(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), advances, 2)
	assert.Equal(suite.T(), 500.0, advances[0].Amount)
	assert.False(suite.T(), advances[0].IsDelivered)
}

func (suite *AdvanceRepoTestSuite) TestMarkDelivered_Success() {
	suite.mock.ExpectExec(`UPDATE advance_payments SET is_delivered = true WHERE id = \$1`).
		WithArgs(suite.advanceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.MarkDelivered(suite.context, suite.advanceID)
	assert.NoError(suite.T(), err)
}

func (suite *AdvanceRepoTestSuite) TestMarkDelivered_NotFound() {
	suite.mock.ExpectExec(`UPDATE advance_payments SET is_delivered = true WHERE id = \$1`).
		WithArgs(suite.advanceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.MarkDelivered(suite.context, suite.advanceID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AdvanceRepoTestSuite) TestCountPending_Success() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM advance_payments WHERE is_delivered = false`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	count, err := suite.repo.CountPending(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, count)
}
