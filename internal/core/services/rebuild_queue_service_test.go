package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mgrewal/pennyledger/internal/apperrors"
	"github.com/mgrewal/pennyledger/internal/core/domain"
	portsrepo "github.com/mgrewal/pennyledger/internal/core/ports/repositories"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/core/services"
)

type RebuildQueueServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	service         portssvc.RebuildQueueSvcFacade
}

func (suite *RebuildQueueServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewRebuildQueueService(
		suite.mockAccountRepo,
		suite.mockJournalRepo,
		&stubCurrencyService{precision: 2},
		nil,
		0,
	)
}

func (suite *RebuildQueueServiceTestSuite) TestEnqueueManyDeduplicatesKeepingEarliestDate() {
	accountID := uuid.NewString()
	later := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	suite.service.EnqueueMany([]string{accountID}, later)
	suite.service.EnqueueMany([]string{accountID}, earlier)
	suite.service.EnqueueMany([]string{accountID}, later)

	suite.Equal(1, suite.service.PendingCount())

	// Processing must rebuild from the earliest requested anchor.
	account := &domain.Account{AccountID: accountID, AccountType: domain.Asset, CurrencyCode: "USD"}
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, accountID).Return(account, nil).Once()
	suite.mockJournalRepo.On("ListActiveLegsByAccount", mock.Anything, accountID, (*time.Time)(nil)).Return([]domain.Transaction{
		{TransactionID: uuid.NewString(), TransactionDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(10), TransactionType: domain.Debit},
	}, nil).Once()
	suite.mockJournalRepo.On("UpdateRunningBalances", mock.Anything, mock.AnythingOfType("[]repositories.RunningBalanceUpdate")).Return(nil).Once()

	processed := suite.service.ProcessPending(context.Background())

	suite.Equal(1, processed)
	suite.Equal(0, suite.service.PendingCount())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *RebuildQueueServiceTestSuite) TestEnqueueManyIgnoresEmptyIDs() {
	suite.service.EnqueueMany([]string{"", ""}, time.Now().UTC())
	suite.Equal(0, suite.service.PendingCount())
}

func (suite *RebuildQueueServiceTestSuite) TestRebuildAccountRecomputesFromAnchor() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, AccountType: domain.Asset, CurrencyCode: "USD"}

	anchor := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	legs := []domain.Transaction{
		// Before the anchor: its cached balance seeds the fold.
		{TransactionID: "leg-1", TransactionDate: anchor.AddDate(0, 0, -5), Amount: decimal.NewFromInt(100), TransactionType: domain.Debit, RunningBalance: decimal.NewFromInt(100)},
		// At and after the anchor: recomputed.
		{TransactionID: "leg-2", TransactionDate: anchor, Amount: decimal.NewFromInt(40), TransactionType: domain.Credit},
		{TransactionID: "leg-3", TransactionDate: anchor.AddDate(0, 0, 2), Amount: decimal.NewFromInt(25), TransactionType: domain.Debit},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockJournalRepo.On("ListActiveLegsByAccount", ctx, accountID, (*time.Time)(nil)).Return(legs, nil).Once()

	var captured []portsrepo.RunningBalanceUpdate
	suite.mockJournalRepo.On("UpdateRunningBalances", ctx, mock.AnythingOfType("[]repositories.RunningBalanceUpdate")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]portsrepo.RunningBalanceUpdate)
		}).Return(nil).Once()

	err := suite.service.RebuildAccount(ctx, accountID, anchor)

	suite.Require().NoError(err)
	suite.Require().Len(captured, 2)
	suite.Equal("leg-2", captured[0].TransactionID)
	suite.True(decimal.NewFromInt(60).Equal(captured[0].RunningBalance), "100 - 40, got %s", captured[0].RunningBalance)
	suite.Equal("leg-3", captured[1].TransactionID)
	suite.True(decimal.NewFromInt(85).Equal(captured[1].RunningBalance), "60 + 25, got %s", captured[1].RunningBalance)
}

func (suite *RebuildQueueServiceTestSuite) TestRebuildAccountFullHistory() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, AccountType: domain.Liability, CurrencyCode: "USD"}

	legs := []domain.Transaction{
		{TransactionID: "leg-1", TransactionDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(500), TransactionType: domain.Credit},
		{TransactionID: "leg-2", TransactionDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(200), TransactionType: domain.Debit},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockJournalRepo.On("ListActiveLegsByAccount", ctx, accountID, (*time.Time)(nil)).Return(legs, nil).Once()

	var captured []portsrepo.RunningBalanceUpdate
	suite.mockJournalRepo.On("UpdateRunningBalances", ctx, mock.AnythingOfType("[]repositories.RunningBalanceUpdate")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]portsrepo.RunningBalanceUpdate)
		}).Return(nil).Once()

	// Zero fromDate recomputes every leg from a zero seed.
	err := suite.service.RebuildAccount(ctx, accountID, time.Time{})

	suite.Require().NoError(err)
	suite.Require().Len(captured, 2)
	suite.True(decimal.NewFromInt(500).Equal(captured[0].RunningBalance))
	suite.True(decimal.NewFromInt(300).Equal(captured[1].RunningBalance))
}

func (suite *RebuildQueueServiceTestSuite) TestRebuildAccountDeletedAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RebuildAccount(ctx, accountID, time.Time{})

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "ListActiveLegsByAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RebuildQueueServiceTestSuite) TestRebuildAccountNoLegs() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, AccountType: domain.Asset, CurrencyCode: "USD"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockJournalRepo.On("ListActiveLegsByAccount", ctx, accountID, (*time.Time)(nil)).Return([]domain.Transaction{}, nil).Once()

	err := suite.service.RebuildAccount(ctx, accountID, time.Time{})

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateRunningBalances", mock.Anything, mock.Anything)
}

func (suite *RebuildQueueServiceTestSuite) TestProcessPendingRequeuesFailures() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, errors.New("connection refused")).Once()

	suite.service.EnqueueMany([]string{accountID}, time.Now().UTC())
	processed := suite.service.ProcessPending(ctx)

	suite.Equal(0, processed)
	suite.Equal(1, suite.service.PendingCount(), "failed account stays queued for the next pass")
}

func (suite *RebuildQueueServiceTestSuite) TestRunDrainsQueue() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := services.NewRebuildQueueService(
		suite.mockAccountRepo,
		suite.mockJournalRepo,
		&stubCurrencyService{precision: 2},
		nil,
		20*time.Millisecond,
	)

	accountID := uuid.NewString()
	processed := make(chan struct{})
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, accountID).
		Run(func(mock.Arguments) { close(processed) }).
		Return(nil, apperrors.ErrNotFound).Once()

	svc.EnqueueMany([]string{accountID}, time.Now().UTC())
	go svc.Run(ctx)

	select {
	case <-processed:
	case <-time.After(2 * time.Second):
		suite.FailNow("queued rebuild was never processed")
	}
}

func TestRebuildQueueServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RebuildQueueServiceTestSuite))
}
