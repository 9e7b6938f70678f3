package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mgrewal/pennyledger/internal/apperrors"
	"github.com/mgrewal/pennyledger/internal/core/domain"
	portssvc "github.com/mgrewal/pennyledger/internal/core/ports/services"
	"github.com/mgrewal/pennyledger/internal/core/services"
	"github.com/mgrewal/pennyledger/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockCurrencySvc *MockCurrencyService
	mockAuditSvc    *MockAuditService
	service         portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.mockAuditSvc = new(MockAuditService)
	suite.service = services.NewAccountService(
		suite.mockAccountRepo,
		suite.mockCurrencySvc,
		suite.mockAuditSvc,
	)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:         "Checking",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		OrderNum:     1,
	}

	suite.mockCurrencySvc.On("GetCurrency", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockAuditSvc.On("Log", ctx, "account", mock.AnythingOfType("string"), "create", mock.Anything).Return().Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal("Checking", account.Name)
	suite.Equal(domain.Asset, account.AccountType)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:         "Checking",
		AccountType:  domain.Asset,
		CurrencyCode: "XXX",
	}

	suite.mockCurrencySvc.On("GetCurrency", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:            "Savings",
		AccountType:     domain.Asset,
		CurrencyCode:    "USD",
		ParentAccountID: parentID,
	}

	suite.mockCurrencySvc.On("GetCurrency", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, AccountType: domain.Expense, CurrencyCode: "USD"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("SoftDeleteAccount", ctx, accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAuditSvc.On("Log", ctx, "account", accountID, "delete", mock.Anything).Return().Once()

	err := suite.service.DeleteAccount(ctx, accountID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteAccount(ctx, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SoftDeleteAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	accounts := []domain.Account{
		{AccountID: uuid.NewString(), Name: "Checking", AccountType: domain.Asset},
		{AccountID: uuid.NewString(), Name: "Rent", AccountType: domain.Expense},
	}

	suite.mockAccountRepo.On("ListActiveAccounts", ctx).Return(accounts, nil).Once()

	got, err := suite.service.ListAccounts(ctx)

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockCurrencyRepo)
}

func (suite *CurrencyServiceTestSuite) TestGetPrecision_CachesLookups() {
	ctx := context.Background()

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "BHD").
		Return(&domain.Currency{CurrencyCode: "BHD", Precision: 3}, nil).Once()

	suite.Equal(3, suite.service.GetPrecision(ctx, "BHD"))
	// Second call is served from the cache; the repo expectation is Once.
	suite.Equal(3, suite.service.GetPrecision(ctx, "BHD"))
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestGetPrecision_UnknownCodeDefaults() {
	ctx := context.Background()

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "ZZZ").Return(nil, apperrors.ErrNotFound)

	suite.Equal(2, suite.service.GetPrecision(ctx, "ZZZ"))
}

func (suite *CurrencyServiceTestSuite) TestEnsureDefaults() {
	ctx := context.Background()

	var saved []domain.Currency
	suite.mockCurrencyRepo.On("SaveCurrencies", ctx, mock.AnythingOfType("[]domain.Currency")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.Currency)
		}).Return(nil).Once()

	err := suite.service.EnsureDefaults(ctx)

	suite.Require().NoError(err)
	suite.NotEmpty(saved)

	codes := make(map[string]int)
	for _, c := range saved {
		codes[c.CurrencyCode] = c.Precision
	}
	suite.Equal(2, codes["USD"])
	suite.Equal(0, codes["JPY"], "yen has no minor unit")
	suite.Equal(3, codes["BHD"])

	// Seeding also warms the precision cache.
	suite.Equal(0, suite.service.GetPrecision(ctx, "JPY"))
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode", mock.Anything, "JPY")
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
