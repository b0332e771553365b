package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/apperrors"
	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	portsrepo "github.com/hmsuite/hospital_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/hmsuite/hospital_accounting_app/internal/core/ports/services"
	"github.com/hmsuite/hospital_accounting_app/internal/core/services"
	"github.com/hmsuite/hospital_accounting_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

// Ensure MockJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context) ([]domain.JournalEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLineByID(ctx context.Context, lineID int64) (*domain.JournalLine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID int64) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, entryID int64) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID int64) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SumLinesInTx(ctx context.Context, tx pgx.Tx, entryID int64) (decimal.Decimal, decimal.Decimal, int, error) {
	args := m.Called(ctx, tx, entryID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Int(2), args.Error(3)
}

func (m *MockJournalRepository) SaveLineInTx(ctx context.Context, tx pgx.Tx, line *domain.JournalLine) error {
	args := m.Called(ctx, tx, line)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateLineInTx(ctx context.Context, tx pgx.Tx, line domain.JournalLine) error {
	args := m.Called(ctx, tx, line)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteLineInTx(ctx context.Context, tx pgx.Tx, lineID int64) error {
	args := m.Called(ctx, tx, lineID)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkEntryPostedInTx(ctx context.Context, tx pgx.Tx, entryID int64, now time.Time) error {
	args := m.Called(ctx, tx, entryID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AccountService (as used by JournalService and BudgetService) ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountSvc  *MockAccountService
	service         portssvc.JournalSvcFacade
	cashAccount     domain.Account
	revenueAccount  domain.Account
	closedAccount   domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc)

	suite.cashAccount = domain.Account{
		AccountID:   101,
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   102,
		Name:        "Ward Fees",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	suite.closedAccount = domain.Account{
		AccountID:   103,
		Name:        "Old Pharmacy Stock",
		AccountType: domain.Asset,
		IsActive:    false,
	}
}

func (suite *JournalServiceTestSuite) expectTx() {
	suite.mockJournalRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func draftEntry(entryID int64) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: time.Now(),
		Reference: domain.Reference{Type: domain.RefManual},
		Posted:    false,
	}
}

func postedEntry(entryID int64) *domain.JournalEntry {
	e := draftEntry(entryID)
	e.Posted = true
	return e
}

// --- CreateEntry ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		Date:          time.Now(),
		ReferenceType: domain.RefInvoice,
		ReferenceID:   555,
		Description:   "Ward A invoice",
	}

	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.JournalEntry).EntryID = 1
		}).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(int64(1), entry.EntryID)
	suite.False(entry.Posted)
	suite.Equal(domain.RefInvoice, entry.Reference.Type)
	suite.Equal(int64(555), entry.Reference.ID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_DefaultsToManualReference() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{Date: time.Now()}

	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.RefManual, entry.Reference.Type)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InvalidReferenceType() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{Date: time.Now(), ReferenceType: "RECEIPT"}

	_, err := suite.service.CreateEntry(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

// --- AddLine ---

func (suite *JournalServiceTestSuite) TestAddLine_Success() {
	ctx := context.Background()
	req := dto.AddLineRequest{
		AccountID: suite.cashAccount.AccountID,
		Debit:     decimal.NewFromInt(250),
		Credit:    decimal.Zero,
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("SaveLineInTx", ctx, mock.Anything, mock.AnythingOfType("*domain.JournalLine")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.JournalLine).LineID = 10
		}).Return(nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	line, err := suite.service.AddLine(ctx, 1, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(line)
	suite.Equal(int64(10), line.LineID)
	suite.Equal(int64(1), line.EntryID)
	suite.True(line.Debit.Equal(decimal.NewFromInt(250)))
	suite.True(line.Credit.IsZero())
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestAddLine_BothSidesPositive() {
	ctx := context.Background()
	req := dto.AddLineRequest{
		AccountID: suite.cashAccount.AccountID,
		Debit:     decimal.NewFromInt(100),
		Credit:    decimal.NewFromInt(100),
	}

	_, err := suite.service.AddLine(ctx, 1, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidLineAmounts)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveLineInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestAddLine_BothSidesZero() {
	ctx := context.Background()
	req := dto.AddLineRequest{AccountID: suite.cashAccount.AccountID}

	_, err := suite.service.AddLine(ctx, 1, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidLineAmounts)
}

func (suite *JournalServiceTestSuite) TestAddLine_NegativeAmount() {
	ctx := context.Background()
	req := dto.AddLineRequest{
		AccountID: suite.cashAccount.AccountID,
		Debit:     decimal.NewFromInt(-50),
	}

	_, err := suite.service.AddLine(ctx, 1, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidLineAmounts)
}

func (suite *JournalServiceTestSuite) TestAddLine_AccountNotFound() {
	ctx := context.Background()
	req := dto.AddLineRequest{AccountID: 999, Debit: decimal.NewFromInt(10)}

	suite.mockAccountSvc.On("GetAccountByID", ctx, int64(999)).Return(nil, services.ErrAccountNotFound).Once()

	_, err := suite.service.AddLine(ctx, 1, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *JournalServiceTestSuite) TestAddLine_InactiveAccount() {
	ctx := context.Background()
	req := dto.AddLineRequest{
		AccountID: suite.closedAccount.AccountID,
		Debit:     decimal.NewFromInt(10),
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.closedAccount.AccountID).Return(&suite.closedAccount, nil).Once()

	_, err := suite.service.AddLine(ctx, 1, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInactiveAccount)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveLineInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestAddLine_PostedEntry() {
	ctx := context.Background()
	req := dto.AddLineRequest{
		AccountID: suite.cashAccount.AccountID,
		Debit:     decimal.NewFromInt(10),
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(7)).Return(postedEntry(7), nil).Once()

	_, err := suite.service.AddLine(ctx, 7, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveLineInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestAddLine_EntryNotFound() {
	ctx := context.Background()
	req := dto.AddLineRequest{
		AccountID: suite.cashAccount.AccountID,
		Debit:     decimal.NewFromInt(10),
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(404)).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AddLine(ctx, 404, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- UpdateLine ---

func (suite *JournalServiceTestSuite) TestUpdateLine_Success() {
	ctx := context.Background()
	existing := &domain.JournalLine{
		LineID:    10,
		EntryID:   1,
		AccountID: suite.cashAccount.AccountID,
		Debit:     decimal.NewFromInt(100),
		Credit:    decimal.Zero,
	}
	newDebit := decimal.NewFromInt(175)
	req := dto.UpdateLineRequest{Debit: &newDebit}

	suite.mockJournalRepo.On("FindLineByID", ctx, int64(10)).Return(existing, nil).Once()
	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("UpdateLineInTx", ctx, mock.Anything, mock.AnythingOfType("domain.JournalLine")).Return(nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	line, err := suite.service.UpdateLine(ctx, 10, req)

	suite.Require().NoError(err)
	suite.True(line.Debit.Equal(newDebit))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateLine_MergedAmountsInvalid() {
	ctx := context.Background()
	existing := &domain.JournalLine{
		LineID:    10,
		EntryID:   1,
		AccountID: suite.cashAccount.AccountID,
		Debit:     decimal.NewFromInt(100),
		Credit:    decimal.Zero,
	}
	// Setting credit while debit stays positive must fail as a whole.
	newCredit := decimal.NewFromInt(60)
	req := dto.UpdateLineRequest{Credit: &newCredit}

	suite.mockJournalRepo.On("FindLineByID", ctx, int64(10)).Return(existing, nil).Once()

	_, err := suite.service.UpdateLine(ctx, 10, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidLineAmounts)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateLineInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateLine_PostedEntry() {
	ctx := context.Background()
	existing := &domain.JournalLine{
		LineID:    10,
		EntryID:   7,
		AccountID: suite.cashAccount.AccountID,
		Debit:     decimal.NewFromInt(100),
		Credit:    decimal.Zero,
	}
	newDebit := decimal.NewFromInt(175)
	req := dto.UpdateLineRequest{Debit: &newDebit}

	suite.mockJournalRepo.On("FindLineByID", ctx, int64(10)).Return(existing, nil).Once()
	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(7)).Return(postedEntry(7), nil).Once()

	_, err := suite.service.UpdateLine(ctx, 10, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateLineInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

// --- DeleteLine ---

func (suite *JournalServiceTestSuite) TestDeleteLine_Success() {
	ctx := context.Background()
	existing := &domain.JournalLine{LineID: 10, EntryID: 1, AccountID: suite.cashAccount.AccountID}

	suite.mockJournalRepo.On("FindLineByID", ctx, int64(10)).Return(existing, nil).Once()
	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("DeleteLineInTx", ctx, mock.Anything, int64(10)).Return(nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	err := suite.service.DeleteLine(ctx, 10)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteLine_PostedEntry() {
	ctx := context.Background()
	existing := &domain.JournalLine{LineID: 10, EntryID: 7, AccountID: suite.cashAccount.AccountID}

	suite.mockJournalRepo.On("FindLineByID", ctx, int64(10)).Return(existing, nil).Once()
	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(7)).Return(postedEntry(7), nil).Once()

	err := suite.service.DeleteLine(ctx, 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteLineInTx", mock.Anything, mock.Anything, mock.Anything)
}

// --- PostEntry ---

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()

	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("SumLinesInTx", ctx, mock.Anything, int64(1)).
		Return(decimal.NewFromInt(250), decimal.NewFromInt(250), 2, nil).Once()
	suite.mockJournalRepo.On("MarkEntryPostedInTx", ctx, mock.Anything, int64(1), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	entry, err := suite.service.PostEntry(ctx, 1)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.True(entry.Posted)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_Unbalanced() {
	ctx := context.Background()

	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("SumLinesInTx", ctx, mock.Anything, int64(1)).
		Return(decimal.NewFromInt(250), decimal.NewFromInt(200), 2, nil).Once()

	_, err := suite.service.PostEntry(ctx, 1)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnbalancedEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPostedInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Empty() {
	ctx := context.Background()

	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("SumLinesInTx", ctx, mock.Anything, int64(1)).
		Return(decimal.Zero, decimal.Zero, 0, nil).Once()

	_, err := suite.service.PostEntry(ctx, 1)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEmptyEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPostedInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()

	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(7)).Return(postedEntry(7), nil).Once()

	_, err := suite.service.PostEntry(ctx, 7)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SumLinesInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPostedInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_NotFound() {
	ctx := context.Background()

	suite.expectTx()
	suite.mockJournalRepo.On("FindEntryByIDForUpdate", ctx, mock.Anything, int64(404)).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostEntry(ctx, 404)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Entry metadata and deletion ---

func (suite *JournalServiceTestSuite) TestUpdateEntryMetadata_Success() {
	ctx := context.Background()
	newDesc := "Corrected description"
	req := dto.UpdateEntryRequest{Description: &newDesc}

	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("UpdateEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.UpdateEntryMetadata(ctx, 1, req)

	suite.Require().NoError(err)
	suite.Equal(newDesc, entry.Description)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateEntryMetadata_Posted() {
	ctx := context.Background()
	newDesc := "too late"
	req := dto.UpdateEntryRequest{Description: &newDesc}

	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(7)).Return(postedEntry(7), nil).Once()

	_, err := suite.service.UpdateEntryMetadata(ctx, 7, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_Draft() {
	ctx := context.Background()

	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("DeleteEntry", ctx, int64(1)).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, 1)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_Posted() {
	ctx := context.Background()

	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(7)).Return(postedEntry(7), nil).Once()

	err := suite.service.DeleteEntry(ctx, 7)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListLines_EntryNotFound() {
	ctx := context.Background()

	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(42)).
		Return(nil, apperrors.ErrNotFound).Once()

	lines, err := suite.service.ListLines(ctx, 42)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(lines)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListLines_Success() {
	ctx := context.Background()
	lines := []domain.JournalLine{
		{LineID: 10, EntryID: 1, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(250)},
		{LineID: 11, EntryID: 1, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(250)},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, int64(1)).Return(lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, []int64{suite.cashAccount.AccountID, suite.revenueAccount.AccountID}).
		Return(map[int64]domain.Account{
			suite.cashAccount.AccountID:    suite.cashAccount,
			suite.revenueAccount.AccountID: suite.revenueAccount,
		}, nil).Once()

	got, err := suite.service.ListLines(ctx, 1)

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.Equal(int64(11), got[1].LineID)
	suite.Equal("Cash", got[0].AccountName)
	suite.Equal("Ward Fees", got[1].AccountName)
}

func (suite *JournalServiceTestSuite) TestGetEntryByID_WithLines() {
	ctx := context.Background()
	lines := []domain.JournalLine{
		{LineID: 10, EntryID: 1, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(250)},
		{LineID: 11, EntryID: 1, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(250)},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, int64(1)).Return(draftEntry(1), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, int64(1)).Return(lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, []int64{suite.cashAccount.AccountID, suite.revenueAccount.AccountID}).
		Return(map[int64]domain.Account{
			suite.cashAccount.AccountID:    suite.cashAccount,
			suite.revenueAccount.AccountID: suite.revenueAccount,
		}, nil).Once()

	entry, err := suite.service.GetEntryByID(ctx, 1)

	suite.Require().NoError(err)
	suite.Len(entry.Lines, 2)
	suite.Equal(int64(10), entry.Lines[0].LineID)
	suite.Equal("Cash", entry.Lines[0].AccountName)
	suite.Equal("Ward Fees", entry.Lines[1].AccountName)
}

// --- Run Test Suite ---
func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
