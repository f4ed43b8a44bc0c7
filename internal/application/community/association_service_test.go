package community

import (
	"context"
	"testing"

	appfinance "github.com/Robi000/CMS/internal/application/finance"
	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAssociationRepository struct {
	mock.Mock
}

func (m *MockAssociationRepository) FindByID(ctx context.Context, id uuid.UUID) (*community.Association, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Association), args.Error(1)
}

func (m *MockAssociationRepository) FindByPlace(ctx context.Context, place string) (*community.Association, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Association), args.Error(1)
}

func (m *MockAssociationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]community.Association, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]community.Association), args.Error(1)
}

func (m *MockAssociationRepository) Save(ctx context.Context, a *community.Association) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssociationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLedgerAccountRepository struct {
	mock.Mock
}

func (m *MockLedgerAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) FindByAssociation(ctx context.Context, associationID uuid.UUID) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, associationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) FindByAssociationForUpdate(ctx context.Context, associationID uuid.UUID) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, associationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) Save(ctx context.Context, account *finance.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerAccountRepository) SaveWithLock(ctx context.Context, account *finance.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func newAssociationService(associationRepo *MockAssociationRepository, ledgerRepo *MockLedgerAccountRepository) *AssociationService {
	ledgerService := appfinance.NewLedgerService(ledgerRepo, nil, nil, shared.SystemClock{})
	return NewAssociationService(associationRepo, ledgerService, noopTxManager{}, zap.NewNop())
}

func TestAssociationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a ledger account with the association", func(t *testing.T) {
		associationRepo := new(MockAssociationRepository)
		ledgerRepo := new(MockLedgerAccountRepository)
		svc := newAssociationService(associationRepo, ledgerRepo)

		associationRepo.On("FindByPlace", ctx, "Gerji Mebrat Hail").Return(nil, nil)
		associationRepo.On("Save", ctx, mock.AnythingOfType("*community.Association")).Return(nil)
		ledgerRepo.On("FindByAssociation", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil, nil)

		var account *finance.LedgerAccount
		ledgerRepo.On("Save", ctx, mock.MatchedBy(func(a *finance.LedgerAccount) bool {
			account = a
			return true
		})).Return(nil)

		association, err := svc.Create(ctx, CreateAssociationRequest{
			Place:               "Gerji Mebrat Hail",
			BuildingNumberStart: 1,
			BuildingNumberEnd:   12,
		})
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, association.ID, account.AssociationID)
		assert.True(t, account.Balance.IsZero())
		assert.True(t, association.ContainsBuilding(12))
		assert.False(t, association.ContainsBuilding(13))
	})

	t.Run("duplicate place rejected", func(t *testing.T) {
		associationRepo := new(MockAssociationRepository)
		ledgerRepo := new(MockLedgerAccountRepository)
		svc := newAssociationService(associationRepo, ledgerRepo)

		existing, err := community.NewAssociation("Gerji Mebrat Hail", 1, 12)
		require.NoError(t, err)
		associationRepo.On("FindByPlace", ctx, "Gerji Mebrat Hail").Return(existing, nil)

		_, err = svc.Create(ctx, CreateAssociationRequest{
			Place:               "Gerji Mebrat Hail",
			BuildingNumberStart: 1,
			BuildingNumberEnd:   12,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		associationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		ledgerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAssociationService_Get(t *testing.T) {
	ctx := context.Background()

	associationRepo := new(MockAssociationRepository)
	svc := newAssociationService(associationRepo, new(MockLedgerAccountRepository))

	missing := uuid.New()
	associationRepo.On("FindByID", ctx, missing).Return(nil, nil)

	_, err := svc.Get(ctx, missing)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
