package community

import (
	"context"
	"fmt"

	appfinance "github.com/Robi000/CMS/internal/application/finance"
	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssociationService manages associations. Creating one also opens its
// single ledger account, so every association can take money from day one.
type AssociationService struct {
	associationRepo community.AssociationRepository
	ledgerService   *appfinance.LedgerService
	txManager       shared.TransactionManager
	logger          *zap.Logger
}

// NewAssociationService creates a new AssociationService
func NewAssociationService(
	associationRepo community.AssociationRepository,
	ledgerService *appfinance.LedgerService,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *AssociationService {
	return &AssociationService{
		associationRepo: associationRepo,
		ledgerService:   ledgerService,
		txManager:       txManager,
		logger:          logger,
	}
}

// CreateAssociationRequest represents a request to set up an association
type CreateAssociationRequest struct {
	Place               string
	BuildingNumberStart int
	BuildingNumberEnd   int
}

// Create sets up an association and its ledger account atomically.
func (s *AssociationService) Create(ctx context.Context, req CreateAssociationRequest) (*community.Association, error) {
	existing, err := s.associationRepo.FindByPlace(ctx, req.Place)
	if err != nil {
		return nil, fmt.Errorf("failed to check association place: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An association already exists at this place")
	}

	association, err := community.NewAssociation(req.Place, req.BuildingNumberStart, req.BuildingNumberEnd)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		if err := s.associationRepo.Save(c, association); err != nil {
			return fmt.Errorf("failed to save association: %w", err)
		}
		if _, err := s.ledgerService.CreateForAssociation(c, association.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Association created",
		zap.String("association_id", association.ID.String()),
		zap.String("place", association.Place))

	return association, nil
}

// Get returns one association.
func (s *AssociationService) Get(ctx context.Context, id uuid.UUID) (*community.Association, error) {
	association, err := s.associationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get association: %w", err)
	}
	if association == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Association not found")
	}
	return association, nil
}

// List returns all associations.
func (s *AssociationService) List(ctx context.Context, filter shared.Filter) ([]community.Association, error) {
	associations, err := s.associationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list associations: %w", err)
	}
	return associations, nil
}
