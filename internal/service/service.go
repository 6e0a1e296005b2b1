package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/verdant-labs/climate-receivables/internal/cache"
	"github.com/verdant-labs/climate-receivables/internal/config"
	"github.com/verdant-labs/climate-receivables/internal/models"
	"github.com/verdant-labs/climate-receivables/internal/riskconfig"
	"github.com/verdant-labs/climate-receivables/internal/utils/email"
)

// DataStore is the persistence surface the service depends on, satisfied by
// repository.Repository
type DataStore interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	CreateAsset(asset *models.Asset) error
	FindAssetByID(id uuid.UUID) (*models.Asset, error)
	CreatePayer(payer *models.Payer) error
	FindPayerByID(id uuid.UUID) (*models.Payer, error)
	CreateReceivable(rec *models.Receivable) error
	FindReceivableByID(id uuid.UUID) (*models.Receivable, error)
	ListReceivables() ([]models.Receivable, error)
	UpdateReceivableRisk(id uuid.UUID, score, discountRate float64) error
	DeleteReceivable(id uuid.UUID) error
	CreateIncentive(in *models.Incentive) error
	FindIncentiveByID(id uuid.UUID) (*models.Incentive, error)
	ListIncentives() ([]models.Incentive, error)
	UpdateIncentiveStatus(id uuid.UUID, status models.IncentiveStatus) error
}

// RateFeed supplies the current policy rate, satisfied by policyrate.Client
type RateFeed interface {
	GetPolicyRate() (float64, error)
}

// Service handles business logic
type Service struct {
	repo   DataStore
	store  *riskconfig.Store
	scores cache.ScoreCache
	feed   RateFeed
	mailer *email.Sender
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service. feed and mailer may be nil when the
// corresponding integration is not configured.
func NewService(repo DataStore, store *riskconfig.Store, scores cache.ScoreCache, feed RateFeed, mailer *email.Sender, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, store: store, scores: scores, feed: feed, mailer: mailer, log: log, config: cfg}
}

// ConfigStore exposes the risk configuration store to the API layer
func (s *Service) ConfigStore() *riskconfig.Store {
	return s.store
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CreateAsset registers a new energy-producing asset
func (s *Service) CreateAsset(asset *models.Asset) error {
	if asset.Name == "" {
		return models.NewValidationError("name", "asset name is required")
	}
	if asset.CapacityMW < 0 {
		return models.NewValidationError("capacity_mw", "capacity must not be negative, got %v", asset.CapacityMW)
	}
	asset.ID = uuid.New()
	if err := s.repo.CreateAsset(asset); err != nil {
		return err
	}
	s.log.Infof("Asset created: %s (%s)", asset.ID, asset.Name)
	return nil
}

// CreatePayer registers a new payer
func (s *Service) CreatePayer(payer *models.Payer) error {
	if payer.Name == "" {
		return models.NewValidationError("name", "payer name is required")
	}
	payer.ID = uuid.New()
	if err := s.repo.CreatePayer(payer); err != nil {
		return err
	}
	s.log.Infof("Payer created: %s (%s)", payer.ID, payer.Name)
	return nil
}

// CreateReceivableInput is the accepted payload for creating a receivable
type CreateReceivableInput struct {
	AssetID   uuid.UUID `json:"asset_id"`
	PayerID   uuid.UUID `json:"payer_id"`
	Amount    float64   `json:"amount"`
	DueDate   time.Time `json:"due_date"`
	RiskScore *float64  `json:"risk_score,omitempty"`
}

// CreateReceivable validates and persists a new receivable. When a risk score
// is supplied the discount rate is derived from it synchronously; in every
// case a background recalculation is kicked off afterwards and can neither
// delay nor fail the creation.
func (s *Service) CreateReceivable(ctx context.Context, input CreateReceivableInput) (*models.Receivable, error) {
	if input.Amount <= 0 {
		return nil, models.NewValidationError("amount", "amount must be positive, got %v", input.Amount)
	}
	if input.DueDate.IsZero() {
		return nil, models.NewValidationError("due_date", "due date is required")
	}
	if _, err := s.repo.FindAssetByID(input.AssetID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindPayerByID(input.PayerID); err != nil {
		return nil, err
	}

	rec := &models.Receivable{
		ID:      uuid.New(),
		AssetID: input.AssetID,
		PayerID: input.PayerID,
		Amount:  input.Amount,
		DueDate: input.DueDate,
	}
	if input.RiskScore != nil {
		score := *input.RiskScore
		if score < 0 || score > 100 {
			return nil, models.NewValidationError("risk_score", "risk score must be in [0,100], got %v", score)
		}
		params, err := s.store.RiskParameters()
		if err != nil {
			return nil, err
		}
		discount := params.MinDiscountRate + (score/100)*(params.MaxDiscountRate-params.MinDiscountRate)
		rec.RiskScore = &score
		rec.DiscountRate = &discount
	}

	if err := s.repo.CreateReceivable(rec); err != nil {
		return nil, err
	}
	s.log.Infof("Receivable created: %s amount=%v due=%s", rec.ID, rec.Amount, rec.DueDate.Format("2006-01-02"))

	// Recalculate in the background; errors are logged, never surfaced to
	// the creating caller.
	go func(id uuid.UUID) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Errorf("Background risk recalculation panicked for receivable %s: %v", id, r)
			}
		}()
		if _, err := s.RecalculateRisk(context.Background(), id, true); err != nil {
			s.log.Errorf("Background risk recalculation failed for receivable %s: %v", id, err)
		}
	}(rec.ID)

	return rec, nil
}

// GetReceivable retrieves a receivable by id
func (s *Service) GetReceivable(id uuid.UUID) (*models.Receivable, error) {
	return s.repo.FindReceivableByID(id)
}

// ListReceivables returns all receivables
func (s *Service) ListReceivables() ([]models.Receivable, error) {
	return s.repo.ListReceivables()
}

// DeleteReceivable removes a receivable and drops its cached assessment
func (s *Service) DeleteReceivable(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteReceivable(id); err != nil {
		return err
	}
	if err := s.scores.Invalidate(ctx, id.String()); err != nil {
		s.log.Warnf("Failed to invalidate cached assessment for %s: %v", id, err)
	}
	s.log.Infof("Receivable deleted: %s", id)
	return nil
}

// CreateIncentive validates and persists a new incentive
func (s *Service) CreateIncentive(in *models.Incentive) error {
	if in.Amount <= 0 {
		return models.NewValidationError("amount", "amount must be positive, got %v", in.Amount)
	}
	if in.Type == "" {
		return models.NewValidationError("type", "incentive type is required")
	}
	if !models.ValidIncentiveStatus(in.Status) {
		return models.NewValidationError("status", "unknown incentive status %q", string(in.Status))
	}
	in.ID = uuid.New()
	if err := s.repo.CreateIncentive(in); err != nil {
		return err
	}
	s.log.Infof("Incentive created: %s type=%s status=%s", in.ID, in.Type, in.Status)
	return nil
}

// GetIncentive retrieves an incentive by id
func (s *Service) GetIncentive(id uuid.UUID) (*models.Incentive, error) {
	return s.repo.FindIncentiveByID(id)
}

// ListIncentives returns all incentives
func (s *Service) ListIncentives() ([]models.Incentive, error) {
	return s.repo.ListIncentives()
}

// UpdateIncentiveStatus moves an incentive to a new lifecycle status
func (s *Service) UpdateIncentiveStatus(id uuid.UUID, status models.IncentiveStatus) error {
	if !models.ValidIncentiveStatus(status) {
		return models.NewValidationError("status", "unknown incentive status %q", string(status))
	}
	if err := s.repo.UpdateIncentiveStatus(id, status); err != nil {
		return err
	}
	s.log.Infof("Incentive %s moved to status %s", id, status)
	return nil
}
