package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/verdant-labs/climate-receivables/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO climate.users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM climate.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "user", ID: email}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateAsset creates a new energy-producing asset
func (r *Repository) CreateAsset(asset *models.Asset) error {
	query := `
		INSERT INTO climate.assets (id, name, type, location, capacity_mw, production_variability, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, asset.ID, asset.Name, asset.Type, asset.Location, asset.CapacityMW, asset.ProductionVariability).
		Scan(&asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// FindAssetByID retrieves an asset by id
func (r *Repository) FindAssetByID(id uuid.UUID) (*models.Asset, error) {
	asset := &models.Asset{}
	query := `
		SELECT id, name, type, location, capacity_mw, production_variability, created_at, updated_at
		FROM climate.assets
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&asset.ID, &asset.Name, &asset.Type, &asset.Location, &asset.CapacityMW, &asset.ProductionVariability, &asset.CreatedAt, &asset.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "asset", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find asset: %w", err)
	}
	return asset, nil
}

// CreatePayer creates a new payer
func (r *Repository) CreatePayer(payer *models.Payer) error {
	query := `
		INSERT INTO climate.payers (id, name, email, credit_rating, financial_health_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, payer.ID, payer.Name, payer.Email, payer.CreditRating, payer.FinancialHealthScore).
		Scan(&payer.CreatedAt, &payer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payer: %w", err)
	}
	return nil
}

// FindPayerByID retrieves a payer by id
func (r *Repository) FindPayerByID(id uuid.UUID) (*models.Payer, error) {
	payer := &models.Payer{}
	query := `
		SELECT id, name, email, credit_rating, financial_health_score, created_at, updated_at
		FROM climate.payers
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&payer.ID, &payer.Name, &payer.Email, &payer.CreditRating, &payer.FinancialHealthScore, &payer.CreatedAt, &payer.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "payer", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payer: %w", err)
	}
	return payer, nil
}

// CreateReceivable creates a new receivable
func (r *Repository) CreateReceivable(rec *models.Receivable) error {
	query := `
		INSERT INTO climate.receivables (id, asset_id, payer_id, amount, due_date, risk_score, discount_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, rec.ID, rec.AssetID, rec.PayerID, rec.Amount, rec.DueDate, rec.RiskScore, rec.DiscountRate).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create receivable: %w", err)
	}
	return nil
}

// FindReceivableByID retrieves a receivable by id
func (r *Repository) FindReceivableByID(id uuid.UUID) (*models.Receivable, error) {
	rec := &models.Receivable{}
	query := `
		SELECT id, asset_id, payer_id, amount, due_date, risk_score, discount_rate, created_at, updated_at
		FROM climate.receivables
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&rec.ID, &rec.AssetID, &rec.PayerID, &rec.Amount, &rec.DueDate, &rec.RiskScore, &rec.DiscountRate, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "receivable", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find receivable: %w", err)
	}
	return rec, nil
}

// ListReceivables returns all receivables ordered by due date
func (r *Repository) ListReceivables() ([]models.Receivable, error) {
	query := `
		SELECT id, asset_id, payer_id, amount, due_date, risk_score, discount_rate, created_at, updated_at
		FROM climate.receivables
		ORDER BY due_date, id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list receivables: %w", err)
	}
	defer rows.Close()

	var out []models.Receivable
	for rows.Next() {
		var rec models.Receivable
		if err := rows.Scan(&rec.ID, &rec.AssetID, &rec.PayerID, &rec.Amount, &rec.DueDate, &rec.RiskScore, &rec.DiscountRate, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receivable: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateReceivableRisk stores a freshly computed risk score and discount rate
func (r *Repository) UpdateReceivableRisk(id uuid.UUID, score, discountRate float64) error {
	query := `
		UPDATE climate.receivables
		SET risk_score = $2, discount_rate = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	result, err := r.db.Exec(query, id, score, discountRate)
	if err != nil {
		return fmt.Errorf("failed to update receivable risk: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check receivable update: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Entity: "receivable", ID: id.String()}
	}
	return nil
}

// DeleteReceivable removes a receivable
func (r *Repository) DeleteReceivable(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM climate.receivables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete receivable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check receivable delete: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Entity: "receivable", ID: id.String()}
	}
	return nil
}

// CreateIncentive creates a new incentive
func (r *Repository) CreateIncentive(in *models.Incentive) error {
	query := `
		INSERT INTO climate.incentives (id, type, amount, status, expected_receipt_date, asset_id, receivable_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, in.ID, in.Type, in.Amount, in.Status, in.ExpectedReceiptDate, in.AssetID, in.ReceivableID).
		Scan(&in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incentive: %w", err)
	}
	return nil
}

// FindIncentiveByID retrieves an incentive by id
func (r *Repository) FindIncentiveByID(id uuid.UUID) (*models.Incentive, error) {
	in := &models.Incentive{}
	query := `
		SELECT id, type, amount, status, expected_receipt_date, asset_id, receivable_id, created_at, updated_at
		FROM climate.incentives
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&in.ID, &in.Type, &in.Amount, &in.Status, &in.ExpectedReceiptDate, &in.AssetID, &in.ReceivableID, &in.CreatedAt, &in.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "incentive", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find incentive: %w", err)
	}
	return in, nil
}

// ListIncentives returns all incentives
func (r *Repository) ListIncentives() ([]models.Incentive, error) {
	query := `
		SELECT id, type, amount, status, expected_receipt_date, asset_id, receivable_id, created_at, updated_at
		FROM climate.incentives
		ORDER BY created_at, id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incentives: %w", err)
	}
	defer rows.Close()

	var out []models.Incentive
	for rows.Next() {
		var in models.Incentive
		if err := rows.Scan(&in.ID, &in.Type, &in.Amount, &in.Status, &in.ExpectedReceiptDate, &in.AssetID, &in.ReceivableID, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan incentive: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// UpdateIncentiveStatus moves an incentive to a new lifecycle status
func (r *Repository) UpdateIncentiveStatus(id uuid.UUID, status models.IncentiveStatus) error {
	query := `
		UPDATE climate.incentives
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	result, err := r.db.Exec(query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update incentive status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check incentive update: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Entity: "incentive", ID: id.String()}
	}
	return nil
}
