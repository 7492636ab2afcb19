package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundhub/internal/domain"
)

// CampaignMirrorRepositoryPG implements CampaignMirrorRepository using PostgreSQL.
type CampaignMirrorRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignMirrorRepository creates a new campaign mirror repo.
func NewCampaignMirrorRepository(pool *pgxpool.Pool) *CampaignMirrorRepositoryPG {
	return &CampaignMirrorRepositoryPG{pool: pool}
}

// Create inserts a new mirror record.
func (r *CampaignMirrorRepositoryPG) Create(ctx context.Context, c *domain.MirrorCampaign) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO mirror_campaigns
  (id, chain_id, title, description, image_url, metadata_hash, target_amount,
   duration_days, category, tags, creator_wallet, contract_address, approved)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`, c.ID, c.ChainID, c.Title, c.Description, c.ImageURL, c.MetadataHash, c.TargetAmount,
		c.DurationDays, c.Category, c.Tags, c.CreatorWallet, c.ContractAddress, c.Approved)
	return err
}

// List returns mirror records, optionally restricted to approved ones.
func (r *CampaignMirrorRepositoryPG) List(ctx context.Context, onlyApproved bool) ([]domain.MirrorCampaign, error) {
	query := `
SELECT id, chain_id, title, description, image_url, metadata_hash, target_amount,
       duration_days, category, tags, creator_wallet, contract_address, approved,
       created_at, updated_at
FROM mirror_campaigns
`
	if onlyApproved {
		query += `WHERE approved = true
`
	}
	query += `ORDER BY created_at DESC;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MirrorCampaign
	for rows.Next() {
		c, err := scanMirrorCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID fetches one mirror record.
func (r *CampaignMirrorRepositoryPG) GetByID(ctx context.Context, id string) (*domain.MirrorCampaign, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, chain_id, title, description, image_url, metadata_hash, target_amount,
       duration_days, category, tags, creator_wallet, contract_address, approved,
       created_at, updated_at
FROM mirror_campaigns
WHERE id = $1;
`, id)
	c, err := scanMirrorCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Approve marks a mirror record as approved for public listing.
func (r *CampaignMirrorRepositoryPG) Approve(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE mirror_campaigns SET approved = true, updated_at = now() WHERE id = $1;
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LinkChainID attaches the on-chain campaign id once the sync worker pairs a
// record with its contract counterpart.
func (r *CampaignMirrorRepositoryPG) LinkChainID(ctx context.Context, id string, chainID int64) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE mirror_campaigns SET chain_id = $2, updated_at = now() WHERE id = $1;
`, id, chainID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMirrorCampaign(row pgx.Row) (*domain.MirrorCampaign, error) {
	var c domain.MirrorCampaign
	err := row.Scan(
		&c.ID, &c.ChainID, &c.Title, &c.Description, &c.ImageURL, &c.MetadataHash, &c.TargetAmount,
		&c.DurationDays, &c.Category, &c.Tags, &c.CreatorWallet, &c.ContractAddress, &c.Approved,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
