package mirror

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fundhub/internal/chain"
	"fundhub/internal/domain"
	"fundhub/internal/numeric"
)

const syncPageSize = 50

// Syncer pairs off-chain campaign records with their on-chain counterparts.
// A record is matched by metadata hash; once linked it keeps its chain id
// forever, so each pass only looks at unlinked records.
type Syncer struct {
	reader chain.Reader
	repo   domain.CampaignMirrorRepository
	logger zerolog.Logger
}

func NewSyncer(reader chain.Reader, repo domain.CampaignMirrorRepository, logger zerolog.Logger) *Syncer {
	return &Syncer{reader: reader, repo: repo, logger: logger}
}

// Run executes a sync pass every interval until the context is cancelled.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := s.SyncOnce(ctx); err != nil {
			s.logger.Error().Err(err).Msg("mirror sync pass failed")
		} else if n > 0 {
			s.logger.Info().Int("linked", n).Msg("mirror sync pass")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SyncOnce runs a single pass and reports how many records were linked.
func (s *Syncer) SyncOnce(ctx context.Context) (int, error) {
	records, err := s.repo.List(ctx, false)
	if err != nil {
		return 0, err
	}
	unlinked := records[:0:0]
	for _, rec := range records {
		if rec.ChainID == nil && rec.MetadataHash != "" {
			unlinked = append(unlinked, rec)
		}
	}
	if len(unlinked) == 0 {
		return 0, nil
	}

	byHash, err := s.chainCampaignsByHash(ctx)
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, rec := range unlinked {
		chainID, ok := byHash[rec.MetadataHash]
		if !ok {
			continue
		}
		if err := s.repo.LinkChainID(ctx, rec.ID, chainID); err != nil {
			s.logger.Warn().Err(err).Str("record_id", rec.ID).Msg("link chain id")
			continue
		}
		linked++
	}
	return linked, nil
}

func (s *Syncer) chainCampaignsByHash(ctx context.Context) (map[string]int64, error) {
	byHash := make(map[string]int64)
	for offset := uint64(0); ; offset += syncPageSize {
		ids, err := s.reader.ActiveCampaignIDs(ctx, offset, syncPageSize)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			c, err := s.reader.Campaign(ctx, id)
			if err != nil {
				s.logger.Warn().Err(err).Uint64("campaign_id", id).Msg("read campaign")
				continue
			}
			if c.MetadataHash == "" {
				continue
			}
			if _, seen := byHash[c.MetadataHash]; !seen {
				byHash[c.MetadataHash] = numeric.ToInt64(c.ID)
			}
		}
		if uint64(len(ids)) < syncPageSize {
			return byHash, nil
		}
	}
}
