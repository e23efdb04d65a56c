package postgres

import (
	"context"

	"github.com/lib/pq"

	"site-analytics-service/internal/stats/core/domain"
	"site-analytics-service/internal/stats/core/ports"
)

// OverrideRepository stores label overrides and mute rules. Keys are matched
// case-insensitively via the lower() expression indexes on both tables, and
// every write is a single statement so concurrent writers cannot corrupt
// state.
type OverrideRepository struct {
	db DB
}

func NewOverrideRepository(db DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

var _ ports.OverrideRepositoryPort = (*OverrideRepository)(nil)

const listLabelsSQL = `
SELECT site_id, element, original_text, display_text
FROM label_overrides
WHERE site_id = ANY($1);
`

func (r *OverrideRepository) ListLabels(ctx context.Context, siteIDs []string) ([]domain.LabelOverride, error) {
	rows, err := r.db.QueryContext(ctx, listLabelsSQL, pq.Array(siteIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.LabelOverride
	for rows.Next() {
		var l domain.LabelOverride
		if err := rows.Scan(&l.SiteID, &l.Element, &l.OriginalText, &l.DisplayText); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

const listMutesSQL = `
SELECT site_id, element, original_text
FROM mute_rules
WHERE site_id = ANY($1);
`

func (r *OverrideRepository) ListMutes(ctx context.Context, siteIDs []string) ([]domain.MuteRule, error) {
	rows, err := r.db.QueryContext(ctx, listMutesSQL, pq.Array(siteIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mutes []domain.MuteRule
	for rows.Next() {
		var m domain.MuteRule
		if err := rows.Scan(&m.SiteID, &m.Element, &m.OriginalText); err != nil {
			return nil, err
		}
		mutes = append(mutes, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mutes, nil
}

// The conflict target is the unique expression index on
// (site_id, lower(element), lower(original_text)), so a casing variant of an
// existing key updates that row instead of inserting a duplicate.
const upsertLabelSQL = `
INSERT INTO label_overrides (site_id, element, original_text, display_text)
VALUES ($1, $2, $3, $4)
ON CONFLICT (site_id, lower(element), lower(original_text))
DO UPDATE SET display_text = EXCLUDED.display_text;
`

func (r *OverrideRepository) UpsertLabel(ctx context.Context, siteID, element, originalText, displayText string) error {
	_, err := r.db.ExecContext(ctx, upsertLabelSQL, siteID, element, originalText, displayText)
	return err
}

const deleteMuteSQL = `
DELETE FROM mute_rules
WHERE site_id = $1 AND lower(element) = lower($2) AND lower(original_text) = lower($3);
`

func (r *OverrideRepository) DeleteMute(ctx context.Context, siteID, element, originalText string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteMuteSQL, siteID, element, originalText)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

const insertMuteSQL = `
INSERT INTO mute_rules (site_id, element, original_text)
VALUES ($1, $2, $3)
ON CONFLICT (site_id, lower(element), lower(original_text))
DO NOTHING;
`

func (r *OverrideRepository) InsertMute(ctx context.Context, siteID, element, originalText string) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertMuteSQL, siteID, element, originalText)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

const deleteStaleLabelsSQL = `
DELETE FROM label_overrides o
WHERE NOT EXISTS (SELECT 1 FROM sites s WHERE s.site_id = o.site_id);
`

const deleteStaleMutesSQL = `
DELETE FROM mute_rules o
WHERE NOT EXISTS (SELECT 1 FROM sites s WHERE s.site_id = o.site_id);
`

func (r *OverrideRepository) DeleteStale(ctx context.Context) (int64, int64, error) {
	labelRes, err := r.db.ExecContext(ctx, deleteStaleLabelsSQL)
	if err != nil {
		return 0, 0, err
	}
	labels, err := labelRes.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	muteRes, err := r.db.ExecContext(ctx, deleteStaleMutesSQL)
	if err != nil {
		return labels, 0, err
	}
	mutes, err := muteRes.RowsAffected()
	if err != nil {
		return labels, 0, err
	}

	return labels, mutes, nil
}
