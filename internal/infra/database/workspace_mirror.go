package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/xavierca1/prospector/internal/entity"
)

// WorkspaceMirror is the Postgres copy of one owner's workspace. Every row
// is keyed by (user_id, id); the full record lives in a JSONB column.
type WorkspaceMirror struct {
	DB     *sqlx.DB
	UserID string
}

func NewWorkspaceMirror(db *sqlx.DB, userID string) *WorkspaceMirror {
	return &WorkspaceMirror{DB: db, UserID: userID}
}

type leadRow struct {
	UserID             string         `db:"user_id"`
	ID                 string         `db:"id"`
	Position           int            `db:"position"`
	Name               string         `db:"name"`
	Company            string         `db:"company"`
	Status             string         `db:"status"`
	QualificationScore int            `db:"qualification_score"`
	TechStack          pq.StringArray `db:"tech_stack"`
	Data               []byte         `db:"data"`
}

func (m *WorkspaceMirror) toLeadRow(l *entity.Lead, position int) (leadRow, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return leadRow{}, fmt.Errorf("failed to encode lead %s: %w", l.ID, err)
	}
	return leadRow{
		UserID:             m.UserID,
		ID:                 l.ID,
		Position:           position,
		Name:               l.Name,
		Company:            l.Company,
		Status:             string(l.Status),
		QualificationScore: l.QualificationScore,
		TechStack:          pq.StringArray(l.TechStack),
		Data:               data,
	}, nil
}

func (m *WorkspaceMirror) FetchLeads(ctx context.Context) ([]*entity.Lead, error) {
	var rows []leadRow
	err := m.DB.SelectContext(ctx, &rows, `
		SELECT user_id, id, position, name, company, status, qualification_score, tech_stack, data
		FROM leads
		WHERE user_id = $1
		ORDER BY position, id
	`, m.UserID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to fetch leads: %w", err))
	}

	leads := make([]*entity.Lead, 0, len(rows))
	for _, r := range rows {
		var l entity.Lead
		if err := json.Unmarshal(r.Data, &l); err != nil {
			return nil, fmt.Errorf("failed to decode lead %s: %w", r.ID, err)
		}
		l.TechStack = []string(r.TechStack)
		leads = append(leads, &l)
	}
	return leads, nil
}

const insertLead = `
	INSERT INTO leads (user_id, id, position, name, company, status, qualification_score, tech_stack, data, updated_at)
	VALUES (:user_id, :id, :position, :name, :company, :status, :qualification_score, :tech_stack, :data, NOW())
`

// ReplaceLeads swaps the owner's lead set in one transaction.
func (m *WorkspaceMirror) ReplaceLeads(ctx context.Context, leads []*entity.Lead) error {
	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE user_id = $1`, m.UserID); err != nil {
		return classify(fmt.Errorf("failed to clear leads: %w", err))
	}

	for i, l := range leads {
		row, err := m.toLeadRow(l, i)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertLead, row); err != nil {
			return classify(fmt.Errorf("failed to insert lead %s: %w", l.ID, err))
		}
	}

	return classify(tx.Commit())
}

func (m *WorkspaceMirror) UpsertLead(ctx context.Context, lead *entity.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("failed to encode lead %s: %w", lead.ID, err)
	}

	_, err = m.DB.ExecContext(ctx, `
		INSERT INTO leads (user_id, id, position, name, company, status, qualification_score, tech_stack, data, updated_at)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), -1) + 1 FROM leads WHERE user_id = $1), $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id, id)
		DO UPDATE SET
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			status = EXCLUDED.status,
			qualification_score = EXCLUDED.qualification_score,
			tech_stack = EXCLUDED.tech_stack,
			data = EXCLUDED.data,
			updated_at = NOW()
	`,
		m.UserID,
		lead.ID,
		lead.Name,
		lead.Company,
		string(lead.Status),
		lead.QualificationScore,
		pq.Array(lead.TechStack),
		data,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to upsert lead %s: %w", lead.ID, err))
	}
	return nil
}

func (m *WorkspaceMirror) DeleteLead(ctx context.Context, id string) error {
	_, err := m.DB.ExecContext(ctx, `DELETE FROM leads WHERE user_id = $1 AND id = $2`, m.UserID, id)
	if err != nil {
		return classify(fmt.Errorf("failed to delete lead %s: %w", id, err))
	}
	return nil
}

func (m *WorkspaceMirror) FetchProfile(ctx context.Context) (*entity.UserProfile, error) {
	var data []byte
	err := m.DB.GetContext(ctx, &data, `SELECT data FROM profiles WHERE user_id = $1`, m.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(fmt.Errorf("failed to fetch profile: %w", err))
	}

	var p entity.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

func (m *WorkspaceMirror) UpsertProfile(ctx context.Context, profile *entity.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = m.DB.ExecContext(ctx, `
		INSERT INTO profiles (user_id, email, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			data = EXCLUDED.data,
			updated_at = NOW()
	`, m.UserID, profile.Email, data)
	if err != nil {
		return classify(fmt.Errorf("failed to upsert profile: %w", err))
	}
	return nil
}

func (m *WorkspaceMirror) FetchHistory(ctx context.Context) ([]entity.SearchHistoryItem, error) {
	var blobs [][]byte
	err := m.DB.SelectContext(ctx, &blobs, `
		SELECT data FROM search_history
		WHERE user_id = $1
		ORDER BY position
		LIMIT $2
	`, m.UserID, entity.MaxHistoryItems)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to fetch history: %w", err))
	}

	history := make([]entity.SearchHistoryItem, 0, len(blobs))
	for _, b := range blobs {
		var item entity.SearchHistoryItem
		if err := json.Unmarshal(b, &item); err != nil {
			return nil, fmt.Errorf("failed to decode history item: %w", err)
		}
		history = append(history, item)
	}
	return history, nil
}

func (m *WorkspaceMirror) ReplaceHistory(ctx context.Context, history []entity.SearchHistoryItem) error {
	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM search_history WHERE user_id = $1`, m.UserID); err != nil {
		return classify(fmt.Errorf("failed to clear history: %w", err))
	}

	for i, item := range history {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to encode history item %s: %w", item.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO search_history (user_id, id, position, created_at, data)
			VALUES ($1, $2, $3, $4, $5)
		`, m.UserID, item.ID, i, item.Timestamp, data)
		if err != nil {
			return classify(fmt.Errorf("failed to insert history item %s: %w", item.ID, err))
		}
	}

	return classify(tx.Commit())
}

func (m *WorkspaceMirror) FetchTemplates(ctx context.Context) ([]entity.EmailTemplate, error) {
	var blobs [][]byte
	err := m.DB.SelectContext(ctx, &blobs, `
		SELECT data FROM email_templates
		WHERE user_id = $1
		ORDER BY position, id
	`, m.UserID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to fetch templates: %w", err))
	}

	templates := make([]entity.EmailTemplate, 0, len(blobs))
	for _, b := range blobs {
		var t entity.EmailTemplate
		if err := json.Unmarshal(b, &t); err != nil {
			return nil, fmt.Errorf("failed to decode template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func (m *WorkspaceMirror) ReplaceTemplates(ctx context.Context, templates []entity.EmailTemplate) error {
	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM email_templates WHERE user_id = $1`, m.UserID); err != nil {
		return classify(fmt.Errorf("failed to clear templates: %w", err))
	}

	for i, t := range templates {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode template %s: %w", t.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO email_templates (user_id, id, position, name, data, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`, m.UserID, t.ID, i, t.Name, data)
		if err != nil {
			return classify(fmt.Errorf("failed to insert template %s: %w", t.ID, err))
		}
	}

	return classify(tx.Commit())
}

func (m *WorkspaceMirror) UpsertTemplate(ctx context.Context, t entity.EmailTemplate) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode template %s: %w", t.ID, err)
	}

	_, err = m.DB.ExecContext(ctx, `
		INSERT INTO email_templates (user_id, id, position, name, data, updated_at)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), -1) + 1 FROM email_templates WHERE user_id = $1), $3, $4, NOW())
		ON CONFLICT (user_id, id)
		DO UPDATE SET
			name = EXCLUDED.name,
			data = EXCLUDED.data,
			updated_at = NOW()
	`, m.UserID, t.ID, t.Name, data)
	if err != nil {
		return classify(fmt.Errorf("failed to upsert template %s: %w", t.ID, err))
	}
	return nil
}

func (m *WorkspaceMirror) DeleteTemplate(ctx context.Context, id string) error {
	_, err := m.DB.ExecContext(ctx, `DELETE FROM email_templates WHERE user_id = $1 AND id = $2`, m.UserID, id)
	if err != nil {
		return classify(fmt.Errorf("failed to delete template %s: %w", id, err))
	}
	return nil
}
