package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, lead_id, full_name, phone_number, COALESCE(email, ''),
	COALESCE(city, ''), COALESCE(state, ''), COALESCE(address, ''),
	COALESCE(service_interested, ''), COALESCE(clinic_name, ''),
	lead_source, status, assigned_owner_id, group_id, is_opted_out,
	created_by, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (*entity.Lead, error) {
	lead := &entity.Lead{}
	err := row.Scan(
		&lead.ID, &lead.LeadID, &lead.FullName, &lead.PhoneNumber, &lead.Email,
		&lead.City, &lead.State, &lead.Address,
		&lead.Service, &lead.ClinicName,
		&lead.Source, &lead.Status, &lead.OwnerID, &lead.GroupID, &lead.IsOptedOut,
		&lead.CreatedBy, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (lead_id, full_name, phone_number, email, city, state, address,
			service_interested, clinic_name, lead_source, status, assigned_owner_id,
			group_id, is_opted_out, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`

	err := r.DB.QueryRowContext(ctx, query,
		lead.LeadID, lead.FullName, lead.PhoneNumber, lead.Email, lead.City, lead.State,
		lead.Address, lead.Service, lead.ClinicName, lead.Source, lead.Status,
		lead.OwnerID, lead.GroupID, lead.IsOptedOut, lead.CreatedBy,
		lead.CreatedAt, lead.UpdatedAt,
	).Scan(&lead.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("lead_id duplicado: %w", err)
		}
		log.Printf("Erro crítico no banco: %v", err)
		return err
	}

	// Respostas customizadas do formulário (se vieram)
	for i := range lead.Fields {
		f := &lead.Fields[i]
		err := r.DB.QueryRowContext(ctx,
			`INSERT INTO lead_fields (lead_ref, field_name, field_value, created_at)
			 VALUES ($1, $2, $3, NOW()) RETURNING id`,
			lead.ID, f.FieldName, f.FieldValue,
		).Scan(&f.ID)
		if err != nil {
			return fmt.Errorf("erro ao salvar campo customizado: %w", err)
		}
		f.LeadRef = lead.ID
	}

	return nil
}

func (r *LeadRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE lead_id = $1`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, leadID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("erro ao buscar lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("erro ao buscar lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, f entity.LeadFilters) ([]*entity.Lead, int, error) {
	where := []string{"1=1"}
	args := []any{}

	addArg := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.Status != "" {
		addArg("status = $%d", f.Status)
	}
	if f.Source != "" {
		addArg("lead_source = $%d", f.Source)
	}
	if f.City != "" {
		addArg("city ILIKE $%d", f.City)
	}
	if f.OwnerID != nil {
		addArg("assigned_owner_id = $%d", *f.OwnerID)
	}
	if f.GroupID != nil {
		addArg("group_id = $%d", *f.GroupID)
	}
	if f.DateFrom != nil {
		addArg("created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		addArg("created_at <= $%d", *f.DateTo)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR phone_number ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar leads: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = 20
	}
	args = append(args, perPage, (page-1)*perPage)

	query := fmt.Sprintf(
		`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, cond, len(args)-1, len(args),
	)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("erro ao escanear lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, total, rows.Err()
}

// ChangeStatus troca o status do lead e grava o histórico na MESMA transação.
// O FOR UPDATE segura escritores concorrentes: o old_status do histórico é
// sempre o valor imediatamente anterior a esta atualização.
func (r *LeadRepository) ChangeStatus(ctx context.Context, leadID, newStatus string, changedBy *int64, notes string) (*entity.Lead, string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	var id int64
	var oldStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT id, status FROM leads WHERE lead_id = $1 FOR UPDATE`, leadID,
	).Scan(&id, &oldStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", entity.ErrLeadNotFound
		}
		return nil, "", fmt.Errorf("erro ao travar lead: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`,
		newStatus, id,
	)
	if err != nil {
		return nil, "", fmt.Errorf("erro ao atualizar status: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO status_history (lead_ref, old_status, new_status, changed_by, notes, changed_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW())`,
		id, oldStatus, newStatus, changedBy, notes,
	)
	if err != nil {
		return nil, "", fmt.Errorf("erro ao gravar histórico: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("erro no commit: %w", err)
	}

	lead, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return lead, oldStatus, nil
}

// ChangeOwner troca o dono do lead e devolve o dono antigo (pro front avisar).
// Atribuição não gera entrada no status_history.
func (r *LeadRepository) ChangeOwner(ctx context.Context, leadID string, ownerID int64) (*entity.Lead, *int64, error) {
	var id int64
	var oldOwner *int64
	err := r.DB.QueryRowContext(ctx,
		`UPDATE leads l SET assigned_owner_id = $2, updated_at = NOW()
		 FROM (SELECT id, assigned_owner_id FROM leads WHERE lead_id = $1 FOR UPDATE) prev
		 WHERE l.id = prev.id
		 RETURNING l.id, prev.assigned_owner_id`,
		leadID, ownerID,
	).Scan(&id, &oldOwner)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, entity.ErrLeadNotFound
		}
		return nil, nil, fmt.Errorf("erro ao atribuir lead: %w", err)
	}

	lead, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return lead, oldOwner, nil
}

// Update corrige os dados cadastrais capturados. Status, dono e opt-out têm
// operações próprias e não passam por aqui.
func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET full_name = $2, phone_number = $3, email = NULLIF($4, ''),
			city = NULLIF($5, ''), state = NULLIF($6, ''), address = NULLIF($7, ''),
			service_interested = NULLIF($8, ''), clinic_name = NULLIF($9, ''),
			group_id = $10, updated_at = NOW()
		 WHERE lead_id = $1`,
		lead.LeadID, lead.FullName, lead.PhoneNumber, lead.Email,
		lead.City, lead.State, lead.Address,
		lead.Service, lead.ClinicName, lead.GroupID,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// SetOptOut liga/desliga o opt-out do lead. Lead com opt-out nunca entra em
// campanha nem recebe auto-responder.
func (r *LeadRepository) SetOptOut(ctx context.Context, leadID string, optedOut bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET is_opted_out = $2, updated_at = NOW() WHERE lead_id = $1`,
		leadID, optedOut,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar opt-out: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, leadID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE lead_id = $1`, leadID)
	if err != nil {
		return fmt.Errorf("erro ao deletar lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// Recipients resolve os destinatários de uma campanha: leads com telefone,
// sem opt-out, respeitando os filtros de grupo/status da campanha.
func (r *LeadRepository) Recipients(ctx context.Context, groupID *int64, status string, dateFrom, dateTo *time.Time) ([]*entity.Lead, error) {
	where := []string{"phone_number IS NOT NULL", "phone_number <> ''", "is_opted_out = FALSE"}
	args := []any{}

	if groupID != nil {
		args = append(args, *groupID)
		where = append(where, fmt.Sprintf("group_id = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if dateFrom != nil {
		args = append(args, *dateFrom)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if dateTo != nil {
		args = append(args, *dateTo)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(
		`SELECT %s FROM leads WHERE %s ORDER BY id ASC`,
		leadColumns, strings.Join(where, " AND "),
	)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao resolver destinatários: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear destinatário: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
