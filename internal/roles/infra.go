package roles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("role not found")

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

const roleColumns = `
	id, name, description, personality, specialties, avatar_url,
	api_config, settings, extract(epoch from created_at)::bigint
`

func (r *repo) List(ctx context.Context) ([]Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+roleColumns+`
		FROM ai_roles
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *repo) GetByID(ctx context.Context, id string) (Role, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+roleColumns+`
		FROM ai_roles
		WHERE id = $1
	`, id)
	return scanOne(row)
}

func (r *repo) GetByName(ctx context.Context, name string) (Role, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+roleColumns+`
		FROM ai_roles
		WHERE name = $1
	`, name)
	return scanOne(row)
}

func (r *repo) Create(ctx context.Context, role *Role) error {
	specialties, apiConfig, err := encodeRole(role)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ai_roles (id, name, description, personality, specialties, avatar_url, api_config, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		role.ID,
		role.Name,
		role.Description,
		role.Personality,
		specialties,
		role.AvatarURL,
		apiConfig,
		settingsOrEmpty(role.Settings),
	)
	return err
}

func (r *repo) Update(ctx context.Context, role *Role) error {
	specialties, apiConfig, err := encodeRole(role)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE ai_roles
		SET name = $2, description = $3, personality = $4, specialties = $5,
		    avatar_url = $6, api_config = $7, settings = $8, updated_at = now()
		WHERE id = $1
	`,
		role.ID,
		role.Name,
		role.Description,
		role.Personality,
		specialties,
		role.AvatarURL,
		apiConfig,
		settingsOrEmpty(role.Settings),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ai_roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (Role, error) {
	role, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Role{}, ErrNotFound
	}
	return role, err
}

func scanRole(s rowScanner) (Role, error) {
	var (
		role        Role
		specialties []byte
		apiConfig   []byte
		settings    sql.NullString
	)
	if err := s.Scan(
		&role.ID,
		&role.Name,
		&role.Description,
		&role.Personality,
		&specialties,
		&role.AvatarURL,
		&apiConfig,
		&settings,
		&role.CreatedAt,
	); err != nil {
		return Role{}, err
	}
	if len(specialties) > 0 {
		if err := json.Unmarshal(specialties, &role.Specialties); err != nil {
			return Role{}, err
		}
	}
	if len(apiConfig) > 0 {
		if err := json.Unmarshal(apiConfig, &role.API); err != nil {
			return Role{}, err
		}
	}
	role.Settings = settingsOrEmpty(settings.String)
	return role, nil
}

func encodeRole(role *Role) (specialties, apiConfig []byte, err error) {
	if role.Specialties == nil {
		role.Specialties = []string{}
	}
	specialties, err = json.Marshal(role.Specialties)
	if err != nil {
		return nil, nil, err
	}
	apiConfig, err = json.Marshal(role.API)
	if err != nil {
		return nil, nil, err
	}
	return specialties, apiConfig, nil
}

func settingsOrEmpty(s string) string {
	if s == "" {
		return "{}"
	}
	return s
}
