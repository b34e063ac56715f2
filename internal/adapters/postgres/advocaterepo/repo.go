package advocaterepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/solace-advocates/advocate-directory-api/internal/adapters/postgres"
	"github.com/solace-advocates/advocate-directory-api/internal/domain"
	"github.com/solace-advocates/advocate-directory-api/internal/ports/out/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

const selectColumns = `
	SELECT
		id,
		first_name,
		last_name,
		city,
		degree,
		payload,
		years_of_experience,
		phone_number,
		created_at
	FROM advocates
`

// Repo is a Postgres implementation of advocaterepo.Repository.
type Repo struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewRepo builds a repo. A non-positive queryTimeout leaves the caller's deadline as is.
func NewRepo(pool *pgxpool.Pool, queryTimeout time.Duration) *Repo {
	return &Repo{pool: pool, queryTimeout: queryTimeout}
}

func (r *Repo) Create(ctx context.Context, a advocaterepo.Advocate) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(a.ID))
	if err != nil {
		return fmt.Errorf("invalid advocate id: %w", err)
	}
	specialties, err := json.Marshal(domain.CloneSpecialties(a.Specialties))
	if err != nil {
		return fmt.Errorf("encode specialties: %w", err)
	}
	var createdAt *time.Time
	if !a.CreatedAt.IsZero() {
		t := a.CreatedAt.UTC()
		createdAt = &t
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err = r.pool.Exec(ctx, `
		INSERT INTO advocates (
			id,
			first_name,
			last_name,
			city,
			degree,
			payload,
			years_of_experience,
			phone_number,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, COALESCE($9::timestamp, CURRENT_TIMESTAMP::timestamp))
	`,
		id,
		a.FirstName,
		a.LastName,
		a.City,
		a.Degree,
		string(specialties),
		a.YearsOfExperience,
		a.PhoneNumber,
		createdAt,
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return advocaterepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AdvocateID) (advocaterepo.Advocate, error) {
	if r.pool == nil {
		return advocaterepo.Advocate{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return advocaterepo.Advocate{}, advocaterepo.ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, uid)
	return scanAdvocate(row)
}

func (r *Repo) List(ctx context.Context) ([]advocaterepo.Advocate, error) {
	return r.Search(ctx, advocaterepo.Query{})
}

func (r *Repo) Search(ctx context.Context, q advocaterepo.Query) ([]advocaterepo.Advocate, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	sql, args := buildSearch(q)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]advocaterepo.Advocate, 0)
	for rows.Next() {
		a, err := scanAdvocate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// --- helpers ---

var coreColumns = map[search.Field]string{
	search.FieldFirstName: "first_name",
	search.FieldLastName:  "last_name",
	search.FieldCity:      "city",
	search.FieldDegree:    "degree",
}

// buildSearch translates a query into SQL. No ORDER BY is added: results come
// back in the table's natural scan order.
//
// Core fields compare lower(col) so the trigram expression indexes apply.
// When the policy covers every extra field the search_extra shadow column is
// used; otherwise each extra field is matched exactly, without index support.
func buildSearch(q advocaterepo.Query) (string, []any) {
	term := search.Normalize(q.Term)
	if term == "" {
		return selectColumns, nil
	}

	fields := q.Policy.Fields()
	extras := map[search.Field]bool{}
	preds := make([]string, 0, len(fields))
	for _, f := range fields {
		if col, ok := coreColumns[f]; ok {
			preds = append(preds, fmt.Sprintf("lower(%s) LIKE $1", col))
			continue
		}
		extras[f] = true
	}

	if len(extras) == len(search.ExtraFields) {
		preds = append(preds, "search_extra LIKE $1")
	} else {
		for _, f := range search.ExtraFields {
			if !extras[f] {
				continue
			}
			switch f {
			case search.FieldSpecialties:
				preds = append(preds, "EXISTS (SELECT 1 FROM jsonb_array_elements_text(payload) AS s WHERE lower(s) LIKE $1)")
			case search.FieldYearsOfExperience:
				preds = append(preds, "years_of_experience::text LIKE $1")
			case search.FieldPhoneNumber:
				preds = append(preds, "phone_number::text LIKE $1")
			}
		}
	}

	return selectColumns + " WHERE " + strings.Join(preds, " OR "), []any{"%" + escapeLike(term) + "%"}
}

// escapeLike makes LIKE metacharacters match literally under the default
// backslash escape.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func scanAdvocate(row interface {
	Scan(dest ...any) error
}) (advocaterepo.Advocate, error) {
	var (
		id                uuid.UUID
		firstName         string
		lastName          string
		city              string
		degree            string
		payload           []byte
		yearsOfExperience int32
		phoneNumber       int64
		createdAt         *time.Time
	)
	if err := row.Scan(
		&id,
		&firstName,
		&lastName,
		&city,
		&degree,
		&payload,
		&yearsOfExperience,
		&phoneNumber,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advocaterepo.Advocate{}, advocaterepo.ErrNotFound
		}
		return advocaterepo.Advocate{}, err
	}

	specialties := []string{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &specialties); err != nil {
			return advocaterepo.Advocate{}, fmt.Errorf("decode specialties for %s: %w", id, err)
		}
		if specialties == nil {
			specialties = []string{}
		}
	}

	a := advocaterepo.Advocate{
		ID:                domain.AdvocateID(id.String()),
		FirstName:         firstName,
		LastName:          lastName,
		City:              city,
		Degree:            degree,
		Specialties:       specialties,
		YearsOfExperience: int(yearsOfExperience),
		PhoneNumber:       phoneNumber,
	}
	if createdAt != nil {
		a.CreatedAt = createdAt.UTC()
	}
	return a, nil
}
