package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"schoolhub/domain"
)

const insertSchoolQuery = `
	INSERT INTO schools (name, address, city, state, contact, email_id, image_kind, image, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id;
`

const getAllSchoolQuery = `
	SELECT id, name, address, city, state, contact, email_id, image_kind, image, created_at
	FROM schools
	ORDER BY created_at DESC;
`

type schoolRepository struct {
	db *pgxpool.Pool
}

func NewSchoolRepository(database *pgxpool.Pool) domain.SchoolRepo {
	return &schoolRepository{
		db: database,
	}
}

func (sr *schoolRepository) CreateSchool(ctx context.Context, school *domain.School) error {
	now := time.Now()

	var id int
	err := sr.db.QueryRow(ctx, insertSchoolQuery,
		school.Name, school.Address, school.City, school.State,
		school.Contact, school.EmailID, string(school.ImageKind), school.Image, now,
	).Scan(&id)
	if err != nil {
		return &domain.PersistenceError{Op: "could not insert school", Err: err}
	}

	school.SchoolID = id
	school.CreatedAt = now

	return nil
}

func (sr *schoolRepository) GetAllSchool(ctx context.Context) (*[]domain.School, error) {
	rows, err := sr.db.Query(ctx, getAllSchoolQuery)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "could not get all schools", Err: err}
	}
	defer rows.Close()

	var schools []domain.School
	for rows.Next() {
		var school domain.School
		var kind string

		err := rows.Scan(&school.SchoolID, &school.Name, &school.Address, &school.City, &school.State,
			&school.Contact, &school.EmailID, &kind, &school.Image, &school.CreatedAt)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "could not scan school", Err: err}
		}

		school.ImageKind = domain.ImageKind(kind)
		schools = append(schools, school)
	}

	if err = rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "rows error", Err: err}
	}

	return &schools, nil
}
