package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/washdesk/backend/internal/models"
	"github.com/washdesk/backend/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	selectServiceQuery = `
						SELECT id, name, base_price, active FROM services
						WHERE id = $1
`
	selectServicePackagesQuery = `
						SELECT tier, times, price FROM service_packages
						WHERE service_id = $1
						ORDER BY tier, times
`
	selectAddOnsQuery = `
						SELECT id, name, price, active FROM addons
						WHERE id = ANY($1)
`
	selectActiveEmployeesQuery = `
						SELECT id, name, phone, active FROM employees
						WHERE active
						ORDER BY id
`
)

// CatalogRepository reads catalog data owned by the admin service
type CatalogRepository struct {
	db *postgres.DB
}

// NewCatalogRepository creates new CatalogRepository instance
func NewCatalogRepository(db *postgres.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetService returns the service with its package tiers
func (cr *CatalogRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc := models.Service{}
	err := cr.db.QueryRow(ctx, selectServiceQuery, id).Scan(&svc.ID, &svc.Name, &svc.BasePrice, &svc.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInvalidReference
		}
		return nil, err
	}

	rows, err := cr.db.Query(ctx, selectServicePackagesQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		opt := models.PackageOption{}
		if err := rows.Scan(&opt.Tier, &opt.Times, &opt.Price); err != nil {
			continue
		}
		svc.Packages = append(svc.Packages, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &svc, nil
}

// GetAddOns returns the add-ons matching the given ids. Missing ids are
// simply absent from the result; the caller decides whether that is an error.
func (cr *CatalogRepository) GetAddOns(ctx context.Context, ids []string) ([]models.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := cr.db.Query(ctx, selectAddOnsQuery, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addOns := []models.AddOn{}
	for rows.Next() {
		a := models.AddOn{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Price, &a.Active); err != nil {
			continue
		}
		addOns = append(addOns, a)
	}

	return addOns, rows.Err()
}

// ActiveEmployees returns the active roster ordered by employee id
func (cr *CatalogRepository) ActiveEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := cr.db.Query(ctx, selectActiveEmployeesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		e := models.Employee{}
		if err := rows.Scan(&e.ID, &e.Name, &e.Phone, &e.Active); err != nil {
			continue
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}
