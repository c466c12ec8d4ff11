// Package directory implements the read-only lookups the authorization core
// needs from the data layer: which company a resource instance belongs to
// and which employee owns it.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vettore-hr/vettore/internal/authz"
)

// Directory resolves resource ownership against PostgreSQL. It satisfies
// authz.Directory. Every query is a single-row primary key lookup; the
// request context bounds their deadline.
type Directory struct {
	pool *pgxpool.Pool
}

// New constructs a Directory backed by the provided pool.
func New(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// CompanyIDOfResource returns the company owning the given instance. The
// switch over resource kinds is exhaustive; kinds without a company binding
// report not found.
func (d *Directory) CompanyIDOfResource(ctx context.Context, kind authz.Resource, id int64) (int64, bool, error) {
	var query string
	switch kind {
	case authz.ResourceCompanies:
		query = `SELECT id FROM companies WHERE id = $1`
	case authz.ResourceDepartments:
		query = `SELECT company_id FROM departments WHERE id = $1`
	case authz.ResourceEmployees:
		query = `SELECT company_id FROM employees WHERE id = $1`
	case authz.ResourceTrainings:
		query = `SELECT company_id FROM trainings WHERE id = $1`
	case authz.ResourceOccurrences:
		query = `SELECT e.company_id FROM occurrences o JOIN employees e ON e.id = o.employee_id WHERE o.id = $1`
	case authz.ResourceFeedbacks:
		query = `SELECT e.company_id FROM feedbacks f JOIN employees e ON e.id = f.employee_id WHERE f.id = $1`
	case authz.ResourceEvaluations:
		query = `SELECT e.company_id FROM evaluations ev JOIN employees e ON e.id = ev.employee_id WHERE ev.id = $1`
	case authz.ResourcePDIs:
		query = `SELECT e.company_id FROM pdis p JOIN employees e ON e.id = p.employee_id WHERE p.id = $1`
	case authz.ResourceConsultingFirm:
		// Consulting firms sit above companies in the tenancy tree.
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("directory: unhandled resource kind %s", kind)
	}
	return d.lookup(ctx, query, id)
}

// OwningEmployeeID returns the employee a resource instance is bound to:
// the occurrence's subject, the feedback's author, the evaluation or PDI's
// employee. Kinds without a per-employee owner report not found.
func (d *Directory) OwningEmployeeID(ctx context.Context, kind authz.Resource, id int64) (int64, bool, error) {
	var query string
	switch kind {
	case authz.ResourceEmployees:
		query = `SELECT id FROM employees WHERE id = $1`
	case authz.ResourceOccurrences:
		query = `SELECT employee_id FROM occurrences WHERE id = $1`
	case authz.ResourceFeedbacks:
		query = `SELECT author_id FROM feedbacks WHERE id = $1`
	case authz.ResourceEvaluations:
		query = `SELECT employee_id FROM evaluations WHERE id = $1`
	case authz.ResourcePDIs:
		query = `SELECT employee_id FROM pdis WHERE id = $1`
	default:
		return 0, false, nil
	}
	return d.lookup(ctx, query, id)
}

func (d *Directory) lookup(ctx context.Context, query string, id int64) (int64, bool, error) {
	var result int64
	if err := d.pool.QueryRow(ctx, query, id).Scan(&result); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("directory: lookup: %w", err)
	}
	return result, true, nil
}
