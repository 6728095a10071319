package store

import (
	"context"
	"log/slog"

	"github.com/SscSPs/pm_dashboard_app/internal/core/authz"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/utils/mapping"
)

// checkCompanyAdmin verifies that adminID, when set, names a known ADMIN or MASTER.
func checkCompanyAdmin(snap *Snapshot, adminID *string) error {
	if adminID == nil || *adminID == "" {
		return nil
	}
	u, ok := findByID(snap.Users, *adminID, keyUser)
	if !ok {
		return invalid("Admin %s does not exist", *adminID)
	}
	if u.Role != domain.RoleAdmin && u.Role != domain.RoleMaster {
		return invalid("Company admin must have role ADMIN or MASTER")
	}
	return nil
}

// AddCompany creates a tenant.
func (s *Store) AddCompany(ctx context.Context, req domain.NewCompanyRequest) (domain.Company, error) {
	const op = "add company"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Company{}, s.fail(ctx, op, err)
	}
	if !authz.Decide(&actor, authz.CompanyResource{}, authz.ActionCreate).Allowed() {
		return domain.Company{}, s.fail(ctx, op, denied("create companies"))
	}
	if err := s.check(req); err != nil {
		return domain.Company{}, s.fail(ctx, op, err)
	}
	s.view(func(snap *Snapshot) { err = checkCompanyAdmin(snap, req.AdminID) })
	if err != nil {
		return domain.Company{}, s.fail(ctx, op, err)
	}

	row := mapping.ToModelCompany(domain.Company{
		ID:          s.newID(),
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		AdminID:     req.AdminID,
	})
	row.CreatedAt = s.now()
	saved, err := s.gw.Companies().Insert(ctx, row)
	if err != nil {
		return domain.Company{}, s.fail(ctx, op, remoteErr(err))
	}
	company := mapping.ToDomainCompany(saved)
	s.apply(gen, func(snap *Snapshot) { snap.Companies = replaceByID(snap.Companies, company, keyCompany) })
	s.succeed(ctx, op, "Company created.", slog.String("company_id", company.ID))
	return company, nil
}

// UpdateCompany applies patch to the company with id.
func (s *Store) UpdateCompany(ctx context.Context, id string, patch domain.CompanyPatch) (domain.Company, error) {
	const op = "update company"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Company{}, s.fail(ctx, op, err)
	}
	var (
		current domain.Company
		found   bool
	)
	s.view(func(snap *Snapshot) { current, found = findByID(snap.Companies, id, keyCompany) })
	if !found {
		return domain.Company{}, s.fail(ctx, op, notFound("Company", id))
	}
	if !authz.Decide(&actor, authz.CompanyResource{Company: current}, authz.ActionEdit).Allowed() {
		return domain.Company{}, s.fail(ctx, op, denied("edit this company"))
	}
	if err := s.check(patch); err != nil {
		return domain.Company{}, s.fail(ctx, op, err)
	}
	s.view(func(snap *Snapshot) { err = checkCompanyAdmin(snap, patch.AdminID) })
	if err != nil {
		return domain.Company{}, s.fail(ctx, op, err)
	}

	saved, err := s.gw.Companies().Update(ctx, id, mapping.ToModelCompany(patch.Apply(current)))
	if err != nil {
		return domain.Company{}, s.fail(ctx, op, remoteErr(err))
	}
	company := mapping.ToDomainCompany(saved)
	s.apply(gen, func(snap *Snapshot) { snap.Companies = replaceByID(snap.Companies, company, keyCompany) })
	s.succeed(ctx, op, "Company updated.", slog.String("company_id", id))
	return company, nil
}

// DeleteCompany removes a company that no project or user references. A
// referenced company is refused without contacting the gateway.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	const op = "delete company"
	actor, gen, err := s.session()
	if err != nil {
		return s.fail(ctx, op, err)
	}
	var (
		current          domain.Company
		found            bool
		projects, people int
	)
	s.view(func(snap *Snapshot) {
		current, found = findByID(snap.Companies, id, keyCompany)
		for _, p := range snap.Projects {
			if p.CompanyID == id {
				projects++
			}
		}
		for _, u := range snap.Users {
			if u.InCompany(id) {
				people++
			}
		}
	})
	if !found {
		return s.fail(ctx, op, notFound("Company", id))
	}
	if !authz.Decide(&actor, authz.CompanyResource{Company: current}, authz.ActionDelete).Allowed() {
		return s.fail(ctx, op, denied("delete this company"))
	}
	if projects > 0 || people > 0 {
		s.LogDebug(ctx, "Company still referenced", slog.String("company_id", id), slog.Int("projects", projects), slog.Int("users", people))
		return s.fail(ctx, op, dependencyErr("company", projects, people))
	}

	if err := s.gw.Companies().Delete(ctx, id); err != nil {
		return s.fail(ctx, op, remoteErr(err))
	}
	s.apply(gen, func(snap *Snapshot) {
		snap.Companies = removeWhere(snap.Companies, func(c domain.Company) bool { return c.ID == id })
	})
	s.succeed(ctx, op, "Company deleted.", slog.String("company_id", id))
	return nil
}
