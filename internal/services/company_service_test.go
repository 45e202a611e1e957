package services

import (
	"context"
	"strings"
	"testing"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/utils"
)

func TestCompanyCreate(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{
		"jane@example.com": {ID: "user-1", Email: "jane@example.com", Role: models.RoleApplicant},
	}}
	companies := &fakeCompanyRepo{byID: map[string]*models.Company{}}
	svc := NewCompanyService(companies, users, "https://cvscout.example.com")

	company, err := svc.Create(context.Background(), "Acme", "Software", "user-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if company.OwnerUserID != "user-1" {
		t.Errorf("owner = %q", company.OwnerUserID)
	}

	// the owner's membership is promoted alongside the company row
	owner := users.byEmail["jane@example.com"]
	if owner.Role != models.RoleCompanyAdmin {
		t.Errorf("owner role = %q, want company_admin", owner.Role)
	}
	if owner.CompanyID == nil || *owner.CompanyID != company.ID {
		t.Errorf("owner company = %v, want %q", owner.CompanyID, company.ID)
	}

	// one company per owner
	if _, err := svc.Create(context.Background(), "Second", "Software", "user-1"); !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("second create: err = %v, want CONFLICT", err)
	}
}

func TestCompanyCreateUnknownUser(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	companies := &fakeCompanyRepo{byID: map[string]*models.Company{}}
	svc := NewCompanyService(companies, users, "")

	if _, err := svc.Create(context.Background(), "Acme", "Software", "ghost"); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if len(companies.byID) != 0 {
		t.Error("company persisted for an unknown user")
	}
}

func TestRegistrationLink(t *testing.T) {
	svc := NewCompanyService(&fakeCompanyRepo{byID: map[string]*models.Company{}}, &fakeUserRepo{byEmail: map[string]*models.User{}}, "https://cvscout.example.com")

	admin := models.Identity{UserID: "admin-1", Role: models.RoleCompanyAdmin, CompanyID: "company-1"}
	link, err := svc.RegistrationLink(context.Background(), admin)
	if err != nil {
		t.Fatalf("RegistrationLink: %v", err)
	}
	if !strings.HasPrefix(link, "https://cvscout.example.com/register?") {
		t.Errorf("link = %q", link)
	}
	if !strings.Contains(link, "company_id=company-1") || !strings.Contains(link, "type=applicant") {
		t.Errorf("link = %q, missing query params", link)
	}

	noCompany := models.Identity{UserID: "user-1", Role: models.RoleApplicant}
	if _, err := svc.RegistrationLink(context.Background(), noCompany); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}

func TestRegistrationLinkWithoutBaseURL(t *testing.T) {
	svc := NewCompanyService(&fakeCompanyRepo{byID: map[string]*models.Company{}}, &fakeUserRepo{byEmail: map[string]*models.User{}}, "")

	admin := models.Identity{UserID: "admin-1", Role: models.RoleCompanyAdmin, CompanyID: "company-1"}
	if _, err := svc.RegistrationLink(context.Background(), admin); !utils.IsCode(err, utils.CodeInternal) {
		t.Fatalf("err = %v, want INTERNAL", err)
	}
}
