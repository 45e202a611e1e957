package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/utils"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func (f *fakeUserRepo) Insert(_ context.Context, u *models.User) error {
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserRepo) SetMembership(_ context.Context, userID, companyID string, role models.UserRole) error {
	for _, u := range f.byEmail {
		if u.ID == userID {
			u.CompanyID = &companyID
			u.Role = role
			return nil
		}
	}
	return utils.ErrNotFound
}

type fakeCompanyRepo struct {
	byID map[string]*models.Company
}

func (f *fakeCompanyRepo) Insert(_ context.Context, c *models.Company) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (*models.Company, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCompanyRepo) GetByOwner(_ context.Context, userID string) (*models.Company, error) {
	for _, c := range f.byID {
		if c.OwnerUserID == userID {
			return c, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCompanyRepo) OwnedBy(_ context.Context, userID string) (bool, error) {
	_, err := f.GetByOwner(context.Background(), userID)
	return err == nil, nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role models.UserRole, companyID string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{ID: "user-" + email, Email: email, PasswordHash: hash, Role: role}
	if companyID != "" {
		u.CompanyID = &companyID
	}
	repo.byEmail[email] = u
	return u
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	seedUser(t, users, "jane@example.com", "hunter22", models.RoleApplicant, "company-1")
	svc := NewAuthService(nil, users, &fakeCompanyRepo{byID: map[string]*models.Company{}})

	user, token, err := svc.Login(context.Background(), "Jane@Example.com ", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Errorf("email = %q", user.Email)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims["sub"] != user.ID {
		t.Errorf("sub = %v, want %q", claims["sub"], user.ID)
	}
	if claims["role"] != string(models.RoleApplicant) {
		t.Errorf("role = %v", claims["role"])
	}
	if claims["company_id"] != "company-1" {
		t.Errorf("company_id = %v", claims["company_id"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	seedUser(t, users, "jane@example.com", "hunter22", models.RoleApplicant, "")
	svc := NewAuthService(nil, users, &fakeCompanyRepo{byID: map[string]*models.Company{}})

	if _, _, err := svc.Login(context.Background(), "jane@example.com", "wrong"); !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Fatalf("wrong password: err = %v, want UNAUTHORIZED", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Fatalf("unknown email: err = %v, want UNAUTHORIZED", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("empty input: err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestRegisterApplicant(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	companies := &fakeCompanyRepo{byID: map[string]*models.Company{
		"company-1": {ID: "company-1", Name: "Acme", OwnerUserID: "admin-1"},
	}}
	svc := NewAuthService(nil, users, companies)

	user, token, err := svc.RegisterApplicant(context.Background(), "new@example.com", "hunter22", "company-1")
	if err != nil {
		t.Fatalf("RegisterApplicant: %v", err)
	}
	if token == "" {
		t.Error("no token issued")
	}
	if user.Role != models.RoleApplicant {
		t.Errorf("role = %q", user.Role)
	}
	if user.CompanyID == nil || *user.CompanyID != "company-1" {
		t.Errorf("company = %v", user.CompanyID)
	}

	// second registration with the same email is rejected
	if _, _, err := svc.RegisterApplicant(context.Background(), "new@example.com", "hunter22", "company-1"); !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("duplicate email: err = %v, want CONFLICT", err)
	}
}

func TestRegisterApplicantUnknownCompany(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	svc := NewAuthService(nil, users, &fakeCompanyRepo{byID: map[string]*models.Company{}})

	_, _, err := svc.RegisterApplicant(context.Background(), "new@example.com", "hunter22", "ghost")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if len(users.byEmail) != 0 {
		t.Error("user persisted despite the unknown company")
	}
}

func TestRegisterApplicantShortPassword(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*models.User{}}
	svc := NewAuthService(nil, users, &fakeCompanyRepo{byID: map[string]*models.Company{}})

	_, _, err := svc.RegisterApplicant(context.Background(), "new@example.com", "short", "company-1")
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
}
