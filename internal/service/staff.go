package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// StaffInput carries the editable staff fields. An empty Password on update
// keeps the current one.
type StaffInput struct {
	Name     string
	Role     string
	Email    string
	Phone    string
	Shift    string
	Avatar   string
	Salary   *decimal.Decimal
	Password string
}

func (in StaffInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return ErrEmailRequired
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if !enum.IsStaffRole(in.Role) {
		return ErrInvalidRole
	}
	if !enum.IsShift(in.Shift) {
		return ErrInvalidShift
	}
	if in.Salary != nil && in.Salary.IsNegative() {
		return ErrInvalidSalary
	}
	return nil
}

func (s *Restaurant) Staff(ctx context.Context) ([]model.StaffMember, error) {
	staff, err := s.repo.GetStaff(ctx)
	if err != nil {
		return nil, external("persistence", fmt.Errorf("load staff: %w", err))
	}
	if staff == nil {
		staff = []model.StaffMember{}
	}
	return staff, nil
}

func (s *Restaurant) StaffMember(ctx context.Context, id string) (model.StaffMember, error) {
	staff, err := s.Staff(ctx)
	if err != nil {
		return model.StaffMember{}, err
	}
	for _, m := range staff {
		if m.ID == id {
			return m, nil
		}
	}
	s.warnNotFound("get staff", id, ErrStaffNotFound)
	return model.StaffMember{}, ErrStaffNotFound
}

func (s *Restaurant) CreateStaff(ctx context.Context, in StaffInput) (model.StaffMember, error) {
	if err := in.validate(); err != nil {
		return model.StaffMember{}, err
	}
	if in.Password == "" {
		return model.StaffMember{}, ErrPasswordRequired
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.StaffMember{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staff, err := s.Staff(ctx)
	if err != nil {
		return model.StaffMember{}, err
	}
	if staffEmailTaken(staff, in.Email, "") {
		return model.StaffMember{}, ErrDuplicateEmail
	}
	m := model.StaffMember{ID: s.newID(), PasswordHash: string(hashed)}
	in.applyTo(&m)
	if err := s.repo.SaveStaff(ctx, append(staff, m)); err != nil {
		return model.StaffMember{}, external("persistence", fmt.Errorf("save staff: %w", err))
	}
	return m, nil
}

func (s *Restaurant) UpdateStaff(ctx context.Context, id string, in StaffInput) (model.StaffMember, error) {
	if err := in.validate(); err != nil {
		return model.StaffMember{}, err
	}
	var hashed []byte
	if in.Password != "" {
		var err error
		hashed, err = bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.StaffMember{}, fmt.Errorf("hash password: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staff, err := s.Staff(ctx)
	if err != nil {
		return model.StaffMember{}, err
	}
	for i := range staff {
		if staff[i].ID != id {
			continue
		}
		if staffEmailTaken(staff, in.Email, id) {
			return model.StaffMember{}, ErrDuplicateEmail
		}
		in.applyTo(&staff[i])
		if hashed != nil {
			staff[i].PasswordHash = string(hashed)
		}
		if err := s.repo.SaveStaff(ctx, staff); err != nil {
			return model.StaffMember{}, external("persistence", fmt.Errorf("save staff: %w", err))
		}
		return staff[i], nil
	}
	s.warnNotFound("update staff", id, ErrStaffNotFound)
	return model.StaffMember{}, ErrStaffNotFound
}

func (s *Restaurant) DeleteStaff(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staff, err := s.Staff(ctx)
	if err != nil {
		return err
	}
	for i := range staff {
		if staff[i].ID != id {
			continue
		}
		staff = append(staff[:i], staff[i+1:]...)
		if err := s.repo.SaveStaff(ctx, staff); err != nil {
			return external("persistence", fmt.Errorf("save staff: %w", err))
		}
		return nil
	}
	s.warnNotFound("delete staff", id, ErrStaffNotFound)
	return ErrStaffNotFound
}

// Authenticate checks an email/password pair against the staff list.
func (s *Restaurant) Authenticate(ctx context.Context, email, password string) (model.StaffMember, error) {
	staff, err := s.Staff(ctx)
	if err != nil {
		return model.StaffMember{}, err
	}
	for _, m := range staff {
		if !strings.EqualFold(m.Email, strings.TrimSpace(email)) {
			continue
		}
		if m.PasswordHash == "" {
			return model.StaffMember{}, ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
			return model.StaffMember{}, ErrInvalidCredentials
		}
		return m, nil
	}
	return model.StaffMember{}, ErrInvalidCredentials
}

func (in StaffInput) applyTo(m *model.StaffMember) {
	m.Name = strings.TrimSpace(in.Name)
	m.Role = in.Role
	m.Email = strings.TrimSpace(in.Email)
	m.Phone = strings.TrimSpace(in.Phone)
	m.Shift = in.Shift
	m.Avatar = in.Avatar
	m.Salary = in.Salary
}

func staffEmailTaken(staff []model.StaffMember, email, exceptID string) bool {
	email = strings.TrimSpace(email)
	for _, m := range staff {
		if m.ID != exceptID && strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}
