package service

import (
	"context"
	"strings"

	"github.com/tavola-pos/api/internal/model"
)

// CustomerInput carries the editable customer fields. Loyalty points are
// not editable; they only grow through archived orders.
type CustomerInput struct {
	Name   string
	Email  string
	Phone  string
	Avatar string
}

func (in CustomerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(in.Email) == "" {
		return ErrEmailRequired
	}
	return nil
}

// Customers lists customers, optionally filtered by a case-insensitive
// match on name, email or phone.
func (s *Restaurant) Customers(search string) []model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := []model.Customer{}
	for _, c := range s.customers {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) &&
			!strings.Contains(c.Phone, search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Restaurant) Customer(id string) (model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ci := customerIndex(s.customers, id)
	if ci < 0 {
		s.warnNotFound("get customer", id, ErrCustomerNotFound)
		return model.Customer{}, ErrCustomerNotFound
	}
	return s.customers[ci], nil
}

func (s *Restaurant) CreateCustomer(ctx context.Context, in CustomerInput) (model.Customer, error) {
	if err := in.validate(); err != nil {
		return model.Customer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Customer{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Avatar:    in.Avatar,
		CreatedAt: s.now().UTC(),
	}
	err := s.apply(ctx, func(st *state) error {
		if emailTaken(st.customers, c.Email, "") {
			return ErrDuplicateEmail
		}
		st.customers = append(st.customers, c)
		st.customersDirty = true
		return nil
	})
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (s *Restaurant) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (model.Customer, error) {
	if err := in.validate(); err != nil {
		return model.Customer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out model.Customer
	err := s.apply(ctx, func(st *state) error {
		ci := customerIndex(st.customers, id)
		if ci < 0 {
			return ErrCustomerNotFound
		}
		email := strings.TrimSpace(in.Email)
		if emailTaken(st.customers, email, id) {
			return ErrDuplicateEmail
		}
		c := st.customers[ci]
		c.Name = strings.TrimSpace(in.Name)
		c.Email = email
		c.Phone = strings.TrimSpace(in.Phone)
		c.Avatar = in.Avatar
		st.customers[ci] = c
		out = c
		st.customersDirty = true
		return nil
	})
	if err != nil {
		s.warnNotFound("update customer", id, err)
		return model.Customer{}, err
	}
	return out, nil
}

func (s *Restaurant) DeleteCustomer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(ctx, func(st *state) error {
		ci := customerIndex(st.customers, id)
		if ci < 0 {
			return ErrCustomerNotFound
		}
		st.customers = append(st.customers[:ci], st.customers[ci+1:]...)
		st.customersDirty = true
		return nil
	})
	s.warnNotFound("delete customer", id, err)
	return err
}

// CustomerOrders returns active and archived orders placed by a customer.
func (s *Restaurant) CustomerOrders(id string) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customerIndex(s.customers, id) < 0 {
		s.warnNotFound("customer orders", id, ErrCustomerNotFound)
		return nil, ErrCustomerNotFound
	}
	out := []model.Order{}
	for _, list := range [][]model.Order{s.book.active, s.book.archived} {
		for _, o := range list {
			if o.CustomerID == id {
				out = append(out, o.Clone())
			}
		}
	}
	return out, nil
}

func emailTaken(customers []model.Customer, email, exceptID string) bool {
	for _, c := range customers {
		if c.ID != exceptID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}
