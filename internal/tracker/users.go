package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/grrt-recruitment/pipeline/internal/client"
	"github.com/grrt-recruitment/pipeline/internal/dtos"
)

type UsersAPI interface {
	ListUsers(ctx context.Context) ([]client.User, error)
	SetPrivilege(ctx context.Context, id, role string) (*client.User, error)
	DeleteUser(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, current, next string) error
}

const minPasswordLen = 8

// UserDirectory is the admin view over operator accounts.
type UserDirectory struct {
	api     UsersAPI
	confirm Confirmer

	mu    sync.Mutex
	users []client.User
	err   error
}

func NewUserDirectory(api UsersAPI, confirm Confirmer) *UserDirectory {
	return &UserDirectory{api: api, confirm: confirm}
}

func (d *UserDirectory) Load(ctx context.Context) error {
	users, err := d.api.ListUsers(ctx)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
	if err != nil {
		d.users = nil
		return err
	}
	d.users = users
	return nil
}

func (d *UserDirectory) Users() []client.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]client.User, len(d.users))
	copy(out, d.users)
	return out
}

func (d *UserDirectory) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// SetPrivilege reassigns the user to exactly one role.
func (d *UserDirectory) SetPrivilege(ctx context.Context, id, role string) (*client.User, error) {
	switch role {
	case dtos.RoleAdmin, dtos.RoleManager, dtos.RoleUser:
	default:
		return nil, d.record(&FieldError{Field: "role", Reason: "must be Admin, Manager or User"})
	}
	u, err := d.api.SetPrivilege(ctx, id, role)
	if err != nil {
		return nil, d.record(err)
	}
	d.mu.Lock()
	for i := range d.users {
		if d.users[i].ID == id {
			d.users[i] = *u
		}
	}
	d.err = nil
	d.mu.Unlock()
	return u, nil
}

func (d *UserDirectory) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := confirm(ctx, d.confirm, fmt.Sprintf("Delete user %s?", d.label(id)))
	if err != nil || !ok {
		return false, err
	}
	if err := d.api.DeleteUser(ctx, id); err != nil {
		return false, d.record(err)
	}
	d.mu.Lock()
	kept := d.users[:0]
	for _, u := range d.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	d.users = kept
	d.err = nil
	d.mu.Unlock()
	return true, nil
}

// ChangePassword updates the signed-in operator's own password.
func (d *UserDirectory) ChangePassword(ctx context.Context, current, next, confirmNext string) error {
	switch {
	case current == "":
		return required("currentPassword")
	case len(next) < minPasswordLen:
		return &FieldError{Field: "newPassword", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	case next != confirmNext:
		return &FieldError{Field: "confirmPassword", Reason: "does not match"}
	}
	return d.api.UpdatePassword(ctx, current, next)
}

func (d *UserDirectory) label(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.ID == id && u.Email != "" {
			return u.Email
		}
	}
	return id
}

func (d *UserDirectory) record(err error) error {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
	return err
}
