package testutil

import (
	"testing"
	"time"

	"github.com/tmukandila/ratiba/core/user"
)

// CreateUser persists a user straight through the repository, skipping service
// side effects (emails, uniqueness checks).
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	if len(createdAt) > 0 {
		now = createdAt[0].UTC().Truncate(time.Microsecond)
	}

	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}

	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}
