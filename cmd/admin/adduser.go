package main

import (
	"fmt"
	"time"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/user"
)

// addUser updates or creates an active account with the given role.
func (cli *commandLine) addUser(name, email, pwd, role string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	var valid bool
	for _, r := range user.AllRoles {
		if role == r {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown role %q", role)
	}

	usr, err := cli.usrRepo.GetUserByEmail(email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      name,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.Name = name
	usr.Role = role
	usr.IsActive = true
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == 0 {
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}
	isActive := true
	if _, err = cli.usrRepo.UpdateUser(usr, &isActive); err != nil {
		return err
	}
	return cli.usrRepo.SetUserPassword(usr.ID, usr.PasswordHash)
}
