package main

import (
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByLogin(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		nu := user.NewUser{
			Name:     uname,
			Username: uname,
			Email:    email,
			Password: pwd,
		}
		if isAdmin {
			nu.Roles = user.AdminRoles
		}
		_, err = cli.usrSvc.Create(nu)
		return err
	}

	uu := user.UpdateUser{
		Username: uname,
		Email:    email,
		Password: pwd,
	}
	if isAdmin {
		uu.Roles = user.AdminRoles
	}
	active := true
	uu.IsActive = &active
	_, err = cli.usrSvc.Update(usr.ID, uu)
	return err
}
