package main

import (
	"github.com/brightpath/academia/core/user"
)

func (cli *commandLine) resetPassword(login, pwd string) error {
	usr, err := cli.usrSvc.GetByLogin(login)
	if err != nil {
		return err
	}
	_, err = cli.usrSvc.Update(usr.ID, user.UpdateUser{Password: pwd})
	return err
}
