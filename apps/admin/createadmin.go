package main

import (
	"context"
	"fmt"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
)

// createAdmin creates an admin account, or promotes and reactivates the user owning `email`.
func (cli *commandLine) createAdmin(name, email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		if name == "" {
			name = email
		}
		nu := user.NewUser{
			Name:     name,
			Email:    email,
			Password: pwd,
			Roles:    []string{user.RoleAdmin},
		}
		if err = nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
			return err
		}
		if usr, err = cli.usrSvc.Create(ctx, nu); err != nil {
			return err
		}
		fmt.Fprintf(cli.stdout(), "admin %s created\n", usr.Email)
		return nil
	}

	if !usr.IsAdmin() {
		if usr, err = cli.usrSvc.AssignRole(ctx, usr.ID, user.RoleID(user.RoleAdmin)); err != nil {
			return err
		}
	}
	if !usr.IsActive {
		active := true
		if usr, err = cli.usrSvc.Update(ctx, usr, user.UpdateUser{Name: usr.Name, Email: usr.Email, IsActive: &active}); err != nil {
			return err
		}
	}
	if _, err = cli.usrSvc.SetPassword(ctx, usr, pwd); err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout(), "%s promoted to admin\n", usr.Email)
	return nil
}
