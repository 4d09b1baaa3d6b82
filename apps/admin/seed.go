package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/user"
)

// seed creates a demo guru (unless it exists) and `count` santri assigned to them, then prints
// the generated santri credentials.
func (cli *commandLine) seed(guruEmail, pwd string, count int, classID string) error {
	ctx := context.Background()
	guruEmail = core.CleanString(guruEmail, true /* lower */)

	guruID, err := cli.seedGuru(ctx, guruEmail, pwd)
	if err != nil {
		return err
	}

	out := cli.stdout()
	for i := 1; i <= count; i++ {
		ns := santri.NewSantri{
			FullName:       fmt.Sprintf("Santri Demo %d", i),
			ClassID:        classID,
			AssignedGuruID: guruID,
		}
		if err = ns.Validate(cli.validate); err != nil {
			return err
		}
		created, err := cli.santriSvc.Create(ctx, ns)
		if err != nil {
			return errors.Wrapf(err, "creating %s", ns.FullName)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", created.Santri.FullName, created.Credentials.Email, created.Credentials.Password)
	}
	return nil
}

func (cli *commandLine) seedGuru(ctx context.Context, email, pwd string) (string, error) {
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err == nil {
		if !usr.IsGuru() {
			if usr, err = cli.usrSvc.AssignRole(ctx, usr.ID, user.RoleID(user.RoleGuru)); err != nil {
				return "", err
			}
		}
		fmt.Fprintf(cli.stdout(), "using guru %s\n", usr.Email)
		return usr.ID, nil
	}
	if !core.IsNotFound(err) {
		return "", err
	}

	nu := user.NewUser{Name: "Guru Demo", Email: email, Password: pwd, Roles: []string{user.RoleGuru}}
	if err = nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
		return "", err
	}
	g, err := cli.guruSvc.Create(ctx, nu)
	if err != nil {
		return "", errors.Wrap(err, "creating guru")
	}
	fmt.Fprintf(cli.stdout(), "guru %s created\n", g.Email)
	return g.ID, nil
}
