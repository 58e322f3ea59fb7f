package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// addUser registers a user whose email is verified right away, so they can log in at once.
func (cli *commandLine) addUser(ctx context.Context, nu user.NewUser) error {
	usr, err := cli.usrSvc.Signup(ctx, nu)
	if err != nil && !core.IsPersistError(err) {
		return err
	}
	if err = cli.usrSvc.MarkEmailVerified(ctx, usr.Email); err != nil {
		return errors.Wrap(err, "verifying email")
	}
	cli.printf("created %s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	return nil
}
