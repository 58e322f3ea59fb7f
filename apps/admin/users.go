package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/darasa/core/user"
)

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	if err := cli.usrSvc.SetPassword(ctx, email, pwd); err != nil {
		return err
	}
	cli.printf("password updated for %s\n", strings.ToLower(strings.TrimSpace(email)))
	return nil
}

func (cli *commandLine) listUsers(filter user.QueryFilter) error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tVERIFIED")
	for _, u := range cli.usrSvc.Query(filter) {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.Role, u.EmailVerified)
	}
	return w.Flush()
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, a...)
}
