package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/darasa/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc *user.Service
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL [-role ROLE] - create a verified user")
	_, _ = fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset user's password")
	_, _ = fmt.Fprintln(cli.out, "  verifyemail -email EMAIL - mark user's email as verified")
	_, _ = fmt.Fprintln(cli.out, "  listusers [-search TEXT] [-role ROLE] - list registered users")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", user.RoleAdmin, "One of student, faculty, admin.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	verifyEmailCmd := flag.NewFlagSet("verifyemail", flag.ContinueOnError)
	verifyEmailEmail := verifyEmailCmd.String("email", "", "The user's email.")

	listUsersCmd := flag.NewFlagSet("listusers", flag.ContinueOnError)
	listUsersSearch := listUsersCmd.String("search", "", "Only users whose name or email contains TEXT.")
	listUsersRole := listUsersCmd.String("role", "", "Only users with ROLE.")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd, verifyEmailCmd, listUsersCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(ctx, user.NewUser{Name: *addUserName, Email: *addUserEmail, Password: pwd, Role: *addUserRole})

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(ctx, *resetPasswordEmail, pwd)

	case "verifyemail":
		if err := verifyEmailCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *verifyEmailEmail == "" {
			verifyEmailCmd.Usage()
			return errHelp
		}
		return cli.usrSvc.MarkEmailVerified(ctx, *verifyEmailEmail)

	case "listusers":
		if err := listUsersCmd.Parse(args[2:]); err != nil {
			return err
		}
		filter := user.QueryFilter{Search: *listUsersSearch}
		if *listUsersRole != "" {
			filter.Roles = []string{*listUsersRole}
		}
		return cli.listUsers(filter)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}
