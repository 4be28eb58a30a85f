package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/lms/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sql.DB
	usrSvc   *user.Service
	validate *validator.Validate
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a migration command (up, up-by-one, up-to, down, down-to, redo, reset, status, version, fix)")
	fmt.Println("  adduser -uid UID -fname FIRST -lname LAST -dob YYYY-MM-DD -role ROLE [-subject SUBJECT] - create a user")
	fmt.Println("  resetpassword -uid UID - reset a user's password")
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUID := addUserCmd.String("uid", "", "The user's uid. The password will be prompted next.")
	addUserFname := addUserCmd.String("fname", "", "The user's first name.")
	addUserLname := addUserCmd.String("lname", "", "The user's last name.")
	addUserDOB := addUserCmd.String("dob", "", "The user's date of birth (YYYY-MM-DD).")
	addUserRole := addUserCmd.String("role", user.RoleStudent, "One of Student, Professor, Administrator.")
	addUserSubject := addUserCmd.String("subject", "", "The subject of the user's department. Ignored for administrators.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUID := resetPasswordCmd.String("uid", "", "The user's uid. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUID == "" {
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
		_, err = cli.addUser(user.NewUser{
			UID:       *addUserUID,
			FirstName: *addUserFname,
			LastName:  *addUserLname,
			DOB:       *addUserDOB,
			Role:      *addUserRole,
			Subject:   *addUserSubject,
			Password:  pwd,
		})
		return err

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUID == "" {
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
		return cli.resetPassword(*resetPasswordUID, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}
