package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/course"
	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc  *user.Service
	crsSvc  *course.Service
	stuSvc  *student.Service
	billSvc *billing.Service
	exmSvc  *exam.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -username USERNAME -email EMAIL [-admin] - update or create a user; password prompted next")
	fmt.Println("  resetpassword -login USERNAME|EMAIL|STUDENT_ID - reset user's password")
	fmt.Println("  locktest -id TEST_ID [-unlock] - lock (force-submit) or unlock a mock test")
	fmt.Println("  seed - load demo data")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Grant all admin roles.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordLogin := resetPasswordCmd.String("login", "", "The user's username, email or student ID. The password will be prompted next.")

	lockTestCmd := flag.NewFlagSet("locktest", flag.ExitOnError)
	lockTestID := lockTestCmd.String("id", "", "The mock test ID.")
	lockTestUnlock := lockTestCmd.Bool("unlock", false, "Unlock instead of locking.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" || *addUserEmail == "" {
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
		return cli.addUser(*addUserUname, *addUserEmail, pwd, *addUserAdmin)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordLogin == "" {
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
		return cli.resetPassword(*resetPasswordLogin, pwd)
	case "locktest":
		if err := lockTestCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *lockTestID == "" {
			lockTestCmd.Usage()
			return errHelp
		}
		return cli.lockTest(*lockTestID, !*lockTestUnlock)
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
