package main

import (
	"log"
	"os"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/course"
	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
	emailsvc "github.com/brightpath/academia/services/email"
	logsvc "github.com/brightpath/academia/services/logger"
	"github.com/brightpath/academia/storage/kv"
	filekv "github.com/brightpath/academia/storage/kv/file"
	inmemkv "github.com/brightpath/academia/storage/kv/inmem"
	"github.com/brightpath/academia/storage/kvrepos"
)

var stdLogger *log.Logger

func main() {
	defer os.Exit(0)

	stdLogger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewStdLogger(stdLogger)

	store, err := openStore()
	errAndDie(err)

	mailSvc := emailsvc.NewConsoleService(logger)
	usrSvc := user.NewService(kvrepos.NewUserRepository(store, logger, nil), mailSvc, logger)
	crsSvc := course.NewService(kvrepos.NewCourseRepository(store, logger, nil))
	stuSvc := student.NewService(kvrepos.NewStudentRepository(store, logger, nil), crsSvc)
	billSvc := billing.NewService(kvrepos.NewPaymentRepository(store, logger, nil), mailSvc)
	exmSvc := exam.NewService(kvrepos.NewExamRepository(store, logger, nil), logger)

	cli := commandLine{
		usrSvc:  usrSvc,
		crsSvc:  crsSvc,
		stuSvc:  stuSvc,
		billSvc: billSvc,
		exmSvc:  exmSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func openStore() (kv.Store, error) {
	if core.Conf.Storage.Backend == "inmem" {
		return inmemkv.Open(), nil
	}
	return filekv.Open(core.Conf.Storage.Dir)
}

func errAndDie(err error) {
	if err != nil {
		stdLogger.Fatal(err)
	}
}
