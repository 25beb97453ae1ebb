package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	echoapi "github.com/brightpath/academia/apps/api/echo"
	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/admission"
	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/core/board"
	"github.com/brightpath/academia/core/course"
	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/core/user"
	emailsvc "github.com/brightpath/academia/services/email"
	logsvc "github.com/brightpath/academia/services/logger"
	"github.com/brightpath/academia/storage/kv"
	filekv "github.com/brightpath/academia/storage/kv/file"
	inmemkv "github.com/brightpath/academia/storage/kv/inmem"
	rediskv "github.com/brightpath/academia/storage/kv/redis"
	"github.com/brightpath/academia/storage/kvrepos"
)

func main() {
	stdLogger := log.New(os.Stdout, core.Conf.AppName+" : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug || core.Conf.TestMode {
		logger = logsvc.NewStdLogger(stdLogger)
	} else {
		logger = logsvc.NewRollbarLogger(stdLogger, core.Conf)
	}

	if err := run(logger); err != nil {
		logger.Fatal("api: fatal", err)
	}
}

func run(logger core.Logger) error {
	store, err := openStore()
	if err != nil {
		return errors.Wrap(err, "opening store")
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug || core.Conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(kvrepos.NewUserRepository(store, logger, nil), mailSvc, logger)
	crsSvc := course.NewService(kvrepos.NewCourseRepository(store, logger, nil))
	stuSvc := student.NewService(kvrepos.NewStudentRepository(store, logger, nil), crsSvc)
	billSvc := billing.NewService(kvrepos.NewPaymentRepository(store, logger, nil), mailSvc)
	admSvc := admission.NewService(kvrepos.NewApplicationRepository(store, logger), stuSvc, usrSvc, mailSvc)
	brdSvc := board.NewService(kvrepos.NewBoardRepository(store, logger))
	exmSvc := exam.NewService(kvrepos.NewExamRepository(store, logger, nil), logger)

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Address: core.Conf.Server.Address,
			Logger:  logger,

			UserSvc:      usrSvc,
			StudentSvc:   stuSvc,
			CourseSvc:    crsSvc,
			BillingSvc:   billSvc,
			AdmissionSvc: admSvc,
			BoardSvc:     brdSvc,
			ExamSvc:      exmSvc,
		},
		shutdown,
	)
	go app.Start()
	logger.Info("api: listening on " + core.Conf.Server.Address)

	<-shutdown
	logger.Info("api: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Stop(ctx)
}

func openStore() (kv.Store, error) {
	switch core.Conf.Storage.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return rediskv.Open(ctx, core.Conf.Storage.RedisAddr, core.Conf.Storage.RedisDB)
	case "inmem":
		return inmemkv.Open(), nil
	default:
		return filekv.Open(core.Conf.Storage.Dir)
	}
}
