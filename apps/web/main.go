package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	echoweb "github.com/trezcool/edutracker/apps/web/echo"
	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/attendance"
	"github.com/trezcool/edutracker/core/dashboard"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/journal"
	"github.com/trezcool/edutracker/core/leave"
	"github.com/trezcool/edutracker/core/reports"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/user"
	emailsvc "github.com/trezcool/edutracker/services/email"
	logsvc "github.com/trezcool/edutracker/services/logger"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up the store, seeded with the demo data
	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening store: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	gradebookSvc := gradebook.NewService(inmemdb.NewGradebookRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	leave.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics, including the screens rendered.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Web Service

	server := echoweb.NewServer(
		echoweb.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,

			UserSvc:       user.NewService(inmemdb.NewUserRepository(db)),
			GradebookSvc:  gradebookSvc,
			AttendanceSvc: attendance.NewService(inmemdb.NewAttendanceRepository(db)),
			LeaveSvc:      leave.NewService(inmemdb.NewLeaveRepository(db), mailSvc, conf.Leave.SubmitDelay),
			JournalSvc:    journal.NewService(inmemdb.NewJournalRepository(db)),
			StudentSvc:    student.NewService(inmemdb.NewStudentRepository(db)),
			DashboardSvc:  dashboard.NewService(inmemdb.NewDashboardRepository(db)),
			ReportsSvc:    reports.NewService(inmemdb.NewReportsRepository(db), gradebookSvc),
		},
	)

	go func() {
		logger.Info(fmt.Sprintf("Listening on %s", conf.Server.BaseURL))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
