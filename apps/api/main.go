package main

import (
	"fmt"
	"log"
	"os"

	echoapi "github.com/tmukandila/ratiba/apps/api/echo"
	"github.com/tmukandila/ratiba/core"
	"github.com/tmukandila/ratiba/core/slot"
	"github.com/tmukandila/ratiba/core/user"
	emailsvc "github.com/tmukandila/ratiba/services/email"
	logsvc "github.com/tmukandila/ratiba/services/logger"
	"github.com/tmukandila/ratiba/services/slotstore"
	"github.com/tmukandila/ratiba/storage/database"
	sqlxrepos "github.com/tmukandila/ratiba/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, fmt.Sprintf("%s API : ", core.Conf.AppName), log.LstdFlags|log.Lshortfile)

	logger := logsvc.NewRollbarLogger(std, core.Conf)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	slotSvc := slot.NewService(slotstore.NewClient(core.Conf.SlotStore), usrSvc, mailSvc)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:    fmt.Sprintf(":%d", core.Conf.Server.Port),
			UserSvc: usrSvc,
			SlotSvc: slotSvc,
			Logger:  logger,
		},
	)
	if err := app.Start(); err != nil {
		logger.Fatal("server stopped", err)
	}
}
