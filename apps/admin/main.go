package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/guru"
	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/tag"
	"github.com/simtahfidz/backend/core/user"
	cachesvc "github.com/simtahfidz/backend/services/cache"
	emailsvc "github.com/simtahfidz/backend/services/email"
	eventsvc "github.com/simtahfidz/backend/services/events"
	logsvc "github.com/simtahfidz/backend/services/logger"
	"github.com/simtahfidz/backend/storage/database"
	"github.com/simtahfidz/backend/storage/database/sqlxrepo"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.New("ADMIN", conf)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(context.Background(), db, 3))

	// set up services
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	tag.InitValidators(validate, translator)
	setoran.InitValidators(validate, translator)
	user.LoadCommonPasswords(logger)
	core.ParseEmailTemplates(logger, !conf.Debug)

	var cache core.Cache = cachesvc.NewMemoryCache()
	if conf.Redis.Enabled {
		if rc, err := cachesvc.NewRedisCache(conf); err == nil {
			cache = rc
		} else {
			logger.Warn(fmt.Sprintf("redis unavailable, report caches are not invalidated: %v", err), err)
		}
	}
	publisher := eventsvc.NewRecordingPublisher(logger)
	mailSvc := emailsvc.NewConsoleService(conf, logger)

	usrSvc := user.NewService(sqlxrepo.NewUserRepository(db), mailSvc, cache, conf, logger)
	classSvc := kelas.NewService(sqlxrepo.NewClassRepository(db), cache, logger)

	// start CLI
	cli := commandLine{
		db:       db.DB,
		validate: validate,
		usrSvc:   usrSvc,
		classSvc: classSvc,
		santriSvc: santri.NewService(
			sqlxrepo.NewSantriRepository(db), usrSvc, classSvc, cache, publisher, conf, logger,
		),
		guruSvc: guru.NewService(
			sqlxrepo.NewGuruRepository(db), usrSvc, mailSvc, cache, publisher, conf, logger,
		),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Printf("\nerror: %s\n", err)
		}
		db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
