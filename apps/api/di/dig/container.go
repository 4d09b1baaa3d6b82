package dig_container

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/simtahfidz/backend/apps/api/echo"
	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/guru"
	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/quran"
	"github.com/simtahfidz/backend/core/report"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/tag"
	"github.com/simtahfidz/backend/core/user"
	cachesvc "github.com/simtahfidz/backend/services/cache"
	emailsvc "github.com/simtahfidz/backend/services/email"
	eventsvc "github.com/simtahfidz/backend/services/events"
	logsvc "github.com/simtahfidz/backend/services/logger"
	metricsvc "github.com/simtahfidz/backend/services/metrics"
	"github.com/simtahfidz/backend/storage/database"
	inmemdb "github.com/simtahfidz/backend/storage/database/inmem"
	"github.com/simtahfidz/backend/storage/database/sqlxrepo"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Closer releases a resource at shutdown.
	Closer func() error

	// Repositories are backed either by postgres or by the in-memory store, per Database.Engine.
	Repositories struct {
		dig.Out

		Users   user.Repository
		Classes kelas.Repository
		Quran   quran.Repository
		Tags    tag.Repository
		Santri  santri.Repository
		Guru    guru.Repository
		Setoran setoran.Repository
		Report  report.Repository
		DBClose Closer `name:"dbClose"`
	}

	// Closers are the resources main must release.
	Closers struct {
		dig.In
		DB        Closer              `name:"dbClose"`
		Publisher core.EventPublisher
	}
)

func newLogger(conf *core.Config) core.Logger {
	return logsvc.New("API", conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.New("DB", conf, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) (Repositories, error) {
	if conf.Database.Engine == database.EngineMemory {
		loggerParam.Logger.Info("using the in-memory database")
		db := inmemdb.Open()
		return Repositories{
			Users:   inmemdb.NewUserRepository(db),
			Classes: inmemdb.NewClassRepository(db),
			Quran:   inmemdb.NewQuranRepository(db),
			Tags:    inmemdb.NewTagRepository(db),
			Santri:  inmemdb.NewSantriRepository(db),
			Guru:    inmemdb.NewGuruRepository(db),
			Setoran: inmemdb.NewSetoranRepository(db),
			Report:  inmemdb.NewReportRepository(db),
			DBClose: func() error { return nil },
		}, nil
	}

	db, err := database.Setup(context.Background(), conf)
	if err != nil {
		return Repositories{}, errors.Wrap(err, "setting up database")
	}
	loggerParam.Logger.Info(fmt.Sprintf("connected to %s/%s", conf.Database.Address(), conf.Database.Name))
	return Repositories{
		Users:   sqlxrepo.NewUserRepository(db),
		Classes: sqlxrepo.NewClassRepository(db),
		Quran:   sqlxrepo.NewQuranRepository(db),
		Tags:    sqlxrepo.NewTagRepository(db),
		Santri:  sqlxrepo.NewSantriRepository(db),
		Guru:    sqlxrepo.NewGuruRepository(db),
		Setoran: sqlxrepo.NewSetoranRepository(db),
		Report:  sqlxrepo.NewReportRepository(db),
		DBClose: db.Close,
	}, nil
}

func newCache(conf *core.Config, logger core.Logger) core.Cache {
	if !conf.Redis.Enabled {
		return cachesvc.NewMemoryCache()
	}
	c, err := cachesvc.NewRedisCache(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("redis unavailable, caching in memory: %v", err), err)
		return cachesvc.NewMemoryCache()
	}
	return c
}

func newPublisher(conf *core.Config, logger core.Logger) core.EventPublisher {
	if !conf.AMQP.Enabled {
		return eventsvc.NewRecordingPublisher(logger)
	}
	p, err := eventsvc.NewRabbitPublisher(conf, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("rabbitmq unavailable, events are not published: %v", err), err)
		return eventsvc.NewRecordingPublisher(logger)
	}
	return p
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridAPIKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newSetoranService(
	repo setoran.Repository,
	santriSvc *santri.Service,
	quranSvc *quran.Service,
	tagSvc *tag.Service,
	cache core.Cache,
	publisher core.EventPublisher,
	metrics core.Metrics,
	conf *core.Config,
	logger core.Logger,
) *setoran.Service {
	return setoran.NewService(setoran.Deps{
		Repo:      repo,
		SantriSvc: santriSvc,
		QuranSvc:  quranSvc,
		TagSvc:    tagSvc,
		Cache:     cache,
		Publisher: publisher,
		Metrics:   metrics,
		Conf:      conf,
		Logger:    logger,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newCache))
	must(c.Provide(newPublisher))
	must(c.Provide(metricsvc.NewPrometheusMetrics))
	must(c.Provide(func(m *metricsvc.PrometheusMetrics) core.Metrics { return m }))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))

	must(c.Provide(user.NewService))
	must(c.Provide(kelas.NewService))
	must(c.Provide(quran.NewService))
	must(c.Provide(tag.NewService))
	must(c.Provide(santri.NewService))
	must(c.Provide(guru.NewService))
	must(c.Provide(newSetoranService))
	must(c.Provide(report.NewService))

	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
