package testutil

import (
	"sync"

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
	inmemdb "github.com/simtahfidz/backend/storage/database/inmem"
)

// Services wires every core service on top of a fresh in-memory database.
type Services struct {
	Conf      *core.Config
	Logger    core.Logger
	DB        *inmemdb.DB
	UserRepo  user.Repository
	Cache     *cachesvc.MemoryCache
	Publisher *eventsvc.RecordingPublisher
	Metrics   *metricsvc.PrometheusMetrics

	UserSvc    user.Service
	ClassSvc   *kelas.Service
	QuranSvc   *quran.Service
	TagSvc     *tag.Service
	SantriSvc  *santri.Service
	GuruSvc    *guru.Service
	SetoranSvc *setoran.Service
	ReportSvc  *report.Service
}

var parseTemplates sync.Once

func NewServices(conf *core.Config) *Services {
	logger := logsvc.NewNopLogger()
	parseTemplates.Do(func() { core.ParseEmailTemplates(logger, true) })
	db := inmemdb.Open()
	svcs := &Services{
		Conf:      conf,
		Logger:    logger,
		DB:        db,
		UserRepo:  inmemdb.NewUserRepository(db),
		Cache:     cachesvc.NewMemoryCache(),
		Publisher: eventsvc.NewRecordingPublisher(logger),
		Metrics:   metricsvc.NewPrometheusMetrics(),
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	svcs.UserSvc = user.NewServiceMock(svcs.UserRepo, mailSvc, svcs.Cache, conf, logger)
	svcs.ClassSvc = kelas.NewService(inmemdb.NewClassRepository(db), svcs.Cache, logger)
	svcs.QuranSvc = quran.NewService(inmemdb.NewQuranRepository(db), svcs.Cache, logger)
	svcs.TagSvc = tag.NewService(inmemdb.NewTagRepository(db), svcs.Cache, logger)
	svcs.SantriSvc = santri.NewService(
		inmemdb.NewSantriRepository(db), svcs.UserSvc, svcs.ClassSvc, svcs.Cache, svcs.Publisher, conf, logger,
	)
	svcs.GuruSvc = guru.NewService(
		inmemdb.NewGuruRepository(db), svcs.UserSvc, mailSvc, svcs.Cache, svcs.Publisher, conf, logger,
	)
	svcs.SetoranSvc = setoran.NewService(setoran.Deps{
		Repo:      inmemdb.NewSetoranRepository(db),
		SantriSvc: svcs.SantriSvc,
		QuranSvc:  svcs.QuranSvc,
		TagSvc:    svcs.TagSvc,
		Cache:     svcs.Cache,
		Publisher: svcs.Publisher,
		Metrics:   svcs.Metrics,
		Conf:      conf,
		Logger:    logger,
	})
	svcs.ReportSvc = report.NewService(
		inmemdb.NewReportRepository(db), svcs.SantriSvc, svcs.QuranSvc, svcs.Cache, conf, logger,
	)
	return svcs
}
