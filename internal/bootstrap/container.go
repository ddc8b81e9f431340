package bootstrap

import (
	"context"
	"log"

	"hr-intake-bot/internal/config"
	"hr-intake-bot/internal/handler"
	"hr-intake-bot/internal/pkg/logger"
	"hr-intake-bot/internal/pkg/mailer"
	"hr-intake-bot/internal/repository/memory"
	"hr-intake-bot/internal/service"
	"hr-intake-bot/pkg/gsuite"
	pktNats "hr-intake-bot/pkg/nats"
	"hr-intake-bot/pkg/telegram"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// inboundTopic is the event-bus topic carrying transport updates.
const inboundTopic = "INBOUND_UPDATES"

type Container struct {
	Logger     logger.ILogger
	Transport  *telegram.Transport
	Dispatcher *handler.Dispatcher
	Catalog    service.ICatalogService
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		cfg.SMTP.To,
		cfg.SMTP.AttachFile,
	)
	if !emailService.Enabled() {
		sysLogger.Warn("bootstrap", "SMTP settings incomplete; email sink disabled", nil)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External collaborators
	gclient, err := gsuite.NewClient(ctx, cfg.Google.CredentialsFile)
	if err != nil {
		return nil, err
	}
	leadsSheet := gclient.Spreadsheet(cfg.Google.SpreadsheetID)
	vacancySheet := gclient.Spreadsheet(cfg.Vacancies.SheetID)
	driveStore := gclient.Drive(cfg.Google.FallbackFolderID)

	// NATS is optional: no URL means the event sink stays off.
	var publisher service.EventPublisher
	if cfg.Nats.URL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Nats.URL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = natsPub
		}
	}

	transport, err := telegram.New(cfg.Telegram.Token, pubSub, inboundTopic, sysLogger)
	if err != nil {
		return nil, err
	}

	// 4. Services
	sessionRepo := memory.NewSessionRepository()

	catalogService := service.NewCatalogService(leadsSheet, cfg.Google.CategoriesTab, sysLogger, nil)
	classifierService := service.NewClassifierService(catalogService)
	dispatchService := service.NewDispatchService(leadsSheet, cfg.Google.LeadsTab, emailService, publisher, sysLogger)
	intakeService := service.NewIntakeService(
		sessionRepo,
		classifierService,
		transport,
		driveStore,
		dispatchService,
		transport,
		sysLogger,
		cfg.App.TempDir,
		cfg.Google.FallbackFolderID,
		nil,
	)
	vacancyService := service.NewVacancyService(
		vacancySheet,
		vacancySheet,
		cfg.Vacancies.Tab,
		cfg.Vacancies.ChatID,
		cfg.Vacancies.TopicID,
		sysLogger,
		nil,
	)

	// 5. Handler + Dispatcher
	updateHandler := handler.NewUpdateHandler(
		intakeService,
		vacancyService,
		transport,
		sysLogger,
		cfg.HR,
		cfg.Vacancies.SiteURL,
	)
	dispatcher := handler.NewDispatcher(pubSub, inboundTopic, updateHandler, sysLogger)

	return &Container{
		Logger:     sysLogger,
		Transport:  transport,
		Dispatcher: dispatcher,
		Catalog:    catalogService,
	}, nil
}
