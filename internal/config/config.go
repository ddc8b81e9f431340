package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Telegram  TelegramConfig
	Google    GoogleConfig
	SMTP      SMTPConfig
	Vacancies VacanciesConfig
	HR        HRConfig
	Nats      NatsConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	TempDir     string
}

type TelegramConfig struct {
	Token string `validate:"required"`
}

type GoogleConfig struct {
	CredentialsFile  string
	SpreadsheetID    string
	LeadsTab         string
	CategoriesTab    string
	FallbackFolderID string
}

type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	To         string
	AttachFile bool
}

type VacanciesConfig struct {
	SheetID string
	Tab     string
	ChatID  int64
	TopicID int
	SiteURL string
}

type HRConfig struct {
	Email    string
	Telegram string
}

type NatsConfig struct {
	URL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	spreadsheetID := getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", "")

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/bot.log"),
			TempDir:     getEnv("DOWNLOAD_TEMP_DIR", ""),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TELEGRAM_TOKEN", ""),
		},
		Google: GoogleConfig{
			CredentialsFile:  getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", "credentials.json"),
			SpreadsheetID:    spreadsheetID,
			LeadsTab:         getEnv("GOOGLE_SHEETS_TAB", "Leads"),
			CategoriesTab:    getEnv("CATEGORIES_SHEET_TAB", "Categories"),
			FallbackFolderID: getEnv("GOOGLE_DRIVE_FOLDER_ID", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			User:       getEnv("SMTP_USER", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("MAIL_FROM", getEnv("SMTP_USER", "")),
			To:         getEnv("MAIL_TO", ""),
			AttachFile: getEnvAsBool("ATTACH_FILE_TO_EMAIL", true),
		},
		Vacancies: VacanciesConfig{
			SheetID: getEnv("VACANCIES_SHEET_ID", spreadsheetID),
			Tab:     getEnv("VACANCIES_SHEET_TAB", "Vacancies"),
			ChatID:  getEnvAsInt64("VACANCIES_CHAT_ID", 0),
			TopicID: getEnvAsInt("VACANCIES_TOPIC_ID", 0),
			SiteURL: getEnv("VACANCIES_URL", ""),
		},
		HR: HRConfig{
			Email:    getEnv("HR_EMAIL", getEnv("MAIL_TO", "")),
			Telegram: getEnv("HR_TELEGRAM", ""),
		},
		Nats: NatsConfig{
			URL: getEnv("NATS_URL", ""),
		},
	}
}

// Validate checks the settings the process cannot run without. Incomplete
// sink settings are not validation errors; the affected sink disables itself.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// MailConfigured reports whether the SMTP sink carries a full set of settings.
func (c *Config) MailConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.User != "" && c.SMTP.Password != "" && c.SMTP.To != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
