package config

import (
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/tracing"
)

type AppConfig struct {
	APIPort       string `env:"PORT" envDefault:"5000"`
	APIKey        string `env:"API_KEY,required"`
	RabbitMQURL   string `env:"RABBITMQ_URL"`
	IngestionCron string `env:"CRON_SCHEDULE_INGESTION"`
}

type DatabaseConfig struct {
	Host            string `env:"POSTGRES_HOST,required"`
	Port            string `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string `env:"POSTGRES_USER,required"`
	DBName          string `env:"POSTGRES_DB_NAME,required"`
	Password        string `env:"POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"POSTGRES_DB_MAX_CONN" envDefault:"20"`
	MaxIdleConn     int    `env:"POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	SSLMode         string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
}

type MailboxConfig struct {
	ImapServer    string `env:"IMAP_SERVER" envDefault:"imap.gmail.com"`
	ImapPort      int    `env:"IMAP_PORT" envDefault:"993"`
	Username      string `env:"EMAIL_USER,required"`
	Password      string `env:"MAIL_PASSWORD,required"`
	AllMailFolder string `env:"IMAP_ALL_MAIL_FOLDER" envDefault:"[Gmail]/All Mail"`
}

type SMTPConfig struct {
	Server         string `env:"SMTP_SERVER" envDefault:"smtp.gmail.com"`
	Port           int    `env:"SMTP_PORT" envDefault:"587"`
	Username       string `env:"EMAIL_USER"`
	Password       string `env:"MAIL_PASSWORD"`
	AlertRecipient string `env:"ALERT_RECIPIENT"`
}

type ClassifierConfig struct {
	ModelPath     string `env:"CLASSIFIER_MODEL_PATH" envDefault:"spam_model.gob"`
	TransformPath string `env:"CLASSIFIER_TRANSFORM_PATH" envDefault:"vectorizer.gob"`
}

type ArchiveStorageConfig struct {
	Region    string `env:"ARCHIVE_S3_REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"ARCHIVE_S3_ENDPOINT"`
	AccessKey string `env:"ARCHIVE_S3_ACCESS_KEY"`
	SecretKey string `env:"ARCHIVE_S3_SECRET_KEY"`
	Bucket    string `env:"ARCHIVE_S3_BUCKET" envDefault:"mailsift-attachments"`
}

type Config struct {
	AppConfig            *AppConfig
	DatabaseConfig       *DatabaseConfig
	MailboxConfig        *MailboxConfig
	SMTPConfig           *SMTPConfig
	ClassifierConfig     *ClassifierConfig
	ArchiveStorageConfig *ArchiveStorageConfig
	Logger               *logger.Config
	Tracing              *tracing.JaegerConfig
}
