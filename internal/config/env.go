package config

import (
	"github.com/JaimeStill/elp-audit/pkg/collaborator"
	"github.com/JaimeStill/elp-audit/pkg/database"
	"github.com/JaimeStill/elp-audit/pkg/logging"
	"github.com/JaimeStill/elp-audit/pkg/middleware"
	"github.com/JaimeStill/elp-audit/pkg/openapi"
	"github.com/JaimeStill/elp-audit/pkg/pagination"
	"github.com/JaimeStill/elp-audit/pkg/storage"
	"github.com/JaimeStill/elp-audit/workflows/audit"
)

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	SSLMode:         "DATABASE_SSL_MODE",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
}

var loggingEnv = &logging.Env{
	Level:     "LOGGING_LEVEL",
	Format:    "LOGGING_FORMAT",
	AddSource: "LOGGING_ADD_SOURCE",
}

var storageEnv = &storage.Env{
	BasePath:      "STORAGE_BASE_PATH",
	MaxUploadSize: "STORAGE_MAX_UPLOAD_SIZE",
}

var collaboratorEnv = &collaborator.Env{
	Token:           "COLLABORATOR_TOKEN",
	Timeout:         "COLLABORATOR_TIMEOUT",
	BreakerFailures: "COLLABORATOR_BREAKER_FAILURES",
	BreakerCooldown: "COLLABORATOR_BREAKER_COOLDOWN",
}

var auditEnv = &audit.Env{
	MaxMedia:        "AUDIT_MAX_MEDIA",
	MaxPayloadChars: "AUDIT_MAX_PAYLOAD_CHARS",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "API_CORS_ENABLED",
	Origins:          "API_CORS_ORIGINS",
	AllowedMethods:   "API_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "API_CORS_ALLOWED_HEADERS",
	AllowCredentials: "API_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "API_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "API_OPENAPI_TITLE",
	Description: "API_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "API_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "API_PAGINATION_MAX_PAGE_SIZE",
}
