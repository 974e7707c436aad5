package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/accounts/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for decoding config files. Pointer fields tell
// "absent" apart from zero values, so a file only overrides what it names.
type fileConfig struct {
	HTTPAddr        *string         `json:"http_addr" yaml:"http_addr"`
	DatabaseDSN     *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey       *string         `json:"secret_key" yaml:"secret_key"`
	SMTPHost        *string         `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort        *int            `json:"smtp_port" yaml:"smtp_port"`
	SMTPUser        *string         `json:"smtp_user" yaml:"smtp_user"`
	SMTPPassword    *string         `json:"smtp_password" yaml:"smtp_password"`
	MailFrom        *string         `json:"mail_from" yaml:"mail_from"`
	MailDryRun      *bool           `json:"mail_dry_run" yaml:"mail_dry_run"`
	CodeLength      *int            `json:"code_length" yaml:"code_length"`
	CodeTTL         *timex.Duration `json:"code_ttl" yaml:"code_ttl"`
	LogLevel        *string         `json:"log_level" yaml:"log_level"`
	LogFormat       *string         `json:"log_format" yaml:"log_format"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile overlays cfg with the file at path. Files ending in .yaml or
// .yml are decoded as YAML, anything else as JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setIf(&cfg.HTTPAddr, fc.HTTPAddr)
	setIf(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setIf(&cfg.SecretKey, fc.SecretKey)
	setIf(&cfg.SMTPHost, fc.SMTPHost)
	setIf(&cfg.SMTPPort, fc.SMTPPort)
	setIf(&cfg.SMTPUser, fc.SMTPUser)
	setIf(&cfg.SMTPPassword, fc.SMTPPassword)
	setIf(&cfg.MailFrom, fc.MailFrom)
	setIf(&cfg.MailDryRun, fc.MailDryRun)
	setIf(&cfg.CodeLength, fc.CodeLength)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogFormat, fc.LogFormat)
	if fc.CodeTTL != nil {
		cfg.CodeTTL = fc.CodeTTL.Duration
	}
	if fc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
