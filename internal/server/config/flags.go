package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/accounts/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-s", "-smtp-host", "-smtp-port", "-smtp-user", "-smtp-password",
	"-f", "-dry-run", "-l", "-t", "-log-level", "-log-format",
}

// parseFlags overlays cfg with command-line flags.
//
//	-a string          HTTP bind address (":8080")
//	-d string          PostgreSQL DSN
//	-s string          token signing key
//	-smtp-host string  SMTP relay host
//	-smtp-port int     SMTP relay port
//	-smtp-user string  SMTP user
//	-smtp-password string
//	-f string          verification mail sender address
//	-dry-run           log verification codes instead of mailing them
//	-l int             verification code length
//	-t duration        verification code lifetime ("5m")
//	-log-level string  debug, info, warn or error
//	-log-format string json or text
//
// Only the flags above are picked out of args; -c/-config is handled by
// the file loader.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("accounts", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.SMTPHost, "smtp-host", cfg.SMTPHost, "SMTP host")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", cfg.SMTPPort, "SMTP port")
	fs.StringVar(&cfg.SMTPUser, "smtp-user", cfg.SMTPUser, "SMTP user")
	fs.StringVar(&cfg.SMTPPassword, "smtp-password", cfg.SMTPPassword, "SMTP password")
	fs.StringVar(&cfg.MailFrom, "f", cfg.MailFrom, "mail from address")
	fs.BoolVar(&cfg.MailDryRun, "dry-run", cfg.MailDryRun, "log verification codes instead of sending mail")
	fs.IntVar(&cfg.CodeLength, "l", cfg.CodeLength, "verification code length")
	fs.DurationVar(&cfg.CodeTTL, "t", cfg.CodeTTL, "verification code lifetime")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
