package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	return c.normalizeJournal()
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("FWCONV_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	term, err := DecodeTerminator(c.Output.LineTerminator)
	if err != nil {
		return fmt.Errorf("output.line_terminator: %w", err)
	}
	c.Output.LineTerminator = term
	return nil
}

func (c *Config) normalizeJournal() error {
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	var err error
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

// DecodeTerminator turns a configured terminator such as `\r\n` into the
// literal characters. An empty value yields the default newline.
func DecodeTerminator(value string) (string, error) {
	if value == "" {
		return defaultLineTerminator, nil
	}
	if !strings.Contains(value, `\`) {
		return value, nil
	}
	decoded, err := strconv.Unquote(`"` + strings.ReplaceAll(value, `"`, `\"`) + `"`)
	if err != nil {
		return "", fmt.Errorf("invalid escape sequence in %q", value)
	}
	return decoded, nil
}
