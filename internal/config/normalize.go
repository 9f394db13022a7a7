package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRemote()
	c.normalizePipeline()
	c.normalizeClassify()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemote() {
	c.Remote.FolderID = strings.TrimSpace(c.Remote.FolderID)
	if c.Remote.FolderID == "" {
		if value, ok := os.LookupEnv("CARDWATCH_FOLDER_ID"); ok {
			c.Remote.FolderID = strings.TrimSpace(value)
		}
	}
	c.Remote.CredentialsFile = strings.TrimSpace(c.Remote.CredentialsFile)
	if c.Remote.CredentialsFile != "" {
		if expanded, err := expandPath(c.Remote.CredentialsFile); err == nil {
			c.Remote.CredentialsFile = expanded
		}
	}
	c.Remote.Token = strings.TrimSpace(c.Remote.Token)
	if c.Remote.Token == "" {
		if value, ok := os.LookupEnv("CARDWATCH_DRIVE_TOKEN"); ok {
			c.Remote.Token = strings.TrimSpace(value)
		}
	}
	if c.Remote.PageSize <= 0 {
		c.Remote.PageSize = defaultPageSize
	}
	if c.Remote.RequestsPerSecond <= 0 {
		c.Remote.RequestsPerSecond = defaultRequestsPerSecond
	}
	if c.Remote.Burst <= 0 {
		c.Remote.Burst = defaultBurst
	}
}

func (c *Config) normalizePipeline() {
	c.Pipeline.Command = strings.TrimSpace(c.Pipeline.Command)
	if c.Pipeline.TimeoutSeconds <= 0 {
		c.Pipeline.TimeoutSeconds = defaultPipelineTimeout
	}
}

func (c *Config) normalizeClassify() {
	markers := make([]string, 0, len(c.Classify.ExcludedMarkers))
	for _, marker := range c.Classify.ExcludedMarkers {
		if trimmed := strings.TrimSpace(marker); trimmed != "" {
			markers = append(markers, strings.ToLower(trimmed))
		}
	}
	if len(markers) == 0 {
		markers = append(markers, defaultExcludedMarkers...)
	}
	c.Classify.ExcludedMarkers = markers

	extensions := make([]string, 0, len(c.Classify.Extensions))
	for _, ext := range c.Classify.Extensions {
		trimmed := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, ".")))
		if trimmed != "" {
			extensions = append(extensions, trimmed)
		}
	}
	if len(extensions) == 0 {
		extensions = append(extensions, defaultExtensions...)
	}
	c.Classify.Extensions = extensions
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
