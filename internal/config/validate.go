package config

import (
	"fmt"

	"cardwatch/internal/services"
)

// Validate ensures the configuration is usable. Any failure here is fatal:
// the daemon refuses to start rather than looping on a broken setup.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRemote() error {
	if c.Remote.FolderID == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/cardwatch/config.toml"
		}
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Errorf("remote.folder_id is required. Set CARDWATCH_FOLDER_ID or edit %s (create with 'cardwatch config init')", defaultPath))
	}
	if c.Remote.CredentialsFile == "" && c.Remote.Token == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Errorf("remote access requires remote.credentials_file or remote.token (or CARDWATCH_DRIVE_TOKEN)"))
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Command == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Errorf("pipeline.command must name the correction pipeline executable"))
	}
	if c.Pipeline.TimeoutSeconds <= 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Errorf("pipeline.timeout_seconds must be positive"))
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if c.Monitor.IntervalMinutes <= 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Errorf("monitor.interval_minutes must be positive"))
	}
	return nil
}
