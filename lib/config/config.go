// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar is the environment variable naming the config file path.
const EnvVar = "FIREWATCH_CONFIG"

// Config is the master configuration for Firewatch.
type Config struct {
	// ListenAddress is the TCP address for the webhook/slash-command
	// HTTP listener. External access requires a reverse proxy.
	ListenAddress string `yaml:"listen_address"`

	// AdminSocket is the path of the local Unix admin socket served
	// by firewatch-bot and dialed by the firewatch CLI.
	AdminSocket string `yaml:"admin_socket"`

	// DryRun suppresses every external side effect (messages, pages,
	// group mutations, ticket creation). Intended calls are logged
	// instead. Reads still go out: validation needs them.
	DryRun bool `yaml:"dry_run"`

	// Slack configures the chat platform connection.
	Slack SlackConfig `yaml:"slack"`

	// PagerDuty configures the incident tracker connection.
	PagerDuty PagerDutyConfig `yaml:"pagerduty"`

	// Opsgenie optionally configures a second pager. Disabled when
	// APIKeyFile is empty.
	Opsgenie OpsgenieConfig `yaml:"opsgenie"`

	// Workspace configures the Google Workspace sidecar service
	// (access group, calendar events, log documents).
	Workspace WorkspaceConfig `yaml:"workspace"`

	// Jira optionally configures follow-up epic creation. Disabled
	// when Domain is empty.
	Jira JiraConfig `yaml:"jira"`

	// BreakGlass configures the temporary-elevation authorizer.
	BreakGlass BreakGlassConfig `yaml:"break_glass"`
}

// SlackConfig configures the Slack workspace connection.
type SlackConfig struct {
	// TokenFile is the path to the bot token (xoxb-...).
	TokenFile string `yaml:"token_file"`

	// SigningSecretFile is the path to the app signing secret used to
	// verify slash-command requests.
	SigningSecretFile string `yaml:"signing_secret_file"`

	// TeamID is the Slack workspace ID, used in deep links.
	TeamID string `yaml:"team_id"`

	// IncidentChannelPrefix prefixes generated incident channel
	// names. Default "incident-".
	IncidentChannelPrefix string `yaml:"incident_channel_prefix"`

	// SecurityIncidentChannelPrefix prefixes private (security)
	// incident channel names. Default "security-incident-".
	SecurityIncidentChannelPrefix string `yaml:"security_incident_channel_prefix"`

	// AnnounceChannels are channels that receive the initial incident
	// announcement (names or IDs). Private incidents are never
	// announced.
	AnnounceChannels []string `yaml:"announce_channels"`

	// SecurityManagers are user IDs invited to private incident
	// channels.
	SecurityManagers []string `yaml:"security_managers"`
}

// PagerDutyConfig configures the PagerDuty connection.
type PagerDutyConfig struct {
	// APIURL is the REST API base. Default "https://api.pagerduty.com".
	APIURL string `yaml:"api_url"`

	// EventsURL is the Events API base. Default
	// "https://events.pagerduty.com".
	EventsURL string `yaml:"events_url"`

	// APITokenFile is the path to the read-only REST API token.
	APITokenFile string `yaml:"api_token_file"`

	// RoutingKeyFile is the path to the Events v2 routing key used to
	// page the incident manager. Paging is disabled when empty.
	RoutingKeyFile string `yaml:"routing_key_file"`

	// WebhookSecretFile is the path to the shared secret for webhook
	// signature verification. Verification is skipped when empty.
	WebhookSecretFile string `yaml:"webhook_secret_file"`
}

// OpsgenieConfig configures the optional Opsgenie pager.
type OpsgenieConfig struct {
	// APIURL is the Opsgenie API base (region-specific).
	APIURL string `yaml:"api_url"`

	// APIKeyFile is the path to the GenieKey API key.
	APIKeyFile string `yaml:"api_key_file"`

	// ResponderTeamID is the team paged for new incidents.
	ResponderTeamID string `yaml:"responder_team_id"`
}

// WorkspaceConfig configures the Google Workspace sidecar service.
type WorkspaceConfig struct {
	// BaseURL is the sidecar's base URL.
	BaseURL string `yaml:"base_url"`

	// TokenFile is the path to the sidecar authorization token.
	TokenFile string `yaml:"token_file"`

	// NotesFolder is the Drive folder ID for incident log documents.
	NotesFolder string `yaml:"notes_folder"`
}

// JiraConfig configures follow-up epic creation.
type JiraConfig struct {
	// Domain is the Jira Cloud domain (e.g. "example.atlassian.net").
	// Empty disables Jira integration entirely.
	Domain string `yaml:"domain"`

	// User is the Jira account email for basic auth.
	User string `yaml:"user"`

	// APIKeyFile is the path to the Jira API key.
	APIKeyFile string `yaml:"api_key_file"`

	// ProjectID is the numeric project the epic is filed in.
	ProjectID string `yaml:"project_id"`

	// EpicIssueTypeID is the numeric issue type ID for epics.
	EpicIssueTypeID string `yaml:"epic_issue_type_id"`

	// ChannelField is the custom field carrying the incident channel
	// name. Default "customfield_10009".
	ChannelField string `yaml:"channel_field"`

	// PostMortemsURL optionally names a post-mortem registry service.
	PostMortemsURL string `yaml:"post_mortems_url"`

	// PostMortemsKeyFile is the path to the registry API key.
	PostMortemsKeyFile string `yaml:"post_mortems_key_file"`
}

// BreakGlassConfig configures the temporary-elevation authorizer.
type BreakGlassConfig struct {
	// MinJustificationLength is the minimum length of the
	// justification text. Default 10.
	MinJustificationLength int `yaml:"min_justification_length"`

	// WindowSeconds is how long after incident creation break-glass
	// requests are honored. Default 1800 (30 minutes).
	WindowSeconds int `yaml:"window_seconds"`
}

// Window returns the break-glass window as a duration.
func (c BreakGlassConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// Default returns the default configuration. Defaults ensure all
// fields have sensible zero-values; the config file is still required
// for credentials and routing.
func Default() *Config {
	return &Config{
		ListenAddress: "127.0.0.1:8080",
		AdminSocket:   "/run/firewatch/admin.sock",
		Slack: SlackConfig{
			IncidentChannelPrefix:         "incident-",
			SecurityIncidentChannelPrefix: "security-incident-",
		},
		PagerDuty: PagerDutyConfig{
			APIURL:    "https://api.pagerduty.com",
			EventsURL: "https://events.pagerduty.com",
		},
		Jira: JiraConfig{
			ChannelField: "customfield_10009",
		},
		BreakGlass: BreakGlassConfig{
			MinJustificationLength: 10,
			WindowSeconds:          1800,
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve determines the config file path from the --config flag value
// or the FIREWATCH_CONFIG environment variable, then loads it. An
// explicit flag value wins.
func Resolve(flagValue string) (*Config, error) {
	path := flagValue
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return nil, fmt.Errorf("config: no config file (set %s or pass --config)", EnvVar)
	}
	return Load(path)
}

// Validate checks the configuration for structural problems. It does
// not touch the filesystem — secret files are read (and validated)
// separately at startup.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address is required")
	}
	if c.Slack.TokenFile == "" {
		return fmt.Errorf("slack.token_file is required")
	}
	if c.Slack.SigningSecretFile == "" {
		return fmt.Errorf("slack.signing_secret_file is required")
	}
	if c.PagerDuty.APITokenFile == "" {
		return fmt.Errorf("pagerduty.api_token_file is required")
	}
	if c.Workspace.BaseURL == "" {
		return fmt.Errorf("workspace.base_url is required")
	}
	if c.Workspace.TokenFile == "" {
		return fmt.Errorf("workspace.token_file is required")
	}
	if c.BreakGlass.MinJustificationLength < 1 {
		return fmt.Errorf("break_glass.min_justification_length must be positive (got %d)", c.BreakGlass.MinJustificationLength)
	}
	if c.BreakGlass.WindowSeconds < 1 {
		return fmt.Errorf("break_glass.window_seconds must be positive (got %d)", c.BreakGlass.WindowSeconds)
	}
	if c.Jira.Domain != "" {
		if c.Jira.User == "" || c.Jira.APIKeyFile == "" {
			return fmt.Errorf("jira.user and jira.api_key_file are required when jira.domain is set")
		}
		if c.Jira.ProjectID == "" || c.Jira.EpicIssueTypeID == "" {
			return fmt.Errorf("jira.project_id and jira.epic_issue_type_id are required when jira.domain is set")
		}
	}
	if c.Opsgenie.APIKeyFile != "" && c.Opsgenie.APIURL == "" {
		return fmt.Errorf("opsgenie.api_url is required when opsgenie.api_key_file is set")
	}
	return nil
}
