package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/validate"
)

// Sink names accepted in Config.Names.
const (
	NameLog     = "log"
	NameFile    = "file"
	NameWebhook = "webhook"
	NameZMQ     = "zmq"
	NameArrow   = "arrow"
)

// Config selects and configures the sinks receiving audit submissions.
type Config struct {
	Names []string `json:"names" mapstructure:"names"` // Enabled sinks, delivery order

	FilePath string `json:"file_path" mapstructure:"file_path"` // JSON-lines output for "file"

	WebhookURL     string        `json:"webhook_url" mapstructure:"webhook_url"`
	WebhookTimeout time.Duration `json:"webhook_timeout" mapstructure:"webhook_timeout"`
	WebhookRetries int           `json:"webhook_retries" mapstructure:"webhook_retries"`

	ZMQEndpoint string `json:"zmq_endpoint" mapstructure:"zmq_endpoint"`
	ZMQTopic    string `json:"zmq_topic" mapstructure:"zmq_topic"`

	ArrowPath string `json:"arrow_path" mapstructure:"arrow_path"` // IPC stream output for "arrow"
}

// DefaultConfig returns a configuration that only logs submissions.
func DefaultConfig() *Config {
	return &Config{
		Names:          []string{NameLog},
		WebhookTimeout: DefaultWebhookTimeout,
		WebhookRetries: 2,
		ZMQTopic:       DefaultZMQTopic,
	}
}

// ParseNames splits a comma-separated sink list, trimming blanks and
// lowercasing each name.
func ParseNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.ToLower(strings.TrimSpace(part)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks that at least one known sink is enabled, no sink is listed
// twice, and each enabled sink has the settings it needs.
func (c *Config) Validate() error {
	if len(c.Names) == 0 {
		return fmt.Errorf("at least one audit sink is required")
	}

	seen := make(map[string]bool)
	for _, name := range c.Names {
		if seen[name] {
			return fmt.Errorf("audit sink %q listed more than once", name)
		}
		seen[name] = true

		switch name {
		case NameLog:
		case NameFile:
			if err := validate.ValidateRequiredString(c.FilePath, "audit file path"); err != nil {
				return err
			}
		case NameWebhook:
			if err := validate.ValidateEndpointURL(c.WebhookURL); err != nil {
				return err
			}
			if err := validate.ValidatePositiveTimeout(c.WebhookTimeout, "webhook timeout"); err != nil {
				return err
			}
			if c.WebhookRetries < 0 {
				return fmt.Errorf("webhook retries must be non-negative, got %d", c.WebhookRetries)
			}
		case NameZMQ:
			if err := validate.ValidateTCPEndpoint(c.ZMQEndpoint); err != nil {
				return err
			}
		case NameArrow:
			if err := validate.ValidateRequiredString(c.ArrowPath, "arrow file path"); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown audit sink %q (must be one of log, file, webhook, zmq, arrow)", name)
		}
	}
	return nil
}

// Build validates the configuration and opens every enabled sink. On error
// any sink already opened is closed. ctx bounds the lifetime of sockets.
func Build(ctx context.Context, c *Config) (*Multi, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	multi := NewMulti()
	for _, name := range c.Names {
		switch name {
		case NameLog:
			multi.Add(name, NewLogging())
		case NameFile:
			f, err := NewFile(c.FilePath)
			if err != nil {
				_ = multi.Close()
				return nil, err
			}
			multi.Add(name, f)
		case NameWebhook:
			multi.Add(name, NewWebhook(c.WebhookURL, c.WebhookTimeout, c.WebhookRetries))
		case NameZMQ:
			z, err := NewZMQ(ctx, c.ZMQEndpoint, c.ZMQTopic)
			if err != nil {
				_ = multi.Close()
				return nil, err
			}
			multi.Add(name, z)
		case NameArrow:
			a, err := NewArrow(c.ArrowPath)
			if err != nil {
				_ = multi.Close()
				return nil, err
			}
			multi.Add(name, a)
		}
		logging.Debug("Audit: Enabled %s sink", name)
	}
	return multi, nil
}
