package bank

import (
	"fmt"

	appbanking "github.com/azalscore/backend/internal/application/banking"
	"github.com/azalscore/backend/internal/infrastructure/config"
)

// NewProvider creates a bank provider from configuration
func NewProvider(cfg config.BankConfig) (appbanking.BankProvider, error) {
	switch cfg.Provider {
	case "http":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("bank provider base URL is required for the http provider")
		}
		return NewHTTPProvider(cfg.BaseURL, cfg.Timeout), nil
	case "sandbox", "":
		return NewSandboxProvider(), nil
	default:
		return nil, fmt.Errorf("unknown bank provider: %s", cfg.Provider)
	}
}
