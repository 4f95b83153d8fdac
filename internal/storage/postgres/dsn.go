package postgres

import (
	"fmt"
	"net/url"

	"github.com/GoSim-25-26J-441/voc-backend/config"
)

// DSN builds a lib/pq URL connection string. Credentials are escaped so
// passwords may contain any character.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
