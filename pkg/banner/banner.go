package banner

import (
	"fmt"

	"keepnote/pkg/config"
)

const banner = `
██╗  ██╗███████╗███████╗██████╗ ███╗   ██╗ ██████╗ ████████╗███████╗
██║ ██╔╝██╔════╝██╔════╝██╔══██╗████╗  ██║██╔═══██╗╚══██╔══╝██╔════╝
█████╔╝ █████╗  █████╗  ██████╔╝██╔██╗ ██║██║   ██║   ██║   █████╗
██╔═██╗ ██╔══╝  ██╔══╝  ██╔═══╝ ██║╚██╗██║██║   ██║   ██║   ██╔══╝
██║  ██╗███████╗███████╗██║     ██║ ╚████║╚██████╔╝   ██║   ███████╗
╚═╝  ╚═╝╚══════╝╚══════╝╚═╝     ╚═╝  ╚═══╝ ╚═════╝    ╚═╝   ╚══════╝
`

// Print prints the startup banner with the effective runtime settings.
func Print(cfg *config.Config, addr, dbPath, source, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if source != "" {
		fmt.Printf("Config:   %s\n", source)
	}
	if cfg != nil {
		fmt.Printf("Team:     %s (app %s)\n", cfg.Slack.TeamID, cfg.Slack.AppID)
		fmt.Printf("Channels: %d watched, %d agents\n", len(cfg.Slack.Channels), len(cfg.Slack.Agents))
		if cfg.Slack.SigningSecret == "" {
			fmt.Println("WARNING:  no signing secret configured - event signatures are not verified")
		}
		if cfg.Digest.Enabled {
			fmt.Printf("Digest:   cron %q\n", cfg.Digest.Cron)
		}
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /slack/events - Event subscription endpoint (JSON envelope)")
	fmt.Println("GET  /healthz      - Liveness probe")
	fmt.Println("GET  /readyz       - Readiness probe (store-gated)")
	fmt.Println("GET  /metrics      - Prometheus metrics")
}
