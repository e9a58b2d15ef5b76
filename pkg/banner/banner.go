package banner

import "fmt"

const banner = `
██████╗ ██╗██████╗ ██████╗ ███████╗███████╗███████╗██████╗
██╔══██╗██║██╔══██╗██╔══██╗██╔════╝██╔════╝██╔════╝██╔══██╗
██████╔╝██║██████╔╝██║  ██║█████╗  █████╗  █████╗  ██║  ██║
██╔══██╗██║██╔══██╗██║  ██║██╔══╝  ██╔══╝  ██╔══╝  ██║  ██║
██████╔╝██║██║  ██║██████╔╝██║     ███████╗███████╗██████╔╝
╚═════╝ ╚═╝╚═╝  ╚═╝╚═════╝ ╚═╝     ╚══════╝╚══════╝╚═════╝
`

// Print writes the startup banner with runtime info.
func Print(addr, dbPath, source, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if source != "" {
		fmt.Printf("Config source: %s\n", source)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/posts          - Publish a post or reply (header X-Actor-ID)")
	fmt.Println("GET  /v1/timeline       - Home timeline for the acting user")
	fmt.Println("GET  /v1/notifications  - Notification feed for the acting user")
	fmt.Println("GET  /metrics           - Prometheus metrics")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/v1/posts' -H 'X-Actor-ID: u1' -d '{\"caption\":\"hello\"}'\n", addr)
	fmt.Printf("curl 'http://localhost%s/v1/timeline' -H 'X-Actor-ID: u1'\n", addr)
}
