package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the back office server is healthy",
		Long:  "Query the /healthz and /readyz endpoints of a running server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(statusBaseURL(), os.Stdout)
		},
	}
}

// statusBaseURL is the loopback URL of the configured listen address.
func statusBaseURL() string {
	port := viper.GetInt("server.port")
	if port == 0 {
		port = 8080
	}
	host := viper.GetString("server.host")
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

func runStatus(baseURL string, out io.Writer) error {
	client := &http.Client{Timeout: 2 * time.Second}

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := client.Get(baseURL + path)
		if err != nil {
			return fmt.Errorf("server at %s is not responding: %w", baseURL, err)
		}
		resp.Body.Close()
		fmt.Fprintf(out, "  %-9s %s (%d)\n", path, http.StatusText(resp.StatusCode), resp.StatusCode)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server at %s is not ready", baseURL)
		}
	}

	fmt.Fprintf(out, "Server at %s is healthy.\n", baseURL)
	return nil
}
