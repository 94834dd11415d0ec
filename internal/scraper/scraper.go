// Package scraper invokes the Python scraping sidecar and relays its
// reports. The shell never interprets scrape results beyond the report
// contract below; all extraction logic lives in the sidecar.
package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const bridgeScript = "sidecar_bridge.py"

// RunConfig is the configuration payload forwarded to the sidecar for one
// scrape. The API key is injected from the keychain at call time and never
// persisted alongside the rest of the payload.
type RunConfig struct {
	APIURL     string `json:"api_url"`
	APIKey     string `json:"api_key"`
	RunnerName string `json:"runner_name"`
	Headless   bool   `json:"headless"`
}

// RunReport is the sidecar's result contract for run_scraper.
type RunReport struct {
	Success       bool     `json:"success"`
	ProductsFound int      `json:"products_found" validate:"min=0"`
	Errors        []string `json:"errors"`
	Logs          []string `json:"logs"`
}

// Info describes one available scraper as reported by the sidecar.
type Info struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Status      string  `json:"status"`
	LastRun     *string `json:"last_run"`
}

var validate = validator.New()

// Client shells out to the sidecar bridge in its project directory.
type Client struct {
	cmdName string
	dir     string

	// run is swappable in tests; it executes the bridge and returns
	// stdout, stderr and the exit error.
	run func(cmdName, dir string, args []string) (stdout, stderr []byte, err error)
}

func NewClient(cmdName, dir string) *Client {
	if strings.TrimSpace(cmdName) == "" {
		cmdName = "python3"
	}
	return &Client{cmdName: cmdName, dir: dir, run: runBridge}
}

type bridgeArgs struct {
	ScraperName string     `json:"scraper_name,omitempty"`
	SKUs        []string   `json:"skus,omitempty"`
	Config      *RunConfig `json:"config,omitempty"`
}

// Run executes one scrape by name with a list of SKUs. A non-zero sidecar
// exit or an unparseable report surfaces as a single error carrying the
// sidecar's diagnostic text; the report itself may still contain internal
// errors and logs next to an overall success flag.
func (c *Client) Run(scraperName string, skus []string, cfg RunConfig) (RunReport, error) {
	raw, err := c.invoke("run_scraper", bridgeArgs{
		ScraperName: scraperName,
		SKUs:        skus,
		Config:      &cfg,
	})
	if err != nil {
		return RunReport{}, err
	}

	var report struct {
		RunReport
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		return RunReport{}, fmt.Errorf("invalid sidecar report: %w", err)
	}
	if report.Error != "" {
		return RunReport{}, fmt.Errorf("scraper failed: %s", report.Error)
	}
	if err := validate.Struct(report.RunReport); err != nil {
		return RunReport{}, fmt.Errorf("sidecar report contract violation: %w", err)
	}
	return report.RunReport, nil
}

// List asks the sidecar for the available scraper configurations.
func (c *Client) List() ([]Info, error) {
	raw, err := c.invoke("get_scrapers", bridgeArgs{})
	if err != nil {
		return nil, err
	}

	var out struct {
		Scrapers []Info `json:"scrapers"`
		Error    string `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("invalid sidecar response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("sidecar failed: %s", out.Error)
	}
	return out.Scrapers, nil
}

func (c *Client) invoke(command string, args bridgeArgs) ([]byte, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode sidecar args: %w", err)
	}

	argv := []string{bridgeScript, "--command", command, "--args", string(encoded)}
	stdout, stderr, err := c.run(c.cmdName, c.dir, argv)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("sidecar %s failed: %s", command, msg)
	}
	return bytes.TrimSpace(stdout), nil
}
