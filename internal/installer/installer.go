// Package installer supervises the external Playwright browser install and
// turns its diagnostic output into coarse progress events for the GUI.
package installer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"baystate-scraper-runner/internal/settings"
)

// EventName is the notification name the GUI subscribes to.
const EventName = "chromium-progress"

const browserName = "chromium"

type Status string

const (
	StatusStarting    Status = "starting"
	StatusDownloading Status = "downloading"
	StatusComplete    Status = "complete"
	StatusError       Status = "error"
)

// Progress is one ephemeral install event. The sequence is best-effort
// non-decreasing and ends with exactly one complete or error event.
type Progress struct {
	Progress int    `json:"progress"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
}

// ErrAlreadyRunning reports a second install attempt while one is active.
var ErrAlreadyRunning = errors.New("chromium install already running")

const failureMessage = "Chromium installation failed"

type Supervisor struct {
	store  *settings.Store
	logger *zap.SugaredLogger

	// playwrightCmd is the installer tool name/path ("playwright" by default).
	playwrightCmd string

	running atomic.Bool
}

func NewSupervisor(store *settings.Store, logger *zap.SugaredLogger, playwrightCmd string) *Supervisor {
	if strings.TrimSpace(playwrightCmd) == "" {
		playwrightCmd = "playwright"
	}
	return &Supervisor{
		store:         store,
		logger:        logger,
		playwrightCmd: playwrightCmd,
	}
}

// Running reports whether an install is currently in flight.
func (s *Supervisor) Running() bool { return s.running.Load() }

// Install runs `<playwright> install chromium` with PLAYWRIGHT_BROWSERS_PATH
// pointing at the app-data browsers directory, forwarding each stderr line
// as a downloading event. There is no cancellation: once spawned, the child
// runs to completion. Only one install may be in flight at a time.
func (s *Supervisor) Install(emit func(Progress)) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	browsersDir := s.store.BrowsersDir()
	if err := os.MkdirAll(browsersDir, 0o755); err != nil {
		return fmt.Errorf("create browsers dir: %w", err)
	}

	emit(Progress{Progress: 0, Status: StatusStarting, Message: "Starting Chromium installation..."})

	cmd := exec.Command(s.playwrightCmd, "install", browserName)
	cmd.Env = append(os.Environ(), "PLAYWRIGHT_BROWSERS_PATH="+browsersDir)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("installer stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn installer: %w", err)
	}

	estimate := 0
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		estimate = estimateProgress(line, estimate)
		emit(Progress{Progress: estimate, Status: StatusDownloading, Message: line})
	}

	if err := cmd.Wait(); err != nil {
		s.logger.Errorw("chromium_install_failed", "err", err)
		emit(Progress{Progress: 0, Status: StatusError, Message: failureMessage})
		return fmt.Errorf("installer exited: %w", err)
	}

	if _, err := s.store.Update(func(doc *settings.AppSettings) {
		doc.ChromiumInstalled = true
	}); err != nil {
		emit(Progress{Progress: 0, Status: StatusError, Message: failureMessage})
		return fmt.Errorf("persist installed flag: %w", err)
	}

	emit(Progress{Progress: 100, Status: StatusComplete, Message: "Chromium installed"})
	return nil
}

// CheckInstalled trusts the persisted flag only when the browsers directory
// exists and holds at least one entry.
func (s *Supervisor) CheckInstalled() bool {
	if !s.store.Load().ChromiumInstalled {
		return false
	}
	entries, err := os.ReadDir(s.store.BrowsersDir())
	if err != nil {
		return false
	}
	return len(entries) > 0
}

var percentToken = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// estimateProgress maps one installer diagnostic line to a 0-100 estimate.
// The mapping is a UX heuristic, not a correctness-bearing computation:
//   - "Downloading" marks the start of the transfer (10)
//   - a NN% token rescales into the 10-90 band
//   - "Extracting"/"Installing" mark the tail (95)
//   - anything else keeps the previous estimate
func estimateProgress(line string, last int) int {
	switch {
	case strings.Contains(line, "Downloading"):
		return 10
	case percentToken.MatchString(line):
		raw := percentToken.FindStringSubmatch(line)[1]
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return last
		}
		scaled := int(10 + 0.8*pct)
		if scaled > 90 {
			scaled = 90
		}
		return scaled
	case strings.Contains(line, "Extracting"), strings.Contains(line, "Installing"):
		return 95
	default:
		return last
	}
}
