package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// BrowserConfig configures the live preview browser.
type BrowserConfig struct {
	// Candidates are executable names or absolute paths, tried in order.
	Candidates []string
	// DebugPort is the remote debugging port used when debugging is on.
	DebugPort    int
	ProbeTimeout time.Duration
	Logger       *zap.Logger
}

// devtoolsTarget is one entry of the devtools /json/list endpoint.
type devtoolsTarget struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// LiveBrowser runs one preview browser at a time in a throwaway profile.
// With remote debugging on, pages are opened and closed over the devtools
// HTTP endpoint.
type LiveBrowser struct {
	cfg     BrowserConfig
	log     *zap.Logger
	client  *resty.Client
	breaker *resilience.Breaker

	mu      sync.Mutex
	cmd     *exec.Cmd
	debug   bool
	done    chan struct{}
	profile string
}

// NewLiveBrowser creates a browser controller.
func NewLiveBrowser(cfg BrowserConfig) *LiveBrowser {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.DebugPort == 0 {
		cfg.DebugPort = 9222
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL("http://127.0.0.1:"+strconv.Itoa(cfg.DebugPort)).
		SetTimeout(5*time.Second).
		SetHeader("Accept", "application/json")

	log := cfg.Logger.Named("livebrowser")
	breaker := resilience.New("devtools", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         10 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Info("Devtools breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &LiveBrowser{cfg: cfg, log: log, client: client, breaker: breaker}
}

// Running reports whether a browser started by Open is still alive.
func (b *LiveBrowser) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runningLocked()
}

func (b *LiveBrowser) runningLocked() bool {
	if b.done == nil {
		return false
	}
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// Open shows url in the preview browser, launching it when needed.
func (b *LiveBrowser) Open(ctx context.Context, url string, remoteDebugging bool) errcode.Code {
	if url == "" {
		return errcode.ErrInvalidParams
	}

	b.mu.Lock()
	if b.runningLocked() && b.debug {
		b.mu.Unlock()
		if err := b.newTarget(ctx, url); err != nil {
			b.log.Warn("Failed to open page in running browser", zap.Error(err))
			return errcode.ErrUnknown
		}
		return errcode.NoError
	}
	if b.runningLocked() {
		b.mu.Unlock()
		return errcode.ErrUnknown
	}

	exe, ok := b.find()
	if !ok {
		b.mu.Unlock()
		return errcode.ErrBrowserNotInstalled
	}

	profile := filepath.Join(os.TempDir(), "appshell-live-"+uuid.NewString())
	args := []string{
		"--no-first-run",
		"--no-default-browser-check",
		"--user-data-dir=" + profile,
	}
	if remoteDebugging {
		args = append(args, "--remote-debugging-port="+strconv.Itoa(b.cfg.DebugPort))
	}
	args = append(args, url)

	cmd := exec.Command(exe, args...)
	if err := cmd.Start(); err != nil {
		b.mu.Unlock()
		b.log.Warn("Failed to launch live browser", zap.String("executable", exe), zap.Error(err))
		return errcode.ErrBrowserNotInstalled
	}

	done := make(chan struct{})
	b.cmd, b.debug, b.done, b.profile = cmd, remoteDebugging, done, profile
	b.mu.Unlock()

	go func() {
		err := cmd.Wait()
		_ = os.RemoveAll(profile)
		b.log.Info("Live browser exited", zap.Error(err))
		close(done)
	}()

	b.log.Info("Live browser launched",
		zap.String("executable", exe),
		zap.Int("pid", cmd.Process.Pid),
		zap.Bool("remoteDebugging", remoteDebugging))

	if remoteDebugging {
		if err := b.probe(ctx); err != nil {
			b.log.Warn("Devtools endpoint did not come up", zap.Error(err))
		}
	}
	return errcode.NoError
}

// Close asks the browser to close and waits for it to exit or for ctx to
// end, in which case ErrUnknown is returned.
func (b *LiveBrowser) Close(ctx context.Context) errcode.Code {
	b.mu.Lock()
	cmd, debug, done := b.cmd, b.debug, b.done
	running := b.runningLocked()
	b.mu.Unlock()

	if !running {
		return errcode.NoError
	}

	closed := false
	if debug {
		if err := b.closeTargets(ctx); err != nil {
			b.log.Warn("Closing pages over devtools failed", zap.Error(err))
		} else {
			closed = true
		}
	}
	if !closed {
		if err := terminate(cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
			b.log.Warn("Failed to signal live browser", zap.Error(err))
			return errcode.ErrUnknown
		}
	}

	select {
	case <-done:
		return errcode.NoError
	case <-ctx.Done():
		b.log.Warn("Live browser did not close in time", zap.Error(ctx.Err()))
		return errcode.ErrUnknown
	}
}

func (b *LiveBrowser) find() (string, bool) {
	for _, c := range b.cfg.Candidates {
		if filepath.IsAbs(c) {
			if info, err := os.Stat(c); err == nil && !info.IsDir() {
				return c, true
			}
			continue
		}
		if p, err := exec.LookPath(c); err == nil {
			return p, true
		}
	}
	return "", false
}

// probe waits for the devtools endpoint to answer.
func (b *LiveBrowser) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.ProbeTimeout)
	defer cancel()

	rc := retryablehttp.NewClient()
	rc.RetryMax = 10
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = nil

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, b.client.BaseURL+"/json/version", nil)
	if err != nil {
		return err
	}
	resp, err := rc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("devtools probe: %s", resp.Status)
	}
	return nil
}

func (b *LiveBrowser) newTarget(ctx context.Context, url string) error {
	return b.breaker.Do(func() error {
		resp, err := b.client.R().SetContext(ctx).Put("/json/new?" + url)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("devtools new target: %s", resp.Status())
		}
		return nil
	})
}

func (b *LiveBrowser) closeTargets(ctx context.Context) error {
	targets, err := resilience.Call(b.breaker, func() ([]devtoolsTarget, error) {
		var list []devtoolsTarget
		resp, err := b.client.R().SetContext(ctx).SetResult(&list).Get("/json/list")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("devtools list: %s", resp.Status())
		}
		return list, nil
	})
	if err != nil {
		return err
	}

	pages := 0
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		pages++
		err := b.breaker.Do(func() error {
			resp, err := b.client.R().SetContext(ctx).Get("/json/close/" + t.ID)
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("devtools close %s: %s", t.ID, resp.Status())
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	if pages == 0 {
		return errors.New("no pages to close")
	}
	return nil
}
