package playwrightimpl

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/fx"

	"github.com/vankhoa205/tweet-extractor-service/internal/browser"
	"github.com/vankhoa205/tweet-extractor-service/pkg/config"
	apperrors "github.com/vankhoa205/tweet-extractor-service/pkg/errors"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
)

// probeTimeoutMs bounds implicit waits on field lookups so candidate lists
// stay cheap to walk.
const probeTimeoutMs = 2000

var launchArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage", // Important in Docker/container
	"--disable-accelerated-2d-canvas",
	"--no-first-run",
	"--no-zygote",
	"--disable-gpu",
}

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
}

// Manager owns the playwright driver and hands out isolated sessions, one
// fresh Chromium process each. The driver starts on first use so that a
// missing browser install surfaces per call instead of failing boot.
type Manager struct {
	cfg    *config.Config
	logger logger.Logger

	mu sync.Mutex
	pw *playwright.Playwright

	slots chan struct{}
}

var _ browser.Factory = (*Manager)(nil)

func New(opts Opts) browser.Factory {
	maxSessions := opts.Config.Browser.MaxSessions
	if maxSessions < 1 {
		maxSessions = 1
	}

	m := &Manager{
		cfg:    opts.Config,
		logger: opts.Logger.WithComponent("browser"),
		slots:  make(chan struct{}, maxSessions),
	}

	opts.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return m.shutdown()
		},
	})

	return m
}

// NewSession blocks until a session slot frees up, then launches a fresh
// headless browser. Callers must Close the session on every path.
func (m *Manager) NewSession(ctx context.Context) (browser.Session, error) {
	select {
	case m.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	sess, err := m.newSession()
	if err != nil {
		<-m.slots
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSession, err)
	}
	return sess, nil
}

func (m *Manager) driver() (*playwright.Playwright, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pw != nil {
		return m.pw, nil
	}

	m.logger.Info("Starting Playwright driver...")
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright driver: %w", err)
	}
	m.pw = pw
	return m.pw, nil
}

func (m *Manager) newSession() (*session, error) {
	pw, err := m.driver()
	if err != nil {
		return nil, err
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     launchArgs,
	}
	if m.cfg.Browser.ExecutablePath != "" {
		launchOptions.ExecutablePath = playwright.String(m.cfg.Browser.ExecutablePath)
	}

	br, err := pw.Chromium.Launch(launchOptions)
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	brContext, err := br.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(m.cfg.Browser.UserAgent),
		Viewport:  &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		_ = br.Close()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if err := setupRequestInterception(brContext); err != nil {
		_ = brContext.Close()
		_ = br.Close()
		return nil, fmt.Errorf("failed to set up request interception: %w", err)
	}

	page, err := brContext.NewPage()
	if err != nil {
		_ = brContext.Close()
		_ = br.Close()
		return nil, fmt.Errorf("could not create new page: %w", err)
	}

	return &session{
		browser: br,
		context: brContext,
		page:    page,
		release: func() { <-m.slots },
	}, nil
}

func (m *Manager) shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pw == nil {
		return nil
	}

	m.logger.Info("Stopping Playwright driver...")
	if err := m.pw.Stop(); err != nil {
		m.logger.Error("Failed to stop playwright", "error", err)
		return err
	}
	m.pw = nil
	return nil
}

// setupRequestInterception blocks resources the extractor never reads.
// Image URLs still come from src attributes, which survive the block.
func setupRequestInterception(ctx playwright.BrowserContext) error {
	return ctx.Route("**/*", func(route playwright.Route) {
		resourceType := route.Request().ResourceType()
		if resourceType == "image" || resourceType == "stylesheet" || resourceType == "font" || resourceType == "media" {
			route.Abort()
		} else {
			route.Continue()
		}
	})
}

type session struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	release func()

	closeOnce sync.Once
}

var _ browser.Session = (*session)(nil)

func (s *session) Navigate(url string, timeout time.Duration) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return classify(fmt.Errorf("could not goto page %q: %w", url, err))
	}
	return nil
}

func (s *session) WaitVisible(selector string, timeout time.Duration) error {
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return classify(fmt.Errorf("selector %q did not become visible: %w", selector, err))
	}
	return nil
}

func (s *session) Visible(selector string) bool {
	visible, err := s.page.IsVisible(selector)
	if err != nil {
		return false
	}
	return visible
}

func (s *session) Click(selector string, timeout time.Duration) error {
	err := s.page.Click(selector, playwright.PageClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// Text reports a missing element right away rather than waiting out the
// driver's implicit timeout.
func (s *session) Text(selector string) (string, error) {
	loc := s.page.Locator(selector)
	count, err := loc.Count()
	if err != nil {
		return "", classify(err)
	}
	if count == 0 {
		return "", fmt.Errorf("no element matches %q", selector)
	}

	text, err := loc.First().InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(probeTimeoutMs),
	})
	if err != nil {
		return "", classify(err)
	}
	return strings.TrimSpace(text), nil
}

func (s *session) Attribute(selector, attr string) (string, error) {
	loc := s.page.Locator(selector)
	count, err := loc.Count()
	if err != nil {
		return "", classify(err)
	}
	if count == 0 {
		return "", fmt.Errorf("no element matches %q", selector)
	}

	value, err := loc.First().GetAttribute(attr, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(probeTimeoutMs),
	})
	if err != nil {
		return "", classify(err)
	}
	return value, nil
}

func (s *session) AttributeAll(selector, attr string) ([]string, error) {
	locators, err := s.page.Locator(selector).All()
	if err != nil {
		return nil, classify(err)
	}

	values := make([]string, 0, len(locators))
	for _, locator := range locators {
		value, err := locator.GetAttribute(attr)
		if err != nil || value == "" {
			continue
		}
		values = append(values, value)
	}
	return values, nil
}

func (s *session) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Close tears down page, context and browser process, then frees the
// session slot. Safe to call more than once.
func (s *session) Close() error {
	var firstErr error
	s.closeOnce.Do(func() {
		if err := s.page.Close(); err != nil {
			firstErr = err
		}
		if err := s.context.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.release()
		debug.FreeOSMemory()
	})
	return firstErr
}

// classify tags driver errors so callers can map them onto the taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)
	case strings.Contains(msg, "target closed"),
		strings.Contains(msg, "browser has been closed"),
		strings.Contains(msg, "connection closed"):
		return fmt.Errorf("%w: %v", apperrors.ErrSession, err)
	default:
		return err
	}
}
