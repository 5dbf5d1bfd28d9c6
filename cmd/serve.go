package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/montecarlo"
	"github.com/etnz/montecarlo/date"
	"github.com/etnz/montecarlo/marketdata"
	"github.com/etnz/montecarlo/renderer"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
)

// serverConfig is read from the environment.
type serverConfig struct {
	Addr     string        `env:"MCS_ADDR" envDefault:":5003"`
	Timeout  time.Duration `env:"MCS_TIMEOUT" envDefault:"30s"`
	MaxPaths int           `env:"MCS_MAX_PATHS" envDefault:"100000"`

	// EODHDAPIKey enables the calibration of requests naming a ticker.
	EODHDAPIKey string `env:"EODHD_API_KEY"`
}

func parseServerConfig() (serverConfig, error) {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Timeout <= 0 {
		return cfg, fmt.Errorf("MCS_TIMEOUT must be positive, got %v", cfg.Timeout)
	}
	if cfg.MaxPaths <= 0 {
		return cfg, fmt.Errorf("MCS_MAX_PATHS must be positive, got %d", cfg.MaxPaths)
	}
	return cfg, nil
}

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve simulations over HTTP" }
func (*serveCmd) Usage() string {
	return `mcs serve

Starts the HTTP API, see 'mcs topic serve'.

`
}

func (*serveCmd) SetFlags(f *flag.FlagSet) {}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := parseServerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in server configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	if cfg.EODHDAPIKey == "" {
		cfg.EODHDAPIKey = *eodhdAPIKey
	}
	narrative, err := loadNarrative()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading narrative: %v\n", err)
		return subcommands.ExitFailure
	}

	gin.SetMode(gin.ReleaseMode)
	if *Verbose {
		gin.SetMode(gin.DebugMode)
	}
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newRouter(cfg, narrative),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Println("shutting down the server")
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Printf("HTTP server listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// Defaults of the HTTP request body.
const (
	defaultCapital = 400_000
	defaultYears   = 30
	defaultPaths   = 1000
)

// simulateRequest is the body of POST /simulate. Returns and volatilities are
// in percent.
type simulateRequest struct {
	Capital  float64  `json:"capital"`
	Mu       *float64 `json:"mu"`
	Sigma    *float64 `json:"sigma"`
	Years    float64  `json:"years"`
	Paths    int      `json:"n_sims"`
	Seed     *uint64  `json:"seed"`
	Currency string   `json:"currency"`

	// Ticker is calibrated when mu or sigma is missing.
	Ticker string `json:"ticker"`
}

// request converts the body into an engine request.
func (b simulateRequest) request() montecarlo.Request {
	percent := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		d := *v / 100
		return &d
	}
	return montecarlo.Request{
		InitialCapital:       b.Capital,
		ExpectedAnnualReturn: percent(b.Mu),
		AnnualVolatility:     percent(b.Sigma),
		HorizonYears:         b.Years,
		PathCount:            b.Paths,
		Seed:                 b.Seed,
		Currency:             b.Currency,
	}
}

type server struct {
	cfg       serverConfig
	narrative *montecarlo.Narrative

	// quotes fetches a price history for calibration.
	quotes func(ticker string) ([]marketdata.Quote, error)
}

// newRouter returns the HTTP handler of the API.
func newRouter(cfg serverConfig, n *montecarlo.Narrative) *gin.Engine {
	s := &server{cfg: cfg, narrative: n, quotes: cfg.eodhdQuotes}
	return s.router()
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if *Verbose {
		r.Use(gin.Logger())
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	r.POST("/simulate", s.simulate)
	return r
}

// eodhdQuotes fetches the last 10 years of prices of ticker.
func (cfg serverConfig) eodhdQuotes(ticker string) ([]marketdata.Quote, error) {
	if cfg.EODHDAPIKey == "" {
		return nil, fmt.Errorf("%w: calibration is not available, mu and sigma are required", montecarlo.ErrMissingCalibrationInput)
	}
	r := date.LastYears(date.Today(), 10)
	return marketdata.NewEODHD(cfg.EODHDAPIKey).Quotes(ticker, r)
}

func (s *server) simulate(c *gin.Context) {
	body := simulateRequest{Capital: defaultCapital, Years: defaultYears, Paths: defaultPaths}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%w: malformed body: %v", montecarlo.ErrInvalidParameter, err))
		return
	}
	if body.Paths > s.cfg.MaxPaths {
		s.fail(c, fmt.Errorf("%w: n_sims must be at most %d, got %d", montecarlo.ErrInvalidParameter, s.cfg.MaxPaths, body.Paths))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.Timeout)
	defer cancel()

	type result struct {
		report *montecarlo.Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := s.run(body)
		done <- result{report, err}
	}()

	select {
	case <-ctx.Done():
		log.Printf("simulation of %d paths timed out after %v", body.Paths, s.cfg.Timeout)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "simulation timed out"})
	case res := <-done:
		if res.err != nil {
			s.fail(c, res.err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"report":   res.report,
			"markdown": renderer.ReportMarkdown(res.report),
		})
	}
}

// run calibrates the request if needed and simulates it.
func (s *server) run(body simulateRequest) (*montecarlo.Report, error) {
	req := body.request()
	if body.Ticker != "" && (req.ExpectedAnnualReturn == nil || req.AnnualVolatility == nil) {
		quotes, err := s.quotes(body.Ticker)
		if err != nil {
			return nil, err
		}
		cal, err := marketdata.Calibrate(quotes, 0)
		if err != nil {
			return nil, err
		}
		cal.Apply(&req)
	}
	params, err := req.Parameters()
	if err != nil {
		return nil, err
	}
	return montecarlo.NewReport(params, s.narrative)
}

// fail answers an error with the status matching its kind.
func (s *server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, montecarlo.ErrInvalidParameter), errors.Is(err, montecarlo.ErrMissingCalibrationInput):
		status = http.StatusBadRequest
	case errors.Is(err, montecarlo.ErrNumericOverflow):
		status = http.StatusUnprocessableEntity
	default:
		log.Printf("simulation failed: %v", err)
	}
	c.JSON(status, gin.H{"status": "error", "message": err.Error()})
}
