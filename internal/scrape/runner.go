package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/AngelCh415/lpd-dashboard/internal/apperr"
	"github.com/AngelCh415/lpd-dashboard/internal/monitoring"
)

// salida capturada máxima por corrida
const maxOutput = 64 << 10

type Result struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	TimedOut bool          `json:"timed_out"`
	ExitCode int           `json:"exit_code"`
	Output   string        `json:"output"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Runner ejecuta scrapers con nombre como subprocesos bloqueantes: uno a la vez por nombre,
// con tiempo límite y un token bucket global.
type Runner struct {
	commands map[string][]string
	timeout  time.Duration
	limiter  *rate.Limiter
	log      *slog.Logger
	mon      *monitoring.Metrics

	mu      sync.Mutex
	running map[string]bool
}

func NewRunner(commands map[string][]string, timeout time.Duration, log *slog.Logger, mon *monitoring.Metrics) *Runner {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		commands: commands,
		timeout:  timeout,
		// una corrida por minuto, ráfaga de 3
		limiter: rate.NewLimiter(rate.Every(time.Minute), 3),
		log:     log,
		mon:     mon,
		running: make(map[string]bool),
	}
}

// WithLimiter reemplaza el límite de corridas.
func (r *Runner) WithLimiter(l *rate.Limiter) *Runner {
	r.limiter = l
	return r
}

func (r *Runner) Names() []string {
	out := make([]string, 0, len(r.commands))
	for n := range r.commands {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Run devuelve error solo si la corrida no se pudo lanzar (nombre desconocido, ocupado o
// sin cupo); el fallo del scraper va en Result.
func (r *Runner) Run(ctx context.Context, name string) (Result, error) {
	argv, ok := r.commands[name]
	if !ok || len(argv) == 0 {
		return Result{}, apperr.Validation(fmt.Sprintf("unknown scraper %q", name))
	}
	if !r.acquire(name) {
		return Result{}, apperr.RateLimited(fmt.Sprintf("scraper %q is already running", name))
	}
	defer r.release(name)
	if !r.limiter.Allow() {
		return Result{}, apperr.RateLimited("too many scraper runs, try again later")
	}

	res := Result{ID: uuid.New().String(), Name: name}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	// si un nieto hereda la salida, no esperar para siempre
	cmd.WaitDelay = 2 * time.Second

	r.log.Info("scraper started", slog.String("scraper", name), slog.String("run_id", res.ID))
	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Output = tail(out.Bytes(), maxOutput)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.ExitCode = -1
		res.Error = fmt.Sprintf("timed out after %s", r.timeout)
	case err != nil:
		res.ExitCode = -1
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.ExitCode = ee.ExitCode()
		}
		res.Error = err.Error()
	default:
		res.OK = true
	}

	r.mon.Scraper(name, res.OK, res.Duration)
	r.log.Info("scraper finished", slog.String("scraper", name), slog.String("run_id", res.ID),
		slog.Bool("ok", res.OK), slog.Int("exit_code", res.ExitCode), slog.Duration("duration", res.Duration))
	return res, nil
}

func (r *Runner) acquire(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running[name] {
		return false
	}
	r.running[name] = true
	return true
}

func (r *Runner) release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, name)
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
