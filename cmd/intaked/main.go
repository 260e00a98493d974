// Command intaked serves the staff intake form over HTTP. The page shell is
// static; all form state lives server-side and is driven over a WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emekaobi/staffintake/internal/config"
	"github.com/emekaobi/staffintake/internal/draft"
	"github.com/emekaobi/staffintake/internal/intake"
	"github.com/emekaobi/staffintake/internal/submit"
	"github.com/emekaobi/staffintake/pkg/live"
	"github.com/emekaobi/staffintake/pkg/logging"
)

const draftSweepInterval = 10 * time.Minute

func main() {
	configPath := flag.String("config", "intake.yaml", "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logOpts := []logging.Option{logging.WithLevel(logging.ParseLevel(cfg.Log.Level))}
	if cfg.Log.JSON {
		logOpts = append(logOpts, logging.WithJSON())
	}
	log := logging.New(logOpts...)

	client, err := submit.New(cfg.Endpoint.BaseURL,
		submit.WithToken(cfg.Endpoint.Token),
		submit.WithTimeout(cfg.Endpoint.Timeout),
		submit.WithLogger(log.With(logging.String("component", "submit"))))
	if err != nil {
		return fmt.Errorf("submit client: %w", err)
	}

	drafts := draft.NewStore(cfg.Draft.TTL)
	defer drafts.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepDrafts(ctx, drafts, log)

	factory := func() live.Component {
		return intake.NewComponent(
			intake.NewForm(intake.Options{PhoneFormat: cfg.PhoneFormat}),
			client,
			intake.WithComponentLogger(log.With(logging.String("component", "intake"))),
		)
	}

	liveServer := live.NewServer(factory,
		live.WithServerHooks(draftHooks(drafts, log)),
		live.WithServerLogger(log.With(logging.String("component", "live"))))

	mux := http.NewServeMux()
	mux.HandleFunc("/", servePage)
	mux.Handle("/live", liveServer)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           logging.RequestLogger(log)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logging.String("addr", cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = liveServer.Shutdown(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// draftHooks persist form state after every event and restore it when a
// session reconnects with a known key.
func draftHooks(drafts *draft.Store, log logging.Logger) live.Hooks {
	return live.Hooks{
		AfterMount: func(ctx context.Context, key string, c live.Component) {
			comp, ok := c.(*intake.Component)
			if !ok {
				return
			}
			values, err := drafts.Load(ctx, key)
			if err != nil {
				if !errors.Is(err, draft.ErrNotFound) {
					log.Warn("draft load failed",
						logging.String("session", key), logging.Err(err))
				}
				return
			}
			comp.Form().Restore(values)
			log.Debug("draft restored", logging.String("session", key))
		},
		AfterEvent: func(ctx context.Context, key string, c live.Component) {
			comp, ok := c.(*intake.Component)
			if !ok {
				return
			}
			if err := drafts.Save(ctx, key, comp.Form().Snapshot()); err != nil {
				log.Warn("draft save failed",
					logging.String("session", key), logging.Err(err))
			}
		},
	}
}

func sweepDrafts(ctx context.Context, drafts *draft.Store, log logging.Logger) {
	ticker := time.NewTicker(draftSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := drafts.Sweep(ctx); removed > 0 {
				log.Debug("drafts swept", logging.Int("removed", removed))
			}
		}
	}
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

func servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = pageTemplate.Execute(w, nil)
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Staff Intake</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  fieldset { border: none; padding: 0; }
  .form-field { margin-bottom: 1rem; }
  .form-field label { display: block; font-weight: 600; margin-bottom: .25rem; }
  .form-field input, .form-field select, .form-field textarea { width: 100%; padding: .5rem; box-sizing: border-box; }
  .field-error { color: #c0392b; margin: .25rem 0 0; font-size: .85rem; }
  .step-nav button { margin-right: .5rem; }
  .step-nav button.active { font-weight: 700; }
  .progress-track { background: #eee; height: .5rem; border-radius: .25rem; margin: 1rem 0; }
  .progress-fill { background: #2980b9; height: 100%; border-radius: .25rem; }
  .banner-success { background: #d4efdf; padding: .75rem; border-radius: .25rem; }
  .banner-failure { background: #fadbd8; padding: .75rem; border-radius: .25rem; }
  .disconnected { color: #c0392b; }
</style>
</head>
<body>
<div id="status"></div>
<div id="app">Connecting...</div>
<script>
(function () {
  var key = localStorage.getItem("intake-session");
  if (!key) {
    key = crypto.randomUUID();
    localStorage.setItem("intake-session", key);
  }

  var app = document.getElementById("app");
  var status = document.getElementById("status");
  var ws = null;
  var retryDelay = 500;

  function connect() {
    var scheme = location.protocol === "https:" ? "wss" : "ws";
    ws = new WebSocket(scheme + "://" + location.host + "/live?session=" + key);

    ws.onopen = function () {
      retryDelay = 500;
      status.textContent = "";
    };
    ws.onmessage = function (ev) {
      var frame = JSON.parse(ev.data);
      if (frame.type === "render") {
        app.innerHTML = frame.html;
      } else if (frame.type === "error") {
        status.textContent = frame.error;
        status.className = "disconnected";
      }
    };
    ws.onclose = function () {
      status.textContent = "Disconnected, retrying...";
      status.className = "disconnected";
      setTimeout(connect, retryDelay);
      retryDelay = Math.min(retryDelay * 2, 10000);
    };
  }

  function send(event, payload) {
    if (ws && ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify({ event: event, payload: payload || {} }));
    }
  }

  app.addEventListener("change", function (ev) {
    var field = ev.target.getAttribute("data-field");
    if (field) send("set_field", { field: field, value: ev.target.value });
  });
  app.addEventListener("input", function (ev) {
    var field = ev.target.getAttribute("data-field");
    if (field && ev.target.tagName !== "SELECT") {
      send("set_field", { field: field, value: ev.target.value });
    }
  });
  app.addEventListener("click", function (ev) {
    var el = ev.target.closest("[data-event]");
    if (!el) return;
    ev.preventDefault();
    var payload = {};
    var step = el.getAttribute("data-step");
    if (step !== null) payload.step = Number(step);
    send(el.getAttribute("data-event"), payload);
  });

  connect();
})();
</script>
</body>
</html>
`
