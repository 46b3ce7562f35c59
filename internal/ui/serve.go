package ui

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/turno/internal/api"
	"github.com/javiermolinar/turno/internal/metrics"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the appointment API over HTTP until interrupted.

Routes: POST /bookAppointment, DELETE /cancelAppointment,
PUT /updateAppointment, GET /appointments/{email},
GET /appointments/doctor/{doctorName}, GET /appointments/id/{id},
GET /doctors, GET /health and GET /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.config.Server.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			svc, err := a.service(metrics.NewBookingMetrics(reg), false)
			if err != nil {
				return err
			}

			router := api.NewRouter(api.Config{
				Service:        svc,
				Logger:         a.logger,
				HTTPMetrics:    metrics.NewHTTPMetrics(reg),
				MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("starting turno",
				zap.String("version", Version),
				zap.String("backend", a.config.Storage.Backend),
				zap.String("policy", a.config.Booking.Policy),
				zap.Strings("doctors", svc.Doctors()),
			)
			return api.Serve(ctx, addr, router, a.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr)")

	return cmd
}
