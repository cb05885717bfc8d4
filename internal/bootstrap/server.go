package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avershin/flightledger/api"
	"github.com/avershin/flightledger/config"
	"github.com/avershin/flightledger/internal/service/assistant"
	"github.com/avershin/flightledger/internal/service/auth"
	"github.com/avershin/flightledger/internal/service/flights"
	"github.com/avershin/flightledger/internal/service/ledger"
	"github.com/avershin/flightledger/internal/service/status"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Services struct {
	Auth      auth.AuthUseCase
	Ledger    ledger.LedgerUseCase
	Flights   flights.FlightUseCase
	Status    status.StatusUseCase
	Assistant assistant.AssistantUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svcs Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, svcs),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, svcs Services) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	api.NewAuthHandler(svcs.Auth).Register(engine.Group("/auth"))

	authorized := engine.Group("/", api.RequireUser(svcs.Auth))
	api.NewBookingHandler(svcs.Ledger, svcs.Status).Register(authorized.Group("/bookings"))
	api.NewFlightHandler(svcs.Flights).Register(authorized.Group("/flights"))
	api.NewCouponHandler(svcs.Ledger).Register(authorized.Group("/coupons"))
	api.NewProfileHandler(svcs.Auth).Register(authorized.Group("/profile"))
	api.NewAssistantHandler(svcs.Assistant).Register(authorized.Group("/chatbot"))

	if cfg.HTTP.SwaggerDir != "" {
		engine.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		engine.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return engine
}
