package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/vbncursed/vkr/coffee-shop/internal/service"
)

// Deps — всё, что нужно роутеру; собирается один раз в main
type Deps struct {
	Logger        *zap.Logger
	Gate          Authorizer
	Drinks        *service.Service
	DB            Pinger
	Keys          Pinger
	EnableSwagger bool
}

func Router(d Deps) *echo.Echo {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Secure())
	e.Use(requestLogger(logger))
	e.Binder = StrictJSONBinder{}
	e.HTTPErrorHandler = HTTPErrorHandler(logger)

	// Swagger UI (включается флагом ENABLE_SWAGGER=true)
	if d.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	e.GET("/healthz", Healthz)
	checks := map[string]Pinger{}
	if d.DB != nil {
		checks["db"] = d.DB
	}
	if d.Keys != nil {
		checks["jwks"] = d.Keys
	}
	e.GET("/readyz", Readyz(logger, checks))

	e.GET("/drinks", ListDrinks(d.Drinks))
	e.GET("/drinks-detail", Guard(d.Gate, PermGetDrinksDetail, ListDrinksDetail(d.Drinks)))
	e.POST("/drinks", Guard(d.Gate, PermPostDrinks, CreateDrink(d.Drinks)))
	e.PATCH("/drinks/:id", Guard(d.Gate, PermPatchDrinks, UpdateDrink(d.Drinks)))
	e.DELETE("/drinks/:id", Guard(d.Gate, PermDeleteDrinks, DeleteDrink(d.Drinks)))

	return e
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
				zap.Error(v.Error),
			)
			return nil
		},
	})
}
