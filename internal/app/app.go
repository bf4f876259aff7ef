package app

import (
	"github.com/carousell/ct-go/pkg/logger"
	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/nguyentranbao-ct/product-search/internal/ratelimit"
	"github.com/nguyentranbao-ct/product-search/internal/repo/llm"
	"github.com/nguyentranbao-ct/product-search/internal/server"
	"github.com/nguyentranbao-ct/product-search/internal/usecase"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newGenkitClient,
			newRedisClient,
			newProductSource,
			newImageChecker,
			newEventPublisher,

			server.NewHandler,

			ratelimit.NewLimiter,

			usecase.NewSearchUsecase,
			usecase.NewAnalyzeUsecase,
			usecase.NewProductValidator,

			llm.NewProvider,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}
