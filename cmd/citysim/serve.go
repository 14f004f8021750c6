package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	cityinterfaces "Civitas/internal/city/interfaces"
	"Civitas/internal/shared/logs"
	"Civitas/internal/shared/serverconfig"
	transporthttp "Civitas/internal/shared/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 调试接口，并按配置的间隔自动推进回合",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	// 配置监听回调在 fsnotify 的 goroutine 里执行
	var current atomic.Pointer[app]
	err := setup(func(next serverconfig.Config) {
		// 只热更新日志级别和分配参数，其余配置需要重启
		logs.SetLevel(next.Log.Level)
		a := current.Load()
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		n, err := a.rt.UpdateTuning(ctx, next.Allocation)
		if err != nil {
			logs.Error("update allocation tuning failed", zap.Error(err))
			return
		}
		logs.Info("allocation tuning reloaded", zap.Int("cities", n))
	})
	if err != nil {
		return err
	}
	defer logs.Sync()
	conf := serverconfig.Conf

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, conf)
	if err != nil {
		return err
	}
	defer a.close()
	current.Store(a)

	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	addr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
	srv := transporthttp.NewHttpServer(addr, gin.New(), logs.Logger(zap.String("module", "http")))
	srv.Register(cityinterfaces.New(a.rt))

	go func() {
		logs.Info("http server started", zap.String("addr", addr))
		if err := srv.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logs.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	if conf.Turn.Interval > 0 {
		go a.turnLoop(ctx, conf.Turn.Interval, conf.Turn.MaxTurns)
	}

	<-ctx.Done()
	logs.Info("收到退出信号，准备优雅退出")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logs.Warn("http server shutdown failed", zap.Error(err))
	}
	return nil
}
