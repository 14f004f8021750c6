package main

import (
	"context"
	"fmt"
	"time"

	cityactor "Civitas/internal/city/actor"
	"Civitas/internal/city/actors"
	"Civitas/internal/city/app/port"
	"Civitas/internal/city/citizens"
	"Civitas/internal/city/infra/persistence/memory"
	citymongo "Civitas/internal/city/infra/persistence/mongodb"
	citymysql "Civitas/internal/city/infra/persistence/mysql"
	"Civitas/internal/city/scenario"
	"Civitas/internal/city/service"
	"Civitas/internal/shared/gameconfig/specialist"
	"Civitas/internal/shared/infrastructure/db"
	sharedmongo "Civitas/internal/shared/infrastructure/mongo"
	"Civitas/internal/shared/logs"
	"Civitas/internal/shared/serverconfig"

	"go.uber.org/zap"
)

// app 进程内组装好的城市运行时；closers 按注册的逆序执行。
type app struct {
	rt      *cityactor.Runtime
	closers []func()
}

func newApp(ctx context.Context, conf serverconfig.Config) (*app, error) {
	a := &app{}

	catalog, err := loadCatalog(conf.Logic.Catalog)
	if err != nil {
		return nil, err
	}
	sc, err := scenario.Load(conf.Logic.Scenario)
	if err != nil {
		return nil, err
	}
	logs.Info("scenario loaded", zap.String("path", conf.Logic.Scenario), zap.Int("cities", len(sc.Cities)))

	repo, err := a.openRepo(ctx, conf)
	if err != nil {
		a.close()
		return nil, err
	}

	a.rt = cityactor.NewRuntime(actors.Deps{
		Repo:       repo,
		Scenario:   sc,
		Catalog:    catalog,
		Tuning:     conf.Allocation,
		FlushEvery: conf.Persistence.FlushEvery,
		Log:        logs.Logger(zap.String("module", "city")),
	}, conf.Turn.AskTimeout)
	a.closers = append(a.closers, a.rt.Shutdown)
	return a, nil
}

func loadCatalog(path string) (citizens.Catalog, error) {
	if path == "" {
		return specialist.Default()
	}
	return specialist.Load(path)
}

func (a *app) openRepo(ctx context.Context, conf serverconfig.Config) (port.CityRepository, error) {
	switch conf.Persistence.Driver {
	case serverconfig.DriverMongoDB:
		client, err := sharedmongo.Open(ctx, conf.MongoDB, logs.L())
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		a.closers = append(a.closers, func() {
			_ = client.Disconnect(context.Background())
		})
		repo := citymongo.NewCityRepository(client.Database(conf.MongoDB.Database))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logs.Warn("ensure city indexes failed", zap.Error(err))
		}
		return repo, nil
	case serverconfig.DriverMySQL:
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		if err := citymysql.AutoMigrate(gdb); err != nil {
			return nil, fmt.Errorf("migrate mysql: %w", err)
		}
		return citymysql.NewCityRepository(gdb), nil
	default:
		return memory.NewCityRepository(), nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// turnLoop 按固定间隔推进回合；maxTurns 为 0 表示不限。
func (a *app) turnLoop(ctx context.Context, every time.Duration, maxTurns int) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for turn := 1; maxTurns == 0 || turn <= maxTurns; turn++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		a.runTurn(ctx, turn)
	}
	logs.Info("turn limit reached", zap.Int("max_turns", maxTurns))
}

// runTurn 没有外部 AI 策略输入时所有玩家按默认策略结算。
func (a *app) runTurn(ctx context.Context, turn int) []service.TurnResult {
	start := time.Now()
	results, err := a.rt.RunTurn(ctx, turn, nil)
	if err != nil {
		logs.Error("turn finished with errors", zap.Int("turn", turn), zap.Error(err))
	}
	logs.Info("turn done",
		zap.Int("turn", turn),
		zap.Int("cities", len(results)),
		zap.Duration("cost", time.Since(start)),
	)
	return results
}
