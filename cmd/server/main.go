package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/hotspotsyncpro/hotspotsyncpro/api/router"
	"github.com/hotspotsyncpro/hotspotsyncpro/internal/config"
	"github.com/hotspotsyncpro/hotspotsyncpro/internal/service"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/routeros"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/sheet"
)

const configPath = "configs/config.yaml"

func main() {
	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(loggerConfig(cfg)); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting Hotspot Sync Pro", "version", "1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 创建表格客户端
	sheetClient, err := sheet.NewClient(ctx, cfg.Sheet)
	if err != nil {
		logger.Fatal("Failed to create sheets client", "error", err)
	}

	// 创建设备客户端
	device := routeros.NewClient(routeros.Config{
		Address:  cfg.GetRouterAddr(),
		Username: cfg.Router.Username,
		Password: cfg.Router.Password,
	})
	defer device.Close()

	// 组装调和引擎
	directory := service.NewDirectory(device)
	addresses := service.NewAddressResolver(device)
	conflicts := service.NewConflictResolver(device, directory)
	mutator := service.NewBindingMutator(device, directory)
	scheduler := service.NewScheduleManager(device, cfg.Router.BlockTime)
	engine := service.NewEngine(directory, addresses, conflicts, mutator, scheduler)

	// 创建同步服务
	syncService := service.NewSyncService(cfg, sheetClient, engine, directory)
	if err := syncService.Start(ctx); err != nil {
		logger.Fatal("Failed to start sync service", "error", err)
	}
	defer syncService.Stop()

	// 设置路由
	r := router.SetupRouter(syncService)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           cfg.GetServerAddr(),
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// 启动服务器
	group.Go(func() error {
		logger.Info("Server starting", "addr", server.Addr, "mode", cfg.Server.Mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// 配置文件监听与热更新
	group.Go(func() error {
		watchConfig(groupCtx, syncService)
		return nil
	})

	// 等待退出信号后优雅关闭
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("Server exited with error", "error", err)
	}
	logger.Info("Server stopped")
}

// watchConfig 监听配置文件变化并热更新。新配置整体替换交给同步服务，
// 不原地覆盖正在被循环读取的结构；日志配置即时生效。
func watchConfig(ctx context.Context, syncService *service.SyncService) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("Config watch init failed", "error", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(configPath); err != nil {
		logger.Warn("Config watch add failed", "error", err)
		return
	}

	var debounce *time.Timer
	debounceInterval := 300 * time.Millisecond
	trigger := func() {
		newCfg, err := config.Load(configPath)
		if err != nil {
			logger.Warn("Config reload failed", "error", err)
			return
		}
		syncService.ApplyConfig(newCfg)
		// 刷新日志配置
		_ = logger.Init(loggerConfig(newCfg))
		logger.Info("Config reloaded")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-watcher.Events:
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceInterval, trigger)
			}
		case err := <-watcher.Errors:
			logger.Warn("Config watch error", "error", err)
		}
	}
}

func loggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
}
