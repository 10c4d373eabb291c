package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/config"
	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// SyncService 同步服务：固定间隔整表扫描，驱动调和引擎逐行处理。
// 周期内完全串行；周期之间才响应停止与手动触发。
type SyncService struct {
	cfg       *config.Config
	sheet     SheetAPI
	engine    *Engine
	directory *Directory

	mutex   sync.RWMutex
	running bool
	trigger chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
	stats   SyncStats
}

// SyncStats 同步统计
type SyncStats struct {
	Cycles        int64     `json:"cycles"`
	LastCycleID   string    `json:"last_cycle_id"`
	LastCycleAt   time.Time `json:"last_cycle_at"`
	LastDuration  string    `json:"last_duration"`
	LastError     string    `json:"last_error,omitempty"`
	RowsProcessed int64     `json:"rows_processed"`
	WritesApplied int64     `json:"writes_applied"`
	Clients       int       `json:"clients"`
}

// NewSyncService 创建同步服务
func NewSyncService(cfg *config.Config, sheet SheetAPI, engine *Engine, directory *Directory) *SyncService {
	return &SyncService{
		cfg:       cfg,
		sheet:     sheet,
		engine:    engine,
		directory: directory,
		trigger:   make(chan struct{}, 1),
	}
}

// Start 启动同步循环
func (s *SyncService) Start(ctx context.Context) error {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		return fmt.Errorf("sync service already running")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mutex.Unlock()

	go s.loop(loopCtx)
	logger.Info("Sync service started", "interval", s.currentCfg().Sync.Interval.String())
	return nil
}

// ApplyConfig 替换运行配置（配置热更新用）。循环等待与周期读取都经
// currentCfg 取值，新配置从下一次取值起生效。
func (s *SyncService) ApplyConfig(cfg *config.Config) {
	s.mutex.Lock()
	s.cfg = cfg
	s.mutex.Unlock()
	logger.Info("Sync config applied", "interval", cfg.Sync.Interval.String())
}

// currentCfg 取当前配置指针；配置本身替换后不再修改
func (s *SyncService) currentCfg() *config.Config {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.cfg
}

// Stop 停止同步循环（只在周期之间生效，不打断正在处理的行）
func (s *SyncService) Stop() {
	s.mutex.Lock()
	if !s.running {
		s.mutex.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mutex.Unlock()

	cancel()
	<-done
	logger.Info("Sync service stopped")
}

// TriggerSync 请求尽快执行一轮同步（运维接口用；已有待处理请求时合并）
func (s *SyncService) TriggerSync() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Stats 返回统计快照
func (s *SyncService) Stats() SyncStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	stats := s.stats
	stats.Clients = s.directory.Len()
	return stats
}

// Directory 返回当前目录（运维接口展示用）
func (s *SyncService) Directory() *Directory {
	return s.directory
}

// loop 固定间隔循环。周期故障只记录，下轮照常开始。
func (s *SyncService) loop(ctx context.Context) {
	defer close(s.done)

	if s.currentCfg().Sync.RunOnStart {
		s.runCycleLogged(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			s.runCycleLogged(ctx)
		case <-time.After(s.currentCfg().Sync.Interval):
			s.runCycleLogged(ctx)
		}
	}
}

func (s *SyncService) runCycleLogged(ctx context.Context) {
	if err := s.RunCycle(ctx); err != nil {
		logger.Error("Sync cycle failed", "error", err)
	}
}

// RunCycle 执行一轮完整同步：重建目录、读表、发现楼栋、逐行处理。
// 目录或表格读取失败属周期级故障，放弃本轮剩余工作。
func (s *SyncService) RunCycle(ctx context.Context) error {
	cycleID := uuid.NewString()
	start := time.Now()
	logger.Info("Sync cycle starting", "cycle_id", cycleID)

	var rows, writes int64
	err := s.runCycle(ctx, &rows, &writes)

	s.mutex.Lock()
	s.stats.Cycles++
	s.stats.LastCycleID = cycleID
	s.stats.LastCycleAt = start
	s.stats.LastDuration = time.Since(start).String()
	s.stats.RowsProcessed += rows
	s.stats.WritesApplied += writes
	if err != nil {
		s.stats.LastError = err.Error()
	} else {
		s.stats.LastError = ""
	}
	s.mutex.Unlock()

	if err == nil {
		logger.Info("Sync cycle finished",
			"cycle_id", cycleID,
			"rows", rows,
			"writes", writes,
			"duration", time.Since(start).String(),
		)
	}
	return err
}

func (s *SyncService) runCycle(ctx context.Context, rows, writes *int64) error {
	// 周期开始时取一次配置，整轮使用同一份
	sheetCfg := s.currentCfg().Sheet

	if err := s.directory.Refresh(); err != nil {
		return fmt.Errorf("load client directory: %w", err)
	}

	header, err := s.sheet.GetRange(ctx, sheetCfg.HeaderRange)
	if err != nil {
		return fmt.Errorf("read header range: %w", err)
	}
	if len(header) == 0 {
		logger.Warn("Sheet header row is empty, nothing to do")
		return nil
	}

	data, err := s.sheet.GetRange(ctx, sheetCfg.DataRange)
	if err != nil {
		return fmt.Errorf("read data range: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("Sheet data block is empty, nothing to do")
		return nil
	}

	buildings := model.DiscoverBuildings(header[0])
	if len(buildings) == 0 {
		logger.Warn("No buildings found in header row")
		return nil
	}
	logger.Infof("found %d buildings", len(buildings))

	for _, building := range buildings {
		for rowIdx, cells := range data {
			row, ok := s.extractRow(building, rowIdx, cells)
			if !ok {
				continue
			}
			*rows++
			s.processRow(ctx, row, writes)
		}
	}
	return nil
}

// extractRow 取出一行的三个单元格；姓名或状态缺失、状态不是指令时跳过
func (s *SyncService) extractRow(building model.Building, rowIdx int, cells []string) (model.Row, bool) {
	if len(cells) <= building.ClientCol {
		return model.Row{}, false
	}
	clientName := cells[building.ClientCol]
	if strings.TrimSpace(clientName) == "" {
		return model.Row{}, false
	}
	if len(cells) <= building.StatusCol {
		return model.Row{}, false
	}
	statusText := cells[building.StatusCol]
	if _, ok := model.ParseCommand(statusText); !ok {
		return model.Row{}, false
	}

	row := model.Row{
		ClientName: clientName,
		StatusText: statusText,
		Index:      rowIdx,
		Building:   building,
	}
	if len(cells) > building.NotesCol {
		row.NotesText = cells[building.NotesCol]
		row.HasNotes = true
	}
	return row, true
}

// processRow 处理一行并落实回写。单行的任何意外都不允许中断整批。
func (s *SyncService) processRow(ctx context.Context, row model.Row, writes *int64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Row processing panicked",
				"client", row.ClientName,
				"building", row.Building.Name,
				"row", row.Index,
				"panic", r,
			)
		}
	}()

	outcome := s.engine.ProcessRow(row)
	if !outcome.Write {
		return
	}

	if err := s.sheet.SetCell(ctx, row.Building.StatusCol, row.Index, outcome.Status); err != nil {
		logger.Error("Status write-back failed", "client", row.ClientName, "error", err)
		return
	}
	*writes++

	// 改名后的两处附带回写失败不影响主结果
	if outcome.ClientCell != nil {
		if err := s.sheet.SetCell(ctx, row.Building.ClientCol, row.Index, *outcome.ClientCell); err != nil {
			logger.Warn("Client-cell write-back failed", "client", row.ClientName, "error", err)
		}
	}
	if outcome.NotesCell != nil {
		if err := s.sheet.SetCell(ctx, row.Building.NotesCol, row.Index, *outcome.NotesCell); err != nil {
			logger.Warn("Notes-cell write-back failed", "client", row.ClientName, "error", err)
		}
	}
}
