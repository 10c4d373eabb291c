package service

import (
	"errors"
	"strings"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
	"github.com/hotspotsyncpro/hotspotsyncpro/internal/util"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// Outcome 一行处理的结果。Write 为 false 表示状态单元格保持原样，
// 指令下个周期自然重试；ClientCell/NotesCell 是改名成功后的附带回写。
type Outcome struct {
	Write      bool
	Status     string
	ClientCell *string
	NotesCell  *string
}

func noWrite() Outcome {
	return Outcome{}
}

func write(status string) Outcome {
	return Outcome{Write: true, Status: status}
}

// Engine 调和引擎：逐行执行 解析 → 定位 → 冲突检查 → 变更/定时 → 计算回写。
// 全程串行，副作用在返回 Outcome 前已经落到设备上。
type Engine struct {
	directory *Directory
	address   *AddressResolver
	conflicts *ConflictResolver
	mutator   *BindingMutator
	scheduler *ScheduleManager
}

// NewEngine 组装调和引擎
func NewEngine(directory *Directory, address *AddressResolver, conflicts *ConflictResolver, mutator *BindingMutator, scheduler *ScheduleManager) *Engine {
	return &Engine{
		directory: directory,
		address:   address,
		conflicts: conflicts,
		mutator:   mutator,
		scheduler: scheduler,
	}
}

// ProcessRow 处理一行。状态文本不是指令时整行跳过；
// 任何传输故障都以"不回写"收场，不会中断批处理。
func (e *Engine) ProcessRow(row model.Row) Outcome {
	cmd, ok := model.ParseCommand(row.StatusText)
	if !ok {
		return noWrite()
	}

	clientName := util.NormalizeCell(row.ClientName)
	log := logger.WithFields(map[string]interface{}{
		"client":   clientName,
		"building": row.Building.Name,
		"row":      row.Index,
	})

	switch cmd.Kind {
	case model.CommandCut:
		return e.handleCut(clientName, log)
	case model.CommandNotPay:
		return e.handleNotPay(clientName, log)
	case model.CommandLimit:
		return e.handleLimit(clientName, cmd, row, log)
	case model.CommandNew:
		return e.handleNew(clientName, cmd, row, log)
	case model.CommandUpdateMac:
		return e.handleUpdateMac(clientName, cmd, row, log)
	case model.CommandActivate:
		return e.handleActivate(clientName, cmd, log)
	case model.CommandRenameName:
		return e.handleRenameName(clientName, row, log)
	case model.CommandRenamePhone:
		return e.handleRenamePhone(clientName, row, log)
	}
	return noWrite()
}

type rowLogger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// handleCut 立即封禁；客户找不到或设备失败都留待下个周期重试
func (e *Engine) handleCut(clientName string, log rowLogger) Outcome {
	rec, ok := e.directory.Resolve(clientName)
	if !ok {
		log.Warnf("cut: client not found")
		return noWrite()
	}
	if err := e.mutator.SetState(rec.ID, model.BindingTypeBlocked); err != nil {
		log.Errorf("cut: %v", err)
		return noWrite()
	}
	log.Infof("client blocked")
	return write(model.StatusBlock)
}

// handleNotPay 已放行的只改标签；被封禁的先恢复放行再改标签
func (e *Engine) handleNotPay(clientName string, log rowLogger) Outcome {
	rec, ok := e.directory.Resolve(clientName)
	if !ok {
		log.Warnf("not pay: client not found")
		return noWrite()
	}
	if rec.IsActive() {
		return write(model.StatusWaiting)
	}
	if rec.IsBlocked() {
		if err := e.mutator.SetState(rec.ID, model.BindingTypeBypassed); err != nil {
			log.Errorf("not pay: %v", err)
			return noWrite()
		}
		log.Infof("client reactivated, waiting for payment")
		return write(model.StatusWaiting)
	}
	return noWrite()
}

// handleLimit 定时断网：备注列的日期先过语法校验，再交给定时管理器。
// 日期不在未来回写 Old-Date；定时成功后恢复放行并回写标签。
func (e *Engine) handleLimit(clientName string, cmd model.Command, row model.Row, log rowLogger) Outcome {
	blockDate := strings.TrimSpace(row.NotesText)
	if blockDate == "" {
		log.Warnf("limit: no block date in notes")
		return noWrite()
	}
	if err := ValidateBlockDate(blockDate); err != nil {
		log.Warnf("limit: %v", err)
		return noWrite()
	}

	rec, ok := e.directory.Resolve(clientName)
	if !ok || strings.TrimSpace(rec.MacAddress) == "" {
		log.Warnf("limit: client mac not resolvable")
		return noWrite()
	}

	if err := e.scheduler.ScheduleBlock(clientName, rec.MacAddress, blockDate); err != nil {
		if errors.Is(err, ErrScheduleRejected) {
			log.Warnf("limit: %v", err)
			return write(model.StatusOldDate)
		}
		log.Errorf("limit: %v", err)
		return noWrite()
	}

	if err := e.mutator.SetState(rec.ID, model.BindingTypeBypassed); err != nil {
		log.Errorf("limit: activate after schedule: %v", err)
		return noWrite()
	}
	log.Infof("client activated, block scheduled for %s", blockDate)
	return write(cmd.ResultLabel)
}

// handleNew 新建客户：姓名必须还解析不到，地址解析出的 MAC 必须无冲突
func (e *Engine) handleNew(clientName string, cmd model.Command, row model.Row, log rowLogger) Outcome {
	identifier := strings.TrimSpace(row.NotesText)
	if identifier == "" {
		log.Warnf("new: no mac or ip in notes")
		return write(model.StatusNoMac)
	}

	if _, exists := e.directory.Resolve(clientName); exists {
		log.Warnf("new: client already exists")
		return write(model.StatusAlreadyExists)
	}

	mac, err := e.address.ResolveMac(identifier)
	if err != nil {
		return e.failureOutcome("new", err, log)
	}

	if err := e.conflicts.CheckMac(mac, ""); err != nil {
		return e.failureOutcome("new", err, log)
	}

	if err := e.mutator.Create(mac, clientName); err != nil {
		return e.failureOutcome("new", err, log)
	}

	log.Infof("client created with mac %s", mac)
	return write(model.DisplayLabel(cmd.ResultLabel))
}

// handleUpdateMac 给已有客户换 MAC；冲突检查排除客户自己的记录
func (e *Engine) handleUpdateMac(clientName string, cmd model.Command, row model.Row, log rowLogger) Outcome {
	identifier := strings.TrimSpace(row.NotesText)
	if identifier == "" {
		log.Warnf("upd-mac: no mac or ip in notes")
		return write(model.StatusNoMac)
	}

	rec, ok := e.directory.Resolve(clientName)
	if !ok {
		log.Warnf("upd-mac: client not found")
		return write(model.StatusClientNotFound)
	}

	mac, err := e.address.ResolveMac(identifier)
	if err != nil {
		return e.failureOutcome("upd-mac", err, log)
	}

	if err := e.conflicts.CheckMac(mac, rec.ID); err != nil {
		return e.failureOutcome("upd-mac", err, log)
	}

	if err := e.mutator.UpdateMac(rec, mac); err != nil {
		return e.failureOutcome("upd-mac", err, log)
	}

	log.Infof("client mac updated to %s", mac)
	return write(model.DisplayLabel(cmd.ResultLabel))
}

// handleActivate 恢复放行；已放行的客户只改标签
func (e *Engine) handleActivate(clientName string, cmd model.Command, log rowLogger) Outcome {
	rec, ok := e.directory.Resolve(clientName)
	if !ok {
		log.Warnf("activate: client not found")
		return noWrite()
	}
	if rec.IsActive() {
		return write(model.DisplayLabel(cmd.ResultLabel))
	}
	if err := e.mutator.SetState(rec.ID, model.BindingTypeBypassed); err != nil {
		log.Errorf("activate: %v", err)
		return noWrite()
	}
	log.Infof("client activated")
	return write(model.DisplayLabel(cmd.ResultLabel))
}

// handleRenameName 改备注姓名段，成功后顺带把新姓名写回姓名列、
// 把未变的电话写回备注列（两处都是尽力而为）
func (e *Engine) handleRenameName(clientName string, row model.Row, log rowLogger) Outcome {
	if !row.HasNotes {
		log.Warnf("re=name: notes column missing in row")
		return write(model.StatusNoNotesCol)
	}
	newName := util.NormalizeCell(row.NotesText)
	if newName == "" {
		log.Warnf("re=name: no new name in notes")
		return write(model.StatusNoName)
	}

	rec, ok := e.directory.Resolve(clientName)
	if !ok {
		log.Warnf("re=name: client not found")
		return write(model.StatusClientNotFound)
	}

	if err := e.mutator.RenameName(rec, newName); err != nil {
		return e.renameOutcome("re=name", err, log)
	}
	log.Infof("client renamed to %q", newName)

	out := write(model.StatusNotPay)
	out.ClientCell = &newName
	// 目录已在变更成功后重建，用新名字取未变的电话
	if renamed, ok := e.directory.Resolve(newName); ok {
		phone := renamed.ClientPhone()
		out.NotesCell = &phone
	}
	return out
}

// handleRenamePhone 改备注电话段
func (e *Engine) handleRenamePhone(clientName string, row model.Row, log rowLogger) Outcome {
	newPhone := strings.TrimSpace(row.NotesText)
	if !row.HasNotes {
		return noWrite()
	}
	if newPhone == "" {
		log.Warnf("re=number: no new phone in notes")
		return write(model.StatusNoPhone)
	}

	rec, ok := e.directory.Resolve(clientName)
	if !ok {
		log.Warnf("re=number: client not found")
		return write(model.StatusClientNotFound)
	}

	if err := e.mutator.RenamePhone(rec, newPhone); err != nil {
		return e.renameOutcome("re=number", err, log)
	}
	log.Infof("client phone updated")
	return write(model.StatusNotPay)
}

// failureOutcome 新建/换 MAC 场景的失败归类：预期失败映射为回写标签，
// 传输故障不回写
func (e *Engine) failureOutcome(op string, err error, log rowLogger) Outcome {
	switch {
	case errors.Is(err, ErrIPNotFound):
		log.Warnf("%s: %v", op, err)
		return write(model.StatusIPNotFound)
	case errors.Is(err, ErrDeleteFailed):
		log.Errorf("%s: %v", op, err)
		return write(model.StatusDeleteFailed)
	case errors.Is(err, ErrAlreadyExists):
		log.Warnf("%s: %v", op, err)
		return write(model.StatusAlreadyExists)
	case errors.Is(err, ErrWrongMac):
		log.Warnf("%s: %v", op, err)
		return write(model.StatusWrongMac)
	default:
		log.Errorf("%s: %v", op, err)
		return noWrite()
	}
}

// renameOutcome 改名/改号场景的失败归类
func (e *Engine) renameOutcome(op string, err error, log rowLogger) Outcome {
	switch {
	case errors.Is(err, ErrNoComment):
		log.Warnf("%s: %v", op, err)
		return write(model.StatusNoComment)
	case errors.Is(err, ErrTransport):
		log.Errorf("%s: %v", op, err)
		return noWrite()
	default:
		log.Errorf("%s: %v", op, err)
		return write(model.StatusUpdateFailed)
	}
}
