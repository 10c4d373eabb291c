package service

import (
	"fmt"
	"strings"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// BindingMutator 绑定列表的变更操作。每个成功的变更都触发目录整体重建；
// 失败的变更不动目录。
type BindingMutator struct {
	device    DeviceAPI
	directory *Directory
}

// NewBindingMutator 创建变更器
func NewBindingMutator(device DeviceAPI, directory *Directory) *BindingMutator {
	return &BindingMutator{device: device, directory: directory}
}

// SetState 更新绑定的 type 字段（blocked / bypassed）
func (m *BindingMutator) SetState(id, bindingType string) error {
	err := m.device.SetBindingFields(id, map[string]string{"type": bindingType})
	if err != nil {
		return transportErr("set binding type", err)
	}
	return m.directory.Refresh()
}

// Create 新建绑定，初始为放行状态。仅在姓名未被解析到且 MAC 无冲突后调用。
func (m *BindingMutator) Create(mac, comment string) error {
	if err := m.device.AddBinding(mac, comment); err != nil {
		return classifyMacErr("add binding", err)
	}
	return m.directory.Refresh()
}

// UpdateMac 替换绑定的 MAC。被封禁的记录在同一次 set 中顺带恢复放行
// （换 MAC 隐含恢复上网）。
func (m *BindingMutator) UpdateMac(rec model.Binding, mac string) error {
	fields := map[string]string{"mac-address": mac}
	if rec.IsBlocked() {
		fields["type"] = model.BindingTypeBypassed
	}
	if err := m.device.SetBindingFields(rec.ID, fields); err != nil {
		return classifyMacErr("update binding mac", err)
	}
	if rec.IsBlocked() {
		logger.Infof("client %q mac updated to %s and reactivated from blocked", rec.ClientName(), mac)
	}
	return m.directory.Refresh()
}

// RenameName 重写备注的姓名段，电话段逐字节原样保留
func (m *BindingMutator) RenameName(rec model.Binding, newName string) error {
	if rec.Comment == "" {
		return ErrNoComment
	}
	var comment string
	if _, phone, hasPhone := model.SplitComment(rec.Comment); hasPhone {
		comment = strings.TrimSpace(newName) + " @" + phone
	} else {
		comment = strings.TrimSpace(newName)
	}
	return m.setComment(rec.ID, comment)
}

// RenamePhone 重写备注的电话段，姓名段逐字节原样保留；
// 原备注没有分隔符时补上分隔符再接电话。
func (m *BindingMutator) RenamePhone(rec model.Binding, newPhone string) error {
	if rec.Comment == "" {
		return ErrNoComment
	}
	var comment string
	if name, _, hasPhone := model.SplitComment(rec.Comment); hasPhone {
		comment = name + " @" + strings.TrimSpace(newPhone)
	} else {
		comment = rec.Comment + " @" + strings.TrimSpace(newPhone)
	}
	return m.setComment(rec.ID, comment)
}

func (m *BindingMutator) setComment(id, comment string) error {
	if err := m.device.SetBindingFields(id, map[string]string{"comment": comment}); err != nil {
		return transportErr("set binding comment", err)
	}
	return m.directory.Refresh()
}

// classifyMacErr 设备拒绝 MAC 取值时归为 ErrWrongMac，其余按传输故障处理
func classifyMacErr(op string, err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "invalid value of mac-address") {
		return fmt.Errorf("%w: %v", ErrWrongMac, err)
	}
	return transportErr(op, err)
}
