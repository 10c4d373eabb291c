package service

import (
	"fmt"
	"strings"

	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// ConflictResolver 绑定前的 MAC 冲突检查。
// 不变式：一个 MAC 同一时刻至多属于一条授权记录；
// 未授权占位记录不算数，可直接清理后继续。
type ConflictResolver struct {
	device    DeviceAPI
	directory *Directory
}

// NewConflictResolver 创建冲突检查器
func NewConflictResolver(device DeviceAPI, directory *Directory) *ConflictResolver {
	return &ConflictResolver{device: device, directory: directory}
}

// CheckMac 检查目标 MAC 是否已被其他绑定占用。excludeID 非空时跳过
// 正在编辑的那条记录（换 MAC 场景）。占位记录被当场删除并触发目录重建；
// 授权记录占用则返回 ErrAlreadyExists，错误信息带上对方备注。
func (r *ConflictResolver) CheckMac(mac, excludeID string) error {
	bindings, err := r.device.ListBindings()
	if err != nil {
		return transportErr("list bindings", err)
	}

	for _, b := range bindings {
		if !strings.EqualFold(b.MacAddress, mac) {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}

		if b.IsUnauthorized() {
			logger.Infof("mac %s held by unauthorized placeholder, removing binding %s", mac, b.ID)
			if err := r.device.RemoveBinding(b.ID); err != nil {
				return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
			}
			if err := r.directory.Refresh(); err != nil {
				return err
			}
			return nil
		}

		return fmt.Errorf("%w: owner %q", ErrAlreadyExists, b.Comment)
	}

	return nil
}
