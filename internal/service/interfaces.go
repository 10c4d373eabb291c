package service

import (
	"context"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
)

// DeviceAPI 设备侧资源接口（hotspot ip-binding、DHCP lease、ARP、scheduler）。
// 由 pkg/routeros 的客户端实现，测试中用假实现替换。
type DeviceAPI interface {
	// ListBindings 列出全部 ip-binding 记录
	ListBindings() ([]model.Binding, error)
	// SetBindingFields 按 id 更新绑定字段（type / mac-address / comment）
	SetBindingFields(id string, fields map[string]string) error
	// AddBinding 新增绑定，初始为放行状态
	AddBinding(mac, comment string) error
	// RemoveBinding 按 id 删除绑定
	RemoveBinding(id string) error
	// ListLeases 列出 DHCP lease 表
	ListLeases() ([]model.Lease, error)
	// ListARP 列出 ARP 邻居表
	ListARP() ([]model.Lease, error)
	// ListSchedules 列出设备定时任务
	ListSchedules() ([]model.Schedule, error)
	// AddSchedule 新增定时任务
	AddSchedule(s model.Schedule) error
	// RemoveSchedule 按 id 删除定时任务
	RemoveSchedule(id string) error
}

// SheetAPI 表格传输接口：读区间、写单格。由 pkg/sheet 实现。
type SheetAPI interface {
	// GetRange 读取一个 A1 区间，返回按行展开的字符串单元格
	GetRange(ctx context.Context, rng string) ([][]string, error)
	// SetCell 写回数据区内 (列下标, 行下标) 处的单元格
	SetCell(ctx context.Context, col, row int, value string) error
}
