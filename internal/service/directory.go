package service

import (
	"sort"
	"strings"
	"sync"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
	"github.com/hotspotsyncpro/hotspotsyncpro/internal/util"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// Directory 客户目录：按姓名索引的设备绑定快照。
// 快照只整体重建，从不原地修补；每次变更操作成功后重建一次，
// 同一周期内后处理的行能看到先前行造成的变更。
// 重建发生在同步协程，运维接口在 HTTP 协程读取，读写都要过锁。
type Directory struct {
	device DeviceAPI

	mutex   sync.RWMutex
	records map[string]model.Binding
	// names 排好序的键列表，模糊匹配按此顺序扫描，保证平局结果可复现
	names []string
}

// NewDirectory 创建空目录（首次 Refresh 前不含任何记录）
func NewDirectory(device DeviceAPI) *Directory {
	return &Directory{
		device:  device,
		records: make(map[string]model.Binding),
	}
}

// Refresh 丢弃旧快照并从设备整体重建
func (d *Directory) Refresh() error {
	bindings, err := d.device.ListBindings()
	if err != nil {
		return transportErr("list bindings", err)
	}

	records := make(map[string]model.Binding, len(bindings))
	for _, b := range bindings {
		if strings.TrimSpace(b.Comment) == "" {
			continue
		}
		name := b.ClientName()
		// 键冲突时保留扫描中先出现的记录
		if _, exists := records[name]; exists {
			continue
		}
		records[name] = b
	}

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	d.mutex.Lock()
	d.records = records
	d.names = names
	d.mutex.Unlock()
	logger.Debugf("client directory rebuilt: %d clients", len(records))
	return nil
}

// Resolve 三级姓名匹配：精确、忽略大小写、子串包含。
// 各级均取扫描顺序中的第一个命中；不做多义检测。
func (d *Directory) Resolve(name string) (model.Binding, bool) {
	target := util.NormalizeCell(name)
	if target == "" {
		return model.Binding{}, false
	}

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	if b, ok := d.records[target]; ok {
		return b, true
	}

	for _, cached := range d.names {
		if strings.EqualFold(cached, target) {
			return d.records[cached], true
		}
	}

	lower := strings.ToLower(target)
	for _, cached := range d.names {
		if strings.Contains(strings.ToLower(cached), lower) {
			return d.records[cached], true
		}
	}

	return model.Binding{}, false
}

// Len 快照中的客户数
func (d *Directory) Len() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return len(d.records)
}

// Snapshot 按姓名排序返回快照内容（运维接口展示用）
func (d *Directory) Snapshot() []model.Binding {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	out := make([]model.Binding, 0, len(d.names))
	for _, name := range d.names {
		out = append(out, d.records[name])
	}
	return out
}
