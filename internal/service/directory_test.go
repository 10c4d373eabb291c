package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
)

// TestDirectoryRefresh 测试目录重建：空备注记录被跳过
func TestDirectoryRefresh(t *testing.T) {
	device := &fakeDevice{
		bindings: []model.Binding{
			{ID: "*1", MacAddress: "AA:BB:CC:DD:EE:01", Type: "bypassed", Comment: "John Doe @0912"},
			{ID: "*2", MacAddress: "AA:BB:CC:DD:EE:02", Type: "blocked", Comment: "Maria Lopez @0913"},
			{ID: "*3", MacAddress: "AA:BB:CC:DD:EE:03", Type: "bypassed", Comment: "   "},
		},
	}
	dir := NewDirectory(device)
	require.NoError(t, dir.Refresh())

	assert.Equal(t, 2, dir.Len(), "空备注的绑定不应进入目录")

	rec, ok := dir.Resolve("John Doe")
	assert.True(t, ok)
	assert.Equal(t, "*1", rec.ID)
}

// TestDirectoryResolveTiers 测试三级姓名匹配：精确、忽略大小写、子串包含
func TestDirectoryResolveTiers(t *testing.T) {
	device := &fakeDevice{
		bindings: []model.Binding{
			{ID: "*1", Comment: "John Doe @0912"},
			{ID: "*2", Comment: "maria lopez @0913"},
			{ID: "*3", Comment: "Pedro Santos Jr @0914"},
		},
	}
	dir := NewDirectory(device)
	require.NoError(t, dir.Refresh())

	// 精确匹配
	rec, ok := dir.Resolve("John Doe")
	assert.True(t, ok)
	assert.Equal(t, "*1", rec.ID)

	// 忽略大小写
	rec, ok = dir.Resolve("MARIA LOPEZ")
	assert.True(t, ok)
	assert.Equal(t, "*2", rec.ID)

	// 子串包含
	rec, ok = dir.Resolve("Santos")
	assert.True(t, ok)
	assert.Equal(t, "*3", rec.ID)

	// 查不到
	_, ok = dir.Resolve("Nobody")
	assert.False(t, ok)

	// 空查询
	_, ok = dir.Resolve("   ")
	assert.False(t, ok)
}

// TestDirectoryResolveDeterministicTie 测试子串多命中时按排序后的键序取第一个
func TestDirectoryResolveDeterministicTie(t *testing.T) {
	device := &fakeDevice{
		bindings: []model.Binding{
			{ID: "*2", Comment: "Zed Santos @2"},
			{ID: "*1", Comment: "Ana Santos @1"},
		},
	}
	dir := NewDirectory(device)

	// 多次重建，结果必须稳定
	for i := 0; i < 5; i++ {
		require.NoError(t, dir.Refresh())
		rec, ok := dir.Resolve("Santos")
		assert.True(t, ok)
		assert.Equal(t, "*1", rec.ID, "排序后 Ana Santos 在前")
	}
}

// TestDirectoryDuplicateName 测试同名冲突保留先出现的记录
func TestDirectoryDuplicateName(t *testing.T) {
	device := &fakeDevice{
		bindings: []model.Binding{
			{ID: "*1", Comment: "John Doe @0912"},
			{ID: "*2", Comment: "John Doe @9999"},
		},
	}
	dir := NewDirectory(device)
	require.NoError(t, dir.Refresh())

	assert.Equal(t, 1, dir.Len())
	rec, ok := dir.Resolve("John Doe")
	assert.True(t, ok)
	assert.Equal(t, "*1", rec.ID)
}

// TestDirectoryRefreshTransportError 测试设备读取失败时目录报传输故障
func TestDirectoryRefreshTransportError(t *testing.T) {
	device := &fakeDevice{listBindingsErr: errors.New("connection reset")}
	dir := NewDirectory(device)

	err := dir.Refresh()
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

// TestDirectoryConcurrentAccess 测试同步协程重建目录时 HTTP 协程并发读取
// （配合 -race 运行）
func TestDirectoryConcurrentAccess(t *testing.T) {
	device := &fakeDevice{
		bindings: []model.Binding{
			{ID: "*1", Type: "bypassed", Comment: "John Doe @0912"},
			{ID: "*2", Type: "blocked", Comment: "Maria Lopez @0913"},
		},
	}
	dir := NewDirectory(device)
	require.NoError(t, dir.Refresh())

	var wg sync.WaitGroup

	// 写侧：反复整体重建
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			assert.NoError(t, dir.Refresh())
		}
	}()

	// 读侧：运维接口的三条读路径
	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				dir.Snapshot()
				dir.Len()
				dir.Resolve("John Doe")
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 2, dir.Len())
	rec, ok := dir.Resolve("John Doe")
	assert.True(t, ok)
	assert.Equal(t, "*1", rec.ID)
}

// TestDirectorySnapshotSorted 测试快照按姓名排序输出
func TestDirectorySnapshotSorted(t *testing.T) {
	device := &fakeDevice{
		bindings: []model.Binding{
			{ID: "*1", Comment: "Zed @1"},
			{ID: "*2", Comment: "Ana @2"},
			{ID: "*3", Comment: "Mia @3"},
		},
	}
	dir := NewDirectory(device)
	require.NoError(t, dir.Refresh())

	snap := dir.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "Ana", snap[0].ClientName())
	assert.Equal(t, "Mia", snap[1].ClientName())
	assert.Equal(t, "Zed", snap[2].ClientName())
}
