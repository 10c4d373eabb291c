package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
)

func newScheduleFixture(device *fakeDevice) *ScheduleManager {
	s := NewScheduleManager(device, "23:59:00")
	// 固定"今天"为 2025-01-10
	s.now = func() time.Time {
		return time.Date(2025, 1, 10, 15, 30, 0, 0, time.Local)
	}
	return s
}

// TestScheduleBlockFutureDate 测试未来日期创建定时断网任务
func TestScheduleBlockFutureDate(t *testing.T) {
	device := &fakeDevice{}
	s := newScheduleFixture(device)

	require.NoError(t, s.ScheduleBlock("John Doe", "AA:BB:CC:DD:EE:01", "5-6-2026"))

	require.Len(t, device.schedules, 1)
	job := device.schedules[0]
	assert.Equal(t, "John Doe", job.Name, "任务名即客户名")
	assert.Equal(t, "Jun/05/2026", job.StartDate)
	assert.Equal(t, "23:59:00", job.StartTime)
	assert.Equal(t, "00:00:00", job.Interval)
	assert.Equal(t, schedulePolicy, job.Policy)
	assert.Contains(t, job.OnEvent, "AA:BB:CC:DD:EE:01")
	assert.Contains(t, job.OnEvent, `type="bypassed"`)
	assert.Contains(t, job.OnEvent, "type=blocked")
}

// TestScheduleBlockTomorrowAccepted 测试明天的日期被接受（只比日期不比时间）
func TestScheduleBlockTomorrowAccepted(t *testing.T) {
	device := &fakeDevice{}
	s := newScheduleFixture(device)

	assert.NoError(t, s.ScheduleBlock("John", "AA:BB:CC:DD:EE:01", "11-1-2025"))
}

// TestScheduleBlockTodayRejected 测试当天日期被拒绝
func TestScheduleBlockTodayRejected(t *testing.T) {
	device := &fakeDevice{}
	s := newScheduleFixture(device)

	err := s.ScheduleBlock("John", "AA:BB:CC:DD:EE:01", "10-1-2025")
	assert.ErrorIs(t, err, ErrScheduleRejected)
	assert.Empty(t, device.schedules)
}

// TestScheduleBlockPastRejected 测试过去日期被拒绝
func TestScheduleBlockPastRejected(t *testing.T) {
	device := &fakeDevice{}
	s := newScheduleFixture(device)

	err := s.ScheduleBlock("John", "AA:BB:CC:DD:EE:01", "1-6-2020")
	assert.ErrorIs(t, err, ErrScheduleRejected)
}

// TestScheduleBlockReplacesExisting 测试同名任务先删后建，不叠加
func TestScheduleBlockReplacesExisting(t *testing.T) {
	device := &fakeDevice{
		schedules: []model.Schedule{
			{ID: "*A", Name: "John Doe", StartDate: "Feb/01/2025"},
			{ID: "*B", Name: "Maria", StartDate: "Feb/01/2025"},
		},
	}
	s := newScheduleFixture(device)

	require.NoError(t, s.ScheduleBlock("John Doe", "AA:BB:CC:DD:EE:01", "5-6-2026"))

	assert.Equal(t, []string{"*A"}, device.removedSchedules, "只删同名任务")
	require.Len(t, device.schedules, 2)
	// Maria 的任务原样保留，John Doe 的是新建的
	names := []string{device.schedules[0].Name, device.schedules[1].Name}
	assert.Contains(t, names, "Maria")
	assert.Contains(t, names, "John Doe")
}

// TestParseBlockDate 测试 D-M-YYYY 日期校验
func TestParseBlockDate(t *testing.T) {
	// 合法：一位/两位的日与月
	assert.NoError(t, ValidateBlockDate("5-6-2026"))
	assert.NoError(t, ValidateBlockDate("05-06-2026"))
	assert.NoError(t, ValidateBlockDate("31-12-2026"))
	// 不校验每月实际天数
	assert.NoError(t, ValidateBlockDate("31-2-2026"))

	// 非法
	assert.ErrorIs(t, ValidateBlockDate("2026-06-05"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBlockDate("5/6/2026"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBlockDate("5-6-26"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBlockDate("32-6-2026"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBlockDate("5-13-2026"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBlockDate("0-6-2026"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBlockDate("abc-6-2026"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateBlockDate(""), ErrInvalidInput)
}

// TestFormatStartDate 测试设备日期格式 MMM/DD/YYYY
func TestFormatStartDate(t *testing.T) {
	assert.Equal(t, "Jan/01/2025", formatStartDate(1, 1, 2025))
	assert.Equal(t, "Dec/31/2026", formatStartDate(31, 12, 2026))
	assert.Equal(t, "Jun/05/2026", formatStartDate(5, 6, 2026))
}
