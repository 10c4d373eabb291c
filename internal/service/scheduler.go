package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// schedulePolicy 设备定时任务所需的权限集合
const schedulePolicy = "ftp,reboot,read,write,policy,test,password,sniff,sensitive,romon"

// scheduleInterval 为空间隔表示只触发一次
const scheduleInterval = "00:00:00"

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ScheduleManager 设备侧定时断网任务管理。
// 任务名即客户名，一个客户至多一个在途任务：已有任务先删再建，绝不重复。
type ScheduleManager struct {
	device    DeviceAPI
	startTime string
	// now 可注入，测试里固定"今天"
	now func() time.Time
}

// NewScheduleManager 创建定时任务管理器。startTime 为任务触发时刻（HH:MM:SS）。
func NewScheduleManager(device DeviceAPI, startTime string) *ScheduleManager {
	if strings.TrimSpace(startTime) == "" {
		startTime = "23:59:00"
	}
	return &ScheduleManager{device: device, startTime: startTime, now: time.Now}
}

// ScheduleBlock 在 blockDate（D-M-YYYY）当天定时把该 MAC 的绑定置为封禁。
// 日期必须严格晚于今天（只比日期不比时间），否则返回 ErrScheduleRejected。
// 只创建任务，不改变绑定当前状态。
func (s *ScheduleManager) ScheduleBlock(clientName, mac, blockDate string) error {
	day, month, year, err := parseBlockDate(blockDate)
	if err != nil {
		return err
	}

	target := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	today := s.now()
	todayOnly := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	if !target.After(todayOnly) {
		return fmt.Errorf("%w: %s is not after today", ErrScheduleRejected, blockDate)
	}

	// 同名任务先删：替换而不是叠加
	existing, err := s.device.ListSchedules()
	if err != nil {
		return transportErr("list schedules", err)
	}
	for _, job := range existing {
		if job.Name != clientName {
			continue
		}
		logger.Infof("replacing existing schedule for client %q", clientName)
		if err := s.device.RemoveSchedule(job.ID); err != nil {
			return transportErr("remove schedule", err)
		}
	}

	job := model.Schedule{
		Name:      clientName,
		StartDate: formatStartDate(day, month, year),
		StartTime: s.startTime,
		Interval:  scheduleInterval,
		OnEvent:   blockScript(mac),
		Policy:    schedulePolicy,
	}
	if err := s.device.AddSchedule(job); err != nil {
		return transportErr("add schedule", err)
	}

	logger.Infof("scheduled block for client %q on %s at %s", clientName, job.StartDate, s.startTime)
	return nil
}

// parseBlockDate 解析 D-M-YYYY / DD-MM-YYYY。只校验数值与粗粒度范围，
// 不校验每月实际天数（31-2 会通过，交由设备端处理）。
func parseBlockDate(blockDate string) (day, month, year int, err error) {
	parts := strings.Split(strings.TrimSpace(blockDate), "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: date %q is not D-M-YYYY", ErrInvalidInput, blockDate)
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) < 1 || len(parts[1]) > 2 || len(parts[2]) != 4 {
		return 0, 0, 0, fmt.Errorf("%w: date %q is not D-M-YYYY", ErrInvalidInput, blockDate)
	}
	day, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: date %q is not numeric", ErrInvalidInput, blockDate)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: date %q is not numeric", ErrInvalidInput, blockDate)
	}
	year, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: date %q is not numeric", ErrInvalidInput, blockDate)
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("%w: date %q out of range", ErrInvalidInput, blockDate)
	}
	return day, month, year, nil
}

// ValidateBlockDate 行级预校验（引擎在定日期前调用）
func ValidateBlockDate(blockDate string) error {
	_, _, _, err := parseBlockDate(blockDate)
	return err
}

// formatStartDate 转为设备要求的 MMM/DD/YYYY 格式
func formatStartDate(day, month, year int) string {
	return fmt.Sprintf("%s/%02d/%04d", monthNames[month-1], day, year)
}

// blockScript 触发时执行的设备脚本：按 MAC 找到放行中的绑定并置为封禁
func blockScript(mac string) string {
	return fmt.Sprintf(`# Assign the user's MAC address to a variable
:local targetMac "%s"

# Find the entry in IP Binding list based on the MAC address
:foreach i in=[/ip hotspot ip-binding find where mac-address=$targetMac and type="bypassed"] do={
    # Change the type to "blocked"
    /ip hotspot ip-binding set $i type=blocked
}

# Log the operation in the system log
:log info "MAC Address $targetMac has been changed to blocked"`, mac)
}
