package service

import (
	"errors"
	"fmt"
)

// 错误分类。行级处理统一用 errors.Is 归类后映射为回写标签，
// 传输类故障一律不回写，等下个周期自然重试。
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidInput     = errors.New("invalid input")
	ErrScheduleRejected = errors.New("schedule rejected")
	ErrTransport        = errors.New("transport failure")
)

// 具体失败原因（各自挂在上面的分类下）
var (
	ErrClientNotFound = fmt.Errorf("%w: client", ErrNotFound)
	ErrIPNotFound     = fmt.Errorf("%w: no mac for ip", ErrNotFound)
	ErrAlreadyExists  = fmt.Errorf("%w: mac already bound", ErrConflict)
	ErrWrongMac       = fmt.Errorf("%w: mac address rejected by device", ErrInvalidInput)
	ErrNoComment      = fmt.Errorf("%w: binding has no comment", ErrInvalidInput)
	ErrDeleteFailed   = fmt.Errorf("%w: unauthorized binding delete failed", ErrTransport)
)

// transportErr 包装设备或表格调用失败
func transportErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}
