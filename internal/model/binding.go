package model

import "strings"

// Binding 类型枚举（RouterOS hotspot ip-binding 的 type 字段）
const (
	BindingTypeBypassed = "bypassed" // 放行（客户可上网）
	BindingTypeBlocked  = "blocked"  // 封禁
)

// UnauthorizedMarker 未授权占位记录的备注前缀，带此前缀的绑定可直接清理
const UnauthorizedMarker = "ZZZZ=Blocked unauthorized"

// commentSeparator 备注中姓名与电话的分隔符（空格后跟 @）
const commentSeparator = " @"

// Binding 设备侧的 hotspot ip-binding 记录
type Binding struct {
	ID         string `json:"id"`
	MacAddress string `json:"mac_address"`
	Address    string `json:"address,omitempty"`
	Type       string `json:"type"`
	Comment    string `json:"comment"`
}

// IsBlocked 是否处于封禁状态
func (b Binding) IsBlocked() bool {
	return b.Type == BindingTypeBlocked
}

// IsActive 是否处于放行状态
func (b Binding) IsActive() bool {
	return b.Type == BindingTypeBypassed
}

// ClientName 备注中的客户姓名（分隔符之前的部分；无分隔符时为整条备注）
func (b Binding) ClientName() string {
	return CommentName(b.Comment)
}

// ClientPhone 备注中的电话（分隔符之后的部分；无分隔符时为空）
func (b Binding) ClientPhone() string {
	return CommentPhone(b.Comment)
}

// IsUnauthorized 是否为未授权占位记录
func (b Binding) IsUnauthorized() bool {
	return IsUnauthorizedComment(b.Comment)
}

// CommentName 提取备注中的姓名部分
func CommentName(comment string) string {
	name, _, _ := SplitComment(comment)
	return strings.TrimSpace(name)
}

// CommentPhone 提取备注中的电话部分
func CommentPhone(comment string) string {
	_, phone, ok := SplitComment(comment)
	if !ok {
		return ""
	}
	return strings.TrimSpace(phone)
}

// JoinComment 以规范分隔符拼接姓名与电话；电话为空时仅保留姓名
func JoinComment(name, phone string) string {
	if phone == "" {
		return name
	}
	return name + commentSeparator + phone
}

// IsUnauthorizedComment 备注是否带未授权占位前缀
func IsUnauthorizedComment(comment string) bool {
	if comment == "" {
		return false
	}
	return strings.HasPrefix(comment, UnauthorizedMarker)
}

// SplitComment 按 " @" 切分备注并原样返回两段，供改名/改号时逐字节保留
// 另一半使用；找不到时回退到裸 "@"（历史数据兼容）
func SplitComment(comment string) (name, phone string, found bool) {
	if idx := strings.Index(comment, commentSeparator); idx >= 0 {
		return comment[:idx], comment[idx+len(commentSeparator):], true
	}
	if idx := strings.Index(comment, "@"); idx >= 0 {
		return comment[:idx], comment[idx+1:], true
	}
	return comment, "", false
}

// Lease IP 到 MAC 的映射记录（DHCP lease 与 ARP 表共用此形态）
type Lease struct {
	Address    string `json:"address"`
	MacAddress string `json:"mac_address"`
}

// Schedule 设备侧定时任务（system scheduler 条目）
type Schedule struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	Interval  string `json:"interval"`
	OnEvent   string `json:"on_event"`
	Policy    string `json:"policy"`
}
