package model

import "strings"

// CommandKind 指令类型（状态单元格中识别出的操作）
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandCut              // CUT：立即封禁
	CommandNotPay           // NOT PAY：恢复放行并标记等待缴费
	CommandLimit            // LIMIT=<label>：定时封禁
	CommandNew              // NEW=<label>：新建客户绑定
	CommandUpdateMac        // UPD-MAC=<label>：更换 MAC
	CommandActivate         // ACTIVATE=<label>：恢复放行
	CommandRenameName       // RE=NAME：改备注姓名段
	CommandRenamePhone      // RE=NUMBER：改备注电话段
)

// Command 一条从状态单元格解析出的指令
type Command struct {
	Kind CommandKind
	// ResultLabel 带 = 后缀指令的成功回写标签（原样保留大小写）
	ResultLabel string
}

// 回写状态标签。状态单元格同时承担指令语法与结果展示两种角色，
// 这里只定义结果侧；指令语法见 ParseCommand。
const (
	StatusBlock          = "BLOCK"
	StatusWaiting        = "Waiting"
	StatusOldDate        = "Old-Date"
	StatusNotPay         = "Not Pay"
	StatusNoMac          = "NO-MAC"
	StatusAlreadyExists  = "Already-Exists"
	StatusIPNotFound     = "IP-Not-Found"
	StatusWrongMac       = "Wrong-MAC"
	StatusDeleteFailed   = "Delete-Failed"
	StatusClientNotFound = "Client-Not-Found"
	StatusNoComment      = "No-Comment"
	StatusUpdateFailed   = "Update-Failed"
	StatusNoNotesCol     = "NO-NOTES-COL"
	StatusNoName         = "NO-NAME"
	StatusNoPhone        = "NO-PHONE"
)

// ParseCommand 将状态单元格文本归类为指令。匹配不区分大小写，按固定
// 优先级先到先得；不认识的文本视为无指令（整行跳过，不回写）。
func ParseCommand(statusText string) (Command, bool) {
	raw := strings.TrimSpace(statusText)
	status := strings.ToUpper(raw)
	switch {
	case status == "CUT":
		return Command{Kind: CommandCut}, true
	case status == "NOT PAY":
		return Command{Kind: CommandNotPay}, true
	case strings.HasPrefix(status, "LIMIT="):
		return Command{Kind: CommandLimit, ResultLabel: labelAfterEquals(raw)}, true
	case strings.HasPrefix(status, "NEW="):
		return Command{Kind: CommandNew, ResultLabel: labelAfterEquals(raw)}, true
	case strings.HasPrefix(status, "UPD-MAC="):
		return Command{Kind: CommandUpdateMac, ResultLabel: labelAfterEquals(raw)}, true
	case strings.HasPrefix(status, "ACTIVATE="):
		return Command{Kind: CommandActivate, ResultLabel: labelAfterEquals(raw)}, true
	case strings.HasPrefix(status, "RE=NAME"):
		return Command{Kind: CommandRenameName}, true
	case strings.HasPrefix(status, "RE=NUMBER"):
		return Command{Kind: CommandRenamePhone}, true
	}
	return Command{}, false
}

// DisplayLabel 把成功回写标签转换为展示形式（NOT-PAY 别名为 Not Pay）
func DisplayLabel(resultLabel string) string {
	if strings.EqualFold(resultLabel, "NOT-PAY") {
		return StatusNotPay
	}
	return resultLabel
}

// labelAfterEquals 取 = 之后的原始文本作为回写标签
func labelAfterEquals(statusText string) string {
	if idx := strings.Index(statusText, "="); idx >= 0 {
		return statusText[idx+1:]
	}
	return ""
}
