package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseCommandExactMatches 测试精确匹配指令
func TestParseCommandExactMatches(t *testing.T) {
	// CUT 指令
	cmd, ok := ParseCommand("CUT")
	assert.True(t, ok)
	assert.Equal(t, CommandCut, cmd.Kind)

	// 不区分大小写，前后空白容忍
	cmd, ok = ParseCommand("  cut  ")
	assert.True(t, ok)
	assert.Equal(t, CommandCut, cmd.Kind)

	// NOT PAY 指令（中间必须是单个空格）
	cmd, ok = ParseCommand("not pay")
	assert.True(t, ok)
	assert.Equal(t, CommandNotPay, cmd.Kind)

	_, ok = ParseCommand("NOTPAY")
	assert.False(t, ok, "缺空格不应识别为指令")
}

// TestParseCommandPrefixMatches 测试带 = 后缀的前缀指令
func TestParseCommandPrefixMatches(t *testing.T) {
	cases := []struct {
		status string
		kind   CommandKind
		label  string
	}{
		{"LIMIT=Limited", CommandLimit, "Limited"},
		{"limit=5GB", CommandLimit, "5GB"},
		{"NEW=Active", CommandNew, "Active"},
		{"new=NOT-PAY", CommandNew, "NOT-PAY"},
		{"UPD-MAC=Active", CommandUpdateMac, "Active"},
		{"ACTIVATE=Paid", CommandActivate, "Paid"},
	}
	for _, c := range cases {
		cmd, ok := ParseCommand(c.status)
		assert.True(t, ok, "应识别指令: %s", c.status)
		assert.Equal(t, c.kind, cmd.Kind, c.status)
		assert.Equal(t, c.label, cmd.ResultLabel, "标签应原样保留大小写: %s", c.status)
	}
}

// TestParseCommandRename 测试改名/改号指令
func TestParseCommandRename(t *testing.T) {
	cmd, ok := ParseCommand("RE=NAME")
	assert.True(t, ok)
	assert.Equal(t, CommandRenameName, cmd.Kind)

	cmd, ok = ParseCommand("re=number")
	assert.True(t, ok)
	assert.Equal(t, CommandRenamePhone, cmd.Kind)
}

// TestParseCommandPriority 测试固定优先级：RE=NAME 在 RE=NUMBER 之前判断
func TestParseCommandPriority(t *testing.T) {
	// RE=NAME 带尾巴依旧按前缀命中 RE=NAME
	cmd, ok := ParseCommand("RE=NAMEX")
	assert.True(t, ok)
	assert.Equal(t, CommandRenameName, cmd.Kind)
}

// TestParseCommandNonCommands 测试非指令文本整体跳过
func TestParseCommandNonCommands(t *testing.T) {
	for _, status := range []string{
		"", "   ", "Active", "BLOCK", "Waiting", "Old-Date",
		"Already-Exists", "paid", "LIMIT", "NEW", "UPD-MAC", "RANDOM TEXT",
	} {
		_, ok := ParseCommand(status)
		assert.False(t, ok, "不应识别为指令: %q", status)
	}
}

// TestParseCommandNotPayLabelReTriggers 测试 Not Pay 标签本身仍是指令
// （回写后下个周期会再次命中 NOT PAY，幂等地重写为 Waiting）
func TestParseCommandNotPayLabelReTriggers(t *testing.T) {
	cmd, ok := ParseCommand(StatusNotPay)
	assert.True(t, ok)
	assert.Equal(t, CommandNotPay, cmd.Kind)
}

// TestDisplayLabel 测试展示标签别名
func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Not Pay", DisplayLabel("NOT-PAY"))
	assert.Equal(t, "Not Pay", DisplayLabel("not-pay"))
	assert.Equal(t, "Active", DisplayLabel("Active"))
	assert.Equal(t, "", DisplayLabel(""))
}
