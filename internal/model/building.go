package model

import "strings"

// Building 表头中发现的一个楼栋分段：姓名、状态、备注三列相邻
type Building struct {
	Name      string `json:"name"`
	ClientCol int    `json:"client_col"`
	StatusCol int    `json:"status_col"`
	NotesCol  int    `json:"notes_col"`
}

// DiscoverBuildings 扫描表头行，每个非空单元格开启一个 3 列楼栋分段
func DiscoverBuildings(headerRow []string) []Building {
	var buildings []Building
	for col, cell := range headerRow {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		buildings = append(buildings, Building{
			Name:      name,
			ClientCol: col,
			StatusCol: col + 1,
			NotesCol:  col + 2,
		})
	}
	return buildings
}

// Row 一行待处理数据的上下文
type Row struct {
	ClientName string
	StatusText string
	NotesText  string
	// Index 数据区内的行下标（0 起），写回时再换算为表格行号
	Index    int
	Building Building
	// HasNotes 该行物理上是否包含备注列（短行可能缺列）
	HasNotes bool
}
