package sheet

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/config"
	"github.com/hotspotsyncpro/hotspotsyncpro/pkg/logger"
)

// Client Google Sheets 传输层：读区间、写单格。
// 数据区下标到表格 A1 坐标的换算由这里统一处理。
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	colOffset     int
	rowOffset     int
}

// NewClient 用服务账号凭据创建 Sheets 客户端
func NewClient(ctx context.Context, cfg config.SheetConfig) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		colOffset:     cfg.ColOffset,
		rowOffset:     cfg.RowOffset,
	}, nil
}

// GetRange 读取一个 A1 区间，单元格统一转为字符串
func (c *Client) GetRange(ctx context.Context, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get range %s: %w", rng, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

// SetCell 写回数据区内 (col, row) 下标处的单元格。
// 下标加上配置的偏移换算为表格坐标（数据区 C2 起始即偏移 2/2）。
func (c *Client) SetCell(ctx context.Context, col, row int, value string) error {
	cell := fmt.Sprintf("%s!%s%d", c.worksheet, ColumnLetter(col+c.colOffset), row+c.rowOffset)
	body := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cell, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update cell %s: %w", cell, err)
	}
	logger.Debugf("cell %s updated to %q", cell, value)
	return nil
}

// ColumnLetter 把 0 起的列下标转为表格列字母（0→A、25→Z、26→AA）
func ColumnLetter(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
	}
	return result
}
