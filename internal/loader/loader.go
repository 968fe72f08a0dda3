package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/FrankX3M/index-url/internal/model"
)

// ReadURLsFromCSV 读取输入CSV，返回全部数据行（含URL为空的行，由调用方统计跳过）
// 文件必须带表头，且包含 URL 列；列名先去除BOM和首尾空白再比较
func ReadURLsFromCSV(path string) ([]model.URLEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// 输入可能由Excel导出，带UTF-8 BOM；通过BOMOverride统一解码为UTF-8
	decoder := unicode.UTF8.NewDecoder()
	utf8Reader := transform.NewReader(file, unicode.BOMOverride(decoder))

	reader := csv.NewReader(utf8Reader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("输入文件为空，没有表头")
	}
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	// 定位URL列
	urlCol := -1
	cleaned := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.ReplaceAll(name, "\ufeff", ""))
		cleaned = append(cleaned, name)
		if name == "URL" {
			urlCol = i
		}
	}
	if urlCol == -1 {
		return nil, fmt.Errorf("输入文件缺少 URL 列，实际列: %v", cleaned)
	}

	var results []model.URLEntry
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取第%d行失败: %w", line+1, err)
		}

		line++
		url := ""
		if urlCol < len(record) {
			url = strings.TrimSpace(record[urlCol])
		}
		results = append(results, model.URLEntry{
			Line: line,
			URL:  url,
		})
	}

	return results, nil
}
