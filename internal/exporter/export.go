package exporter

import (
	"encoding/csv"
	"os"

	"github.com/FrankX3M/index-url/internal/model"
)

// WriteResults 把结果行按顺序写入CSV，已存在的文件直接覆盖
func WriteResults(outputPath string, rows []model.ResultRow) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	// 写入UTF-8 BOM，确保Excel等软件能正确识别
	file.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// 写入表头
	writer.Write([]string{
		"URL", "Yandex_Status", "Yandex_Error", "Google_Status", "Google_Error",
	})

	for _, row := range rows {
		record := []string{
			row.URL,
			row.Yandex.Status.String(),
			row.Yandex.ErrorDetail,
			row.Google.Status.String(),
			row.Google.ErrorDetail,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
