package runner

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/FrankX3M/index-url/internal/config"
	"github.com/FrankX3M/index-url/internal/exporter"
	"github.com/FrankX3M/index-url/internal/google"
	"github.com/FrankX3M/index-url/internal/loader"
	"github.com/FrankX3M/index-url/internal/model"
	"github.com/FrankX3M/index-url/internal/yandex"
)

// YandexAPI 是Yandex客户端在编排器侧的接口，测试时可替换
type YandexAPI interface {
	UserID() (int64, error)
	SubmitRecrawl(userID int64, hostID, rawURL string) model.SubmissionOutcome
}

// GoogleAPI 是Google客户端在编排器侧的接口
type GoogleAPI interface {
	Publish(rawURL, action string) model.SubmissionOutcome
}

// Runner 按输入顺序逐个URL驱动两个搜索引擎的提交
type Runner struct {
	cfg    *config.Config
	yandex YandexAPI
	google GoogleAPI

	// Sleep 每个URL处理完后的等待函数，测试时替换为空实现
	Sleep func(time.Duration)
}

// Summary 一次运行的统计结果
type Summary struct {
	Total     int // 输入数据行总数
	Processed int // 实际提交的URL数
	Skipped   int // URL为空被跳过的行数
}

// New 创建编排器
func New(cfg *config.Config, yandexClient YandexAPI, googleClient GoogleAPI) *Runner {
	return &Runner{
		cfg:    cfg,
		yandex: yandexClient,
		google: googleClient,
		Sleep:  time.Sleep,
	}
}

// Run 执行完整流程：解析标识 -> 读取输入 -> 逐URL提交 -> 写出结果
// 标识解析和输入读取阶段的错误是致命的，此时不会产生任何输出文件
func (r *Runner) Run() (Summary, error) {
	var summary Summary

	// 先解析Yandex所需的host_id和user_id，任何一步失败整个运行中止
	hostID, err := yandex.BuildHostID(r.cfg.Yandex.SiteURL)
	if err != nil {
		return summary, fmt.Errorf("构造host_id失败: %w", err)
	}
	fmt.Printf("[*] host_id: %s\n", hostID)

	userID, err := r.yandex.UserID()
	if err != nil {
		return summary, fmt.Errorf("获取user_id失败: %w", err)
	}
	fmt.Printf("[*] user_id: %d\n", userID)

	// 校验输入文件
	if _, err := os.Stat(r.cfg.Input.URLFile); err != nil {
		return summary, fmt.Errorf("输入文件不可用 %s: %w", r.cfg.Input.URLFile, err)
	}

	entries, err := loader.ReadURLsFromCSV(r.cfg.Input.URLFile)
	if err != nil {
		return summary, fmt.Errorf("读取输入文件失败: %w", err)
	}
	summary.Total = len(entries)
	fmt.Printf("[*] 共加载数据行: %d 条\n", summary.Total)

	interval := time.Duration(r.cfg.Query.IntervalSeconds) * time.Second
	results := make([]model.ResultRow, 0, len(entries))

	for _, entry := range entries {
		if entry.URL == "" {
			log.Printf("[!] 第%d行URL为空，跳过", entry.Line)
			summary.Skipped++
			continue
		}

		fmt.Printf("[*] 处理URL [%d/%d]: %s\n", summary.Processed+1, summary.Total, entry.URL)

		// 两个引擎顺序提交，Yandex失败不影响Google
		yandexOutcome := r.yandex.SubmitRecrawl(userID, hostID, entry.URL)
		googleOutcome := r.google.Publish(entry.URL, google.ActionURLUpdated)

		results = append(results, model.ResultRow{
			URL:    entry.URL,
			Yandex: yandexOutcome,
			Google: googleOutcome,
		})
		summary.Processed++

		fmt.Printf("[*] 结果: Yandex - %s, Google - %s\n", yandexOutcome.Status, googleOutcome.Status)

		// 每轮提交后sleep，避免触发API限流
		r.Sleep(interval)
	}

	if err := exporter.WriteResults(r.cfg.Output.ResultFile, results); err != nil {
		return summary, fmt.Errorf("写出结果文件失败: %w", err)
	}
	fmt.Printf("[*] 结果已写入: %s\n", r.cfg.Output.ResultFile)

	return summary, nil
}
