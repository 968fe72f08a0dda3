package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/FrankX3M/index-url/internal/config"
	"github.com/FrankX3M/index-url/internal/google"
	"github.com/FrankX3M/index-url/internal/runner"
	"github.com/FrankX3M/index-url/internal/yandex"
)

func main() {
	// 1. 读取配置
	cfg, shouldExit, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	if shouldExit {
		fmt.Println("程序已退出，请配置好相关文件后重新运行。")
		os.Exit(0)
	}

	// 2. 日志同时输出到文件和控制台
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("打开日志文件失败: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))

	log.Println("启动URL重新索引流程")

	// 3. 初始化两个搜索引擎的客户端
	timeout := time.Duration(cfg.Query.TimeoutSeconds) * time.Second
	yandexClient := yandex.NewClient(cfg.Yandex.APIBase, cfg.Yandex.APIToken, timeout)

	googleClient, err := google.NewClient(cfg.Google.ServiceAccountFile, cfg.Google.Endpoint, timeout)
	if err != nil {
		log.Fatalf("初始化Google客户端失败: %v", err)
	}

	// 4. 执行批处理
	summary, err := runner.New(cfg, yandexClient, googleClient).Run()
	if err != nil {
		log.Fatalf("[!] %v", err)
	}

	log.Printf("处理完成。已提交URL: %d/%d，跳过空行: %d", summary.Processed, summary.Total, summary.Skipped)
	fmt.Println("[✔] 主流程执行完毕")
}
