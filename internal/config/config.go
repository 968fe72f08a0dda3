package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Yandex struct {
		APIToken string `yaml:"api_token"`
		SiteURL  string `yaml:"site_url"`
		APIBase  string `yaml:"api_base"`
	} `yaml:"yandex"`

	Google struct {
		ServiceAccountFile string `yaml:"service_account_file"`
		Endpoint           string `yaml:"endpoint"`
	} `yaml:"google"`

	Query struct {
		IntervalSeconds int `yaml:"interval_seconds"`
		TimeoutSeconds  int `yaml:"timeout_seconds"`
	} `yaml:"query"`

	Input struct {
		URLFile string `yaml:"url_file"`
	} `yaml:"input"`

	Output struct {
		ResultFile string `yaml:"result_file"`
	} `yaml:"output"`

	Log struct {
		File string `yaml:"file"`
	} `yaml:"log"`
}

const defaultYandexAPIBase = "https://api.webmaster.yandex.net/v4"
const defaultGoogleEndpoint = "https://indexing.googleapis.com/v3/urlNotifications:publish"

// LoadConfig 读取YAML配置文件并校验必填项
// Returns config, shouldExit, error
func LoadConfig(path string) (*Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// 配置文件不存在时生成默认配置，提示用户填写后退出
		if os.IsNotExist(err) {
			fmt.Printf("配置文件 %s 不存在，正在生成默认配置文件...\n", path)
			if err := generateDefaultConfig(path); err != nil {
				return nil, true, fmt.Errorf("生成默认配置文件失败: %w", err)
			}
			fmt.Printf("默认配置文件已生成: %s\n", path)
			fmt.Println("请编辑配置文件，填入Yandex API Token、站点URL和Google服务账号文件路径后重新运行程序。")
			return nil, true, nil
		}
		return nil, true, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, true, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, true, err
	}

	return &cfg, false, nil
}

// applyDefaults 填充可选项的默认值
func (c *Config) applyDefaults() {
	if c.Yandex.APIBase == "" {
		c.Yandex.APIBase = defaultYandexAPIBase
	}
	if c.Google.Endpoint == "" {
		c.Google.Endpoint = defaultGoogleEndpoint
	}
	if c.Query.IntervalSeconds <= 0 {
		c.Query.IntervalSeconds = 1
	}
	if c.Query.TimeoutSeconds < 0 {
		c.Query.TimeoutSeconds = 0
	}
	if c.Input.URLFile == "" {
		c.Input.URLFile = "urls.csv"
	}
	if c.Output.ResultFile == "" {
		c.Output.ResultFile = "results.csv"
	}
	if c.Log.File == "" {
		c.Log.File = "reindex.log"
	}
}

// Validate 校验必填配置项，任何一项缺失直接报错退出
func (c *Config) Validate() error {
	if c.Yandex.APIToken == "" {
		return fmt.Errorf("配置缺少 yandex.api_token")
	}
	if c.Yandex.SiteURL == "" {
		return fmt.Errorf("配置缺少 yandex.site_url")
	}
	if c.Google.ServiceAccountFile == "" {
		return fmt.Errorf("配置缺少 google.service_account_file")
	}
	if _, err := os.Stat(c.Google.ServiceAccountFile); err != nil {
		return fmt.Errorf("Google服务账号文件不可用 %s: %w", c.Google.ServiceAccountFile, err)
	}
	return nil
}

// generateDefaultConfig 生成带注释的默认配置文件
func generateDefaultConfig(path string) error {
	defaultConfigContent := `# config.yaml

# Yandex Webmaster API 配置
yandex:
  api_token: ""                      # Yandex OAuth Token（必填）
  site_url: ""                       # 已验证的站点URL，例如 https://example.com（必填）
  # api_base: ""                     # API地址，默认 https://api.webmaster.yandex.net/v4

# Google Indexing API 配置
google:
  service_account_file: ""           # 服务账号JSON文件路径（必填）
  # endpoint: ""                     # 默认 https://indexing.googleapis.com/v3/urlNotifications:publish

# 请求参数设置
query:
  interval_seconds: 1                # 每个URL处理完后的间隔时间（秒），防止触发API限流
  timeout_seconds: 30                # 单次HTTP请求超时（秒），0表示不限制

# 输入输出
input:
  url_file: "urls.csv"               # 输入CSV，必须包含 URL 列
output:
  result_file: "results.csv"         # 结果CSV，每次运行覆盖

# 日志
log:
  file: "reindex.log"                # 日志同时输出到该文件和控制台
`

	if err := os.WriteFile(path, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("写入默认配置文件失败: %w", err)
	}

	return nil
}
