package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Router RouterConfig `mapstructure:"router"`
	Sheet  SheetConfig  `mapstructure:"sheet"`
	Sync   SyncConfig   `mapstructure:"sync"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RouterConfig RouterOS 设备连接配置
type RouterConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// BlockTime 定时断网任务的触发时刻（设备侧 scheduler 的 start-time）
	BlockTime string `mapstructure:"block_time"`
}

// SheetConfig Google Sheets 表格配置
type SheetConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Worksheet       string `mapstructure:"worksheet"`
	HeaderRange     string `mapstructure:"header_range"`
	DataRange       string `mapstructure:"data_range"`
	// ColOffset/RowOffset 数据区左上角相对于表格 A1 的偏移（C2 起始即 2/2）
	ColOffset int `mapstructure:"col_offset"`
	RowOffset int `mapstructure:"row_offset"`
}

// SyncConfig 同步循环配置
type SyncConfig struct {
	// Interval 两次同步周期之间的固定等待时间
	Interval time.Duration `mapstructure:"interval"`
	// RunOnStart 服务启动后是否立即执行一次同步
	RunOnStart bool `mapstructure:"run_on_start"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

var globalConfig *Config

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	// 设置默认值
	setDefaults()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// 默认配置文件路径
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("../configs")
		viper.AddConfigPath("../../configs")
	}

	// 设置环境变量前缀
	viper.SetEnvPrefix("HOTSPOT_SYNC")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 环境变量替换
	config = replaceEnvVars(config)

	globalConfig = &config
	return &config, nil
}

func setDefaults() {
	// RouterOS API 默认端口与定时断网触发时刻
	viper.SetDefault("router.port", 8728)
	viper.SetDefault("router.block_time", "23:59:00")

	// 表格默认布局：Payment 工作表，表头 C1 起，数据区 C2:ZZ300
	viper.SetDefault("sheet.worksheet", "Payment")
	viper.SetDefault("sheet.header_range", "Payment!C1:ZZ1")
	viper.SetDefault("sheet.data_range", "Payment!C2:ZZ300")
	viper.SetDefault("sheet.col_offset", 2)
	viper.SetDefault("sheet.row_offset", 2)

	// 同步循环默认 2 分钟一轮，启动后立即执行一次
	viper.SetDefault("sync.interval", 2*time.Minute)
	viper.SetDefault("sync.run_on_start", true)

	// 日志默认级别为 info（可通过 log.level 覆盖为 debug/warn/error 等）
	viper.SetDefault("log.level", "info")
}

// Get 获取全局配置
func Get() *Config {
	return globalConfig
}

// replaceEnvVars 替换配置中的环境变量（${VAR} 形式的密钥项）
func replaceEnvVars(config Config) Config {
	config.Router.Password = expandEnv(config.Router.Password)
	config.Router.Username = expandEnv(config.Router.Username)
	config.Sheet.SpreadsheetID = expandEnv(config.Sheet.SpreadsheetID)
	return config
}

func expandEnv(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}")
		if v := os.Getenv(envVar); v != "" {
			return v
		}
	}
	return value
}

// GetServerAddr 获取服务器地址
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetRouterAddr 获取 RouterOS API 地址
func (c *Config) GetRouterAddr() string {
	return fmt.Sprintf("%s:%d", c.Router.Host, c.Router.Port)
}
