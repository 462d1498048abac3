package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rushteam/nextbuy/core"
)

// EnvPrefix 是环境变量前缀，例如 NEXTBUY_REDIS_ADDR。
const EnvPrefix = "NEXTBUY"

// App 是命令行程序的运行配置。来源优先级：flag > 环境变量 > 配置文件 > 默认值。
type App struct {
	// Orders 是订单数据路径：.csv 文件或 SQLite 数据库（.db/.sqlite）
	Orders string `mapstructure:"orders"`

	// SQLiteQuery 从 SQLite 读取订单的查询，需返回 (customer, items_text) 两列
	SQLiteQuery string `mapstructure:"sqlite_query"`

	// Output 输出路径，"-" 表示标准输出
	Output string `mapstructure:"output"`

	// Format 输出格式：csv / xlsx / none
	Format string `mapstructure:"format"`

	// Pipeline 可选的 Pipeline YAML/JSON 配置；为空使用默认 Pipeline
	Pipeline string `mapstructure:"pipeline"`

	Workers      int  `mapstructure:"workers"`
	Alternatives int  `mapstructure:"alternatives"`
	LeaveOneOut  bool `mapstructure:"leave_one_out"`

	Redis Redis `mapstructure:"redis"`
	Log   Log   `mapstructure:"log"`
}

// Redis 是结果发布相关配置；Addr 为空时不连接 Redis。
type Redis struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	Prefix       string `mapstructure:"prefix"`
	TTL          int    `mapstructure:"ttl"`
	PublishIndex bool   `mapstructure:"publish_index"`
	BlacklistKey string `mapstructure:"blacklist_key"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults 写入默认值。
func SetDefaults(v *viper.Viper) {
	rc := &core.DefaultRecallConfig{}
	v.SetDefault("orders", "pedidos.csv")
	v.SetDefault("sqlite_query", "")
	v.SetDefault("output", "recomendacoes.csv")
	v.SetDefault("format", "csv")
	v.SetDefault("pipeline", "")
	v.SetDefault("workers", rc.DefaultWorkers())
	v.SetDefault("alternatives", rc.DefaultAlternatives())
	v.SetDefault("leave_one_out", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "nextbuy")
	v.SetDefault("redis.ttl", 0)
	v.SetDefault("redis.publish_index", false)
	v.SetDefault("redis.blacklist_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// NewViper 创建带默认值与环境变量绑定的 viper 实例。
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadApp 读取可选配置文件并解析为 App。
func LoadApp(v *viper.Viper, file string) (App, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return App{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return App{}, fmt.Errorf("decode config: %w", err)
	}
	if err := app.Validate(); err != nil {
		return App{}, err
	}
	return app, nil
}

// Validate 校验配置取值。
func (a App) Validate() error {
	var problems []string
	if strings.TrimSpace(a.Orders) == "" {
		problems = append(problems, "orders is required")
	}
	switch a.Format {
	case "csv", "xlsx", "none":
	default:
		problems = append(problems, fmt.Sprintf("format must be csv, xlsx or none, got %q", a.Format))
	}
	if a.Format == "xlsx" && a.Output == "-" {
		problems = append(problems, "xlsx output cannot be written to stdout")
	}
	if a.Workers < 1 {
		problems = append(problems, fmt.Sprintf("workers must be >= 1, got %d", a.Workers))
	}
	if a.Alternatives < 1 || a.Alternatives > core.MaxAlternatives {
		problems = append(problems, fmt.Sprintf("alternatives must be in [1, %d], got %d", core.MaxAlternatives, a.Alternatives))
	}
	if a.Redis.TTL < 0 {
		problems = append(problems, "redis.ttl must be >= 0")
	}
	if len(problems) > 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "invalid config: "+strings.Join(problems, "; "))
	}
	return nil
}
