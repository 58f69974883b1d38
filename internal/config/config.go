package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath 預設設定檔位置
const DefaultPath = "config/config.yaml"

// 帳本引擎
const (
	// EngineMutex Level 1: RWMutex 保護
	EngineMutex = "mutex"
	// EngineLMAX Level 2: 單一 goroutine 依序處理
	EngineLMAX = "lmax"
)

type Config struct {
	Ledger  LedgerConfig  `yaml:"ledger"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
}

type LedgerConfig struct {
	Engine    string   `yaml:"engine"`     // "mutex" 或 "lmax"
	QueueSize int      `yaml:"queue_size"` // lmax 輸送帶緩衝
	Customers []string `yaml:"customers"`  // 啟動時預先開戶
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type SessionConfig struct {
	// Timeout console session 的總時限，0 表示不限
	Timeout time.Duration `yaml:"timeout"`
}

// Load 載入設定
//
// 順序: .env (若存在) -> yaml 設定檔 (若存在) -> 環境變數覆寫 -> 補全預設值
//
// 參數:
//
//	path: 設定檔路徑，空字串時使用 CONFIG_PATH 或 DefaultPath
//
// 回傳:
//
//	Config: 設定
//	error: 讀檔、解析或驗證錯誤
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// 沒有設定檔就全用預設值
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv 環境變數覆寫
func (c *Config) applyEnv() error {
	if v := os.Getenv("LEDGER_ENGINE"); v != "" {
		c.Ledger.Engine = v
	}
	if v := os.Getenv("LEDGER_QUEUE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEDGER_QUEUE_SIZE: %w", err)
		}
		c.Ledger.QueueSize = n
	}
	if v := os.Getenv("GRPC_ADDR"); v != "" {
		c.GRPC.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SESSION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TIMEOUT: %w", err)
		}
		c.Session.Timeout = d
	}
	return nil
}

// applyDefaults 補全預設配置 (如果 yaml 沒寫)
func (c *Config) applyDefaults() {
	if c.Ledger.Engine == "" {
		c.Ledger.Engine = EngineMutex
	}
	if c.Ledger.QueueSize == 0 {
		c.Ledger.QueueSize = 1000
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Ledger.Engine {
	case EngineMutex, EngineLMAX:
	default:
		return fmt.Errorf("unknown ledger engine %q", c.Ledger.Engine)
	}
	if c.Ledger.QueueSize < 0 {
		return fmt.Errorf("ledger queue_size must not be negative: %d", c.Ledger.QueueSize)
	}
	if c.Session.Timeout < 0 {
		return fmt.Errorf("session timeout must not be negative: %s", c.Session.Timeout)
	}
	return nil
}
