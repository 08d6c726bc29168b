package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const FileName = "config.json"

var ErrNotFound = errors.New("config.json not found")

// Config 各个二进制共用；命令行参数可以再覆盖
type Config struct {
	Addr     string `json:"addr"`
	WebDir   string `json:"web_dir"`
	LogLevel string `json:"log_level"`

	EngineDepth  int `json:"engine_depth"`
	EngineTimeMs int `json:"engine_time_ms"`

	MCTSSimulations int `json:"mcts_simulations"`
	MCTSTimeMs      int `json:"mcts_time_ms"`
	MCTSThreads     int `json:"mcts_threads"`

	// 多久没动的对局会被清理，0 表示不清理
	GameIdleMinutes int `json:"game_idle_minutes"`
}

func Default() Config {
	return Config{
		Addr:            ":2888",
		WebDir:          "./web",
		LogLevel:        "info",
		EngineDepth:     4,
		EngineTimeMs:    3000,
		MCTSSimulations: 800,
		MCTSTimeMs:      5000,
		MCTSThreads:     4,
		GameIdleMinutes: 120,
	}
}

func (c Config) EngineTime() time.Duration {
	return time.Duration(c.EngineTimeMs) * time.Millisecond
}

func (c Config) MCTSTime() time.Duration {
	return time.Duration(c.MCTSTimeMs) * time.Millisecond
}

func (c Config) GameIdle() time.Duration {
	return time.Duration(c.GameIdleMinutes) * time.Minute
}

// Level 解析失败时退回 info
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// FindConfigPath 从 dir 往上逐级找 config.json，返回文件路径和所在目录
func FindConfigPath(dir string) (string, string, error) {
	start := dir
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", fmt.Errorf("%w from %s", ErrNotFound, start)
}

// LoadConfig 文件里没写的字段保持默认值
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	// WebDir 相对路径按配置文件所在目录解释
	if cfg.WebDir != "" && !filepath.IsAbs(cfg.WebDir) {
		cfg.WebDir = filepath.Join(filepath.Dir(path), cfg.WebDir)
	}
	return cfg, nil
}

// Discover 从当前目录找配置，找不到就用默认值
func Discover() (Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Default(), "", err
	}
	path, _, err := FindConfigPath(cwd)
	if errors.Is(err, ErrNotFound) {
		return Default(), "", nil
	}
	if err != nil {
		return Default(), "", err
	}
	cfg, err := LoadConfig(path)
	return cfg, path, err
}
