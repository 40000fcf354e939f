// Package viper 对 spf13/viper 做薄封装，提供配置文件加载与反序列化。
package viper

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	spfviper "github.com/spf13/viper"
)

// Config 持有一个 spf13/viper 实例，对外只暴露 YAML/JSON 配置的
// 加载与反序列化能力。
type Config struct {
	v *spfviper.Viper
}

// New 创建一个空的 Config，使用前需通过 LoadFile 加载配置文件。
func New() *Config {
	return &Config{
		v: spfviper.New(),
	}
}

// LoadFile 加载 YAML 或 JSON 配置文件。
// 文件类型按扩展名（.yaml/.yml/.json）推断，未知扩展名交由 viper 自行判断。
func (c *Config) LoadFile(path string) error {
	if c.v == nil {
		c.v = spfviper.New()
	}

	c.v.SetConfigFile(path)

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		c.v.SetConfigType("yaml")
	case ".json":
		c.v.SetConfigType("json")
	}

	if err := c.v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "load config file %s", path)
	}
	return nil
}

// Unmarshal 将完整配置反序列化到 dst，dst 应为结构体或 map 的指针。
// 尚未加载任何配置时不做任何事。
func (c *Config) Unmarshal(dst interface{}) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(dst)
}

// UnmarshalKey 将指定 key 的子配置反序列化到 dst。
func (c *Config) UnmarshalKey(key string, dst interface{}) error {
	if c.v == nil {
		return nil
	}
	return c.v.UnmarshalKey(key, dst)
}
