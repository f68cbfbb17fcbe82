package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// flagKeys 命令行参数名 -> 配置键
var flagKeys = map[string]string{
	"id":        "paapi.access_key",
	"secret":    "paapi.secret_key",
	"associate": "paapi.associate_tag",
	"country":   "paapi.country",
	"timeout":   "paapi.timeout",
	"serve":     "server.enabled",
	"port":      "server.port",
	"log-level": "logger.level",
}

// bindFlags 把 flags 中存在的参数绑定到对应的配置键，未知参数跳过
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
