package serverconfig

import (
	"fmt"
	"time"

	"Civitas/internal/city/citizens"
	"Civitas/internal/shared/config"

	"github.com/go-playground/validator/v10"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf = Default()

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default 未出现在配置文件中的字段保持这里的值。
func Default() Config {
	return Config{
		Log:         LogConfig{Level: "info", MaxSize: 100, MaxBackups: 7, MaxAge: 7},
		HTTPServer:  HTTPServerConfig{Host: "127.0.0.1", Port: 8080},
		Persistence: PersistenceConfig{Driver: DriverMemory, FlushEvery: 3 * time.Second},
		MongoDB:     MongoDBConfig{ConnectTimeoutS: 3},
		MySQL:       MySQLConfig{Port: 3306, Charset: "utf8mb4", MaxIdle: 4, MaxConn: 16},
		Turn:        TurnConfig{AskTimeout: 3 * time.Second},
		Allocation:  citizens.DefaultTuning(),
	}
}

// Load 读取进程配置到 Conf；cfgName 为空时使用 configs/conf.yml。
// 环境变量 CIVITAS_<SECTION>_<KEY> 覆盖文件中的值。
// onReload 非 nil 时监听文件变更，校验通过的新配置交给 onReload，Conf 本身不再改动。
func Load(cfgName string, onReload func(Config)) error {
	if cfgName == "" {
		cfgName = defaultConfigRelPath
	}
	conf := Default()
	opts := []config.Option{config.WithEnvPrefix("CIVITAS")}
	if onReload != nil {
		opts = append(opts, config.WithWatch(func(err error) {
			if err != nil {
				return
			}
			next := conf
			if Validate(&next) == nil {
				onReload(next)
			}
		}))
	}
	if _, err := config.Load(cfgName, &conf, opts...); err != nil {
		return err
	}
	if err := Validate(&conf); err != nil {
		return err
	}
	Conf = conf
	return nil
}

// Validate 校验配置；所选存储驱动对应的连接段变为必填。
func Validate(c *Config) error {
	c.MongoDB.Enabled = c.Persistence.Driver == DriverMongoDB
	c.MySQL.Enabled = c.Persistence.Driver == DriverMySQL
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
