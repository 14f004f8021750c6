package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"Civitas/internal/city/domain"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Option 调整一次加载的行为。
type Option func(*loadOptions)

type loadOptions struct {
	watch    bool
	onChange func(error)
	envKey   string
}

// WithWatch 配置文件变更时重新解码到同一个 out，结果通过 onChange 回报。
func WithWatch(onChange func(error)) Option {
	return func(o *loadOptions) {
		o.watch = true
		o.onChange = onChange
	}
}

// WithEnvPrefix 允许 PREFIX_SECTION_KEY 形式的环境变量覆盖配置。
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envKey = prefix
	}
}

var reloadMu sync.Mutex

// Load 读取 cfgName（yaml/json，按扩展名识别）并解码到 out。
func Load(cfgName string, out any, opts ...Option) (*viper.Viper, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	path, err := ResolvePath(cfgName)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	if o.envKey != "" {
		v.SetEnvPrefix(o.envKey)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decode(v, out); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if o.watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			reloadMu.Lock()
			err := decode(v, out)
			reloadMu.Unlock()
			if o.onChange != nil {
				o.onChange(err)
			}
		})
		v.WatchConfig()
	}
	return v, nil
}

func decode(v *viper.Viper, out any) error {
	return v.Unmarshal(out, viper.DecodeHook(DecodeHook()))
}

// DecodeHook 字符串到 time.Duration / 逗号分隔切片 / FocusType 的转换。
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		focusTypeHook,
	)
}

func focusTypeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(domain.FocusType(0)) {
		return data, nil
	}
	return domain.ParseFocusType(data.(string))
}
