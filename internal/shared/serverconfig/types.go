package serverconfig

import (
	"time"

	"Civitas/internal/city/citizens"
)

type Config struct {
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	HTTPServer  HTTPServerConfig  `yaml:"httpserver" mapstructure:"httpserver"`
	Persistence PersistenceConfig `yaml:"persistence" mapstructure:"persistence" validate:"required"`
	MongoDB     MongoDBConfig     `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL       MySQLConfig       `yaml:"mysql" mapstructure:"mysql"`
	Turn        TurnConfig        `yaml:"turn" mapstructure:"turn"`
	Allocation  citizens.Tuning   `yaml:"allocation" mapstructure:"allocation"`
	Logic       LogicConfig       `yaml:"logic" mapstructure:"logic"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size" validate:"min=0"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age" validate:"min=0"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port" validate:"min=0,max=65535"`
}

const (
	DriverMemory  = "memory"
	DriverMongoDB = "mongodb"
	DriverMySQL   = "mysql"
)

type PersistenceConfig struct {
	Driver     string        `yaml:"driver" mapstructure:"driver" validate:"required,oneof=memory mongodb mysql"`
	FlushEvery time.Duration `yaml:"flush_every" mapstructure:"flush_every" validate:"min=0"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri" validate:"required_if=Enabled true"`
	Database        string `yaml:"database" mapstructure:"database" validate:"required_if=Enabled true"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s" validate:"min=0"`
	Enabled         bool   `yaml:"-" mapstructure:"-"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host" validate:"required_if=Enabled true"`
	Port     int    `yaml:"port" mapstructure:"port" validate:"min=0,max=65535"`
	User     string `yaml:"user" mapstructure:"user" validate:"required_if=Enabled true"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname" validate:"required_if=Enabled true"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle" validate:"min=0"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn" validate:"min=0"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
	Enabled  bool   `yaml:"-" mapstructure:"-"`
}

// TurnConfig 回合驱动：Interval 为 0 时不自动推进，只能通过 HTTP 手动推进。
type TurnConfig struct {
	Interval   time.Duration `yaml:"interval" mapstructure:"interval" validate:"min=0"`
	AskTimeout time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout" validate:"min=0"`
	MaxTurns   int           `yaml:"max_turns" mapstructure:"max_turns" validate:"min=0"`
}

type LogicConfig struct {
	Scenario string `yaml:"scenario" mapstructure:"scenario" validate:"required"`
	Catalog  string `yaml:"catalog" mapstructure:"catalog"`
}
