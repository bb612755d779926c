package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort       string `mapstructure:"SERVER_PORT"`
	RedisUrl         string `mapstructure:"REDIS_URL"`
	MongoUri         string `mapstructure:"MONGO_URI"`
	MongoDatabase    string `mapstructure:"MONGO_DATABASE"`
	IsLocalCors      bool   `mapstructure:"LOCAL_CORS"`
	SessionTTLHours  int    `mapstructure:"SESSION_TTL_HOURS"`
	LobbyRoomName    string `mapstructure:"LOBBY_ROOM_NAME"`
	RoundStartHealth int    `mapstructure:"ROUND_START_HEALTH"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if cfg.LobbyRoomName == "" {
		cfg.LobbyRoomName = "lobby"
	}
	if cfg.SessionTTLHours == 0 {
		cfg.SessionTTLHours = 11
	}
	if cfg.RoundStartHealth == 0 {
		cfg.RoundStartHealth = 100
	}

	return &cfg, nil
}
