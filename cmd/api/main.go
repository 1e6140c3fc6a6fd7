package main

import (
	"flag"
	"fmt"

	"ForumHub/internal/config"
	"ForumHub/internal/model"
	"ForumHub/internal/pkg"
	"ForumHub/internal/repository/mysql"
	"ForumHub/internal/repository/redis"
	"ForumHub/internal/router"

	"go.uber.org/zap"
)

func main() {
	confPath := flag.String("conf", "config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		panic(err)
	}

	pkg.InitLogger(cfg.Server.Mode)
	defer pkg.SyncLogger()

	pkg.SetJWTSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		panic(err)
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.CommunityModerator{},
		&model.CommunityBan{},
		&model.CommunityModerationLog{},
		&model.Post{},
		&model.Comment{},
	)

	var producer *pkg.KafkaProducer
	if cfg.Kafka.Enabled {
		producer, err = pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		if err != nil {
			panic(err)
		}
		defer producer.Close()
	}

	// Gin
	r := router.InitRouter(cfg, producer)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkg.L().Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		pkg.L().Fatal("server exited", zap.Error(err))
	}
}
