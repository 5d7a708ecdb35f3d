package main

import (
	"flag"
	"log"

	"github.com/Vital7472/beauty-salon-bot/internal/config"
	"github.com/Vital7472/beauty-salon-bot/internal/database"
	"github.com/Vital7472/beauty-salon-bot/internal/logger"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Путь к файлу конфигурации")
	rollback := flag.Bool("rollback", false, "Откатить последнюю миграцию")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Ошибка создания логгера: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewConnection(cfg.Database, zapLogger)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	if *rollback {
		if err := database.Rollback(db, zapLogger); err != nil {
			log.Fatalf("Ошибка отката миграции: %v", err)
		}
		return
	}

	if err := database.Migrate(db, zapLogger); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}
}
