package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/quizmaker/tg-client/internal/app"
)

func main() {
	configPath := flag.String("config", "configs/values_example.yaml", "путь к файлу конфигурации")
	flag.Parse()

	application, err := app.NewApp(*configPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации приложения: %v", err)
	}

	if err := application.ListenAndServeTelegram(); err != nil {
		log.Fatalf("Не удалось запустить бота: %v", err)
	}
	log.Println("Бот запущен")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Останавливаем бота...")
	application.Stop()
}
