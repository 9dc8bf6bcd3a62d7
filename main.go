package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OliveiraNt/kafkaman/cmd"
	"github.com/OliveiraNt/kafkaman/internal/infrastructure/kafka"
	"github.com/OliveiraNt/kafkaman/internal/utils"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	utils.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, os.Args[1:], kafka.NewFactory(), os.Stdout)
	stop()

	os.Exit(code)
}
