package main

import (
	"fmt"
	"os"

	"tableorder-telegram/api"
	"tableorder-telegram/bot"
	"tableorder-telegram/config"
	"tableorder-telegram/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	kv, err := store.Open(cfg.Store.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "store:", err)
		os.Exit(1)
	}
	defer kv.Close()

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout)

	b, err := bot.New(cfg, client, kv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}

	fmt.Println("Bot started.")
	b.Start()
}
