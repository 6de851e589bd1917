package main

import (
	"flag"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AlanRexcop/animal-chess/bot"
	"github.com/AlanRexcop/animal-chess/config"
)

var configPath = flag.String("config", "", "path to a yaml config file")

func main() {
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Str("nats-url", cfg.NatsURL).Str("channel", cfg.NatsChannel).
		Msg("starting bot")
	b := bot.NewBot(cfg)
	if err := bot.Main(cfg.NatsChannel, b); err != nil {
		log.Fatal().Err(err).Msg("bot exited")
	}
}
