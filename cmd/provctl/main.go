package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/deviceprov/internal/client/cli"
	"github.com/dmitrijs2005/deviceprov/internal/client/client"
	"github.com/dmitrijs2005/deviceprov/internal/client/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg := config.LoadConfig()
	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr)
	if err != nil {
		stop()
		log.Fatalf("%v", err)
	}

	code := cli.NewApp(cfg, c, os.Stdout, os.Stderr).Run(ctx, os.Args[1:])

	_ = c.Close()
	stop()
	os.Exit(code)
}
