package main

import (
	"flag"
	"fmt"

	"github.com/go-minewatch/go-minewatch/lib/chat"
	"github.com/go-minewatch/go-minewatch/lib/config"
	"github.com/go-minewatch/go-minewatch/lib/serverclock"
	"github.com/go-minewatch/go-minewatch/lib/transport"
	"github.com/go-minewatch/go-minewatch/lib/util/logger"
	"github.com/go-minewatch/go-minewatch/lib/util/signals"
)

var log = logger.GetMinewatchLogger()

func main() {
	cfgFile := flag.String("config", "", "Path to the config file")
	addr := flag.String("addr", "", "Server console address (overrides config)")
	showTime := flag.Bool("servertime", false, "Display the server's local time once known")
	flag.Parse()

	config.CfgFile = *cfgFile
	config.InitConfig()
	if *addr != "" {
		config.TransportConfigProperties.Address = *addr
	}

	go signals.Handle()

	dispatcher := chat.NewDispatcher()
	output := func(line string) { fmt.Println(line) }

	log.Debug("connecting to server console at ", config.TransportConfigProperties.Address)
	conn, err := transport.Dial(
		config.TransportConfigProperties.Address,
		config.TransportConfigProperties.DialTimeout,
		dispatcher, output)
	if err != nil {
		log.Errorf("failed to connect to server console: %s", err)
		return
	}

	clockCfg := config.ClockConfigProperties
	if clockCfg.Enabled {
		var resolver *serverclock.SNTPResolver
		if clockCfg.SNTP.Enabled {
			resolver = serverclock.NewSNTPResolver(nil, clockCfg.SNTP.Timeout)
		}
		clock := serverclock.New(conn, conn, output, serverclock.Options{
			ProbePlayer:   clockCfg.ProbePlayer,
			ReferenceDays: clockCfg.ReferenceDays,
			Resolver:      resolver,
		})
		clock.Register(dispatcher)
		clock.EnsureKnown(*showTime || clockCfg.ShowOnConnect)
	}

	signals.RegisterReloadHandler(func() {
		config.UpdateClockConfig()
		config.UpdateTransportConfig()
	})
	signals.RegisterInterruptHandler(func() {
		conn.Close()
	})

	conn.Wait()
	signals.StopHandle()
}
