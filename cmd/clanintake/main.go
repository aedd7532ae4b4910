package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/m3rciful/clanintake/core/buildinfo"
	"github.com/m3rciful/clanintake/core/cmd"
	"github.com/m3rciful/clanintake/intake/app"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to YAML config (env vars override it)")
	showVersion := pflag.Bool("version", false, "print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println("clanintake " + buildinfo.String())
		return
	}

	err := cmd.Run(cmd.Options{
		ConfigPath: *configPath,
		LoadConfig: app.Load,
		Bootstrap:  app.Bootstrap,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
