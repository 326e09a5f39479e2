// Command client is a terminal front end for the security core. It keeps
// credentials in a software authenticator for the lifetime of the process.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/client"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	fmt.Println(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewFileLogger("securecore-client", cfg.App.LogFile)

	ctx := context.Background()
	app, err := client.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("close client app")
		}
	}()

	sh := &shell{app: app, out: os.Stdout}
	fmt.Fprintln(sh.out, `type "help" for commands`)

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(sh.out, sh.prompt())
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if err := sh.exec(ctx, line); err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}
