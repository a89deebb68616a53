// Command supportdesk runs the support desk agents.
//
// Usage:
//
//	supportdesk seed --reset
//	supportdesk serve data
//	supportdesk serve support
//	supportdesk serve router
//	supportdesk demo --remote
package main

import (
	"github.com/alecthomas/kong"
	configx "github.com/tanpawarit/supportdesk/pkg/config"
	logx "github.com/tanpawarit/supportdesk/pkg/logger"
	_ "github.com/tanpawarit/supportdesk/pkg/logger/autoload"
)

var version = "dev"

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("supportdesk"),
		kong.Description("Multi-agent customer support desk over A2A."),
		kong.UsageOnError(),
	)

	configx.UseEnvFile(cli.Env)
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	ctx.FatalIfErrorf(ctx.Run(&cli))
}
