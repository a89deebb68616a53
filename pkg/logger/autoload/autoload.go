// Package autoload initializes logging from LOG_* variables when imported.
package autoload

import (
	configx "github.com/tanpawarit/supportdesk/pkg/config"
	logx "github.com/tanpawarit/supportdesk/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
