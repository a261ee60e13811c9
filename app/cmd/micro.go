package cmd

import (
	"github.com/happycrm/crm/pkg/config"
	"github.com/happycrm/crm/pkg/database"
	"github.com/happycrm/crm/pkg/server"
	"github.com/happycrm/crm/pkg/utils"
)

func StartApp() {
	utils.LoadEnv()
	config := config.InitConfig()
	database.InitDB(config.Database)
	server.LaunchHttpServer(config)
}
