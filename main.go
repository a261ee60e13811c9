package main

import (
	"github.com/happycrm/crm/app/cmd"
)

// @title Happy CRM Webhook API
// @version 1.0
// @description WhatsApp Business Cloud API webhook ingestion service with an operator monitor API.

// @host  localhost:8000
// @BasePath /api/v1

func main() {
	cmd.StartApp()
}
