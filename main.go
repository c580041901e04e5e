package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"sheetpilot/adapters/db"
	"sheetpilot/adapters/file"
	"sheetpilot/adapters/llm"
	"sheetpilot/internal/config"
	"sheetpilot/internal/engine"
	"sheetpilot/ports"
	"sheetpilot/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	historyStore := file.NewHistoryStore(appConfig.History.FilePath)
	bench := engine.NewWorkbench(historyStore)

	var generator ports.GeneratorPort
	if appConfig.Generator.URL != "" {
		generator = llm.NewSheetGenerator(appConfig.Generator)
	} else {
		log.Println("GENERATOR_URL not set, generation endpoints disabled")
	}

	var workbooks ports.WorkbookRepository
	if appConfig.Database.URL != "" {
		repo, err := db.Open(appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to open workbook store: %v", err)
		}
		defer repo.Close()
		workbooks = repo
	} else {
		log.Println("DATABASE_URL not set, workbook store disabled")
	}

	server := ui.NewServer(bench, generator, workbooks)
	if err := server.Run(appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
