package main

import (
	"context"
	"os"

	"contact_importer/internal/api/initsvc"
	"contact_importer/internal/global"
	"contact_importer/internal/logger"
)

// InitDefaultData seed dữ liệu mặc định: catalog trường dữ liệu core.
// Nếu INITMODE=true thì server chỉ seed rồi thoát (dùng cho CI/provisioning).
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("Starting InitDefaultData...")

	initService, err := initsvc.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	if err := initService.InitCoreFields(context.TODO()); err != nil {
		log.Fatalf("Failed to initialize core contact fields: %v", err)
	}

	log.Info("InitDefaultData completed successfully")

	if global.MongoDB_ServerConfig.InitMode {
		log.Info("INITMODE enabled, exiting after seeding default data")
		os.Exit(0)
	}
}
