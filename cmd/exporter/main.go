// Command exporter republishes rtl_433 temperature and humidity readings as Prometheus gauges.
//
// Typical use:
//
//	rtl_433 -F json | RTL_EXP_ALLOWED_IDS='[5, 17]' exporter
package main

import (
	"context"
	"log"
	"net"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vshulcz/rtl433-exporter/internal/config"
	"github.com/vshulcz/rtl433-exporter/pkg/util"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	util.PrintBuildInfo(os.Stderr, buildVersion, buildDate, buildCommit)

	cfg, err := config.LoadExporterConfig(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)
	if err := run(context.Background(), cfg, logger, net.Listen, os.Stdin); err != nil {
		logger.Fatal("exporter stopped", zap.Error(err))
	}
}

func newLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	return zcfg.Build(zap.Fields(zap.String("service", "rtl433-exporter")))
}
