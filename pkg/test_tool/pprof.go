package testtool

import (
	"net/http"
	_ "net/http/pprof" // 汇入后会自动注册 pprof endpoint

	"marketplace_chat_service/pkg/config"
	"marketplace_chat_service/pkg/logger"
)

// StartPprof 根据环境变数启动 pprof 监控伺服器
func StartPprof() {
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return
	}

	// 非 production 环境时，在预设 port 6060 上启动 pprof 监控伺服器
	go func() {
		logger.Log.Info("Starting pprof server on :6060")
		if err := http.ListenAndServe(":6060", nil); err != nil {
			logger.Log.Infof("pprof server failed: ", err)
		}
	}()
}
