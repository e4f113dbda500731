package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"media_upload_service/pkg/config"
	"media_upload_service/pkg/logger"
)

// StartPprof 非 production 環境時在 addr 上啟動 pprof 監控伺服器
//
//	curl http://localhost:6060/debug/pprof/
//	go tool pprof http://localhost:6060/debug/pprof/profile?seconds=30
//	go tool pprof http://localhost:6060/debug/pprof/heap
func StartPprof(addr string) {
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return
	}
	if addr == "" {
		addr = "127.0.0.1:6060"
	}

	go func() {
		logger.Log.Infof("Starting pprof server on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Log.Errorf("pprof server failed: %v", err)
		}
	}()
}
