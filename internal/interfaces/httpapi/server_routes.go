package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler, apiToken string) {
	mux.Handle("POST /predict", RequireAPIToken(apiToken, http.HandlerFunc(handler.Predict)))
	mux.Handle("POST /scores/top3", RequireAPIToken(apiToken, http.HandlerFunc(handler.TopScores)))
	mux.Handle("POST /backtest", RequireAPIToken(apiToken, http.HandlerFunc(handler.Backtest)))
}

func registerIngestionRoutes(mux *http.ServeMux, handler *Handler, ingestToken string) {
	mux.Handle("POST /dpc/ingest", RequireIngestToken(ingestToken, http.HandlerFunc(handler.IngestBatch)))
	mux.Handle("POST /dpc/factors", RequireIngestToken(ingestToken, http.HandlerFunc(handler.PreviewFactors)))
	mux.Handle("POST /predict/causal", RequireIngestToken(ingestToken, http.HandlerFunc(handler.PredictCausal)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, apiToken string) {
	mux.Handle("POST /admin/test-tg", RequireAPIToken(apiToken, http.HandlerFunc(handler.TestTelegram)))
	mux.Handle("POST /admin/db-check", RequireAPIToken(apiToken, http.HandlerFunc(handler.CheckDB)))
	mux.Handle("POST /admin/backfill", RequireAPIToken(apiToken, http.HandlerFunc(handler.RunBackfill)))
}
