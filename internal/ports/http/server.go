package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"doc-anchor/internal/app"
	"doc-anchor/internal/ports/http/middleware/auth"
	"doc-anchor/internal/ports/http/middleware/cors"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type server struct {
	app        app.App
	httpServer *http.Server
	addr       string
	logger     *zap.Logger
}

func NewServer(logger *zap.Logger, a app.App, address string) server {
	return server{
		app:    a,
		addr:   address,
		logger: logger,
	}
}

func (ser server) registerHandlers(router *mux.Router) {

	router.HandleFunc("/health", healthcheck)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.ExtractCaller(ser.logger))

	api.HandleFunc("/docs/create", ser.createDocument).Methods(http.MethodPost)
	api.HandleFunc("/docs/verify", ser.verifyDocument).Methods(http.MethodPost)
	api.HandleFunc("/docs/verify-fingerprint", ser.verifyFingerprint).Methods(http.MethodPost)
	api.HandleFunc("/docs/download/{fingerprint}", ser.downloadDocument).Methods(http.MethodGet)
	api.HandleFunc("/docs/by-org/{orgID}", ser.getDocumentsByOrg).Methods(http.MethodGet)
	api.HandleFunc("/docs/by-subject/{subjectID}", ser.getDocumentsBySubject).Methods(http.MethodGet)

	api.HandleFunc("/tech/ledger-info", ser.getLedgerInfo).Methods(http.MethodGet)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("all good here"))
}

func (ser server) Run() error {
	router := mux.NewRouter()
	ser.registerHandlers(router)

	handler := cors.AddCorsPolicy(router)
	ser.httpServer = &http.Server{
		Handler: handler,
		Addr:    ser.addr,
	}

	return ser.httpServer.ListenAndServe()
}

func (ser server) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(response); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}

func (ser server) badRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a bad request error message: " + err.Error())
	}

	ser.logger.Warn(message)
}

func (ser server) serverError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a server error message: " + err.Error())
	}

	ser.logger.Error(message)
}

func normalize(param string) string {
	return strings.TrimSpace(param)
}
