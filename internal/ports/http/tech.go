package http

import "net/http"

func (ser server) getLedgerInfo(w http.ResponseWriter, r *http.Request) {

	info, err := ser.app.LedgerInfo(r.Context())
	if err != nil {
		ser.logger.Warn("ledger info request failed: " + err.Error())
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(err.Error()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(info)); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}
