package http

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"time"

	"doc-anchor/internal/app"
	"doc-anchor/internal/filestore"
	"doc-anchor/internal/ledger"
	"doc-anchor/internal/model"
	"doc-anchor/internal/ports/http/middleware/auth"
	"doc-anchor/internal/repository/mongodb"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxUploadSize = 32 << 20

const downloadPathPrefix = "/api/docs/download/"

type documentResponse struct {
	ID          string `json:"id,omitempty"`
	OrgID       string `json:"orgId,omitempty"`
	SubjectID   string `json:"subjectId,omitempty"`
	DocType     string `json:"docType,omitempty"`
	Fingerprint string `json:"fingerprint"`
	BlobPath    string `json:"blobPath,omitempty"`
	LedgerRef   string `json:"ledgerRef,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`

	AlreadyExists bool   `json:"alreadyExists"`
	Message       string `json:"message,omitempty"`
}

func (r *documentResponse) assign(doc model.Document) {
	r.ID = doc.ID
	r.OrgID = doc.OrgID
	r.SubjectID = doc.SubjectID
	r.DocType = doc.DocType
	r.Fingerprint = doc.Fingerprint
	r.BlobPath = doc.BlobPath
	r.LedgerRef = doc.LedgerRef
	if !doc.CreatedAt.IsZero() {
		r.CreatedAt = doc.CreatedAt.Format(time.RFC3339)
	}
}

type verifyResponse struct {
	Authentic   *bool  `json:"authentic,omitempty"`
	Reason      string `json:"reason"`
	Fingerprint string `json:"fingerprint,omitempty"`
	OrgID       string `json:"orgId,omitempty"`
	SubjectID   string `json:"subjectId,omitempty"`
	DocType     string `json:"docType,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type listedDocument struct {
	ID          string `json:"id"`
	DocType     string `json:"docType"`
	Fingerprint string `json:"fingerprint"`
	CreatedAt   string `json:"createdAt"`
	DownloadURL string `json:"downloadUrl"`
}

func (ser server) createDocument(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		ser.badRequest(w, "failed to parse the multipart form: "+err.Error())
		return
	}

	orgID := normalize(r.FormValue("orgId"))
	subjectID := normalize(r.FormValue("subjectId"))
	docType := normalize(r.FormValue("docType"))

	content, ok := ser.readUpload(w, r)
	if !ok {
		return
	}

	ser.logger.Info("registering document",
		zap.String("orgID", orgID), zap.String("subjectID", subjectID),
		zap.String("docType", docType), zap.String("caller", auth.CallerID(r.Context())))

	doc, err := ser.app.RegisterDocument(r.Context(), app.RegisterRequest{
		OrgID:     orgID,
		SubjectID: subjectID,
		DocType:   docType,
		Content:   content,
	})
	if err != nil {
		ser.respondRegisterError(w, err)
		return
	}

	var response documentResponse
	response.assign(doc)
	ser.respondJSON(w, http.StatusCreated, response)
}

func (ser server) respondRegisterError(w http.ResponseWriter, err error) {

	var validation app.ValidationError
	if errors.As(err, &validation) {
		ser.badRequest(w, validation.Message)
		return
	}

	var conflict app.AlreadyRegisteredError
	if errors.As(err, &conflict) {
		response := documentResponse{
			Fingerprint:   conflict.Fingerprint,
			AlreadyExists: true,
			Message:       conflict.Error(),
		}
		if conflict.Indexed {
			response.assign(conflict.Existing)
		}
		ser.respondJSON(w, http.StatusConflict, response)
		return
	}

	switch {
	case errors.Is(err, ledger.ErrRejected):
		ser.logger.Error("registration rejected by the ledger: " + err.Error())
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(err.Error()))
	case errors.Is(err, ledger.ErrUnavailable):
		ser.logger.Error("ledger unreachable during registration: " + err.Error())
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(err.Error()))
	default:
		ser.serverError(w, "registering the document failed: "+err.Error())
	}
}

func (ser server) verifyDocument(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		ser.badRequest(w, "failed to parse the multipart form: "+err.Error())
		return
	}

	content, ok := ser.readUpload(w, r)
	if !ok {
		return
	}

	result, err := ser.app.VerifyDocumentContent(r.Context(), content)
	ser.respondVerification(w, result, err)
}

func (ser server) verifyFingerprint(w http.ResponseWriter, r *http.Request) {

	var request struct {
		Fingerprint string `json:"fingerprint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ser.badRequest(w, "failed to decode the request body: "+err.Error())
		return
	}

	result, err := ser.app.VerifyFingerprint(r.Context(), request.Fingerprint)
	ser.respondVerification(w, result, err)
}

func (ser server) respondVerification(w http.ResponseWriter, result model.VerificationResult, err error) {

	if err != nil {
		var validation app.ValidationError
		if errors.As(err, &validation) {
			ser.badRequest(w, validation.Message)
			return
		}
		ser.serverError(w, "verification failed: "+err.Error())
		return
	}

	response := verifyResponse{
		Reason:      result.Reason,
		Fingerprint: result.Fingerprint,
	}

	switch result.Status {
	case model.VerificationInconclusive:
		// never reported as a negative; the authentic flag stays absent
		ser.respondJSON(w, http.StatusServiceUnavailable, response)
		return

	case model.VerificationNotAuthentic:
		authentic := false
		response.Authentic = &authentic
		ser.respondJSON(w, http.StatusOK, response)
		return
	}

	authentic := true
	response.Authentic = &authentic
	response.DocType = result.Record.DocType
	if result.Indexed {
		response.OrgID = result.Record.OrgID
		response.SubjectID = result.Record.SubjectID
		response.DownloadURL = downloadPathPrefix + result.Fingerprint
	}

	ser.respondJSON(w, http.StatusOK, response)
}

func (ser server) downloadDocument(w http.ResponseWriter, r *http.Request) {

	fingerprint := normalize(mux.Vars(r)["fingerprint"])

	doc, content, err := ser.app.DownloadDocument(r.Context(), fingerprint)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) || errors.Is(err, filestore.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		ser.serverError(w, "downloading the document failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(doc.BlobPath)+`"`)
	if _, err := w.Write(content); err != nil {
		ser.logger.Error("failed to write the document content: " + err.Error())
	}
}

func (ser server) getDocumentsByOrg(w http.ResponseWriter, r *http.Request) {
	orgID := normalize(mux.Vars(r)["orgID"])

	docs, err := ser.app.GetDocumentsByOrg(r.Context(), orgID)
	ser.respondDocList(w, docs, err)
}

func (ser server) getDocumentsBySubject(w http.ResponseWriter, r *http.Request) {
	subjectID := normalize(mux.Vars(r)["subjectID"])

	docs, err := ser.app.GetDocumentsBySubject(r.Context(), subjectID)
	ser.respondDocList(w, docs, err)
}

func (ser server) respondDocList(w http.ResponseWriter, docs []model.Document, err error) {

	if err != nil {
		var validation app.ValidationError
		if errors.As(err, &validation) {
			ser.badRequest(w, validation.Message)
			return
		}
		ser.serverError(w, "getting the documents failed: "+err.Error())
		return
	}

	listed := make([]listedDocument, len(docs))
	for i, doc := range docs {
		listed[i] = listedDocument{
			ID:          doc.ID,
			DocType:     doc.DocType,
			Fingerprint: doc.Fingerprint,
			CreatedAt:   doc.CreatedAt.Format(time.RFC3339),
			DownloadURL: downloadPathPrefix + doc.Fingerprint,
		}
	}

	ser.respondJSON(w, http.StatusOK, listed)
}

func (ser server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {

	file, _, err := r.FormFile("file")
	if err != nil {
		ser.badRequest(w, "missing file upload: "+err.Error())
		return nil, false
	}
	defer file.Close()

	content, err := ioutil.ReadAll(file)
	if err != nil {
		ser.serverError(w, "failed to read the uploaded file: "+err.Error())
		return nil, false
	}

	return content, true
}
