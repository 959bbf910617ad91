package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/service"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	reports      service.ReportService
	admin        service.AdminService
	maxFileBytes int64
}

func NewReportHandler(reports service.ReportService, admin service.AdminService, maxFileBytes int64) *ReportHandler {
	if maxFileBytes <= 0 {
		maxFileBytes = domain.MaxImageBytes
	}
	return &ReportHandler{reports: reports, admin: admin, maxFileBytes: maxFileBytes}
}

type createReportRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	WasteType   string `json:"wasteType" validate:"required,oneof=plastic organic electronic metal glass paper construction hazardous other"`
	Severity    string `json:"severity" validate:"required,oneof=low medium high critical"`
	Location    struct {
		Coordinates []float64 `json:"coordinates" validate:"len=2"`
		Address     string    `json:"address" validate:"max=300"`
	} `json:"location"`
}

func (req *createReportRequest) report() *domain.Report {
	p := domain.Point{Longitude: req.Location.Coordinates[0], Latitude: req.Location.Coordinates[1]}
	return &domain.Report{
		Title:       req.Title,
		Description: req.Description,
		WasteType:   domain.WasteType(req.WasteType),
		Severity:    domain.Severity(req.Severity),
		Location:    domain.NewGeoLocation(p, strings.TrimSpace(req.Location.Address)),
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified in-progress resolved rejected"`
	Note   string `json:"note" validate:"max=500"`
}

func pathID(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid id")
	}
	return int32(id), nil
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var (
		req     createReportRequest
		uploads []service.ImageUpload
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		uploads, err = h.parseMultipart(w, r, &req)
	} else {
		err = decodeJSON(r, &req)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.reports.Create(r.Context(), actor, req.report(), uploads)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, data(map[string]any{"report": report}))
}

// parseMultipart fills req from form fields using the bracketed names the
// web client sends, and collects the "images" files.
func (h *ReportHandler) parseMultipart(w http.ResponseWriter, r *http.Request, req *createReportRequest) ([]service.ImageUpload, error) {
	limit := int64(domain.MaxReportImages)*h.maxFileBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.Validationf("upload exceeds %d bytes", limit)
		}
		return nil, domain.Validationf("malformed multipart form: %v", err)
	}
	// r is a middleware copy, so net/http never removes spilled parts for it.
	// Every file is read into memory below.
	defer r.MultipartForm.RemoveAll()

	req.Title = r.FormValue("title")
	req.Description = r.FormValue("description")
	req.WasteType = r.FormValue("wasteType")
	req.Severity = r.FormValue("severity")
	req.Location.Address = r.FormValue("location[address]")

	lngRaw, latRaw := r.FormValue("location[coordinates][0]"), r.FormValue("location[coordinates][1]")
	if lngRaw != "" || latRaw != "" {
		lng, err1 := strconv.ParseFloat(lngRaw, 64)
		lat, err2 := strconv.ParseFloat(latRaw, 64)
		if err1 != nil || err2 != nil {
			return nil, &validationError{fields: []FieldError{{Field: "location", Message: "coordinates must be numbers"}}}
		}
		req.Location.Coordinates = []float64{lng, lat}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	files := r.MultipartForm.File["images"]
	if len(files) > domain.MaxReportImages {
		return nil, domain.Validationf("a report can have at most %d images", domain.MaxReportImages)
	}
	uploads := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.maxFileBytes {
			return nil, domain.Validationf("image %s exceeds %d bytes", fh.Filename, h.maxFileBytes)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		buf, err := io.ReadAll(io.LimitReader(f, h.maxFileBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, service.ImageUpload{Filename: fh.Filename, Data: buf})
	}
	return uploads, nil
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.reports.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data(page))
}

func parseReportQuery(r *http.Request) (domain.ReportQuery, error) {
	v := r.URL.Query()
	q := domain.ReportQuery{
		Status:    domain.ReportStatus(v.Get("status")),
		WasteType: domain.WasteType(v.Get("wasteType")),
		Severity:  domain.Severity(v.Get("severity")),
	}

	var err error
	if q.Page, err = queryInt32(v, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt32(v, "limit"); err != nil {
		return q, err
	}
	if q.ReportedBy, err = queryInt32(v, "reportedBy"); err != nil {
		return q, err
	}

	lat, lng := v.Get("lat"), v.Get("lng")
	if lat != "" || lng != "" {
		latF, err1 := strconv.ParseFloat(lat, 64)
		lngF, err2 := strconv.ParseFloat(lng, 64)
		if err1 != nil || err2 != nil {
			return q, domain.Validationf("lat and lng must both be numbers")
		}
		q.Near = &domain.Point{Longitude: lngF, Latitude: latF}
		if raw := v.Get("radius"); raw != "" {
			radius, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return q, domain.Validationf("radius must be a number")
			}
			q.RadiusMeters = radius
		}
	}
	return q, nil
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data(map[string]any{"report": report}))
}

func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.reports.UpdateStatus(r.Context(), actor, id, domain.ReportStatus(req.Status), strings.TrimSpace(req.Note))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data(map[string]any{"report": report}))
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.admin.DeleteReport(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Report deleted"})
}

func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data(stats))
}
