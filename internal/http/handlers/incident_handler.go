// Incident HTTP handlers.
//
// This file exposes read access to the incident journal:
//   - GET /incidents                 (list, paginated, optional kind filter)
//   - GET /incidents/lookup          (by request id)
//   - GET /incidents/{id}            (single incident with stack)
//
// Invalid query parameters are raised as faults, so clients receive the same
// translated envelope the rest of the service produces.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tbourn/go-fault-translator/internal/domain"
	"github.com/tbourn/go-fault-translator/internal/faults"
	"github.com/tbourn/go-fault-translator/internal/services"
	"github.com/tbourn/go-fault-translator/internal/utils"
)

// IncidentService is the journal query contract used by the handlers.
type IncidentService interface {
	ListPage(ctx context.Context, kind string, page, pageSize int) ([]domain.Incident, int64, error)
	Get(ctx context.Context, id string) (*domain.Incident, error)
	ByRequest(ctx context.Context, requestID string) ([]domain.Incident, error)
}

// incidentStatter is implemented by services that can cheaply summarise a
// listing; ListIncidents uses it for weak ETags.
type incidentStatter interface {
	Stats(ctx context.Context, kind string) (int64, *time.Time, error)
}

// Handlers groups the service's HTTP endpoints.
type Handlers struct {
	incSvc   IncidentService
	tr       *faults.Translator
	validate *validator.Validate
}

// New returns Handlers over the given journal service and translator.
// incSvc may be nil when the journal is disabled; the incident endpoints
// are then not mounted.
func New(incSvc IncidentService, tr *faults.Translator) *Handlers {
	return &Handlers{incSvc: incSvc, tr: tr, validate: newValidator()}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListIncidentsResponse wraps a page of incidents.
type ListIncidentsResponse struct {
	Incidents  []domain.Incident `json:"incidents"`
	Pagination Pagination        `json:"pagination"`
}

// LookupIncidentsResponse lists the incidents recorded for one request.
type LookupIncidentsResponse struct {
	RequestID string            `json:"request_id"`
	Incidents []domain.Incident `json:"incidents"`
}

// listIncidentsQuery holds the validated list parameters.
type listIncidentsQuery struct {
	Page int    `form:"page" validate:"min=1"`
	Size int    `form:"size" validate:"min=1,max=100"`
	Kind string `form:"kind" validate:"omitempty,fault_kind"`
}

const (
	defaultPage = 1
	defaultSize = 20
)

func (h *Handlers) parseListQuery(c *gin.Context) (listIncidentsQuery, error) {
	q := listIncidentsQuery{Kind: c.Query("kind")}
	var err error
	if q.Page, err = queryInt(c, "page", defaultPage); err != nil {
		return q, err
	}
	if q.Size, err = queryInt(c, "size", defaultSize); err != nil {
		return q, err
	}
	if err := h.validate.Struct(q); err != nil {
		return q, validationFault(err)
	}
	return q, nil
}

// ListIncidents godoc
// @ID          listIncidents
// @Summary     List incidents (paginated)
// @Description Returns recorded faults, newest first. Stack traces are omitted. Invalid parameters are answered with an argument type mismatch fault (status 1006). Supports weak ETag via If-None-Match and may return 304.
// @Tags        Incidents
// @Produce     json
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"incidents::1:20:3:0\")
// @Param       page  query  int     false  "Page number"     minimum(1) default(1)
// @Param       size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Param       kind  query  string  false  "Fault kind filter"  Enums(unknown, runtime, null_reference, invalid_cast, io, out_of_range, argument_type_mismatch, missing_parameter, unsupported_method)
//
// @Success     200  {object}  handlers.ListIncidentsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  "Not Modified"
// @Failure     default  {object}  faults.Response  "Translated fault"
// @Router      /incidents [get]
func (h *Handlers) ListIncidents(c *gin.Context) {
	q, err := h.parseListQuery(c)
	if err != nil {
		raise(c, err)
		return
	}

	// ETag pre-check (best effort).
	if st, isStatter := h.incSvc.(incidentStatter); isStatter {
		if count, latest, err := st.Stats(c.Request.Context(), q.Kind); err == nil {
			var ts int64
			if latest != nil {
				ts = latest.UnixNano()
			}
			etag := fmt.Sprintf(`W/"incidents:%s:%d:%d:%d:%d"`, q.Kind, q.Page, q.Size, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.incSvc.ListPage(c.Request.Context(), q.Kind, q.Page, q.Size)
	if err != nil {
		raise(c, err)
		return
	}
	totalPages := utils.TotalPages(total, q.Size)
	ok(c, ListIncidentsResponse{
		Incidents: items,
		Pagination: Pagination{
			Page:       q.Page,
			Size:       q.Size,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    q.Page < totalPages,
		},
	})
}

// GetIncident godoc
// @ID          getIncident
// @Summary     Get one incident
// @Description Returns a recorded fault including its stack trace.
// @Tags        Incidents
// @Produce     json
//
// @Param       id  path  string  true  "Incident ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Incident
// @Failure     404  {object}  faults.Response  "Incident not found"
// @Failure     default  {object}  faults.Response  "Translated fault"
// @Router      /incidents/{id} [get]
func (h *Handlers) GetIncident(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		raise(c, faults.TypeMismatch("id", typeUUID, id, err))
		return
	}

	in, err := h.incSvc.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrIncidentNotFound):
		fail(c, http.StatusNotFound, MsgIncidentNotFound)
	case err != nil:
		raise(c, err)
	default:
		ok(c, in)
	}
}

// LookupIncidents godoc
// @ID          lookupIncidents
// @Summary     Find incidents by request id
// @Description Returns the faults recorded for the request whose X-Request-ID is given, oldest first. A missing request_id is answered with a missing parameter fault (status 1007).
// @Tags        Incidents
// @Produce     json
//
// @Param       request_id  query  string  true  "Value of the X-Request-ID response header"
//
// @Success     200  {object}  handlers.LookupIncidentsResponse
// @Failure     default  {object}  faults.Response  "Translated fault"
// @Router      /incidents/lookup [get]
func (h *Handlers) LookupIncidents(c *gin.Context) {
	rid, err := requireQuery(c, "request_id")
	if err != nil {
		raise(c, err)
		return
	}
	items, err := h.incSvc.ByRequest(c.Request.Context(), rid)
	if err != nil {
		raise(c, err)
		return
	}
	ok(c, LookupIncidentsResponse{RequestID: rid, Incidents: items})
}
