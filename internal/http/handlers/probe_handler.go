package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fault-translator/internal/faults"
)

// probes raise a genuine fault of each kind. Runtime kinds panic for real
// so the recovery path is exercised end to end.
var probes = map[faults.Kind]func(c *gin.Context){
	faults.KindUnknown: func(c *gin.Context) {
		raise(c, errors.New("probe"))
	},
	faults.KindRuntime: func(c *gin.Context) {
		panic("probe")
	},
	faults.KindNullReference: func(c *gin.Context) {
		var in *faults.Response
		c.String(http.StatusOK, "%s", in.Message)
	},
	faults.KindInvalidCast: func(c *gin.Context) {
		var v any = c.Param("kind")
		c.String(http.StatusOK, "%d", v.(int))
	},
	faults.KindIO: func(c *gin.Context) {
		// Reading the body surfaces the size cap as an I/O fault.
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			raise(c, faults.WrapIO("read request body", err))
			return
		}
		raise(c, faults.WrapIO("probe", io.ErrUnexpectedEOF))
	},
	faults.KindOutOfRange: func(c *gin.Context) {
		s := c.QueryArray("i")
		c.String(http.StatusOK, "%s", s[len(s)])
	},
	faults.KindArgumentTypeMismatch: func(c *gin.Context) {
		if _, err := queryInt(c, "page", defaultPage); err != nil {
			raise(c, err)
			return
		}
		raise(c, faults.TypeMismatch("page", typeInteger, "probe", nil))
	},
	faults.KindMissingParameter: func(c *gin.Context) {
		raise(c, faults.MissingParameter("id", typeString))
	},
	faults.KindUnsupportedMethod: func(c *gin.Context) {
		raise(c, faults.MethodNotSupported(c.Request.Method, http.MethodGet, http.MethodPost))
	},
}

// Probe godoc
// @ID          probeFault
// @Summary     Raise a sample fault
// @Description Raises a fault of the given kind so its translation can be checked. Mounted only when FAULT_PROBES_ENABLED is set.
// @Tags        Debug
// @Produce     json
// @Param       kind  path  string  true  "Fault kind"  Enums(unknown, runtime, null_reference, invalid_cast, io, out_of_range, argument_type_mismatch, missing_parameter, unsupported_method)
// @Success     200  {object}  faults.Response  "Translated fault"
// @Failure     404  {object}  faults.Response  "Unknown fault kind"
// @Failure     500  {object}  faults.Response  "Out of range fault"
// @Router      /debug/faults/{kind} [get]
func (h *Handlers) Probe(c *gin.Context) {
	kind, found := faults.ParseKind(c.Param("kind"))
	if !found {
		fail(c, http.StatusNotFound, MsgUnknownProbe)
		return
	}
	probes[kind](c)
}
