// Auth diagnostics HTTP handler.
//
// GET /debug/auth runs every configured verification strategy against the
// request's bearer credential and returns a structured report of the
// outcomes, the token's unverified claims, and the production verification
// verdict. The endpoint is introspection, not gatekeeping: it responds 200
// whether or not authentication succeeded, with every failure captured as
// data in the report.
//
// The report includes the token's decoded (unsigned) claims. That is
// intentional for debugging, and the reason this route must only be exposed
// to trusted operators; see the router for how it is mounted.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthDebug godoc
// @ID          authDebug
// @Summary     Diagnose authentication for the current request
// @Description Tries elevated-privilege and standard token verification in order, decodes the token's claims without signature verification, and cross-checks the production verification path. Always responds 200.
// @Tags        Debug
// @Produce     json
//
// @Param       Authorization  header  string  false "Bearer token"
// @Param       Cookie         header  string  false "Session cookie fallback"
//
// @Success     200  {object} services.AuthDiagReport
// @Router      /debug/auth [get]
func (h *Handlers) AuthDebug(c *gin.Context) {
	report := h.diagSvc.Run(c.Request.Context(), c.Request)
	ok(c, http.StatusOK, report)
}
